// SPDX-License-Identifier: MPL-2.0

// Package config handles cal2org configuration.
//
// The config file is CUE, validated against an embedded schema and merged
// into Viper over the built-in defaults. Every key can also be overridden by
// a CAL2ORG_-prefixed environment variable, with dots replaced by
// underscores (CAL2ORG_UI_VERBOSE).
package config
