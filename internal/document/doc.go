// SPDX-License-Identifier: MPL-2.0

// Package document provides the insertion target for script output.
//
// Document is the narrow capability the invoker needs from an editor: read
// the insertion point and insert text there. Buffer keeps the text in memory;
// File loads a file into a Buffer and saves it back atomically.
package document
