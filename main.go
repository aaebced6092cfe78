// SPDX-License-Identifier: MPL-2.0

package main

import cmd "cal2org-cli/cmd/cal2org"

func main() {
	cmd.Execute()
}
