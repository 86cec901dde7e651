// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/coderlyu/mini-webpack/cmd/minipack"

func main() {
	cmd.Execute()
}
