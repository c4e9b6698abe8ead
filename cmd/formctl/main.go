// Command formctl drives the admin and citizen portals from a terminal.
package main

import (
	"os"
)

func main() {
	root := newRootCmd()
	cmd, err := root.ExecuteC()
	if err != nil {
		if cmd == nil {
			cmd = root
		}
		printError(cmd, err)
		os.Exit(1)
	}
}
