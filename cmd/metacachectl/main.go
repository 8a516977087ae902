// Command metacachectl drives pkg/metacache for manual testing and
// operation outside of its host driver.
package main

import (
	"fmt"
	"os"

	"github.com/marmos91/metacache/cmd/metacachectl/commands"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.Date = date

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
