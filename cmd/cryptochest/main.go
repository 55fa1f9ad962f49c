// cryptochest is a command-line front end over the repository engine:
// it scans a set of root folders for repositories and files, opens a
// repository with a password, and lists, creates, or updates files
// inside it via the same single-threaded actor the engine is built
// around.
package main

import (
	"fmt"
	"os"

	"github.com/krampenschiesser/cryptochest/internal/cli"
)

// version is set at build time via -ldflags; "dev" otherwise.
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
