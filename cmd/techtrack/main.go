package main

import (
	"os"

	"github.com/idilsaglam/techtrack/internal/cli"
)

func main() {
	// Hand the arguments to the CLI runner; it owns flags and exit codes.
	os.Exit(cli.Run(os.Args[1:]))
}
