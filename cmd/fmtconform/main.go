// Command fmtconform runs the fmt print family against a table of format
// cases and reports the first case whose output differs.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/fmtconform/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fmtconform: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
