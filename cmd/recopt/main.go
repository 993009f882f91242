// Command recopt compiles record query option descriptors.
package main

import (
	"os"

	"github.com/roach88/recopt/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
