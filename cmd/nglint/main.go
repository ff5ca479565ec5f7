// nglint checks Angular, NgRx, and RxJS style conventions.
// Single binary, one config file — lint a front-end tree in one pass.
package main

import (
	"os"

	"github.com/corey/nglint/cmd/nglint/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if code := cmd.LintExitCode(err); code >= 0 {
			os.Exit(code)
		}
		os.Exit(2)
	}
}
