// tally counts how often each word of a vocabulary occurs in a text.
// Single binary: vocabularies and reports live in .tally/ of the current directory.
package main

import (
	"fmt"
	"os"

	"github.com/corey/tally/cmd/tally/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if code := cmd.ExitCode(err); code >= 0 {
			if msg := err.Error(); msg != "" {
				fmt.Fprintf(os.Stderr, "%s\n", msg)
			}
			os.Exit(code)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
