// Command numflow runs the random-number workflow: a Temporal worker, the
// HTTP trigger, one-off starts, in-process simulation and topology export.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
