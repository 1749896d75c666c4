// Command contacts is the contacts client: a terminal screen over the
// Remote Contact Service, one-shot list and mutation commands, and a
// development service to run against.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
