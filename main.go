package main

import (
	"fmt"
	"os"

	"github.com/avasalony-boop/policy-tracker/cli"
)

func main() {
	if err := cli.RootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
