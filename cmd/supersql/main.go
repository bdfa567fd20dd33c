// Package main provides the CLI for the SuperSQL language tools.
package main

import (
	"os"

	"github.com/leapstack-labs/supersql/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
