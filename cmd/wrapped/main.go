// Package main is the entry point for the wrapped CLI.
package main

import (
	"os"

	"github.com/runger/wrapped/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
