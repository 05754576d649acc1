// Package main is the entry point for the testrelay CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/testrelay/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
