// Package main provides the fastcurate CLI entry point.
package main

import (
	"os"

	"fastCurate/internal/cmd"
)

var Version = "dev"

func main() {
	if err := cmd.Execute(Version); err != nil {
		os.Exit(1)
	}
}
