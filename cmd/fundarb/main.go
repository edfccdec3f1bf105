package main

import (
	"os"

	"github.com/quantfold/fundarb/cmd/fundarb/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
