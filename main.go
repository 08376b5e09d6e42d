package main

import (
	"os"

	"github.com/example/mhsurvey/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
