package main

import (
	"os"

	"github.com/yoke233/mneme/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
