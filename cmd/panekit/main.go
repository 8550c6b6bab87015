package main

import (
	"os"

	"github.com/panekit/panekit/pkg/cli"
)

var version = "1.0.0"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
