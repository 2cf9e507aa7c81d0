package main

import (
	"os"

	"github.com/miniappkit/miniappkit/cmd/miniappkit/cli"
)

var (
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

func main() {
	if err := cli.Execute(version, gitCommit, buildTime); err != nil {
		os.Exit(1)
	}
}
