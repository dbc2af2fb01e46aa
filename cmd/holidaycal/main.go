package main

import (
	"os"

	"holidaycal/internal/cli"
	appLog "holidaycal/internal/log"
)

const version = "0.1.0"

func main() {
	appLog.Debug("holidaycal starting", "version", version)

	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
