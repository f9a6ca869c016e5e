package main

import (
	"os"

	"github.com/yigit/iams/internal/pkg/logger"
)

func main() {
	cli := newCommandLine(os.Stdout)
	if err := cli.app().Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
