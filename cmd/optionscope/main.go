package main

import (
	"fmt"
	"os"

	"optionscope/internal/cli"
	"optionscope/internal/config"
	"optionscope/internal/logging"
)

func main() {
	configDir := ""
	for i, arg := range os.Args {
		if arg == "--config" && i+1 < len(os.Args) {
			configDir = os.Args[i+1]
		}
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLoggerWithConfig(logging.LogConfig{
		Level:    cfg.Logging.Level,
		Console:  cfg.Logging.Console,
		File:     cfg.Logging.File,
		FilePath: cfg.Logging.FilePath,
		MaxSize:  50,
		MaxAge:   30,
	})

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
