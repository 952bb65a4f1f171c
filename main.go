package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/tphakala/pcmcast-go/cmd"
	"github.com/tphakala/pcmcast-go/internal/conf"
	"github.com/tphakala/pcmcast-go/internal/logging"
)

func main() {
	settings, err := conf.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	level := slog.LevelInfo
	if settings.Debug {
		level = slog.LevelDebug
	}
	logging.Init(level)

	if settings.LogFile != "" {
		fileLogger, closeLogger, err := logging.NewFileLogger(settings.LogFile, "pcmcast", level)
		if err != nil {
			logging.Fatal("failed to set up file logging", "file", settings.LogFile, "error", err)
		}
		defer closeLogger() //nolint:errcheck
		slog.SetDefault(fileLogger)
	}

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
