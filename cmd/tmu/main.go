package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
)

func main() {
	rootCmd := newRootCmd()

	// Flags are not parsed yet, so check for -d/--debug by hand to get debug
	// output from config loading as well.
	logLevel := zerolog.InfoLevel
	for _, arg := range os.Args[1:] {
		if arg == "-d" || arg == "--debug" {
			logLevel = zerolog.DebugLevel
		}
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(logLevel).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
