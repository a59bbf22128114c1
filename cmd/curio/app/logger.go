package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/curioworks/curio/pkg/logging"
)

// NewLogger creates a configured logger based on the application
// configuration. Log level precedence (highest to lowest):
//  1. --log-level flag (explicit always wins)
//  2. -v/--verbose flag (shortcut for debug)
//  3. -q/--quiet flag (shortcut for warn)
//  4. LOG_LEVEL environment variable
//  5. Default (info)
func NewLogger(config *Config) zerolog.Logger {
	level := parseLevel(determineLogLevel(config))
	zerolog.SetGlobalLevel(level)

	var logger zerolog.Logger
	switch config.LogFormat {
	case "json":
		logger = logging.NewJSON(os.Stderr)
	case "console":
		logger = logging.NewConsole()
	default:
		// Auto: console on a terminal, JSON otherwise
		if isTerminal() {
			logger = logging.NewConsole()
		} else {
			logger = logging.NewJSON(os.Stderr)
		}
	}

	logger = logger.Level(level)
	logging.SetDefault(logger)
	return logger
}

// determineLogLevel determines the log level using clear precedence
// rules.
func determineLogLevel(config *Config) string {
	// 1. Explicit --log-level always wins
	if config.LogLevel != "" && config.LogLevel != "info" {
		return config.LogLevel
	}

	// 2. Conflicting boolean flags: quiet is the more restrictive
	if config.Verbose && config.Quiet {
		fmt.Fprintf(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet\n")
		return "warn"
	}

	// 3. Boolean shortcuts
	if config.Verbose {
		return "debug"
	}
	if config.Quiet {
		return "warn"
	}

	// 4./5. LOG_LEVEL env var already in config, or the default
	if config.LogLevel != "" {
		return config.LogLevel
	}
	return "info"
}

// parseLevel converts a level string into a zerolog level, falling back
// to info on invalid input.
func parseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using \"info\"\n", level)
		return zerolog.InfoLevel
	}
	return parsed
}

// isTerminal checks if stderr is a terminal.
func isTerminal() bool {
	fileInfo, _ := os.Stderr.Stat()
	return fileInfo != nil && (fileInfo.Mode()&os.ModeCharDevice) != 0
}
