package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var base zerolog.Logger

// Config represents logger configuration
type Config struct {
	// Level is one of debug, info, warn, error, fatal; anything else means info
	Level string
	// Pretty enables the human readable console writer
	Pretty bool
	// Output defaults to os.Stdout
	Output io.Writer
}

// Configure installs the process-wide logger
func Configure(config Config) {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(parseLevel(config.Level))

	var writer io.Writer = config.Output
	if config.Pretty {
		writer = zerolog.ConsoleWriter{Out: config.Output, TimeFormat: time.RFC3339}
	}

	base = zerolog.New(writer).With().Timestamp().Logger()
	log.Logger = base
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Get returns the configured logger
func Get() *zerolog.Logger {
	return &base
}

func Debug() *zerolog.Event { return base.Debug() }

func Info() *zerolog.Event { return base.Info() }

func Warn() *zerolog.Event { return base.Warn() }

func Error() *zerolog.Event { return base.Error() }

// Fatal logs and exits the process
func Fatal() *zerolog.Event { return base.Fatal() }

// With returns a child logger carrying the given component name
func With(component string) zerolog.Logger {
	return base.With().Str("component", component).Logger()
}

func init() {
	Configure(Config{Level: "info", Pretty: true})
}
