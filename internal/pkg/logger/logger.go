package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger backs the package level helpers
var defaultLogger zerolog.Logger

// LogLevel represents the log level
type LogLevel string

// Supported levels
const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
	FatalLevel LogLevel = "fatal"
)

// Config represents logger configuration
type Config struct {
	Level LogLevel
	// Pretty switches to the human-readable console writer
	Pretty bool
	// Output defaults to os.Stdout
	Output io.Writer
}

// Configure sets the global zerolog level and replaces both the package logger and log.Logger.
func Configure(config Config) {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	// Set time format
	zerolog.TimeFieldFormat = time.RFC3339
	// Set log level, falling back to info
	level, err := zerolog.ParseLevel(strings.ToLower(string(config.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Pretty logging for development
	writer := config.Output
	if config.Pretty {
		writer = zerolog.ConsoleWriter{Out: config.Output, TimeFormat: time.RFC3339}
	}

	// Build the logger and make it the global one
	defaultLogger = zerolog.New(writer).With().Timestamp().Logger()
	log.Logger = defaultLogger
}

// Get returns the configured logger.
func Get() zerolog.Logger {
	return defaultLogger
}

// Component returns a child logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return defaultLogger.With().Str("component", name).Logger()
}

// Debug starts a debug level event
func Debug() *zerolog.Event { return defaultLogger.Debug() }

// Info starts an info level event
func Info() *zerolog.Event { return defaultLogger.Info() }

// Warn starts a warning event
func Warn() *zerolog.Event { return defaultLogger.Warn() }

// Error starts an error event
func Error() *zerolog.Event { return defaultLogger.Error() }

// Fatal logs and then calls os.Exit(1)
func Fatal() *zerolog.Event { return defaultLogger.Fatal() }

// WithField adds a field to the logger
func WithField(key string, value interface{}) zerolog.Logger {
	return defaultLogger.With().Interface(key, value).Logger()
}

// WithFields adds multiple fields to the logger
func WithFields(fields map[string]interface{}) zerolog.Logger {
	ctx := defaultLogger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return ctx.Logger()
}

// Console output until Configure runs
func init() {
	Configure(Config{Level: InfoLevel, Pretty: true, Output: os.Stdout})
}
