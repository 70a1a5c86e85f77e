// Package logger provides structured logging for the string store
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger wraps zerolog with service-specific functionality
type Logger struct {
	zlog zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level      string // debug, info, warn, error
	Pretty     bool   // pretty-print for development
	Output     io.Writer
	WithCaller bool
}

// NewLogger creates a new structured logger
func NewLogger(cfg Config) *Logger {
	level := zerolog.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	zlog := zerolog.New(output).
		With().
		Timestamp().
		Str("service", "stringstore").
		Logger()

	if cfg.WithCaller {
		zlog = zlog.With().Caller().Logger()
	}

	return &Logger{zlog: zlog}
}

// GetZerolog returns the underlying zerolog logger
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zlog
}

// Info logs an info message
func (l *Logger) Info(msg string) *zerolog.Event {
	return l.zlog.Info().Str("msg", msg)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) *zerolog.Event {
	return l.zlog.Debug().Str("msg", msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) *zerolog.Event {
	return l.zlog.Warn().Str("msg", msg)
}

// Error logs an error message
func (l *Logger) Error(msg string) *zerolog.Event {
	return l.zlog.Error().Str("msg", msg)
}

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(msg string) *zerolog.Event {
	return l.zlog.Fatal().Str("msg", msg)
}

// HTTPLogger returns a logger for HTTP handler operations
func (l *Logger) HTTPLogger(method, path string) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "http").
			Str("method", method).
			Str("path", path).
			Logger(),
	}
}

// StoreLogger returns a logger for record store operations
func (l *Logger) StoreLogger(operation string) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "store").
			Str("operation", operation).
			Logger(),
	}
}

// LogHTTPRequest logs a completed HTTP request with structured fields
func (l *Logger) LogHTTPRequest(method, path, requestID string, status int, duration time.Duration) {
	event := l.zlog.Info()
	if status >= 500 {
		event = l.zlog.Error()
	}

	event.
		Str("component", "http").
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", status).
		Dur("duration_ms", duration).
		Msg("HTTP request completed")
}

// LogStoreOperation logs a record store operation with structured fields
func (l *Logger) LogStoreOperation(operation string, duration time.Duration, recordCount int, err error) {
	event := l.zlog.Debug().
		Str("component", "store").
		Str("operation", operation).
		Dur("duration_ms", duration).
		Int("record_count", recordCount)

	if err != nil {
		event = l.zlog.Error().
			Str("component", "store").
			Str("operation", operation).
			Dur("duration_ms", duration).
			Err(err)
	}

	event.Msg("Store operation completed")
}

// LogServerStart logs server startup
func (l *Logger) LogServerStart(addr, backend, dataPath string) {
	l.zlog.Info().
		Str("event", "server_start").
		Str("addr", addr).
		Str("persistence", backend).
		Str("data", dataPath).
		Msg("String store server starting")
}

// LogServerReady logs when server is ready
func (l *Logger) LogServerReady(addr string) {
	l.zlog.Info().
		Str("event", "server_ready").
		Str("addr", addr).
		Msg("String store server ready to accept connections")
}

// LogServerShutdown logs server shutdown
func (l *Logger) LogServerShutdown() {
	l.zlog.Info().
		Str("event", "server_shutdown").
		Msg("String store server shutting down")
}

// Global logger instance
var globalLogger *Logger

// InitGlobalLogger initializes the global logger
func InitGlobalLogger(cfg Config) {
	globalLogger = NewLogger(cfg)
	log.Logger = *globalLogger.GetZerolog()
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *Logger {
	if globalLogger == nil {
		InitGlobalLogger(Config{
			Level:  "info",
			Pretty: true,
		})
	}
	return globalLogger
}
