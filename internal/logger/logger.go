// Package logger builds the structured logger shared by the service and the CLI.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration
type Config struct {
	Level  string
	File   string // optional rotating log file
	Prefix string
	Writer io.Writer
}

// New returns a logger that writes to stderr, and additionally to a rotating
// file when cfg.File is set.
func New(cfg Config) (*log.Logger, error) {
	writer := cfg.Writer
	if writer == nil {
		writer = os.Stderr
	}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, err
		}

		fileWriter := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		writer = io.MultiWriter(writer, fileWriter)
	}

	level := ParseLevel(cfg.Level)

	return log.NewWithOptions(writer, log.Options{
		ReportCaller:    level == log.DebugLevel,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          cfg.Prefix,
	}), nil
}

// ParseLevel maps debug, info, warn and error to a log level, defaulting to info.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
