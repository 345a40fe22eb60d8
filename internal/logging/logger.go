// Package logging builds charmbracelet loggers configured from the
// environment:
//
//	SIM8086_LOG_LEVEL    debug, info, warn, error (default: info)
//	SIM8086_LOG_PREFIX   message prefix (default: "sim8086 ")
//	SIM8086_LOG_TO_FILE  "1" writes to sim8086-<timestamp>.log instead of stderr
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// LoggerCloser is a logger that may own its output file.
type LoggerCloser struct {
	*log.Logger
	closer io.Closer
}

// Close closes the log file, if there is one.
func (lc *LoggerCloser) Close() error {
	if lc.closer != nil {
		return lc.closer.Close()
	}
	return nil
}

// ParseLevel maps a level name to a log level, defaulting to info.
func ParseLevel(name string) log.Level {
	switch name {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// NewLoggerWithWriter creates a logger writing to w.
func NewLoggerWithWriter(w io.Writer) *LoggerCloser {
	lg := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           ParseLevel(os.Getenv("SIM8086_LOG_LEVEL")),
	})

	prefix := os.Getenv("SIM8086_LOG_PREFIX")
	if prefix == "" {
		prefix = "sim8086 "
	}

	var closer io.Closer
	if c, ok := w.(io.Closer); ok && w != os.Stderr {
		closer = c
	}

	return &LoggerCloser{
		Logger: lg.WithPrefix(prefix),
		closer: closer,
	}
}

// NewLogger creates a logger on stderr, or on a timestamped file when
// SIM8086_LOG_TO_FILE=1.
func NewLogger() *LoggerCloser {
	output := io.Writer(os.Stderr)

	if os.Getenv("SIM8086_LOG_TO_FILE") == "1" {
		name := fmt.Sprintf("sim8086-%s.log", time.Now().Format("20060102-150405"))
		f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err == nil {
			output = f
		}
		// stderr if the file can't be created
	}

	return NewLoggerWithWriter(output)
}

// WithLevel sets the level by name. Debug also reports callers.
func (lc *LoggerCloser) WithLevel(name string) *LoggerCloser {
	lc.SetLevel(ParseLevel(name))
	lc.SetReportCaller(name == "debug")
	return lc
}
