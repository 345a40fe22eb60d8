package log

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"sim8086/internal/logging"
)

var (
	initOnce    sync.Once
	initialized atomic.Bool
)

// Setup routes the default slog logger through a charmbracelet logger
// filtered at level (debug, info, warn, error). Only the first call has
// an effect.
func Setup(level string) {
	initOnce.Do(func() {
		slog.SetDefault(NewSlog(logging.NewLogger().WithLevel(level)))
		initialized.Store(true)
	})
}

// NewSlog wraps a charmbracelet logger as a slog.Logger.
func NewSlog(lg *logging.LoggerCloser) *slog.Logger {
	return slog.New(lg.Logger)
}

func Initialized() bool {
	return initialized.Load()
}

// RecoverPanic logs a panic with its stack, then runs cleanup. Use it
// deferred.
func RecoverPanic(name string, cleanup func()) {
	if r := recover(); r != nil {
		if Initialized() {
			slog.Error(fmt.Sprintf("Panic in %s", name),
				"panic", r,
				"stack", string(debug.Stack()))
		}
		if cleanup != nil {
			cleanup()
		}
	}
}
