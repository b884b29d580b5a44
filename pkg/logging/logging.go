// Package logging holds the structured logger shared by every charts package.
//
// By default nothing is logged. Applications opt in with SetLogger:
//
//	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
//
// Log levels used by charts:
//   - [slog.LevelDebug]: signal dispatches, draw passes, ignored options
//   - [slog.LevelInfo]: lifecycle events (document loaded, image written)
//   - [slog.LevelWarn]: reported configuration errors and warnings
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false so callers skip
// attribute construction entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger installs the logger used by all charts packages.
// Pass nil to restore the silent default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the active logger. It is never nil.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// Enabled reports whether the active logger emits records at level.
// Hot paths check it before building attributes.
func Enabled(level slog.Level) bool {
	return Logger().Enabled(context.Background(), level)
}
