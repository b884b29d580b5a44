package errors

import (
	"log/slog"

	"github.com/go-drift/charts/pkg/logging"
)

// LogHandler is an ErrorHandler that writes to the charts logger.
type LogHandler struct {
	// Verbose attaches stack traces to records when available.
	Verbose bool
}

// HandleError logs a ChartError at warn level.
func (h *LogHandler) HandleError(err *ChartError) {
	if err == nil {
		return
	}
	attrs := []any{
		slog.String("op", err.Op),
		slog.String("kind", err.Kind.String()),
	}
	if err.Code != CodeNone {
		attrs = append(attrs, slog.Int("code", int(err.Code)), slog.String("description", err.Code.Description(err.Args...)))
	}
	if err.Err != nil {
		attrs = append(attrs, slog.Any("err", err.Err))
	}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, slog.String("stack", err.StackTrace))
	}
	logging.Logger().Warn("charts error", attrs...)
}

// HandleWarning logs a Warning at warn level.
func (h *LogHandler) HandleWarning(w *Warning) {
	if w == nil {
		return
	}
	logging.Logger().Warn("charts warning",
		slog.String("op", w.Op),
		slog.Int("code", int(w.Code)),
		slog.String("description", w.Code.Description(w.Args...)),
	)
}

// HandlePanic logs a PanicError at error level.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	attrs := []any{slog.String("op", err.Op), slog.Any("value", err.Value)}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, slog.String("stack", err.StackTrace))
	}
	logging.Logger().Error("charts panic", attrs...)
}
