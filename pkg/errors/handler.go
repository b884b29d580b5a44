package errors

import (
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

type handlerSlot struct{ h ErrorHandler }

var handler atomic.Pointer[handlerSlot]

func init() {
	handler.Store(&handlerSlot{h: &LogHandler{}})
}

// SetHandler installs the handler that receives every report.
// Pass nil to restore a non-verbose LogHandler.
func SetHandler(h ErrorHandler) {
	if h == nil {
		h = &LogHandler{}
	}
	handler.Store(&handlerSlot{h: h})
}

// Handler returns the installed handler.
func Handler() ErrorHandler {
	return handler.Load().h
}

// Report hands err to the installed handler, stamping it if needed.
func Report(err *ChartError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleError(err)
}

// ReportCode reports a configuration problem found by op.
func ReportCode(op string, code Code, args ...any) {
	Report(&ChartError{Op: op, Kind: KindConfig, Code: code, Args: args})
}

// Warn reports a non-fatal diagnostic found by op.
func Warn(op string, code WarningCode, args ...any) {
	Handler().HandleWarning(&Warning{Op: op, Code: code, Args: args, Timestamp: time.Now()})
}

// ReportPanic hands a recovered panic to the installed handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandlePanic(err)
}

// Recover reports a panic in progress and swallows it. Use it only where
// a process or loop must survive, as in:
//
//	defer errors.Recover("chartctl.watch")
//
// Draw passes and signal dispatch never recover: a listener panic reaches
// the caller of Invalidate unchanged.
func Recover(op string) {
	r := recover()
	if r == nil {
		return
	}
	ReportPanic(&PanicError{Op: op, Value: r, StackTrace: stack(2)})
}

func stack(skip int) string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return ""
	}
	var sb strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		sb.WriteString(f.Function + "\n\t" + f.File + ":" + strconv.Itoa(f.Line) + "\n")
		if !more {
			return sb.String()
		}
	}
}
