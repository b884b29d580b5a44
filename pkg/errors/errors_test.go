package errors

import (
	stderrors "errors"
	"strings"
	"testing"
	"time"
)

func TestChartErrorStringWithCode(t *testing.T) {
	err := &ChartError{
		Op:   "grid.Draw",
		Kind: KindConfig,
		Code: CodeScaleNotSet,
	}
	got := err.Error()
	want := "grid.Draw [config] error 2: Scale is not set. Use SetScale to set it."
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestChartErrorStringWithCause(t *testing.T) {
	cause := stderrors.New("unexpected EOF")
	err := &ChartError{
		Op:   "config.Load",
		Kind: KindSerialization,
		Err:  cause,
	}
	if !strings.Contains(err.Error(), "unexpected EOF") {
		t.Errorf("error string %q should contain cause", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected Unwrap to expose the cause")
	}
}

func TestChartErrorIsMatchesCode(t *testing.T) {
	err := &ChartError{Op: "geogrid.Draw", Kind: KindConfig, Code: CodeScaleNotSet}
	if !stderrors.Is(err, &ChartError{Code: CodeScaleNotSet}) {
		t.Error("expected errors.Is to match on code")
	}
	if stderrors.Is(err, &ChartError{Code: CodeContainerNotSet}) {
		t.Error("expected errors.Is to reject a different code")
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindConfig, "config"},
		{KindRender, "render"},
		{KindSerialization, "serialization"},
		{KindPanic, "panic"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestCodeDescriptionArguments(t *testing.T) {
	got := CodeUnknownChartType.Description("pie")
	if !strings.Contains(got, `"pie"`) {
		t.Errorf("Description = %q, want the chart type quoted", got)
	}
	if got := Code(999).Description(); got != "Unknown error occurred." {
		t.Errorf("unknown code description = %q", got)
	}
	if got := WarnUnknownOption.Description("foo"); !strings.Contains(got, `"foo"`) {
		t.Errorf("warning description = %q", got)
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "boom", Timestamp: time.Now()}
	if got, want := err.Error(), "panic: boom"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
	err.Op = "chartctl.watch"
	if got, want := err.Error(), "panic in chartctl.watch: boom"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestReportCode(t *testing.T) {
	var captured *ChartError
	SetHandler(&testHandler{onError: func(err *ChartError) { captured = err }})
	defer SetHandler(nil)

	ReportCode("grid.Draw", CodeScaleNotSet)

	if captured == nil {
		t.Fatal("expected error to be captured")
	}
	if captured.Code != CodeScaleNotSet || captured.Kind != KindConfig {
		t.Errorf("captured = %+v", captured)
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestWarn(t *testing.T) {
	var captured *Warning
	SetHandler(&testHandler{onWarning: func(w *Warning) { captured = w }})
	defer SetHandler(nil)

	Warn("settings.Setup", WarnUnknownOption, "colour", "grid")

	if captured == nil {
		t.Fatal("expected warning to be captured")
	}
	if captured.Code != WarnUnknownOption {
		t.Errorf("Code = %d, want %d", captured.Code, WarnUnknownOption)
	}
}

func TestRecover(t *testing.T) {
	var captured *PanicError
	SetHandler(&testHandler{onPanic: func(err *PanicError) { captured = err }})
	defer SetHandler(nil)

	func() {
		defer Recover("test.recover")
		panic("intentional test panic")
	}()

	if captured == nil {
		t.Fatal("expected panic to be recovered and captured")
	}
	if captured.Value != "intentional test panic" {
		t.Errorf("Value = %v, want %q", captured.Value, "intentional test panic")
	}
	if captured.Op != "test.recover" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.recover")
	}
	if captured.StackTrace == "" {
		t.Error("expected a stack trace")
	}
}

func TestSetHandlerNil(t *testing.T) {
	SetHandler(nil)
	if _, ok := Handler().(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should set LogHandler, got %T", Handler())
	}
}

func TestReportNilIsIgnored(t *testing.T) {
	called := false
	SetHandler(&testHandler{onError: func(*ChartError) { called = true }})
	defer SetHandler(nil)

	Report(nil)
	ReportPanic(nil)

	if called {
		t.Error("nil errors must not reach the handler")
	}
}

type testHandler struct {
	onError   func(*ChartError)
	onWarning func(*Warning)
	onPanic   func(*PanicError)
}

func (h *testHandler) HandleError(err *ChartError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandleWarning(w *Warning) {
	if h.onWarning != nil {
		h.onWarning(w)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}
