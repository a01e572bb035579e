package errors

import (
	"strings"
	"testing"
	"time"
)

func TestBridgeErrorString(t *testing.T) {
	err := &BridgeError{
		Op:   "test.operation",
		Kind: KindBridge,
		Err:  &DecodeError{Channel: "test", DataType: "TestData", Got: "invalid"},
	}
	got := err.Error()
	if got == "" {
		t.Error("expected non-empty error string")
	}
}

func TestBridgeErrorWithChannel(t *testing.T) {
	err := &BridgeError{
		Op:      "test.operation",
		Kind:    KindDecode,
		Channel: "chartError",
		Err:     &DecodeError{Channel: "chartError", DataType: "TestData", Got: nil},
	}
	got := err.Error()
	if got == "" {
		t.Error("expected non-empty error string")
	}
	want := "channel=chartError"
	if !strings.Contains(got, want) {
		t.Errorf("error string %q should contain %q", got, want)
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindBridge, "bridge"},
		{KindScript, "script"},
		{KindDecode, "decode"},
		{KindLoad, "load"},
		{KindPanic, "panic"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{
		Value:     "test panic",
		Timestamp: time.Now(),
	}
	got := err.Error()
	want := "panic: test panic"
	if got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestPanicErrorStringWithOp(t *testing.T) {
	err := &PanicError{
		Op:        "chart.handleScriptMessage",
		Value:     "test panic",
		Timestamp: time.Now(),
	}
	got := err.Error()
	want := "panic in chart.handleScriptMessage: test panic"
	if got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

// recordingHandler captures reported errors for assertions.
type recordingHandler struct {
	errs   []*BridgeError
	panics []*PanicError
}

func (h *recordingHandler) HandleError(err *BridgeError) { h.errs = append(h.errs, err) }
func (h *recordingHandler) HandlePanic(err *PanicError)  { h.panics = append(h.panics, err) }

func TestReportUsesGlobalHandler(t *testing.T) {
	h := &recordingHandler{}
	SetHandler(h)
	t.Cleanup(func() { SetHandler(nil) })

	Report(&BridgeError{Op: "test.op", Kind: KindScript})
	if len(h.errs) != 1 {
		t.Fatalf("expected 1 reported error, got %d", len(h.errs))
	}
	if h.errs[0].Timestamp.IsZero() {
		t.Error("Report should stamp a zero Timestamp")
	}
}

func TestReportNilIsNoop(t *testing.T) {
	h := &recordingHandler{}
	SetHandler(h)
	t.Cleanup(func() { SetHandler(nil) })

	Report(nil)
	ReportPanic(nil)
	if len(h.errs) != 0 || len(h.panics) != 0 {
		t.Error("nil reports should not reach the handler")
	}
}

func TestRecoverReportsPanic(t *testing.T) {
	h := &recordingHandler{}
	SetHandler(h)
	t.Cleanup(func() { SetHandler(nil) })

	func() {
		defer Recover("test.panicking")
		panic("boom")
	}()

	if len(h.panics) != 1 {
		t.Fatalf("expected 1 recovered panic, got %d", len(h.panics))
	}
	if h.panics[0].Op != "test.panicking" {
		t.Errorf("panic Op = %q, want %q", h.panics[0].Op, "test.panicking")
	}
}
