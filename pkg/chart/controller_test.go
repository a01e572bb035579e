package chart

import (
	"strings"
	"testing"

	"github.com/go-drift/chartview/pkg/document"
	"github.com/go-drift/chartview/pkg/errors"
	"github.com/go-drift/chartview/pkg/platform"
)

// fakeSurface records every surface interaction for assertions.
type fakeSurface struct {
	callbacks    platform.SurfaceCallbacks
	docs         []string
	scripts      []string
	sizes        []platform.Size
	visibility   []bool
	mountID      string
	hostsScripts bool
	disposed     int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{mountID: "chart"}
}

func (f *fakeSurface) Bind(cb platform.SurfaceCallbacks) { f.callbacks = cb }
func (f *fakeSurface) LoadDocument(doc string) error {
	f.docs = append(f.docs, doc)
	return nil
}
func (f *fakeSurface) RunScript(src string) error {
	f.scripts = append(f.scripts, src)
	return nil
}
func (f *fakeSurface) SetSize(size platform.Size) error {
	f.sizes = append(f.sizes, size)
	return nil
}
func (f *fakeSurface) SetVisible(visible bool) error {
	f.visibility = append(f.visibility, visible)
	return nil
}
func (f *fakeSurface) MountID() string    { return f.mountID }
func (f *fakeSurface) HostsScripts() bool { return f.hostsScripts }
func (f *fakeSurface) Dispose()           { f.disposed++ }

// captureHandler collects reported errors for assertions.
type captureHandler struct {
	errs   []*errors.BridgeError
	panics []*errors.PanicError
}

func (h *captureHandler) HandleError(e *errors.BridgeError) { h.errs = append(h.errs, e) }
func (h *captureHandler) HandlePanic(p *errors.PanicError)  { h.panics = append(h.panics, p) }

func captureErrors(t *testing.T) *captureHandler {
	t.Helper()
	h := &captureHandler{}
	errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(nil) })
	return h
}

var testOpts = Options{
	Spec:    `{"title":{"text":"T"}}`,
	Size:    platform.Size{Width: 400, Height: 300},
	Scripts: []string{"lib.js"},
}

func TestUpdateBuildsDocumentOnce(t *testing.T) {
	surface := newFakeSurface()
	c := NewController(surface)

	if err := c.Update(testOpts); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if len(surface.docs) != 1 {
		t.Fatalf("expected 1 document load, got %d", len(surface.docs))
	}
	doc := surface.docs[0]
	if got := strings.Count(doc, `<script src="lib.js">`); got != 1 {
		t.Errorf("expected exactly one lib.js tag, got %d", got)
	}
	if got := strings.Count(doc, `<div id="chart"`); got != 1 {
		t.Errorf("expected exactly one mount element, got %d", got)
	}
	if !strings.Contains(doc, testOpts.Spec) {
		t.Error("document missing literal spec text")
	}
	if !strings.Contains(doc, "width:400px;height:300px") {
		t.Error("mount element missing pixel dimensions")
	}
	if len(surface.sizes) != 1 || surface.sizes[0] != testOpts.Size {
		t.Errorf("expected surface size %v, got %v", testOpts.Size, surface.sizes)
	}
}

func TestUpdateUnchangedIsNoOp(t *testing.T) {
	surface := newFakeSurface()
	c := NewController(surface)

	if err := c.Update(testOpts); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := c.Update(testOpts); err != nil {
		t.Fatalf("repeat Update failed: %v", err)
	}

	if len(surface.docs) != 1 {
		t.Errorf("identical update should not reload, got %d loads", len(surface.docs))
	}
}

func TestUpdateChangeReloads(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(Options) Options
	}{
		{"spec", func(o Options) Options {
			o.Spec = `{"title":{"text":"U"}}`
			return o
		}},
		{"size", func(o Options) Options {
			o.Size = platform.Size{Width: 500, Height: 300}
			return o
		}},
		{"scripts", func(o Options) Options {
			o.Scripts = []string{"lib.js", "theme.js"}
			return o
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			surface := newFakeSurface()
			c := NewController(surface)

			if err := c.Update(testOpts); err != nil {
				t.Fatalf("Update failed: %v", err)
			}
			if err := c.Update(tt.mutate(testOpts)); err != nil {
				t.Fatalf("second Update failed: %v", err)
			}

			if len(surface.docs) != 2 {
				t.Errorf("changed options should reload, got %d loads", len(surface.docs))
			}
		})
	}
}

func TestLoadSequencer(t *testing.T) {
	surface := newFakeSurface()
	c := NewController(surface)

	if err := c.Update(testOpts); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if c.Loaded() {
		t.Fatal("controller loaded before ready signal")
	}

	surface.callbacks.PageFinished()

	if !c.Loaded() {
		t.Fatal("controller not loaded after ready signal")
	}
	if len(surface.scripts) != 2 {
		t.Fatalf("expected 2 injected scripts, got %d", len(surface.scripts))
	}
	if want := document.EventBridge(document.DefaultEventChannel); surface.scripts[0] != want {
		t.Errorf("first script = %q, want event bridge", surface.scripts[0])
	}
	if want := document.InvokeEntry("chart"); surface.scripts[1] != want {
		t.Errorf("second script = %q, want guarded entry invocation", surface.scripts[1])
	}
	if !strings.Contains(surface.scripts[1], "guardedRun(") {
		t.Error("entry invocation not routed through the evaluation guard")
	}

	// Duplicate ready signal is ignored.
	surface.callbacks.PageFinished()
	if len(surface.scripts) != 2 {
		t.Errorf("duplicate ready signal ran %d extra scripts", len(surface.scripts)-2)
	}
}

func TestSurfaceHiddenUntilLoaded(t *testing.T) {
	surface := newFakeSurface()
	c := NewController(surface)

	if err := c.Update(testOpts); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	for _, v := range surface.visibility {
		if v {
			t.Fatal("surface shown before load completed")
		}
	}

	surface.callbacks.PageFinished()

	if last := surface.visibility[len(surface.visibility)-1]; !last {
		t.Error("surface not shown after load completed")
	}
}

func TestUpdateResetsLoadState(t *testing.T) {
	surface := newFakeSurface()
	c := NewController(surface)

	var transitions []LoadState
	c.OnLoadStateChanged = func(s LoadState) { transitions = append(transitions, s) }

	if err := c.Update(testOpts); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	surface.callbacks.PageFinished()

	changed := testOpts
	changed.Spec = `{"title":{"text":"U"}}`
	if err := c.Update(changed); err != nil {
		t.Fatalf("second Update failed: %v", err)
	}

	if c.Loaded() {
		t.Error("controller still loaded after reload started")
	}
	want := []LoadState{LoadStateLoaded, LoadStateUnloaded}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transition %d = %v, want %v", i, transitions[i], want[i])
		}
	}
}

func TestScriptErrorReported(t *testing.T) {
	handler := captureErrors(t)
	surface := newFakeSurface()
	c := NewController(surface)

	if err := c.Update(testOpts); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	surface.callbacks.PageFinished()

	body := `{"message":"boom","url":"about:blank","line":3,"column":7,"error":"Error: boom\n  at render"}`
	surface.callbacks.ScriptMessage(document.DefaultErrorChannel, body)

	if len(handler.errs) != 1 {
		t.Fatalf("expected 1 reported error, got %d", len(handler.errs))
	}
	e := handler.errs[0]
	if e.Kind != errors.KindScript {
		t.Errorf("kind = %v, want %v", e.Kind, errors.KindScript)
	}
	if !strings.Contains(e.Err.Error(), "boom") || !strings.Contains(e.Err.Error(), "about:blank:3:7") {
		t.Errorf("error missing message or location: %v", e.Err)
	}
	if !strings.Contains(e.StackTrace, "at render") {
		t.Errorf("stack trace not carried: %q", e.StackTrace)
	}
	if !c.Loaded() {
		t.Error("script error must not change load state")
	}
}

func TestGuardCaughtErrorString(t *testing.T) {
	handler := captureErrors(t)
	surface := newFakeSurface()
	_ = NewController(surface)

	surface.callbacks.ScriptMessage(document.DefaultErrorChannel, "TypeError: echarts is not defined")

	if len(handler.errs) != 1 {
		t.Fatalf("expected 1 reported error, got %d", len(handler.errs))
	}
	e := handler.errs[0]
	if e.Kind != errors.KindScript {
		t.Errorf("kind = %v, want %v", e.Kind, errors.KindScript)
	}
	if !strings.Contains(e.Err.Error(), "echarts is not defined") {
		t.Errorf("guard-caught string not carried: %v", e.Err)
	}
}

func TestEventDelivered(t *testing.T) {
	surface := newFakeSurface()
	c := NewController(surface)

	var events []Event
	c.OnEvent = func(e Event) { events = append(events, e) }

	surface.callbacks.ScriptMessage(document.DefaultEventChannel, `{"id":"series-1","value":42}`)

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID != "series-1" {
		t.Errorf("event ID = %q, want %q", events[0].ID, "series-1")
	}
	if events[0].Payload["value"] != float64(42) {
		t.Errorf("payload value = %v, want 42", events[0].Payload["value"])
	}
}

func TestEventDroppedWithoutCallback(t *testing.T) {
	handler := captureErrors(t)
	surface := newFakeSurface()
	NewController(surface)

	surface.callbacks.ScriptMessage(document.DefaultEventChannel, `{"id":"series-1"}`)

	if len(handler.errs) != 0 {
		t.Errorf("event without callback should drop silently, got %v", handler.errs)
	}
}

func TestMalformedEventReported(t *testing.T) {
	handler := captureErrors(t)
	surface := newFakeSurface()
	c := NewController(surface)

	called := false
	c.OnEvent = func(Event) { called = true }

	surface.callbacks.ScriptMessage(document.DefaultEventChannel, "{not json")

	if called {
		t.Error("callback invoked for malformed event")
	}
	if len(handler.errs) != 1 {
		t.Fatalf("expected 1 reported error, got %d", len(handler.errs))
	}
	if handler.errs[0].Kind != errors.KindDecode {
		t.Errorf("kind = %v, want %v", handler.errs[0].Kind, errors.KindDecode)
	}
}

func TestUnknownChannelReported(t *testing.T) {
	handler := captureErrors(t)
	surface := newFakeSurface()
	NewController(surface)

	surface.callbacks.ScriptMessage("mystery", "payload")

	if len(handler.errs) != 1 {
		t.Fatalf("expected 1 reported error, got %d", len(handler.errs))
	}
	if handler.errs[0].Channel != "mystery" {
		t.Errorf("channel = %q, want %q", handler.errs[0].Channel, "mystery")
	}
}

func TestLoadErrorReported(t *testing.T) {
	handler := captureErrors(t)
	surface := newFakeSurface()
	c := NewController(surface)

	if err := c.Update(testOpts); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	surface.callbacks.LoadError("net::ERR_FAILED", "load failed")

	if c.Loaded() {
		t.Error("load error must not mark the document loaded")
	}
	if len(handler.errs) != 1 {
		t.Fatalf("expected 1 reported error, got %d", len(handler.errs))
	}
	if handler.errs[0].Kind != errors.KindLoad {
		t.Errorf("kind = %v, want %v", handler.errs[0].Kind, errors.KindLoad)
	}
}

func TestHostedSurfaceGetsFragment(t *testing.T) {
	surface := newFakeSurface()
	surface.mountID = "chart-abc"
	surface.hostsScripts = true
	c := NewController(surface)

	opts := testOpts
	opts.Scripts = nil
	if err := c.Update(opts); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	doc := surface.docs[0]
	if strings.Contains(doc, "<!DOCTYPE") {
		t.Error("hosted surface received a full document instead of a fragment")
	}
	if !strings.Contains(doc, `<div id="chart-abc"`) {
		t.Error("fragment missing surface mount element")
	}
	if !strings.Contains(doc, testOpts.Spec) {
		t.Error("fragment missing literal spec text")
	}

	surface.callbacks.PageFinished()
	if want := document.InvokeEntry("chart-abc"); surface.scripts[len(surface.scripts)-1] != want {
		t.Errorf("entry invocation = %q, want keyed by surface mount ID", surface.scripts[len(surface.scripts)-1])
	}
}

func TestDispose(t *testing.T) {
	surface := newFakeSurface()
	c := NewController(surface)

	c.Dispose()
	c.Dispose()

	if surface.disposed != 2 {
		t.Errorf("Dispose calls = %d, want passthrough", surface.disposed)
	}
}

func TestWebViewControllerEndToEnd(t *testing.T) {
	platform.SetupTestBridge(t.Cleanup)

	c := NewWebViewController()
	defer c.Dispose()

	var events []Event
	c.OnEvent = func(e Event) { events = append(events, e) }

	if err := c.Update(testOpts); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	surface, ok := c.Surface().(*platform.WebViewSurface)
	if !ok {
		t.Fatalf("surface type = %T", c.Surface())
	}
	viewID := float64(surface.ViewID())

	send := func(payload map[string]any) {
		t.Helper()
		data, err := platform.DefaultCodec.Encode(payload)
		if err != nil {
			t.Fatalf("encode failed: %v", err)
		}
		if err := platform.HandleEvent("chartview/platform_views/events", data); err != nil {
			t.Fatalf("HandleEvent failed: %v", err)
		}
	}

	send(map[string]any{"viewId": viewID, "method": "onPageFinished"})
	if !c.Loaded() {
		t.Fatal("controller not loaded after native ready event")
	}

	send(map[string]any{
		"viewId":  viewID,
		"method":  "onScriptMessage",
		"channel": document.DefaultEventChannel,
		"body":    `{"id":"series-1"}`,
	})
	if len(events) != 1 || events[0].ID != "series-1" {
		t.Fatalf("events = %v, want one event with ID series-1", events)
	}
}
