package chart

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-drift/chartview/pkg/document"
	"github.com/go-drift/chartview/pkg/errors"
	"github.com/go-drift/chartview/pkg/platform"
)

// Controller owns one chart surface and keeps the displayed chart
// synchronized with host-supplied options.
//
// Create with [NewWebViewController] or [NewHostedController], set callback
// fields, then call [Controller.Update]:
//
//	c := chart.NewWebViewController()
//	c.OnEvent = func(e chart.Event) { ... }
//	c.Update(chart.Options{Spec: spec, Size: size, Scripts: scripts})
//
// Set callback fields before the first Update to ensure no signals are
// missed. Callbacks are invoked on the UI thread.
type Controller struct {
	surface Surface

	mu      sync.Mutex
	state   LoadState // guarded by mu
	opts    Options   // guarded by mu
	hasOpts bool      // guarded by mu

	// OnEvent is called once per well-formed event-channel message, with the
	// identifier field extracted. When nil, event messages are dropped
	// silently.
	OnEvent func(Event)

	// OnLoadStateChanged is called whenever the load state transitions. Use
	// it to swap placeholder content; the native surface is hidden while the
	// state is LoadStateUnloaded.
	OnLoadStateChanged func(LoadState)
}

// NewController creates a controller driving the given surface.
// Most callers want [NewWebViewController] or [NewHostedController].
func NewController(surface Surface) *Controller {
	c := &Controller{surface: surface}
	surface.Bind(platform.SurfaceCallbacks{
		PageFinished:  c.handlePageFinished,
		LoadError:     c.handleLoadError,
		ScriptMessage: c.handleScriptMessage,
	})
	// Hidden until the first document reports ready.
	_ = surface.SetVisible(false)
	return c
}

// NewWebViewController creates a controller on an app-embedded web view
// surface. The script list in Options must name every charting library
// script; these targets have no script host of record.
func NewWebViewController() *Controller {
	return NewController(platform.NewWebViewSurface())
}

// NewHostedController creates a controller on a browser-hosted surface. The
// static host document declares the charting library scripts, so the script
// list may be left empty.
func NewHostedController() *Controller {
	return NewController(platform.NewHostedSurface())
}

// Update supplies a new chart configuration.
//
// Equality is checked per field: identical options are a no-op. Any
// difference rebuilds the document and reloads it wholesale, discarding all
// embedded-context state including the chart instance and its interactive
// state. There is no partial-update path; a pure size change forces a full
// reload too.
func (c *Controller) Update(opts Options) error {
	c.mu.Lock()
	if c.hasOpts && c.opts.equal(opts) {
		c.mu.Unlock()
		return nil
	}
	c.opts = opts
	c.hasOpts = true
	c.mu.Unlock()

	return c.reload()
}

// reload rebuilds the document from the current options and pushes it to the
// surface. A reload while a previous load is in flight implicitly cancels
// the previous load: the whole embedded context is discarded.
func (c *Controller) reload() error {
	c.setState(LoadStateUnloaded)
	_ = c.surface.SetVisible(false)

	c.mu.Lock()
	opts := c.opts
	c.mu.Unlock()

	if err := c.surface.SetSize(opts.Size); err != nil {
		errors.Report(&errors.BridgeError{
			Op:   "chart.reload",
			Kind: errors.KindBridge,
			Err:  err,
		})
	}
	return c.surface.LoadDocument(c.buildDocument(opts))
}

// buildDocument renders the document for the current surface capability set:
// a complete page for app-embedded surfaces, a fragment for hosted ones.
func (c *Controller) buildDocument(opts Options) string {
	o := document.Options{
		Spec:    opts.Spec,
		Scripts: opts.Scripts,
		MountID: c.surface.MountID(),
		Width:   opts.Size.Width,
		Height:  opts.Size.Height,
	}
	if c.surface.HostsScripts() {
		return document.BuildFragment(o)
	}
	return document.Build(o)
}

// LoadState returns the current load state.
func (c *Controller) LoadState() LoadState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Loaded reports whether the current document has finished loading.
func (c *Controller) Loaded() bool {
	return c.LoadState() == LoadStateLoaded
}

// Surface returns the surface this controller drives.
func (c *Controller) Surface() Surface {
	return c.surface
}

// Dispose releases the surface and its native resources. Dispose is
// idempotent; the controller must not be reused afterwards.
func (c *Controller) Dispose() {
	c.surface.Dispose()
}

// handlePageFinished is the load sequencer. Triggered once per document
// load, it flips the state machine to Loaded, reveals the surface, injects
// the event-forwarding bridge snippet, then invokes the chart entry point
// through the evaluation guard. Repeated ready signals for the same document
// are ignored.
func (c *Controller) handlePageFinished() {
	c.mu.Lock()
	if c.state == LoadStateLoaded {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.setState(LoadStateLoaded)
	_ = c.surface.SetVisible(true)
	c.runScript(document.EventBridge(document.DefaultEventChannel))
	c.runScript(document.InvokeEntry(c.surface.MountID()))
}

// handleLoadError logs document load failures. The state machine is left
// alone: a document that never loads keeps the placeholder up indefinitely,
// and nothing is retried until the next property change forces a rebuild.
func (c *Controller) handleLoadError(code, message string) {
	errors.Report(&errors.BridgeError{
		Op:   "chart.loadDocument",
		Kind: errors.KindLoad,
		Err:  fmt.Errorf("%s: %s", code, message),
	})
}

// handleScriptMessage routes bridge-channel messages from the embedded
// context. Every decode step is guarded: a malformed payload is reported and
// logged, never surfaced as a host-level fault.
func (c *Controller) handleScriptMessage(channel, body string) {
	defer errors.Recover("chart.handleScriptMessage")

	switch channel {
	case document.DefaultErrorChannel:
		c.handleErrorMessage(body)
	case document.DefaultEventChannel:
		c.handleEventMessage(body)
	default:
		errors.Report(&errors.BridgeError{
			Op:      "chart.handleScriptMessage",
			Kind:    errors.KindBridge,
			Channel: channel,
			Err:     fmt.Errorf("message on unknown bridge channel"),
		})
	}
}

// scriptErrorRecord mirrors the JSON the global error handler posts.
// Guard-caught exceptions arrive as plain strings instead.
type scriptErrorRecord struct {
	Message string `json:"message"`
	URL     string `json:"url"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Error   string `json:"error,omitempty"`
}

func (c *Controller) handleErrorMessage(body string) {
	var record scriptErrorRecord
	if err := json.Unmarshal([]byte(body), &record); err == nil && record.Message != "" {
		errors.Report(&errors.BridgeError{
			Op:         "chart.scriptError",
			Kind:       errors.KindScript,
			Channel:    document.DefaultErrorChannel,
			Err:        fmt.Errorf("%s (%s:%d:%d)", record.Message, record.URL, record.Line, record.Column),
			StackTrace: record.Error,
		})
		return
	}

	errors.Report(&errors.BridgeError{
		Op:      "chart.scriptError",
		Kind:    errors.KindScript,
		Channel: document.DefaultErrorChannel,
		Err:     fmt.Errorf("%s", body),
	})
}

func (c *Controller) handleEventMessage(body string) {
	cb := c.OnEvent
	if cb == nil {
		return
	}

	event, err := decodeEvent(body)
	if err != nil {
		errors.Report(&errors.BridgeError{
			Op:      "chart.decodeEvent",
			Kind:    errors.KindDecode,
			Channel: document.DefaultEventChannel,
			Err:     err,
		})
		return
	}
	cb(event)
}

// setState transitions the load state machine, notifying the host on change.
func (c *Controller) setState(s LoadState) {
	c.mu.Lock()
	if c.state == s {
		c.mu.Unlock()
		return
	}
	c.state = s
	c.mu.Unlock()

	if cb := c.OnLoadStateChanged; cb != nil {
		cb(s)
	}
}

func (c *Controller) runScript(src string) {
	if err := c.surface.RunScript(src); err != nil {
		errors.Report(&errors.BridgeError{
			Op:   "chart.runScript",
			Kind: errors.KindBridge,
			Err:  err,
		})
	}
}
