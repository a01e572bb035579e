package platform

import (
	"fmt"
	"sync"

	"github.com/go-drift/chartview/pkg/errors"
)

// WebViewSurface is the app-embedded chart surface: a full native web view
// that receives the complete chart document from Go. On these targets there
// is no script host of record, so the caller must supply every charting
// library script in the document.
//
// The surface creates its platform view eagerly, so methods and callbacks
// work immediately after construction. Call [WebViewSurface.Bind] before
// loading a document to ensure no signals are missed.
//
// All methods are safe for concurrent use.
type WebViewSurface struct {
	mu     sync.RWMutex
	view   *chartWebView // guarded by mu
	viewID int64         // guarded by mu
}

// NewWebViewSurface creates a new app-embedded chart surface.
// The underlying platform view is created eagerly.
func NewWebViewSurface() *WebViewSurface {
	s := &WebViewSurface{}

	view, err := GetPlatformViewRegistry().Create(chartWebViewType, map[string]any{})
	if err != nil {
		errors.Report(&errors.BridgeError{
			Op:   "platform.NewWebViewSurface",
			Kind: errors.KindBridge,
			Err:  fmt.Errorf("failed to create webview: %w", err),
		})
		return s
	}

	webView, ok := view.(*chartWebView)
	if !ok {
		errors.Report(&errors.BridgeError{
			Op:   "platform.NewWebViewSurface",
			Kind: errors.KindBridge,
			Err:  fmt.Errorf("unexpected view type: %T", view),
		})
		return s
	}

	s.view = webView
	s.viewID = webView.ViewID()

	return s
}

// ViewID returns the platform view ID, or 0 if the view was not created.
func (s *WebViewSurface) ViewID() int64 {
	s.mu.RLock()
	id := s.viewID
	s.mu.RUnlock()
	return id
}

// Bind wires surface signals to the given callbacks, replacing any
// previously bound set.
func (s *WebViewSurface) Bind(cb SurfaceCallbacks) {
	s.mu.RLock()
	view := s.view
	s.mu.RUnlock()
	if view != nil {
		view.setCallbacks(cb)
	}
}

// LoadDocument replaces the current page with the given document string.
// Loading discards all embedded-context state, including any chart instance.
func (s *WebViewSurface) LoadDocument(doc string) error {
	id := s.ViewID()
	if id == 0 {
		return ErrDisposed
	}
	_, err := GetPlatformViewRegistry().InvokeViewMethod(id, "loadDocument", map[string]any{
		"html": doc,
	})
	return err
}

// RunScript evaluates a script string inside the embedded context.
// Delivery is fire-and-forget; script-level failures surface only through
// the error bridge channel, never through this return value.
func (s *WebViewSurface) RunScript(src string) error {
	id := s.ViewID()
	if id == 0 {
		return ErrDisposed
	}
	_, err := GetPlatformViewRegistry().InvokeViewMethod(id, "evaluate", map[string]any{
		"script": src,
	})
	return err
}

// SetSize updates the native view size in logical pixels.
func (s *WebViewSurface) SetSize(size Size) error {
	id := s.ViewID()
	if id == 0 {
		return ErrDisposed
	}
	return GetPlatformViewRegistry().UpdateViewSize(id, size)
}

// SetVisible shows or hides the native view.
func (s *WebViewSurface) SetVisible(visible bool) error {
	id := s.ViewID()
	if id == 0 {
		return ErrDisposed
	}
	return GetPlatformViewRegistry().SetViewVisible(id, visible)
}

// MountID returns the identifier of the mount element in the chart document.
func (s *WebViewSurface) MountID() string {
	return "chart"
}

// HostsScripts reports whether the surface provides the charting library
// scripts itself. The app-embedded surface does not; the document must
// include them.
func (s *WebViewSurface) HostsScripts() bool {
	return false
}

// Dispose releases the web view and its native resources. After disposal,
// this surface must not be reused. Dispose is idempotent; calling it more
// than once is safe.
func (s *WebViewSurface) Dispose() {
	s.mu.Lock()
	id := s.viewID
	s.view = nil
	s.viewID = 0
	s.mu.Unlock()
	if id != 0 {
		GetPlatformViewRegistry().Dispose(id)
	}
}
