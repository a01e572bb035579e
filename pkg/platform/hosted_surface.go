package platform

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/go-drift/chartview/pkg/errors"
)

// HostedSurface is the browser-hosted chart surface: a mount node inside a
// static host document that declares the charting library scripts once for
// every chart on the page. The script list may therefore be left empty.
//
// Each surface gets a unique mount identifier so several charts can share
// one host document. Content is written into the mount node; loading never
// replaces the host document itself.
//
// All methods are safe for concurrent use.
type HostedSurface struct {
	mu      sync.RWMutex
	view    *hostedChartView // guarded by mu
	viewID  int64            // guarded by mu
	mountID string
}

// NewHostedSurface creates a new browser-hosted chart surface with a fresh
// mount identifier.
func NewHostedSurface() *HostedSurface {
	s := &HostedSurface{
		mountID: "chart-" + uuid.NewString(),
	}

	view, err := GetPlatformViewRegistry().Create(hostedChartViewType, map[string]any{
		"mountId": s.mountID,
	})
	if err != nil {
		errors.Report(&errors.BridgeError{
			Op:   "platform.NewHostedSurface",
			Kind: errors.KindBridge,
			Err:  fmt.Errorf("failed to create hosted view: %w", err),
		})
		return s
	}

	hostedView, ok := view.(*hostedChartView)
	if !ok {
		errors.Report(&errors.BridgeError{
			Op:   "platform.NewHostedSurface",
			Kind: errors.KindBridge,
			Err:  fmt.Errorf("unexpected view type: %T", view),
		})
		return s
	}

	s.view = hostedView
	s.viewID = hostedView.ViewID()

	return s
}

// ViewID returns the platform view ID, or 0 if the view was not created.
func (s *HostedSurface) ViewID() int64 {
	s.mu.RLock()
	id := s.viewID
	s.mu.RUnlock()
	return id
}

// Bind wires surface signals to the given callbacks, replacing any
// previously bound set.
func (s *HostedSurface) Bind(cb SurfaceCallbacks) {
	s.mu.RLock()
	view := s.view
	s.mu.RUnlock()
	if view != nil {
		view.setCallbacks(cb)
	}
}

// LoadDocument writes the given document fragment into the mount node,
// discarding any previous chart content. The host document stays in place.
func (s *HostedSurface) LoadDocument(doc string) error {
	id := s.ViewID()
	if id == 0 {
		return ErrDisposed
	}
	_, err := GetPlatformViewRegistry().InvokeViewMethod(id, "setContent", map[string]any{
		"html": doc,
	})
	return err
}

// RunScript evaluates a script string inside the host document's context.
func (s *HostedSurface) RunScript(src string) error {
	id := s.ViewID()
	if id == 0 {
		return ErrDisposed
	}
	_, err := GetPlatformViewRegistry().InvokeViewMethod(id, "evaluate", map[string]any{
		"script": src,
	})
	return err
}

// SetSize updates the mount node size in logical pixels.
func (s *HostedSurface) SetSize(size Size) error {
	id := s.ViewID()
	if id == 0 {
		return ErrDisposed
	}
	return GetPlatformViewRegistry().UpdateViewSize(id, size)
}

// SetVisible shows or hides the mount node.
func (s *HostedSurface) SetVisible(visible bool) error {
	id := s.ViewID()
	if id == 0 {
		return ErrDisposed
	}
	return GetPlatformViewRegistry().SetViewVisible(id, visible)
}

// MountID returns this surface's unique mount element identifier.
func (s *HostedSurface) MountID() string {
	return s.mountID
}

// HostsScripts reports whether the surface provides the charting library
// scripts itself. The hosted surface does: they are declared once in the
// static host document.
func (s *HostedSurface) HostsScripts() bool {
	return true
}

// Dispose releases the mount node. Dispose is idempotent.
func (s *HostedSurface) Dispose() {
	s.mu.Lock()
	id := s.viewID
	s.view = nil
	s.viewID = 0
	s.mu.Unlock()
	if id != 0 {
		GetPlatformViewRegistry().Dispose(id)
	}
}
