package platform

import (
	"strings"
	"testing"
)

func TestHostedSurfaceMountID(t *testing.T) {
	setupRecordingBridge(t)

	a := NewHostedSurface()
	defer a.Dispose()
	b := NewHostedSurface()
	defer b.Dispose()

	if !strings.HasPrefix(a.MountID(), "chart-") {
		t.Errorf("MountID = %q, want chart- prefix", a.MountID())
	}
	if a.MountID() == b.MountID() {
		t.Error("two hosted surfaces share a mount identifier")
	}
	if !a.HostsScripts() {
		t.Error("hosted surface must report hosted scripts")
	}
}

func TestHostedSurfaceCreatePassesMountID(t *testing.T) {
	bridge := setupRecordingBridge(t)

	s := NewHostedSurface()
	defer s.Dispose()

	call := bridge.calls[0]
	if call.method != "create" || call.args["viewType"] != hostedChartViewType {
		t.Fatalf("unexpected create call: %+v", call)
	}
	params, _ := call.args["params"].(map[string]any)
	if params["mountId"] != s.MountID() {
		t.Errorf("create params mountId = %v, want %q", params["mountId"], s.MountID())
	}
}

func TestHostedSurfaceLoadDocument(t *testing.T) {
	bridge := setupRecordingBridge(t)

	s := NewHostedSurface()
	defer s.Dispose()

	if err := s.LoadDocument("<div>fragment</div>"); err != nil {
		t.Fatalf("LoadDocument failed: %v", err)
	}

	call := bridge.lastViewCall(t)
	if call.args["method"] != "setContent" {
		t.Errorf("view method = %v, want setContent", call.args["method"])
	}
	if call.args["html"] != "<div>fragment</div>" {
		t.Errorf("html arg = %v", call.args["html"])
	}
}

func TestHostedSurfaceReady(t *testing.T) {
	setupRecordingBridge(t)

	s := NewHostedSurface()
	defer s.Dispose()

	ready := false
	s.Bind(SurfaceCallbacks{PageFinished: func() { ready = true }})

	sendViewEvent(t, map[string]any{"viewId": float64(s.ViewID()), "method": "onMounted"})
	if !ready {
		t.Error("onMounted not delivered as the ready signal")
	}
}

func TestHostedSurfaceDisposed(t *testing.T) {
	setupRecordingBridge(t)

	s := NewHostedSurface()
	s.Dispose()

	if err := s.LoadDocument("x"); err != ErrDisposed {
		t.Errorf("LoadDocument after Dispose = %v, want ErrDisposed", err)
	}
	if err := s.RunScript("x();"); err != ErrDisposed {
		t.Errorf("RunScript after Dispose = %v, want ErrDisposed", err)
	}
}
