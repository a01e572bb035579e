package platform

import (
	"sync"

	"github.com/go-drift/chartview/pkg/errors"
)

// SurfaceCallbacks receives signals from a platform chart surface.
// All callbacks are invoked on the UI thread via [Dispatch].
type SurfaceCallbacks struct {
	// PageFinished is called when the hosted document finishes loading.
	PageFinished func()

	// LoadError is called when a document or resource load fails.
	// The code parameter is one of [ErrCodeNetworkError], [ErrCodeSSLError],
	// or [ErrCodeLoadFailed].
	LoadError func(code, message string)

	// ScriptMessage is called when the embedded script context posts a
	// message on a named bridge channel.
	ScriptMessage func(channel, body string)
}

const chartWebViewType = "chart_webview"

type chartWebViewFactory struct{}

func (chartWebViewFactory) ViewType() string {
	return chartWebViewType
}

func (chartWebViewFactory) Create(viewID int64, params map[string]any) (PlatformView, error) {
	return &chartWebView{
		basePlatformView: basePlatformView{
			viewID:   viewID,
			viewType: chartWebViewType,
		},
	}, nil
}

// chartWebView is the app-embedded platform view: a full native web view
// that loads the complete chart document pushed from Go.
type chartWebView struct {
	basePlatformView
	mu        sync.RWMutex
	callbacks SurfaceCallbacks
}

func (v *chartWebView) Create(params map[string]any) error {
	return nil
}

func (v *chartWebView) Dispose() {}

func (v *chartWebView) setCallbacks(cb SurfaceCallbacks) {
	v.mu.Lock()
	v.callbacks = cb
	v.mu.Unlock()
}

// handleViewEvent processes routed events from the native web view.
// "onPageFinished" signals document ready. Script messages arrive as
// "onScriptMessage" with the bridge channel name and the posted body.
func (v *chartWebView) handleViewEvent(method string, args map[string]any) {
	v.mu.RLock()
	cb := v.callbacks
	v.mu.RUnlock()

	dispatchSurfaceEvent(chartWebViewType, "onPageFinished", cb, method, args)
}

// dispatchSurfaceEvent maps a routed native event onto surface callbacks.
// readyMethod names the event that signals document ready for the view type.
// Every decode step is guarded: malformed payloads are reported on the error
// path and never reach the host as a fault.
func dispatchSurfaceEvent(viewType, readyMethod string, cb SurfaceCallbacks, method string, args map[string]any) {
	switch method {
	case readyMethod:
		if cb.PageFinished != nil {
			Dispatch(cb.PageFinished)
		}

	case "onLoadError":
		code := stringArg(args, "code")
		message := stringArg(args, "message")
		if cb.LoadError != nil {
			Dispatch(func() {
				cb.LoadError(code, message)
			})
		}

	case "onScriptMessage":
		channel := stringArg(args, "channel")
		if channel == "" {
			errors.Report(&errors.BridgeError{
				Op:      "platform." + viewType,
				Kind:    errors.KindDecode,
				Channel: viewEventChannelName,
				Err:     &errors.DecodeError{Channel: viewEventChannelName, DataType: "script message channel", Got: args["channel"]},
			})
			return
		}
		body := stringArg(args, "body")
		if cb.ScriptMessage != nil {
			Dispatch(func() {
				cb.ScriptMessage(channel, body)
			})
		}
	}
}

// stringArg extracts a string argument, returning "" when absent or mistyped.
func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func init() {
	GetPlatformViewRegistry().RegisterFactory(chartWebViewFactory{})
}
