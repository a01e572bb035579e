package platform

import "sync"

const hostedChartViewType = "hosted_chart"

type hostedChartViewFactory struct{}

func (hostedChartViewFactory) ViewType() string {
	return hostedChartViewType
}

func (hostedChartViewFactory) Create(viewID int64, params map[string]any) (PlatformView, error) {
	mountID, _ := params["mountId"].(string)
	return &hostedChartView{
		basePlatformView: basePlatformView{
			viewID:   viewID,
			viewType: hostedChartViewType,
		},
		mountID: mountID,
	}, nil
}

// hostedChartView is the browser-hosted platform view: a mount node inside a
// static host document that already declares the charting library scripts.
// Content is written into the mount node rather than loaded as a document,
// and "onMounted" plays the role of the page-finished signal.
type hostedChartView struct {
	basePlatformView
	mountID   string
	mu        sync.RWMutex
	callbacks SurfaceCallbacks
}

func (v *hostedChartView) Create(params map[string]any) error {
	return nil
}

func (v *hostedChartView) Dispose() {}

func (v *hostedChartView) setCallbacks(cb SurfaceCallbacks) {
	v.mu.Lock()
	v.callbacks = cb
	v.mu.Unlock()
}

func (v *hostedChartView) handleViewEvent(method string, args map[string]any) {
	v.mu.RLock()
	cb := v.callbacks
	v.mu.RUnlock()

	dispatchSurfaceEvent(hostedChartViewType, "onMounted", cb, method, args)
}

func init() {
	GetPlatformViewRegistry().RegisterFactory(hostedChartViewFactory{})
}
