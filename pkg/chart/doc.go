// Package chart embeds a third-party JavaScript charting library inside a
// native rendering surface and bridges host data and events to the embedded
// script context.
//
// # Quick Start
//
// Create a controller for your target, set callbacks, then supply options:
//
//	c := chart.NewWebViewController()
//	c.OnEvent = func(e chart.Event) { selectSeries(e.ID) }
//	c.Update(chart.Options{
//	    Spec:    `{"title":{"text":"Sales"}}`,
//	    Size:    platform.Size{Width: 400, Height: 300},
//	    Scripts: []string{"https://cdn.example.com/echarts.min.js"},
//	})
//
// The chart spec is an opaque string handed verbatim to the charting
// library's entry point. This package never parses or validates it;
// library-side failures arrive asynchronously over the error channel and are
// logged, never fatal.
//
// # Updates
//
// Every call to [Controller.Update] compares the new options field by field
// with the previous ones. Identical options are a no-op. Any difference
// rebuilds the document and reloads it wholesale, discarding the chart
// instance and its interactive state. There is no incremental path; even a
// pure size change forces a full reload.
//
// # Placeholder
//
// The native surface stays hidden until the document reports ready, so the
// host's own content shows through as the placeholder. Use
// [Controller.OnLoadStateChanged] to swap in custom placeholder content.
package chart
