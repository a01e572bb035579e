package chart

import "github.com/go-drift/chartview/pkg/platform"

// Surface is the rendering-surface contract the controller drives. Two
// platform adapters implement it: [platform.WebViewSurface] for app-embedded
// targets, where the document carries every charting library script, and
// [platform.HostedSurface] for browser-hosted targets, where a static host
// document declares the scripts once.
//
// All communication through a Surface is fire-and-forget: nothing blocks on
// the embedded context, and signals come back through the bound callbacks on
// the UI thread.
type Surface interface {
	// Bind wires surface signals to the given callbacks.
	Bind(platform.SurfaceCallbacks)

	// LoadDocument replaces the surface content with the given document,
	// discarding all embedded-context state.
	LoadDocument(doc string) error

	// RunScript evaluates a script string inside the embedded context.
	RunScript(src string) error

	// SetSize updates the display area in logical pixels.
	SetSize(platform.Size) error

	// SetVisible shows or hides the surface.
	SetVisible(visible bool) error

	// MountID identifies the mount element for this surface's documents.
	MountID() string

	// HostsScripts reports whether the surface provides the charting library
	// scripts itself, making the script list optional.
	HostsScripts() bool

	// Dispose releases the surface and its native resources.
	Dispose()
}
