package chart

// LoadState tracks document readiness for one chart instance.
//
// The machine has a single allowed transition, Unloaded to Loaded, triggered
// by the surface's ready signal. It returns to Unloaded only as part of a
// full rebuild. The placeholder is shown exactly while the state is Unloaded.
type LoadState int

const (
	// LoadStateUnloaded means no document has finished loading; the native
	// surface is hidden and the placeholder shows.
	LoadStateUnloaded LoadState = iota

	// LoadStateLoaded means the current document reported ready and the
	// chart surface is visible.
	LoadStateLoaded
)

func (s LoadState) String() string {
	switch s {
	case LoadStateLoaded:
		return "loaded"
	default:
		return "unloaded"
	}
}
