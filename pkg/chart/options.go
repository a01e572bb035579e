package chart

import (
	"slices"

	"github.com/go-drift/chartview/pkg/platform"
)

// Options is the host-facing configuration of one chart.
type Options struct {
	// Spec is the serialized chart option object understood by the charting
	// library. It is passed through verbatim: this package performs no
	// validation, and library-side parse or runtime errors surface only
	// asynchronously over the error channel.
	Spec string

	// Size is the display area allocated to the chart. It is copied into the
	// embedded layout on every rebuild.
	Size platform.Size

	// Scripts lists the charting library script URLs in dependency order;
	// later scripts may depend on earlier ones. Required on app-embedded
	// surfaces, optional on hosted surfaces.
	Scripts []string
}

// equal reports field-wise equality. The update trigger rebuilds the
// document whenever any field differs.
func (o Options) equal(other Options) bool {
	return o.Spec == other.Spec &&
		o.Size == other.Size &&
		slices.Equal(o.Scripts, other.Scripts)
}
