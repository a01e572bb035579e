// Package document builds the HTML documents that host an embedded chart.
//
// Building is a pure string transformation: no rendering surface is involved
// and no input is validated. Malformed script URLs or chart specs surface
// only as downstream load or script failures, reported over the error bridge
// channel after the fact.
package document

import (
	"html"
	"strconv"
	"strings"
)

// Defaults applied by Build when the corresponding Options field is empty.
const (
	// DefaultMountID is the identifier of the chart mount element.
	DefaultMountID = "chart"

	// DefaultErrorChannel is the bridge channel carrying script errors.
	DefaultErrorChannel = "chartError"

	// DefaultEventChannel is the bridge channel carrying user events.
	DefaultEventChannel = "chartEvent"
)

// Options describes one chart document.
type Options struct {
	// Spec is the serialized chart option object, embedded verbatim into the
	// entry-point call. It is never parsed or validated on this side.
	Spec string

	// Scripts lists the script URLs to include, in order. Order matters:
	// later scripts may depend on earlier ones.
	Scripts []string

	// MountID identifies the mount element. Empty means DefaultMountID.
	MountID string

	// Width and Height size the mount element, in logical pixels.
	Width  float64
	Height float64

	// ErrorChannel and EventChannel name the bridge channels the document
	// posts to. Empty means the defaults.
	ErrorChannel string
	EventChannel string
}

func (o Options) withDefaults() Options {
	if o.MountID == "" {
		o.MountID = DefaultMountID
	}
	if o.ErrorChannel == "" {
		o.ErrorChannel = DefaultErrorChannel
	}
	if o.EventChannel == "" {
		o.EventChannel = DefaultEventChannel
	}
	return o
}

// Build produces the complete document for an app-embedded surface: fixed
// skeleton, inline bootstrap script, mount element, one inclusion tag per
// script in listed order, then the entry-point definition embedding the
// chart spec.
func Build(opts Options) string {
	o := opts.withDefaults()

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	sb.WriteString(`<meta charset="utf-8">` + "\n")
	sb.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1.0, maximum-scale=1.0, user-scalable=no">` + "\n")
	sb.WriteString("<style>html, body { margin: 0; padding: 0; }</style>\n")
	writeInlineScript(&sb, Bootstrap(o.ErrorChannel))
	sb.WriteString("</head>\n<body>\n")
	writeMount(&sb, o)
	writeScriptTags(&sb, o.Scripts)
	writeInlineScript(&sb, entryScript(o))
	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

// BuildFragment produces the hosted-surface variant: no document skeleton,
// just the bootstrap script, the mount element, any caller-supplied script
// tags, and the entry-point definition. The static host document provides
// the charting library scripts, so Scripts is usually empty here.
func BuildFragment(opts Options) string {
	o := opts.withDefaults()

	var sb strings.Builder
	writeInlineScript(&sb, Bootstrap(o.ErrorChannel))
	writeMount(&sb, o)
	writeScriptTags(&sb, o.Scripts)
	writeInlineScript(&sb, entryScript(o))
	return sb.String()
}

func writeMount(sb *strings.Builder, o Options) {
	sb.WriteString(`<div id="`)
	sb.WriteString(html.EscapeString(o.MountID))
	sb.WriteString(`" style="width:`)
	sb.WriteString(formatPx(o.Width))
	sb.WriteString(";height:")
	sb.WriteString(formatPx(o.Height))
	sb.WriteString(`;"></div>` + "\n")
}

func writeScriptTags(sb *strings.Builder, scripts []string) {
	for _, src := range scripts {
		sb.WriteString(`<script src="`)
		sb.WriteString(html.EscapeString(src))
		sb.WriteString(`"></script>` + "\n")
	}
}

func writeInlineScript(sb *strings.Builder, body string) {
	sb.WriteString("<script>\n")
	sb.WriteString(body)
	sb.WriteString("\n</script>\n")
}

func formatPx(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
