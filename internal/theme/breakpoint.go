package theme

import "moneyviz/internal/chartopts"

// Breakpoint is a responsive tier derived from viewport width.
type Breakpoint int

const (
	Mobile Breakpoint = iota
	Tablet
	Desktop
)

// Width thresholds in CSS pixels.
const (
	MobileMaxWidth = 640
	TabletMaxWidth = 1024
)

func (b Breakpoint) String() string {
	switch b {
	case Mobile:
		return "mobile"
	case Tablet:
		return "tablet"
	default:
		return "desktop"
	}
}

// BreakpointFor maps a viewport width to its tier.
func BreakpointFor(width int) Breakpoint {
	switch {
	case width < MobileMaxWidth:
		return Mobile
	case width < TabletMaxWidth:
		return Tablet
	default:
		return Desktop
	}
}

// FontSizes returns the base and title font size for b.
func FontSizes(b Breakpoint) (base, title int) {
	switch b {
	case Mobile:
		return 10, 11
	case Tablet:
		return 11, 12
	default:
		return 12, 14
	}
}

// ApplyBreakpoint adjusts legend placement and font sizes in place. On
// mobile the legend moves to the bottom; elsewhere it returns to
// originalLegend, or top when that is empty.
func ApplyBreakpoint(o chartopts.Options, b Breakpoint, originalLegend string) {
	if legend, ok := section(o, "plugins.legend"); ok {
		switch {
		case b == Mobile:
			legend["position"] = "bottom"
		case originalLegend != "":
			legend["position"] = originalLegend
		default:
			legend["position"] = "top"
		}
	}

	base, title := FontSizes(b)

	if font, ok := section(o, "plugins.legend.labels.font"); ok {
		font["size"] = base
	}
	if tooltip, ok := section(o, "plugins.tooltip"); ok {
		setFontSize(tooltip, "bodyFont", base)
		setFontSize(tooltip, "titleFont", title)
	}
	if scales, ok := section(o, "scales"); ok {
		for _, s := range scales {
			scale, ok := asOptions(s)
			if !ok {
				continue
			}
			if ticks, ok := asOptions(scale["ticks"]); ok {
				if font, ok := asOptions(ticks["font"]); ok {
					font["size"] = base
				}
			}
		}
	}
}

func setFontSize(parent chartopts.Options, key string, size int) {
	font, ok := asOptions(parent[key])
	if !ok {
		font = chartopts.Options{}
		parent[key] = font
	}
	font["size"] = size
}

// ResponsiveConfig returns the aspect settings for a viewport width.
func ResponsiveConfig(width int) chartopts.Options {
	switch BreakpointFor(width) {
	case Mobile:
		return chartopts.Options{"maintainAspectRatio": true, "aspectRatio": 1.5}
	case Tablet:
		return chartopts.Options{"maintainAspectRatio": false, "aspectRatio": 2}
	default:
		return chartopts.Options{"maintainAspectRatio": false}
	}
}
