// Package theme resolves light/dark colors and responsive breakpoints and
// applies them to chart option trees.
package theme

import (
	"strings"

	"moneyviz/internal/chartopts"
)

// Mode is the process-wide color mode.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// ParseMode accepts "light" or "dark" in any case.
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	default:
		return Light, false
	}
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

func (m Mode) String() string { return string(m) }

// Colors are the themed colors a chart reads.
type Colors struct {
	Text              string `json:"textColor"`
	Grid              string `json:"gridColor"`
	Background        string `json:"backgroundColor"`
	Border            string `json:"borderColor"`
	TooltipBackground string `json:"tooltipBackground"`
	TooltipText       string `json:"tooltipText"`
}

var palettes = map[Mode]Colors{
	Light: {
		Text:              "#374151",
		Grid:              "rgba(0, 0, 0, 0.05)",
		Background:        "#ffffff",
		Border:            "#e5e7eb",
		TooltipBackground: "rgba(0, 0, 0, 0.8)",
		TooltipText:       "#ffffff",
	},
	Dark: {
		Text:              "#e5e7eb",
		Grid:              "rgba(255, 255, 255, 0.1)",
		Background:        "#1f2937",
		Border:            "#374151",
		TooltipBackground: "rgba(255, 255, 255, 0.9)",
		TooltipText:       "#1f2937",
	},
}

// ColorsFor returns the colors of m; unknown modes get the light colors.
func ColorsFor(m Mode) Colors {
	if c, ok := palettes[m]; ok {
		return c
	}
	return palettes[Light]
}

// Apply recolors a Chart.js option tree in place. Only sections already
// present are touched: legend labels, every scale, and the tooltip.
func Apply(o chartopts.Options, m Mode) {
	c := ColorsFor(m)

	if labels, ok := section(o, "plugins.legend.labels"); ok {
		labels["color"] = c.Text
	}

	if scales, ok := section(o, "scales"); ok {
		for _, s := range scales {
			scale, ok := asOptions(s)
			if !ok {
				continue
			}
			if ticks, ok := asOptions(scale["ticks"]); ok {
				ticks["color"] = c.Text
			}
			if grid, ok := asOptions(scale["grid"]); ok {
				grid["color"] = c.Grid
				grid["borderColor"] = c.Border
			}
			if title, ok := asOptions(scale["title"]); ok {
				title["color"] = c.Text
			}
		}
	}

	if tooltip, ok := section(o, "plugins.tooltip"); ok {
		tooltip["backgroundColor"] = c.TooltipBackground
		tooltip["titleColor"] = c.TooltipText
		tooltip["bodyColor"] = c.TooltipText
	}
}

// ApplyECharts recolors an ECharts option tree in place.
func ApplyECharts(o chartopts.Options, m Mode) {
	c := ColorsFor(m)
	chartopts.Set(o, "textStyle.color", c.Text)
	chartopts.Set(o, "legend.textStyle.color", c.Text)
	chartopts.Set(o, "tooltip.backgroundColor", c.TooltipBackground)
	chartopts.Set(o, "tooltip.textStyle.color", c.TooltipText)
}

func section(o chartopts.Options, path string) (chartopts.Options, bool) {
	v, ok := chartopts.Lookup(o, path)
	if !ok {
		return nil, false
	}
	return asOptions(v)
}

func asOptions(v any) (chartopts.Options, bool) {
	switch t := v.(type) {
	case chartopts.Options:
		return t, t != nil
	case map[string]any:
		return chartopts.Options(t), t != nil
	default:
		return nil, false
	}
}
