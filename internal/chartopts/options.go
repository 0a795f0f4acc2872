// Package chartopts holds the layered chart option tables and the merge rules
// that combine them: global defaults, per-type defaults and caller overrides.
package chartopts

import "strings"

// Options is an engine option tree. Nested objects are Options or
// map[string]any; both are treated alike by the merge helpers.
type Options map[string]any

// Formatter hooks. The browser bootstrap swaps these string markers for the
// matching callback before handing options to the engine.
const (
	FmtCurrencyLabel = "fmt:currencyLabel"
	FmtCurrencyTick  = "fmt:currencyTick"
	FmtPercentTick   = "fmt:percentTick"
	FmtPieLegend     = "fmt:pieLegend"
	FmtPieTooltip    = "fmt:pieTooltip"
	FmtValueLabel    = "fmt:valueLabel"
)

// FontFamily is the font stack used by every chart.
const FontFamily = "'Microsoft YaHei', 'Arial', sans-serif"

var global = Options{
	"responsive":          true,
	"maintainAspectRatio": false,
	"animation": Options{
		"duration": 750,
		"easing":   "easeInOutQuart",
	},
	"plugins": Options{
		"legend": Options{
			"position": "top",
			"labels": Options{
				"padding":       15,
				"font":          Options{"size": 12, "family": FontFamily},
				"usePointStyle": true,
			},
		},
		"tooltip": Options{
			"backgroundColor": "rgba(0, 0, 0, 0.8)",
			"titleFont":       Options{"size": 14, "family": FontFamily},
			"bodyFont":        Options{"size": 13, "family": FontFamily},
			"padding":         12,
			"cornerRadius":    6,
			"displayColors":   true,
			"callbacks":       Options{"label": FmtCurrencyLabel},
		},
	},
}

func cartesianScales() Options {
	return Options{
		"x": Options{
			"grid":  Options{"display": false},
			"ticks": Options{"font": Options{"size": 11}},
		},
		"y": Options{
			"beginAtZero": true,
			"grid":        Options{"color": "rgba(0, 0, 0, 0.05)"},
			"ticks": Options{
				"font":     Options{"size": 11},
				"callback": FmtCurrencyTick,
			},
		},
	}
}

var perType = map[string]Options{
	"pie": {
		"plugins": Options{
			"legend": Options{
				"position": "right",
				"labels":   Options{"generateLabels": FmtPieLegend},
			},
			"tooltip": Options{
				"callbacks": Options{"label": FmtPieTooltip},
			},
		},
	},
	"line": {
		"scales":  cartesianScales(),
		"plugins": Options{"legend": Options{"display": true}},
		"elements": Options{
			"line": Options{"tension": 0.3, "borderWidth": 2},
			"point": Options{
				"radius":          3,
				"hoverRadius":     5,
				"backgroundColor": "#fff",
				"borderWidth":     2,
			},
		},
	},
	"bar": {
		"scales":             cartesianScales(),
		"plugins":            Options{"legend": Options{"display": false}},
		"barPercentage":      0.7,
		"categoryPercentage": 0.8,
	},
	"gauge": {
		"type":          "doughnut",
		"circumference": 180,
		"rotation":      270,
		"cutout":        "75%",
		"plugins": Options{
			"legend":  Options{"display": false},
			"tooltip": Options{"enabled": false},
		},
	},
	"radar": {
		"scales": Options{
			"r": Options{
				"beginAtZero": true,
				"grid":        Options{"color": "rgba(0, 0, 0, 0.1)"},
				"pointLabels": Options{"font": Options{"size": 12}},
				"ticks": Options{
					"font":     Options{"size": 10},
					"stepSize": 20,
					"callback": FmtPercentTick,
				},
			},
		},
		"elements": Options{
			"line":  Options{"borderWidth": 2},
			"point": Options{"radius": 3, "hoverRadius": 5},
		},
	},
}

var colorSchemes = map[string][]string{
	"default": {
		"#3b82f6", "#ef4444", "#10b981", "#f59e0b", "#8b5cf6",
		"#ec4899", "#06b6d4", "#84cc16", "#f97316", "#6366f1",
	},
	"financial": {
		"#2563eb", "#dc2626", "#16a34a", "#ca8a04", "#7c3aed",
		"#db2777", "#0891b2", "#65a30d", "#ea580c", "#4f46e5",
	},
	"monochrome": {
		"#1f2937", "#374151", "#4b5563", "#6b7280", "#9ca3af",
		"#d1d5db", "#e5e7eb", "#f3f4f6", "#f9fafb", "#ffffff",
	},
}

// Global returns a private copy of the global defaults.
func Global() Options {
	return Clone(global)
}

// TypeDefaults returns a private copy of the defaults for kind, or nil when
// the kind has none (heatmap, sankey, unknown names).
func TypeDefaults(kind string) Options {
	d, ok := perType[strings.ToLower(kind)]
	if !ok {
		return nil
	}
	return Clone(d)
}

// ColorScheme returns a copy of the named scheme, falling back to default.
func ColorScheme(name string) []string {
	s, ok := colorSchemes[name]
	if !ok {
		s = colorSchemes["default"]
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// DefaultColor returns the i-th default scheme color, cycling.
func DefaultColor(i int) string {
	s := colorSchemes["default"]
	if i < 0 {
		i = -i
	}
	return s[i%len(s)]
}

// GetConfig layers global defaults, the defaults for kind and override.
// Override values win at every depth; none of the inputs are modified.
func GetConfig(kind string, override Options) Options {
	return DeepMerge(DeepMerge(global, perType[strings.ToLower(kind)]), override)
}
