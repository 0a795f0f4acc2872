package charts

import (
	"fmt"
	"strconv"

	"moneyviz/internal/chartopts"
)

// Config is the flat, top-level merged configuration a chart is built from.
// It mixes engine options (plugins, scales, ...) with variant flags such as
// donut or stacked; EngineOptions separates the two.
type Config chartopts.Options

// keys read by the variants or the driver and never sent to an engine
var controlKeys = map[string]bool{
	"id": true, "type": true, "container": true, "data": true, "title": true, "height": true,
	// pie
	"donut": true, "showPercentage": true, "showCenter": true, "centerText": true,
	"showValue": true, "tooltipFormat": true,
	// bar
	"horizontal": true, "stacked": true, "grouped": true, "showValues": true,
	"barThickness": true, "valueFormat": true, "yAxisFormat": true,
	"showGrowthRate": true, "showLegend": true,
	// line
	"showArea": true, "showPoints": true, "smooth": true, "showTrendLine": true,
	"showMovingAverage": true, "movingAveragePeriod": true,
	// gauge
	"value": true, "min": true, "max": true, "label": true, "suffix": true,
	"thresholds": true, "showNeedle": true,
	// radar
	"dimensions": true, "fill": true, "maxValue": true, "stepSize": true,
	// heatmap
	"colorScale": true, "xLabels": true, "yLabels": true,
	"cellBorderWidth": true, "cellBorderColor": true,
	// sankey
	"nodeWidth": true, "nodePadding": true, "linkOpacity": true, "highlightOpacity": true,
}

// ID returns the chart identifier, or "".
func (c Config) ID() string { return c.String("id", "") }

// Data returns the initial data, if any.
func (c Config) Data() any { return c["data"] }

// EngineOptions returns a copy of c without id, data and variant flags.
func (c Config) EngineOptions() chartopts.Options {
	out := make(chartopts.Options, len(c))
	for k, v := range c {
		if controlKeys[k] {
			continue
		}
		out[k] = v
	}
	return chartopts.Clone(out)
}

// Has reports whether key is set.
func (c Config) Has(key string) bool {
	_, ok := c[key]
	return ok
}

// Bool reads a flag; missing or non-bool values yield def.
func (c Config) Bool(key string, def bool) bool {
	if b, ok := c[key].(bool); ok {
		return b
	}
	return def
}

// String reads a string; missing or empty values yield def.
func (c Config) String(key, def string) string {
	switch v := c[key].(type) {
	case string:
		if v != "" {
			return v
		}
	case fmt.Stringer:
		return v.String()
	}
	return def
}

// Float reads a number; missing, zero or unparsable values yield def.
func (c Config) Float(key string, def float64) float64 {
	if f, ok := toFloat(c[key]); ok && f != 0 {
		return f
	}
	return def
}

// Int reads an integer; missing, zero or unparsable values yield def.
func (c Config) Int(key string, def int) int {
	if f, ok := toFloat(c[key]); ok && f != 0 {
		return int(f)
	}
	return def
}

// Strings reads a string list.
func (c Config) Strings(key string) []string {
	switch v := c[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, s := range v {
			out = append(out, fmt.Sprint(s))
		}
		return out
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
