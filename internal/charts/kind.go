package charts

import (
	"errors"
	"strings"
)

// Kind is one of the closed set of chart variants.
type Kind string

const (
	Bar     Kind = "bar"
	Line    Kind = "line"
	Pie     Kind = "pie"
	Radar   Kind = "radar"
	Gauge   Kind = "gauge"
	Heatmap Kind = "heatmap"
	Sankey  Kind = "sankey"
)

// ErrUnknownKind is returned by ParseKind callers that need an error value.
var ErrUnknownKind = errors.New("unknown chart kind")

var kinds = []Kind{Bar, Line, Pie, Radar, Gauge, Heatmap, Sankey}

// Kinds returns every supported kind in a stable order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ParseKind accepts kind names in any case. "doughnut" is a pie.
func ParseKind(s string) (Kind, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "doughnut" {
		return Pie, true
	}
	for _, k := range kinds {
		if string(k) == name {
			return k, true
		}
	}
	return "", false
}

func (k Kind) String() string { return string(k) }

// EngineKind names the browser engine that paints a variant.
type EngineKind string

const (
	ChartJS EngineKind = "chartjs"
	ECharts EngineKind = "echarts"
)
