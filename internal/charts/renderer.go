package charts

import (
	"fmt"

	"moneyviz/internal/chartopts"
	"moneyviz/internal/engine"
	"moneyviz/internal/palette"
)

// Renderer is what distinguishes one chart variant from another: the data
// conversion and the variant-specific options.
type Renderer interface {
	Kind() Kind
	Engine() EngineKind
	// ChartType is the engine's own chart type name, e.g. "doughnut".
	ChartType() string
	// PrepareData converts raw input to the engine's data shape:
	// engine.Data for Chart.js, an engine.EChart for ECharts.
	PrepareData(raw any) (any, error)
	// Options derives the final option tree from the merged defaults.
	// base is a private copy and may be modified.
	Options(base chartopts.Options) chartopts.Options
}

// Row is one exported label/value pair.
type Row struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// tabular is implemented by prepared data that is not engine.Data.
type tabular interface {
	Rows() []Row
}

type emptier interface {
	Empty() bool
}

// NewRenderer builds the renderer for kind from cfg.
func NewRenderer(kind Kind, cfg Config, p *palette.Palette) (Renderer, error) {
	p = orDefault(p)
	switch kind {
	case Bar:
		return NewBar(cfg, p), nil
	case Line:
		return NewLine(cfg, p), nil
	case Pie:
		return NewPie(cfg, p), nil
	case Radar:
		return NewRadar(cfg, p), nil
	case Gauge:
		return NewGauge(cfg), nil
	case Heatmap:
		return NewHeatmap(cfg), nil
	case Sankey:
		return NewSankey(cfg, p), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// orDefault substitutes the default scheme for a nil palette.
func orDefault(p *palette.Palette) *palette.Palette {
	if p == nil {
		return palette.New(palette.DefaultScheme)
	}
	return p
}

// RowsOf flattens prepared chart data into export rows: labels against the
// first dataset for Chart.js data, cells or links for ECharts data.
func RowsOf(prepared any) []Row {
	switch d := prepared.(type) {
	case engine.Data:
		values := d.Values()
		rows := make([]Row, 0, len(d.Labels))
		for i, l := range d.Labels {
			var v float64
			if i < len(values) {
				v = values[i]
			}
			rows = append(rows, Row{Label: l, Value: v})
		}
		if len(d.Labels) == 0 {
			for i, v := range values {
				rows = append(rows, Row{Label: fmt.Sprintf("%d", i+1), Value: v})
			}
		}
		return rows
	case tabular:
		return d.Rows()
	}
	return nil
}

func isEmpty(prepared any) bool {
	switch d := prepared.(type) {
	case nil:
		return true
	case engine.Data:
		return d.Empty()
	case emptier:
		return d.Empty()
	}
	return false
}

// isChartData reports whether raw is already engine data, which the
// Chart.js variants only enhance.
func isChartData(raw any) (engine.Data, bool) {
	switch d := raw.(type) {
	case engine.Data:
		return d.Clone(), true
	case *engine.Data:
		if d != nil {
			return d.Clone(), true
		}
	}
	return engine.Data{}, false
}
