package charts

import (
	"fmt"

	"moneyviz/internal/chartopts"
	"moneyviz/internal/engine"
	"moneyviz/internal/format"
	"moneyviz/internal/palette"
)

// DefaultCenterText is shown under the total of a doughnut.
const DefaultCenterText = "总计"

// PieRenderer draws pies and doughnuts with percentage legends.
type PieRenderer struct {
	cfg            Config
	palette        *palette.Palette
	donut          bool
	showPercentage bool
	total          float64
}

func NewPie(cfg Config, p *palette.Palette) *PieRenderer {
	return &PieRenderer{
		cfg:            cfg,
		palette:        orDefault(p),
		donut:          cfg.Bool("donut", false),
		showPercentage: cfg.Bool("showPercentage", true),
	}
}

func (p *PieRenderer) Kind() Kind         { return Pie }
func (p *PieRenderer) Engine() EngineKind { return ChartJS }

func (p *PieRenderer) ChartType() string {
	if p.donut {
		return "doughnut"
	}
	return "pie"
}

func (p *PieRenderer) PrepareData(raw any) (any, error) {
	var d engine.Data
	if cd, ok := isChartData(raw); ok {
		d = p.enhance(cd)
	} else {
		switch v := raw.(type) {
		case []format.Item:
			d = format.PreparePieData(v)
		case nil:
			return nil, nil
		default:
			return nil, fmt.Errorf("unsupported pie data %T", raw)
		}
	}
	p.total = 0
	for _, v := range d.Values() {
		p.total += v
	}
	return d, nil
}

func (p *PieRenderer) enhance(d engine.Data) engine.Data {
	if len(d.Datasets) == 0 {
		return d
	}
	ds := &d.Datasets[0]
	if ds.Style == nil {
		ds.Style = chartopts.Options{}
	}
	if _, ok := ds.Style["backgroundColor"]; !ok {
		ds.Style["backgroundColor"] = p.palette.Colors(len(d.Labels), palette.Primary)
	}
	ds.Style["borderWidth"] = 2
	ds.Style["borderColor"] = "#fff"
	ds.Style["hoverBorderWidth"] = 3
	ds.Style["hoverOffset"] = 10
	return d
}

// Total is the sum of the last prepared values.
func (p *PieRenderer) Total() float64 { return p.total }

func (p *PieRenderer) Options(o chartopts.Options) chartopts.Options {
	if p.donut {
		o["cutout"] = "60%"
	} else {
		o["cutout"] = 0
	}

	labels := chartopts.Map(o, "plugins.legend.labels")
	labels["generateLabels"] = chartopts.FmtPieLegend
	labels["padding"] = 15
	labels["usePointStyle"] = true
	labels["pointStyle"] = "circle"
	chartopts.Map(o, "plugins.legend")["position"] = "right"
	chartopts.Map(o, "plugins.tooltip.callbacks")["label"] = chartopts.FmtPieTooltip

	// read by the legend and tooltip formatters in the browser
	chartopts.Set(o, "plugins.moneyviz", chartopts.Options{
		"showPercentage": p.showPercentage,
		"showValue":      p.cfg.Bool("showValue", false),
		"tooltipFormat":  p.cfg.String("tooltipFormat", "simple"),
	})

	if p.donut && p.cfg.Bool("showCenter", false) {
		chartopts.Set(o, "plugins.centerText", chartopts.Options{
			"display": true,
			"text":    p.cfg.String("centerText", DefaultCenterText),
			"value":   format.FormatCurrency(p.total),
		})
	}
	return o
}

// Percentages returns each value's share of the total with one decimal, the
// way the legend shows it. A zero total yields zeros.
func Percentages(values []float64) []string {
	total := 0.0
	for _, v := range values {
		total += v
	}
	out := make([]string, len(values))
	for i, v := range values {
		if total > 0 {
			out[i] = fmt.Sprintf("%.1f%%", v/total*100)
		} else {
			out[i] = "0%"
		}
	}
	return out
}
