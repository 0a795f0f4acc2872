package charts

import (
	"fmt"

	"moneyviz/internal/chartopts"
	"moneyviz/internal/engine"
	"moneyviz/internal/format"
	"moneyviz/internal/palette"
)

// Comparison is bar input with one dataset per series over shared labels.
type Comparison struct {
	Labels []string        `json:"labels"`
	Series []format.Series `json:"series"`
}

// BarRenderer draws vertical or horizontal, grouped or stacked bars.
type BarRenderer struct {
	cfg        Config
	palette    *palette.Palette
	horizontal bool
	stacked    bool
	grouped    bool
	showValues bool
}

func NewBar(cfg Config, p *palette.Palette) *BarRenderer {
	return &BarRenderer{
		cfg:        cfg,
		palette:    orDefault(p),
		horizontal: cfg.Bool("horizontal", false),
		stacked:    cfg.Bool("stacked", false),
		grouped:    cfg.Bool("grouped", true),
		showValues: cfg.Bool("showValues", false),
	}
}

func (b *BarRenderer) Kind() Kind         { return Bar }
func (b *BarRenderer) Engine() EngineKind { return ChartJS }
func (b *BarRenderer) ChartType() string  { return "bar" }

func (b *BarRenderer) PrepareData(raw any) (any, error) {
	if d, ok := isChartData(raw); ok {
		return b.enhance(d), nil
	}
	switch v := raw.(type) {
	case Comparison:
		return b.comparison(v), nil
	case []format.Item:
		return format.PrepareBarData(v), nil
	case format.BarInput:
		return format.PrepareBarInput(v), nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("unsupported bar data %T", raw)
}

func (b *BarRenderer) enhance(d engine.Data) engine.Data {
	for i := range d.Datasets {
		ds := &d.Datasets[i]
		if ds.Style == nil {
			ds.Style = chartopts.Options{}
		}
		color, _ := ds.Style["backgroundColor"].(string)
		if color == "" {
			color = b.palette.Color(i, palette.Primary)
			ds.Style["backgroundColor"] = color
		}
		if _, ok := ds.Style["borderColor"]; !ok {
			ds.Style["borderColor"] = color
		}
		if _, ok := ds.Style["borderWidth"]; !ok {
			ds.Style["borderWidth"] = 1
		}
		ds.Style["borderRadius"] = 4
		ds.Style["hoverBackgroundColor"] = b.palette.ColorWithAlpha(i, 0.8, palette.Primary)
		ds.Style["maxBarThickness"] = 60
		ds.Style["categoryPercentage"] = 0.8
		if b.grouped {
			ds.Style["barPercentage"] = 0.8
		} else {
			ds.Style["barPercentage"] = 1
		}
		if t := b.cfg.Int("barThickness", 0); t > 0 {
			ds.Style["barThickness"] = t
		}
	}
	return d
}

func (b *BarRenderer) comparison(in Comparison) engine.Data {
	colors := b.palette.ChartColors(palette.Comparison, len(in.Series))
	ds := make([]engine.Dataset, len(in.Series))
	for i, s := range in.Series {
		values := s.Values
		if values == nil {
			values = s.Data
		}
		ds[i] = engine.Dataset{
			Label: s.Name,
			Data:  values,
			Style: chartopts.Options{
				"backgroundColor": colors[i],
				"borderColor":     colors[i],
				"borderWidth":     1,
				"borderRadius":    4,
			},
		}
	}
	return engine.Data{Labels: in.Labels, Datasets: ds}
}

func (b *BarRenderer) Options(o chartopts.Options) chartopts.Options {
	if b.horizontal {
		o["indexAxis"] = "y"
	} else {
		o["indexAxis"] = "x"
	}

	legend := chartopts.Map(o, "plugins.legend")
	if b.cfg.Bool("showLegend", false) {
		legend["display"] = true
	}

	valueTick := chartopts.FmtCurrencyTick
	if b.cfg.String("yAxisFormat", "") == "percentage" {
		valueTick = chartopts.FmtPercentTick
	}

	x := chartopts.Map(o, "scales.x")
	y := chartopts.Map(o, "scales.y")
	x["stacked"] = b.stacked
	y["stacked"] = b.stacked
	y["beginAtZero"] = true
	chartopts.Map(x, "grid")["display"] = b.horizontal
	chartopts.Map(y, "grid")["display"] = !b.horizontal

	xTicks := chartopts.Map(x, "ticks")
	xTicks["autoSkip"] = true
	xTicks["maxRotation"] = 45
	xTicks["minRotation"] = 0
	yTicks := chartopts.Map(y, "ticks")
	if b.horizontal {
		xTicks["callback"] = valueTick
		delete(yTicks, "callback")
	} else {
		yTicks["callback"] = valueTick
		delete(xTicks, "callback")
	}

	if b.showValues {
		formatter := chartopts.FmtValueLabel
		if b.cfg.String("valueFormat", "") == "percentage" {
			formatter = chartopts.FmtPercentTick
		}
		chartopts.Set(o, "plugins.datalabels", chartopts.Options{
			"anchor":    "end",
			"align":     "end",
			"offset":    4,
			"font":      chartopts.Options{"size": 10, "weight": "bold"},
			"formatter": formatter,
		})
	} else {
		chartopts.Set(o, "plugins.datalabels", false)
	}
	return o
}
