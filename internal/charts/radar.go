package charts

import (
	"fmt"

	"moneyviz/internal/chartopts"
	"moneyviz/internal/engine"
	"moneyviz/internal/format"
	"moneyviz/internal/palette"
)

// CurrentValueLabel labels a radar built from a bare value list.
const CurrentValueLabel = "当前值"

// RadarRenderer draws one polygon per series over shared dimensions.
type RadarRenderer struct {
	cfg        Config
	palette    *palette.Palette
	showPoints bool
	fill       bool
}

func NewRadar(cfg Config, p *palette.Palette) *RadarRenderer {
	return &RadarRenderer{
		cfg:        cfg,
		palette:    orDefault(p),
		showPoints: cfg.Bool("showPoints", true),
		fill:       cfg.Bool("fill", true),
	}
}

func (r *RadarRenderer) Kind() Kind         { return Radar }
func (r *RadarRenderer) Engine() EngineKind { return ChartJS }
func (r *RadarRenderer) ChartType() string  { return "radar" }

func (r *RadarRenderer) PrepareData(raw any) (any, error) {
	if d, ok := isChartData(raw); ok {
		return r.enhance(d), nil
	}
	switch v := raw.(type) {
	case format.RadarInput:
		if len(v.Dimensions) == 0 {
			v.Dimensions = r.cfg.Strings("dimensions")
		}
		return r.enhance(format.PrepareRadarData(v)), nil
	case []float64:
		return engine.Data{
			Labels: r.cfg.Strings("dimensions"),
			Datasets: []engine.Dataset{{
				Label: CurrentValueLabel,
				Data:  v,
				Style: chartopts.Options{
					"borderColor":     r.palette.Color(0, palette.Primary),
					"backgroundColor": r.palette.ColorWithAlpha(0, 0.2, palette.Primary),
				},
			}},
		}, nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("unsupported radar data %T", raw)
}

func (r *RadarRenderer) enhance(d engine.Data) engine.Data {
	for i := range d.Datasets {
		ds := &d.Datasets[i]
		if ds.Style == nil {
			ds.Style = chartopts.Options{}
		}
		color, _ := ds.Style["borderColor"].(string)
		if color == "" {
			color = r.palette.Color(i, palette.Primary)
		}
		ds.Style["borderColor"] = color
		if !r.fill {
			ds.Style["backgroundColor"] = "transparent"
		} else if _, ok := ds.Style["backgroundColor"]; !ok {
			ds.Style["backgroundColor"] = r.palette.ColorWithAlpha(i, 0.2, palette.Primary)
		}
		if _, ok := ds.Style["borderWidth"]; !ok {
			ds.Style["borderWidth"] = 2
		}
		if r.showPoints {
			ds.Style["pointRadius"] = 4
		} else {
			ds.Style["pointRadius"] = 0
		}
		ds.Style["pointHoverRadius"] = 6
		ds.Style["pointBackgroundColor"] = color
		ds.Style["pointBorderColor"] = "#fff"
		ds.Style["pointBorderWidth"] = 2
	}
	return d
}

func (r *RadarRenderer) Options(o chartopts.Options) chartopts.Options {
	scale := chartopts.Map(o, "scales.r")
	scale["beginAtZero"] = true
	scale["max"] = r.cfg.Float("maxValue", 100)
	chartopts.Map(scale, "ticks")["stepSize"] = r.cfg.Float("stepSize", 20)
	chartopts.Map(scale, "angleLines")["color"] = "rgba(0, 0, 0, 0.1)"
	return o
}
