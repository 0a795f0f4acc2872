package charts

import (
	"errors"
	"fmt"
	"math"

	"moneyviz/internal/chartopts"
	"moneyviz/internal/engine"
)

// EmptySegmentColor fills the unreached part of a gauge.
const EmptySegmentColor = "#e5e7eb"

// Threshold ends a gauge segment at Value, a fraction of the range.
type Threshold struct {
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// DefaultThresholds color the lower 30% red, up to 70% amber, the rest green.
func DefaultThresholds() []Threshold {
	return []Threshold{
		{Value: 0.3, Color: "#ef4444"},
		{Value: 0.7, Color: "#f59e0b"},
		{Value: 1, Color: "#10b981"},
	}
}

// GaugeInput replaces the gauge reading on render or update.
type GaugeInput struct {
	Value float64 `json:"value"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Label string  `json:"label,omitempty"`
}

// GaugeRenderer draws a half doughnut filled up to the current reading.
type GaugeRenderer struct {
	cfg        Config
	value      float64
	min        float64
	max        float64
	label      string
	suffix     string
	thresholds []Threshold
}

func NewGauge(cfg Config) *GaugeRenderer {
	return &GaugeRenderer{
		cfg:        cfg,
		value:      cfg.Float("value", 0),
		min:        cfg.Float("min", 0),
		max:        cfg.Float("max", 100),
		label:      cfg.String("label", ""),
		suffix:     cfg.String("suffix", "%"),
		thresholds: thresholdsFrom(cfg["thresholds"]),
	}
}

func thresholdsFrom(v any) []Threshold {
	switch t := v.(type) {
	case []Threshold:
		if len(t) > 0 {
			return t
		}
	case []any:
		var out []Threshold
		for _, item := range t {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			c := Config(m)
			out = append(out, Threshold{Value: c.Float("value", 0), Color: c.String("color", EmptySegmentColor)})
		}
		if len(out) > 0 {
			return out
		}
	}
	return DefaultThresholds()
}

func (g *GaugeRenderer) Kind() Kind         { return Gauge }
func (g *GaugeRenderer) Engine() EngineKind { return ChartJS }
func (g *GaugeRenderer) ChartType() string  { return "doughnut" }

// PrepareData accepts a bare reading, a GaugeInput, or nil to keep the
// configured reading.
func (g *GaugeRenderer) PrepareData(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
	case GaugeInput:
		g.value = v.Value
		if v.Max != v.Min {
			g.min, g.max = v.Min, v.Max
		}
		if v.Label != "" {
			g.label = v.Label
		}
	default:
		f, ok := toFloat(raw)
		if !ok {
			return nil, fmt.Errorf("unsupported gauge data %T", raw)
		}
		g.value = f
	}
	if g.max == g.min {
		return nil, errors.New("gauge range is empty")
	}

	values, colors := Segments(g.Fraction(), g.thresholds)
	return engine.Data{
		Datasets: []engine.Dataset{{
			Data: values,
			Style: chartopts.Options{
				"backgroundColor": colors,
				"borderWidth":     0,
				"circumference":   180,
				"rotation":        270,
			},
		}},
	}, nil
}

// Fraction is the reading's position within [min, max].
func (g *GaugeRenderer) Fraction() float64 {
	return (g.value - g.min) / (g.max - g.min)
}

// Display is the center text: the rounded percentage plus suffix.
func (g *GaugeRenderer) Display() string {
	return fmt.Sprintf("%d%s", int(math.Round(g.Fraction()*100)), g.suffix)
}

func (g *GaugeRenderer) Options(o chartopts.Options) chartopts.Options {
	o["circumference"] = 180
	o["rotation"] = 270
	o["cutout"] = "75%"
	delete(o, "type")
	chartopts.Set(o, "plugins.legend", chartopts.Options{"display": false})
	chartopts.Set(o, "plugins.tooltip", chartopts.Options{"enabled": false})
	chartopts.Set(o, "plugins.centerText", chartopts.Options{
		"display": true,
		"text":    g.Display(),
		"subText": g.label,
	})
	return o
}

// Segments splits the gauge into percentage-sized slices: every threshold
// band below fraction in its own color, the band holding fraction split
// into a filled and an empty part, and the bands above it empty.
func Segments(fraction float64, thresholds []Threshold) (values []float64, colors []string) {
	prev := 0.0
	for i, t := range thresholds {
		size := t.Value - prev
		switch {
		case fraction >= t.Value:
			values = append(values, size*100)
			colors = append(colors, t.Color)
		case fraction > prev:
			values = append(values, (fraction-prev)*100, (t.Value-fraction)*100)
			colors = append(colors, t.Color, EmptySegmentColor)
			for j := i + 1; j < len(thresholds); j++ {
				values = append(values, (thresholds[j].Value-thresholds[j-1].Value)*100)
				colors = append(colors, EmptySegmentColor)
			}
			return values, colors
		default:
			values = append(values, size*100)
			colors = append(colors, EmptySegmentColor)
		}
		prev = t.Value
	}
	return values, colors
}
