package charts

import (
	"fmt"
	"math"

	"moneyviz/internal/chartopts"
	"moneyviz/internal/engine"
	"moneyviz/internal/format"
	"moneyviz/internal/palette"
)

// TrendLabel labels the least-squares trend dataset.
const TrendLabel = "趋势线"

// LineRenderer draws one or more series, optionally with a trend line and a
// moving average derived from the first series.
type LineRenderer struct {
	cfg           Config
	palette       *palette.Palette
	showArea      bool
	showPoints    bool
	smooth        bool
	trend         bool
	movingAverage bool
	period        int
}

func NewLine(cfg Config, p *palette.Palette) *LineRenderer {
	return &LineRenderer{
		cfg:           cfg,
		palette:       orDefault(p),
		showArea:      cfg.Bool("showArea", true),
		showPoints:    cfg.Bool("showPoints", true),
		smooth:        cfg.Bool("smooth", true),
		trend:         cfg.Bool("showTrendLine", false),
		movingAverage: cfg.Bool("showMovingAverage", false),
		period:        cfg.Int("movingAveragePeriod", 7),
	}
}

func (l *LineRenderer) Kind() Kind         { return Line }
func (l *LineRenderer) Engine() EngineKind { return ChartJS }
func (l *LineRenderer) ChartType() string  { return "line" }

func (l *LineRenderer) PrepareData(raw any) (any, error) {
	if d, ok := isChartData(raw); ok {
		return l.enhance(d), nil
	}

	var d engine.Data
	switch v := raw.(type) {
	case []format.Item:
		d = format.PrepareLineData(v)
	case format.SeriesInput:
		d = format.PrepareLineSeries(v)
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported line data %T", raw)
	}

	if l.trend {
		l.addTrendLine(&d)
	}
	if l.movingAverage {
		l.addMovingAverage(&d)
	}
	return d, nil
}

func (l *LineRenderer) enhance(d engine.Data) engine.Data {
	for i := range d.Datasets {
		ds := &d.Datasets[i]
		if ds.Style == nil {
			ds.Style = chartopts.Options{}
		}
		color, _ := ds.Style["borderColor"].(string)
		if color == "" {
			color = l.palette.Color(i, palette.Primary)
		}
		ds.Style["borderColor"] = color
		if l.showArea {
			ds.Style["backgroundColor"] = l.palette.ColorWithAlpha(i, 0.1, palette.Primary)
		} else {
			ds.Style["backgroundColor"] = "transparent"
		}
		if _, ok := ds.Style["borderWidth"]; !ok {
			ds.Style["borderWidth"] = 2
		}
		if l.showPoints {
			ds.Style["pointRadius"] = 3
		} else {
			ds.Style["pointRadius"] = 0
		}
		ds.Style["pointHoverRadius"] = 5
		ds.Style["pointBackgroundColor"] = "#fff"
		ds.Style["pointBorderColor"] = color
		ds.Style["pointBorderWidth"] = 2
		if l.smooth {
			ds.Style["tension"] = 0.3
		} else {
			ds.Style["tension"] = 0
		}
		ds.Style["fill"] = l.showArea
	}
	return d
}

func (l *LineRenderer) addTrendLine(d *engine.Data) {
	values := d.Values()
	if len(values) == 0 {
		return
	}
	d.Datasets = append(d.Datasets, engine.Dataset{
		Label: TrendLabel,
		Data:  TrendLine(values),
		Style: chartopts.Options{
			"borderColor": "#6b7280",
			"borderWidth": 2,
			"borderDash":  []int{5, 5},
			"pointRadius": 0,
			"fill":        false,
			"tension":     0,
		},
	})
}

func (l *LineRenderer) addMovingAverage(d *engine.Data) {
	values := d.Values()
	if len(values) == 0 {
		return
	}
	d.Datasets = append(d.Datasets, engine.Dataset{
		Label: fmt.Sprintf("%d日移动平均", l.period),
		Data:  MovingAverage(values, l.period),
		Style: chartopts.Options{
			"borderColor": "#f59e0b",
			"borderWidth": 2,
			"pointRadius": 0,
			"fill":        false,
			"tension":     0.3,
		},
	})
}

func (l *LineRenderer) Options(o chartopts.Options) chartopts.Options {
	chartopts.Set(o, "interaction", chartopts.Options{"mode": "index", "intersect": false})
	chartopts.Map(o, "plugins.tooltip")["mode"] = "index"
	chartopts.Map(o, "plugins.tooltip")["intersect"] = false
	if !l.smooth {
		chartopts.Map(o, "elements.line")["tension"] = 0
	}
	return o
}

// TrendLine fits values against their index by least squares and returns
// the fitted value at every index. Fewer than two points fit a flat line.
func TrendLine(values []float64) []float64 {
	n := float64(len(values))
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	var sumX, sumY, sumXY, sumX2 float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumX2 += x * x
	}
	denom := n*sumX2 - sumX*sumX
	slope := 0.0
	if denom != 0 {
		slope = (n*sumXY - sumX*sumY) / denom
	}
	intercept := (sumY - slope*sumX) / n
	for i := range out {
		out[i] = intercept + slope*float64(i)
	}
	return out
}

// MovingAverage returns the trailing mean over period points; the first
// period-1 entries have no average and are NaN.
func MovingAverage(values []float64, period int) []float64 {
	if period <= 0 {
		period = 1
	}
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i < period-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(period)
	}
	return out
}
