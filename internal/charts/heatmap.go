package charts

import (
	"fmt"
	"math"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"moneyviz/internal/chartopts"
	"moneyviz/internal/palette"
)

// heatSchemes are the cell color ramps, low to high.
var heatSchemes = map[string][]string{
	"default":   {"#eff6ff", "#bfdbfe", "#60a5fa", "#3b82f6", "#2563eb", "#1d4ed8"},
	"heat":      {"#fef3c7", "#fde68a", "#fcd34d", "#fbbf24", "#f59e0b", "#d97706"},
	"cool":      {"#ecfdf5", "#a7f3d0", "#6ee7b7", "#34d399", "#10b981", "#059669"},
	"diverging": {"#dc2626", "#f87171", "#fecaca", "#e0e7ff", "#a5b4fc", "#6366f1", "#4338ca"},
}

// HeatScheme returns the named ramp, falling back to default.
func HeatScheme(name string) []string {
	s, ok := heatSchemes[name]
	if !ok {
		s = heatSchemes["default"]
	}
	return append([]string(nil), s...)
}

// Weekdays and hours label the weekday-by-hour grid.
var Weekdays = []string{"周一", "周二", "周三", "周四", "周五", "周六", "周日"}

func hourLabels() []string {
	out := make([]string, 24)
	for i := range out {
		out[i] = fmt.Sprintf("%d:00", i)
	}
	return out
}

// HeatCell is one cell of the grid.
type HeatCell struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Value  float64 `json:"value"`
	XLabel string  `json:"xLabel"`
	YLabel string  `json:"yLabel"`
}

// HeatmapData is a labelled grid with its value bounds.
type HeatmapData struct {
	XLabels []string   `json:"xLabels"`
	YLabels []string   `json:"yLabels"`
	Cells   []HeatCell `json:"cells"`
	Min     float64    `json:"minValue"`
	Max     float64    `json:"maxValue"`
}

// TimeCell is activity at one hour of one weekday (0 = Monday).
type TimeCell struct {
	DayOfWeek int     `json:"dayOfWeek"`
	Hour      int     `json:"hour"`
	Value     float64 `json:"value"`
}

// HeatmapTimeInput is weekday by hour activity.
type HeatmapTimeInput struct {
	TimeData []TimeCell `json:"timeData"`
}

// CategoryCell is the value at one row/column category pair.
type CategoryCell struct {
	Row    string  `json:"row"`
	Column string  `json:"column"`
	Value  float64 `json:"value"`
}

// HeatmapCategoryInput is a sparse category grid; rows and columns keep
// first-seen order.
type HeatmapCategoryInput struct {
	Categories []CategoryCell `json:"categories"`
}

// HeatmapRenderer draws a grid of colored cells with ECharts.
type HeatmapRenderer struct {
	cfg         Config
	scheme      []string
	showValues  bool
	borderWidth float64
	borderColor string
}

func NewHeatmap(cfg Config) *HeatmapRenderer {
	return &HeatmapRenderer{
		cfg:         cfg,
		scheme:      HeatScheme(cfg.String("colorScale", "default")),
		showValues:  cfg.Bool("showValues", true),
		borderWidth: cfg.Float("cellBorderWidth", 1),
		borderColor: cfg.String("cellBorderColor", "#ffffff"),
	}
}

func (h *HeatmapRenderer) Kind() Kind         { return Heatmap }
func (h *HeatmapRenderer) Engine() EngineKind { return ECharts }
func (h *HeatmapRenderer) ChartType() string  { return "heatmap" }

func (h *HeatmapRenderer) PrepareData(raw any) (any, error) {
	var data HeatmapData
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case [][]float64:
		data = h.fromMatrix(v)
	case HeatmapTimeInput:
		data = fromTimeData(v.TimeData)
	case []TimeCell:
		data = fromTimeData(v)
	case HeatmapCategoryInput:
		data = fromCategories(v.Categories)
	case HeatmapData:
		data = v
	default:
		return nil, fmt.Errorf("unsupported heatmap data %T", raw)
	}
	return &heatmapPlot{data: data, chart: h.build(data)}, nil
}

func (h *HeatmapRenderer) fromMatrix(m [][]float64) HeatmapData {
	cols := 0
	if len(m) > 0 {
		cols = len(m[0])
	}
	xLabels := h.cfg.Strings("xLabels")
	if len(xLabels) < cols {
		xLabels = make([]string, cols)
		for i := range xLabels {
			xLabels[i] = fmt.Sprintf("列%d", i+1)
		}
	}
	yLabels := h.cfg.Strings("yLabels")
	if len(yLabels) < len(m) {
		yLabels = make([]string, len(m))
		for i := range yLabels {
			yLabels[i] = fmt.Sprintf("行%d", i+1)
		}
	}

	var cells []HeatCell
	for y, row := range m {
		for x, v := range row {
			if x >= cols {
				break
			}
			cells = append(cells, HeatCell{X: x, Y: y, Value: v, XLabel: xLabels[x], YLabel: yLabels[y]})
		}
	}
	return withBounds(HeatmapData{XLabels: xLabels, YLabels: yLabels, Cells: cells})
}

func fromTimeData(items []TimeCell) HeatmapData {
	hours := hourLabels()
	cells := make([]HeatCell, 0, len(items))
	for _, it := range items {
		if it.Hour < 0 || it.Hour > 23 || it.DayOfWeek < 0 || it.DayOfWeek > 6 {
			continue
		}
		cells = append(cells, HeatCell{
			X: it.Hour, Y: it.DayOfWeek, Value: it.Value,
			XLabel: hours[it.Hour], YLabel: Weekdays[it.DayOfWeek],
		})
	}
	return withBounds(HeatmapData{XLabels: hours, YLabels: append([]string(nil), Weekdays...), Cells: cells})
}

func fromCategories(items []CategoryCell) HeatmapData {
	var data HeatmapData
	rows := map[string]int{}
	cols := map[string]int{}
	for _, it := range items {
		y, ok := rows[it.Row]
		if !ok {
			y = len(data.YLabels)
			rows[it.Row] = y
			data.YLabels = append(data.YLabels, it.Row)
		}
		x, ok := cols[it.Column]
		if !ok {
			x = len(data.XLabels)
			cols[it.Column] = x
			data.XLabels = append(data.XLabels, it.Column)
		}
		data.Cells = append(data.Cells, HeatCell{X: x, Y: y, Value: it.Value, XLabel: it.Column, YLabel: it.Row})
	}
	return withBounds(data)
}

func withBounds(d HeatmapData) HeatmapData {
	d.Min, d.Max = 0, 0
	for i, c := range d.Cells {
		if i == 0 {
			d.Min, d.Max = c.Value, c.Value
			continue
		}
		d.Min = math.Min(d.Min, c.Value)
		d.Max = math.Max(d.Max, c.Value)
	}
	return d
}

func (h *HeatmapRenderer) build(d HeatmapData) *echarts.HeatMap {
	hm := echarts.NewHeatMap()
	hm.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{Title: h.cfg.String("title", "")}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		echarts.WithXAxisOpts(opts.XAxis{Type: "category", Data: d.XLabels}),
		echarts.WithYAxisOpts(opts.YAxis{Type: "category", Data: d.YLabels}),
		echarts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(d.Min),
			Max:        float32(d.Max),
			InRange:    &opts.VisualMapInRange{Color: h.scheme},
		}),
	)

	items := make([]opts.HeatMapData, 0, len(d.Cells))
	for _, c := range d.Cells {
		items = append(items, opts.HeatMapData{Value: [3]interface{}{c.X, c.Y, c.Value}})
	}
	hm.AddSeries(h.cfg.String("title", "heatmap"), items,
		echarts.WithLabelOpts(opts.Label{Show: opts.Bool(h.showValues)}),
		echarts.WithItemStyleOpts(opts.ItemStyle{
			BorderColor: h.borderColor,
			BorderWidth: float32(h.borderWidth),
		}),
	)
	return hm
}

func (h *HeatmapRenderer) Options(chartopts.Options) chartopts.Options {
	return chartopts.Options{
		"backgroundColor": "transparent",
		"grid":            chartopts.Options{"top": 50, "right": 100, "bottom": 50, "left": 80},
	}
}

// ColorAt interpolates linearly along scheme for v within [min, max] and
// returns an rgb() color. A degenerate range yields the lowest color.
func ColorAt(scheme []string, min, max, v float64) string {
	c := CellColor(scheme, min, max, v)
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// CellColor is ColorAt as an opaque drawing color.
func CellColor(scheme []string, min, max, v float64) drawing.Color {
	if len(scheme) == 0 {
		return drawing.Color{A: 255}
	}
	if max <= min {
		return opaque(palette.ParseHex(scheme[0]))
	}
	pos := (v - min) / (max - min) * float64(len(scheme)-1)
	idx := int(math.Floor(pos))
	if idx >= len(scheme)-1 {
		return opaque(palette.ParseHex(scheme[len(scheme)-1]))
	}
	if idx < 0 {
		idx, pos = 0, 0
	}
	rem := pos - float64(idx)
	a, b := palette.ParseHex(scheme[idx]), palette.ParseHex(scheme[idx+1])
	mix := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + (float64(y)-float64(x))*rem)) }
	return drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

func opaque(c drawing.Color) drawing.Color {
	c.A = 255
	return c
}

// heatmapPlot is prepared heatmap data together with the option tree that
// paints it.
type heatmapPlot struct {
	data  HeatmapData
	chart *echarts.HeatMap
}

func (p *heatmapPlot) Validate()                    { p.chart.Validate() }
func (p *heatmapPlot) JSON() map[string]interface{} { return p.chart.JSON() }
func (p *heatmapPlot) Empty() bool                  { return len(p.data.Cells) == 0 }
func (p *heatmapPlot) Data() HeatmapData            { return p.data }

func (p *heatmapPlot) Rows() []Row {
	rows := make([]Row, len(p.data.Cells))
	for i, c := range p.data.Cells {
		rows[i] = Row{Label: c.YLabel + "/" + c.XLabel, Value: c.Value}
	}
	return rows
}

// HeatmapOf returns the grid behind prepared heatmap data.
func HeatmapOf(prepared any) (HeatmapData, bool) {
	p, ok := prepared.(*heatmapPlot)
	if !ok {
		return HeatmapData{}, false
	}
	return p.data, true
}
