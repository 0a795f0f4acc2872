package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"moneyviz/internal/charts"
	"moneyviz/internal/engine"
	"moneyviz/internal/palette"
)

// ErrNoData is returned when an image is requested for a chart with nothing
// drawn.
var ErrNoData = errors.New("chart has no data to export")

// image is a go-chart chart of any shape.
type image interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// Image size in pixels.
const (
	ImageWidth  = 800
	ImageHeight = 450
)

// WritePNG draws the chart's current data as a static image. Sankey
// diagrams have no static rendering.
func WritePNG(src Source) ([]byte, error) {
	prepared := src.Prepared()
	if prepared == nil {
		return nil, ErrNoData
	}
	p := palette.New(src.Config().String("colorScheme", palette.DefaultScheme))

	var r image
	switch src.Kind() {
	case charts.Pie, charts.Gauge:
		d, ok := prepared.(engine.Data)
		if !ok {
			return nil, fmt.Errorf("%w: %s data", ErrUnsupportedFormat, src.Kind())
		}
		r = pieImage(src.Title(), d, p)
	case charts.Line:
		d, ok := prepared.(engine.Data)
		if !ok {
			return nil, fmt.Errorf("%w: %s data", ErrUnsupportedFormat, src.Kind())
		}
		r = lineImage(src.Title(), d, p)
	case charts.Bar, charts.Radar:
		r = barImage(src.Title(), charts.RowsOf(prepared), p)
	case charts.Heatmap:
		d, ok := charts.HeatmapOf(prepared)
		if !ok {
			return nil, fmt.Errorf("%w: %s data", ErrUnsupportedFormat, src.Kind())
		}
		r = heatmapImage(src.Title(), d, charts.HeatScheme(src.Config().String("colorScale", "default")))
	default:
		return nil, fmt.Errorf("%w: png for %s", ErrUnsupportedFormat, src.Kind())
	}

	var buf bytes.Buffer
	if err := r.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render %s chart image: %w", src.Kind(), err)
	}
	return buf.Bytes(), nil
}

func titleStyle() chart.Style {
	return chart.Style{FontSize: 16, FontColor: drawing.ColorBlack}
}

func barImage(title string, rows []charts.Row, p *palette.Palette) image {
	bars := make([]chart.Value, 0, len(rows))
	for i, r := range rows {
		if math.IsNaN(r.Value) {
			continue
		}
		c := p.DrawingColor(i)
		bars = append(bars, chart.Value{
			Value: r.Value,
			Label: charts.TruncateLabel(r.Label, 10),
			Style: chart.Style{FillColor: c, StrokeColor: c},
		})
	}
	return &chart.BarChart{
		Title:      title,
		TitleStyle: titleStyle(),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		Width:      ImageWidth,
		Height:     ImageHeight,
		BarWidth:   barWidth(len(bars)),
		Bars:       bars,
		XAxis:      chart.Style{FontSize: 10},
		YAxis:      chart.YAxis{Style: chart.Style{FontSize: 10}},
	}
}

func barWidth(n int) int {
	if n == 0 {
		return 60
	}
	w := (ImageWidth - 100) / n * 2 / 3
	switch {
	case w > 60:
		return 60
	case w < 8:
		return 8
	}
	return w
}

func pieImage(title string, d engine.Data, p *palette.Palette) image {
	values := d.Values()
	var colors []string
	if len(d.Datasets) > 0 {
		colors, _ = d.Datasets[0].Style["backgroundColor"].([]string)
	}

	slices := make([]chart.Value, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) || v <= 0 {
			continue
		}
		c := p.DrawingColor(i)
		if i < len(colors) {
			c = palette.ParseHex(colors[i])
		}
		label := ""
		if i < len(d.Labels) {
			label = d.Labels[i]
		}
		slices = append(slices, chart.Value{
			Value: v,
			Label: label,
			Style: chart.Style{FillColor: c, StrokeColor: drawing.ColorWhite, StrokeWidth: 2},
		})
	}
	return &chart.PieChart{
		Title:      title,
		TitleStyle: titleStyle(),
		Width:      ImageHeight,
		Height:     ImageHeight,
		Values:     slices,
	}
}

func lineImage(title string, d engine.Data, p *palette.Palette) image {
	ticks := make([]chart.Tick, len(d.Labels))
	for i, l := range d.Labels {
		ticks[i] = chart.Tick{Value: float64(i), Label: charts.TruncateLabel(l, 8)}
	}

	graph := &chart.Chart{
		Title:      title,
		TitleStyle: titleStyle(),
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 70, Right: 20, Bottom: 40}},
		Width:      ImageWidth,
		Height:     ImageHeight,
		XAxis:      chart.XAxis{Style: chart.Style{FontSize: 9}, Ticks: ticks},
		YAxis:      chart.YAxis{Style: chart.Style{FontSize: 10}},
	}
	for i, ds := range d.Datasets {
		var xs, ys []float64
		for j, v := range ds.Data {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			xs = append(xs, float64(j))
			ys = append(ys, v)
		}
		if len(xs) == 0 {
			continue
		}
		c := p.DrawingColor(i)
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			Name:    ds.Label,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: c,
				StrokeWidth: 2,
				DotColor:    c,
				DotWidth:    3,
			},
		})
	}
	if len(d.Datasets) > 1 {
		graph.Elements = []chart.Renderable{chart.Legend(graph)}
	}
	return graph
}
