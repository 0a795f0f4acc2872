package export

import (
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"moneyviz/internal/charts"
)

// heatCell is one rectangle in data coordinates.
type heatCell struct {
	x0, x1, y0, y1 float64
	color          drawing.Color
}

// heatmapSeries fills a rectangle per cell.
type heatmapSeries struct {
	cells []heatCell
}

func (hs heatmapSeries) GetName() string           { return "heatmap" }
func (hs heatmapSeries) GetStyle() chart.Style     { return chart.Style{} }
func (hs heatmapSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (hs heatmapSeries) Len() int                  { return len(hs.cells) }
func (hs heatmapSeries) Validate() error           { return nil }

func (hs heatmapSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	for _, c := range hs.cells {
		x0 := canvasBox.Left + xrange.Translate(c.x0)
		x1 := canvasBox.Left + xrange.Translate(c.x1)
		y0 := canvasBox.Bottom - yrange.Translate(c.y0)
		y1 := canvasBox.Bottom - yrange.Translate(c.y1)
		if x1 < x0 {
			x0, x1 = x1, x0
		}
		if y1 < y0 {
			y0, y1 = y1, y0
		}
		// one pixel gutter between cells
		if x1-x0 > 2 {
			x0++
			x1--
		}
		if y1-y0 > 2 {
			y0++
			y1--
		}

		r.SetFillColor(c.color)
		r.MoveTo(x0, y0)
		r.LineTo(x1, y0)
		r.LineTo(x1, y1)
		r.LineTo(x0, y1)
		r.Close()
		r.Fill()
	}
}

// heatmapImage draws rows top to bottom in label order.
func heatmapImage(title string, d charts.HeatmapData, scheme []string) image {
	rows := float64(len(d.YLabels))

	xTicks := make([]chart.Tick, len(d.XLabels))
	for i, l := range d.XLabels {
		xTicks[i] = chart.Tick{Value: float64(i) + 0.5, Label: l}
	}
	yTicks := make([]chart.Tick, len(d.YLabels))
	for i, l := range d.YLabels {
		yTicks[i] = chart.Tick{Value: rows - float64(i) - 0.5, Label: l}
	}

	hs := heatmapSeries{}
	for _, c := range d.Cells {
		top := rows - float64(c.Y)
		hs.cells = append(hs.cells, heatCell{
			x0: float64(c.X), x1: float64(c.X + 1),
			y0: top - 1, y1: top,
			color: charts.CellColor(scheme, d.Min, d.Max, c.Value),
		})
	}

	return &chart.Chart{
		Title:      title,
		TitleStyle: titleStyle(),
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 80, Right: 30, Bottom: 40}},
		Width:      ImageWidth,
		Height:     ImageHeight,
		XAxis: chart.XAxis{
			Style: chart.Style{FontSize: 9},
			Ticks: xTicks,
			Range: &chart.ContinuousRange{Min: 0, Max: float64(len(d.XLabels))},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{FontSize: 10},
			Ticks: yTicks,
			Range: &chart.ContinuousRange{Min: 0, Max: rows},
		},
		Series: []chart.Series{hs},
	}
}
