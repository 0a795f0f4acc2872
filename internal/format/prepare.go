package format

import (
	"moneyviz/internal/chartopts"
	"moneyviz/internal/engine"
)

// DefaultSeriesLabel labels single-series line and bar data.
const DefaultSeriesLabel = "金额"

// Item is one labelled value as the finance API and the views produce it.
type Item struct {
	Name       string  `json:"name,omitempty"`
	Label      string  `json:"label,omitempty"`
	Value      float64 `json:"value,omitempty"`
	Amount     float64 `json:"amount,omitempty"`
	Color      string  `json:"color,omitempty"`
	Date       string  `json:"date,omitempty"`
	Category   string  `json:"category,omitempty"`
	Dimension  string  `json:"dimension,omitempty"`
	Percentage float64 `json:"percentage,omitempty"`
}

// Key is the display label: name, falling back to label.
func (i Item) Key() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Label
}

// Number is the plotted value: value, falling back to amount.
func (i Item) Number() float64 {
	if i.Value != 0 {
		return i.Value
	}
	return i.Amount
}

// Series is one named sequence of values.
type Series struct {
	Name   string    `json:"name"`
	Data   []float64 `json:"data,omitempty"`
	Values []float64 `json:"values,omitempty"`
	Fill   *bool     `json:"fill,omitempty"`
}

// SeriesInput is multi-series line data.
type SeriesInput struct {
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

// BarInput is pre-split bar data.
type BarInput struct {
	Label  string    `json:"label,omitempty"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// RadarInput is radar data with named dimensions.
type RadarInput struct {
	Dimensions []string `json:"dimensions"`
	Series     []Series `json:"series"`
}

// PrepareChartData converts raw input for the given chart kind. Kinds
// without a converter, and input of an unexpected shape, are returned as is.
func PrepareChartData(raw any, kind string) any {
	switch kind {
	case "pie":
		if items, ok := raw.([]Item); ok {
			return PreparePieData(items)
		}
	case "line":
		switch v := raw.(type) {
		case []Item:
			return PrepareLineData(v)
		case SeriesInput:
			return PrepareLineSeries(v)
		}
	case "bar":
		switch v := raw.(type) {
		case []Item:
			return PrepareBarData(v)
		case BarInput:
			return PrepareBarInput(v)
		}
	case "radar":
		switch v := raw.(type) {
		case RadarInput:
			return PrepareRadarData(v)
		case []Item:
			labels := make([]string, len(v))
			for i, it := range v {
				labels[i] = it.Dimension
			}
			return engine.Data{Labels: labels, Datasets: []engine.Dataset{}}
		}
	}
	return raw
}

// PreparePieData keeps item order; colors come from the item or cycle
// through the default scheme.
func PreparePieData(items []Item) engine.Data {
	labels := make([]string, len(items))
	values := make([]float64, len(items))
	colors := make([]string, len(items))
	for i, it := range items {
		labels[i] = it.Key()
		values[i] = it.Number()
		colors[i] = it.Color
		if colors[i] == "" {
			colors[i] = chartopts.DefaultColor(i)
		}
	}
	return engine.Data{
		Labels: labels,
		Datasets: []engine.Dataset{{
			Data: values,
			Style: chartopts.Options{
				"backgroundColor": colors,
				"borderWidth":     2,
				"borderColor":     "#fff",
			},
		}},
	}
}

// PrepareLineData plots dated items as one filled series.
func PrepareLineData(items []Item) engine.Data {
	labels := make([]string, len(items))
	values := make([]float64, len(items))
	for i, it := range items {
		labels[i] = it.Date
		values[i] = it.Number()
	}
	return engine.Data{
		Labels:   labels,
		Datasets: []engine.Dataset{lineDataset(DefaultSeriesLabel, values, 0, true)},
	}
}

// PrepareLineSeries plots each series with its own default color.
func PrepareLineSeries(in SeriesInput) engine.Data {
	ds := make([]engine.Dataset, len(in.Series))
	for i, s := range in.Series {
		fill := s.Fill == nil || *s.Fill
		ds[i] = lineDataset(s.Name, s.Data, i, fill)
	}
	return engine.Data{Labels: in.Labels, Datasets: ds}
}

func lineDataset(label string, values []float64, i int, fill bool) engine.Dataset {
	color := chartopts.DefaultColor(i)
	return engine.Dataset{
		Label: label,
		Data:  values,
		Style: chartopts.Options{
			"borderColor":     color,
			"backgroundColor": color + "20",
			"tension":         0.3,
			"fill":            fill,
		},
	}
}

// PrepareBarData plots items by name, falling back to category.
func PrepareBarData(items []Item) engine.Data {
	labels := make([]string, len(items))
	values := make([]float64, len(items))
	for i, it := range items {
		labels[i] = it.Key()
		if labels[i] == "" {
			labels[i] = it.Category
		}
		values[i] = it.Number()
	}
	return PrepareBarInput(BarInput{Labels: labels, Values: values})
}

// PrepareBarInput wraps pre-split bar data in a single dataset.
func PrepareBarInput(in BarInput) engine.Data {
	label := in.Label
	if label == "" {
		label = DefaultSeriesLabel
	}
	color := chartopts.DefaultColor(0)
	return engine.Data{
		Labels: in.Labels,
		Datasets: []engine.Dataset{{
			Label: label,
			Data:  in.Values,
			Style: chartopts.Options{
				"backgroundColor": color,
				"borderColor":     color,
				"borderWidth":     1,
			},
		}},
	}
}

// PrepareRadarData builds one styled dataset per series.
func PrepareRadarData(in RadarInput) engine.Data {
	ds := make([]engine.Dataset, len(in.Series))
	for i, s := range in.Series {
		color := chartopts.DefaultColor(i)
		ds[i] = engine.Dataset{
			Label: s.Name,
			Data:  s.Values,
			Style: chartopts.Options{
				"borderColor":               color,
				"backgroundColor":           color + "40",
				"pointBackgroundColor":      color,
				"pointBorderColor":          "#fff",
				"pointHoverBackgroundColor": "#fff",
				"pointHoverBorderColor":     color,
			},
		}
	}
	return engine.Data{Labels: in.Dimensions, Datasets: ds}
}
