package engine

import (
	"encoding/json"
	"math"

	"moneyviz/internal/chartopts"
)

// Data is the labels/datasets shape Chart.js consumes.
type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one series. Style carries engine styling keys such as
// backgroundColor or tension and is flattened into the dataset object.
type Dataset struct {
	Label string
	Data  []float64 // NaN marks a gap and is sent as null
	Style chartopts.Options
}

// MarshalJSON flattens Style next to label and data.
func (d Dataset) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Style)+2)
	for k, v := range d.Style {
		out[k] = v
	}
	if d.Label != "" {
		out["label"] = d.Label
	}
	values := make([]any, len(d.Data))
	for i, v := range d.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			values[i] = nil
		} else {
			values[i] = v
		}
	}
	out["data"] = values
	return json.Marshal(out)
}

// Empty reports whether there is nothing to plot.
func (d Data) Empty() bool {
	for _, ds := range d.Datasets {
		if len(ds.Data) > 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (d Data) Clone() Data {
	out := Data{Labels: append([]string(nil), d.Labels...)}
	if d.Datasets != nil {
		out.Datasets = make([]Dataset, len(d.Datasets))
		for i, ds := range d.Datasets {
			out.Datasets[i] = Dataset{
				Label: ds.Label,
				Data:  append([]float64(nil), ds.Data...),
				Style: chartopts.Clone(ds.Style),
			}
		}
	}
	return out
}

// Values returns the first dataset's values, or nil.
func (d Data) Values() []float64 {
	if len(d.Datasets) == 0 {
		return nil
	}
	return d.Datasets[0].Data
}
