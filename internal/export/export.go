// Package export writes a chart's current data as a table or an image.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"moneyviz/internal/charts"
)

// ErrUnsupportedFormat is returned for unknown formats and for formats a
// chart kind cannot be drawn in.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format is an export file type.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	XLSX Format = "xlsx"
	PNG  Format = "png"
)

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case CSV, JSON, XLSX, PNG:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Ext is the file extension for f.
func (f Format) Ext() string { return string(f) }

// Source is a chart that can be exported.
type Source interface {
	ID() string
	Kind() charts.Kind
	Title() string
	Config() charts.Config
	Prepared() any
}

// Export renders src in format f.
func Export(src Source, f Format) ([]byte, error) {
	switch f {
	case CSV:
		return WriteCSV(charts.RowsOf(src.Prepared())), nil
	case JSON:
		return WriteJSON(charts.RowsOf(src.Prepared()))
	case XLSX:
		return WriteXLSX(src)
	case PNG:
		return WritePNG(src)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// WriteCSV writes a Label,Value table with every label quoted.
func WriteCSV(rows []charts.Row) []byte {
	var b strings.Builder
	b.WriteString("Label,Value\n")
	for _, r := range rows {
		b.WriteString(`"` + strings.ReplaceAll(r.Label, `"`, `""`) + `",`)
		b.WriteString(formatValue(r.Value))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

type jsonRow struct {
	Label string   `json:"label"`
	Value *float64 `json:"value"`
}

// WriteJSON writes rows as an indented list of label/value objects. Gaps
// become null.
func WriteJSON(rows []charts.Row) ([]byte, error) {
	out := make([]jsonRow, len(rows))
	for i, r := range rows {
		out[i].Label = r.Label
		if !math.IsNaN(r.Value) && !math.IsInf(r.Value, 0) {
			v := r.Value
			out[i].Value = &v
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export rows: %w", err)
	}
	return data, nil
}

func formatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FileName is the download name for an export of src.
func FileName(src Source, f Format) string {
	id := src.ID()
	if id == "" {
		id = "chart-data"
	}
	return id + "." + f.Ext()
}
