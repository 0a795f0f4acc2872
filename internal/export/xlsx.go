package export

import (
	"bytes"
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"moneyviz/internal/charts"
	"moneyviz/internal/engine"
)

// SheetName is the worksheet the table is written to.
const SheetName = "Sheet1"

// WriteXLSX writes the chart's data as a workbook. Chart.js data gets one
// column per dataset; other data gets Label and Value columns.
func WriteXLSX(src Source) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	header, rows := table(src.Prepared())
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		_ = f.SetCellStyle(SheetName, "A1", last, style)
	}
	if title := src.Title(); title != "" {
		_ = f.SetDocProps(&excelize.DocProperties{Title: title})
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func table(prepared any) ([]interface{}, [][]interface{}) {
	d, ok := prepared.(engine.Data)
	if !ok || len(d.Datasets) < 2 {
		rows := charts.RowsOf(prepared)
		out := make([][]interface{}, len(rows))
		for i, r := range rows {
			out[i] = []interface{}{r.Label, cellValue(r.Value)}
		}
		return []interface{}{"Label", "Value"}, out
	}

	header := []interface{}{"Label"}
	for i, ds := range d.Datasets {
		name := ds.Label
		if name == "" {
			name = fmt.Sprintf("Series %d", i+1)
		}
		header = append(header, name)
	}
	out := make([][]interface{}, len(d.Labels))
	for i, label := range d.Labels {
		row := []interface{}{label}
		for _, ds := range d.Datasets {
			var v interface{}
			if i < len(ds.Data) {
				v = cellValue(ds.Data[i])
			}
			row = append(row, v)
		}
		out[i] = row
	}
	return header, out
}

func cellValue(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
