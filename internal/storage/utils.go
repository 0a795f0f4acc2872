package storage

import (
	"fmt"
	"strings"
	"time"
)

// ThemeKey is where the theme preference is kept.
const ThemeKey = "preferences/theme"

// ExportPath generates a consistent path for a chart export
// Format: exports/YYYY/MM/DD/<chartID>-HHMMSS.<ext>
func ExportPath(chartID, ext string, timestamp time.Time) string {
	return fmt.Sprintf("exports/%04d/%02d/%02d/%s-%02d%02d%02d.%s",
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		sanitize(chartID),
		timestamp.Hour(), timestamp.Minute(), timestamp.Second(),
		strings.TrimPrefix(ext, "."))
}

func sanitize(name string) string {
	if name == "" {
		return "chart"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':', '?', '*':
			return '_'
		}
		return r
	}, name)
}

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".json"):
		return "application/json"
	case strings.HasSuffix(filename, ".csv"):
		return "text/csv; charset=utf-8"
	case strings.HasSuffix(filename, ".xlsx"):
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case strings.HasSuffix(filename, ".txt"):
		return "text/plain"
	case strings.HasSuffix(filename, ".html"):
		return "text/html"
	case strings.HasSuffix(filename, ".png"):
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
