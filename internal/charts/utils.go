package charts

import (
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"moneyviz/internal/engine"
)

// Placeholder texts shown inside a chart's container.
const (
	LoadingText = "加载中..."
	EmptyText   = "暂无数据"
	ErrorText   = "图表渲染失败"
)

// GenerateID returns "<prefix>-<unix millis>-<random>"; prefix defaults to
// "chart".
func GenerateID(prefix string) string {
	if prefix == "" {
		prefix = "chart"
	}
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), random)
}

// LoadingHTML is the loading placeholder markup.
func LoadingHTML() string {
	return `<div class="chart-loading"><div class="spinner"></div><p>` + LoadingText + `</p></div>`
}

// EmptyHTML is the empty-state placeholder markup; message defaults to
// EmptyText.
func EmptyHTML(message string) string {
	if message == "" {
		message = EmptyText
	}
	return `<div class="chart-empty"><svg width="64" height="64" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1"><path d="M3 3v18h18"/><path d="M18 17l-5-5-4 4-3-3"/></svg><p>` +
		html.EscapeString(message) + `</p></div>`
}

// ShowLoading replaces the container content with the loading placeholder.
func ShowLoading(c engine.Container) { c.SetContent(LoadingHTML()) }

// ShowEmpty replaces the container content with the empty placeholder.
func ShowEmpty(c engine.Container, message string) { c.SetContent(EmptyHTML(message)) }

// TruncateLabel shortens label to max runes, ending in "...". max defaults
// to 10.
func TruncateLabel(label string, max int) string {
	if max <= 0 {
		max = 10
	}
	r := []rune(label)
	if len(r) <= max {
		return label
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// Range is the span of a set of values.
type Range struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Range float64 `json:"range"`
}

// DataRange spans every finite value of every dataset. Empty input yields
// the zero Range.
func DataRange(datasets ...[]float64) Range {
	first := true
	var r Range
	for _, ds := range datasets {
		for _, v := range ds {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if first {
				r.Min, r.Max = v, v
				first = false
				continue
			}
			r.Min = math.Min(r.Min, v)
			r.Max = math.Max(r.Max, v)
		}
	}
	r.Range = r.Max - r.Min
	return r
}

// Interval steps TimeLabels.
type Interval string

const (
	Day   Interval = "day"
	Week  Interval = "week"
	Month Interval = "month"
	Year  Interval = "year"
)

// TimeLabels returns one label per interval from start to end inclusive.
// Day and week labels are MM-DD, months YYYY年MM月, years YYYY年.
func TimeLabels(start, end time.Time, interval Interval) []string {
	var labels []string
	for cur := start; !cur.After(end); {
		switch interval {
		case Month:
			labels = append(labels, cur.Format("2006年01月"))
			cur = cur.AddDate(0, 1, 0)
		case Year:
			labels = append(labels, cur.Format("2006年"))
			cur = cur.AddDate(1, 0, 0)
		case Week:
			labels = append(labels, cur.Format("01-02"))
			cur = cur.AddDate(0, 0, 7)
		default:
			labels = append(labels, cur.Format("01-02"))
			cur = cur.AddDate(0, 0, 1)
		}
	}
	return labels
}

// ResponsiveFontSize is the base chart font size for a viewport width.
func ResponsiveFontSize(width int) int {
	switch {
	case width < 640:
		return 10
	case width < 1024:
		return 12
	default:
		return 14
	}
}
