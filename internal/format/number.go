// Package format turns finance API data into display strings and into the
// labels/datasets shape the chart engines consume.
package format

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencyOptions tunes FormatCurrency.
type CurrencyOptions struct {
	Symbol         string // defaults to ¥
	FractionDigits int
}

var printer = message.NewPrinter(language.Chinese)

// FormatCurrency renders v as CNY with grouping, e.g. ¥1,234,568.
// Rounding is half away from zero.
func FormatCurrency(v float64, opts ...CurrencyOptions) string {
	o := CurrencyOptions{Symbol: "¥"}
	if len(opts) > 0 {
		o.FractionDigits = opts[0].FractionDigits
		if opts[0].Symbol != "" {
			o.Symbol = opts[0].Symbol
		}
	}
	if o.FractionDigits < 0 {
		o.FractionDigits = 0
	}

	d := decimal.NewFromFloat(v).Round(int32(o.FractionDigits))
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	intPart := d.Truncate(0)
	out := sign + o.Symbol + printer.Sprintf("%d", intPart.IntPart())
	if o.FractionDigits > 0 {
		fixed := d.StringFixed(int32(o.FractionDigits))
		if i := strings.IndexByte(fixed, '.'); i >= 0 {
			out += fixed[i:]
		}
	}
	return out
}

// FormatPercentage renders a ratio as a percentage, e.g. 0.256 -> 25.6%.
func FormatPercentage(v float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return decimal.NewFromFloat(v).Mul(decimal.NewFromInt(100)).StringFixed(int32(decimals)) + "%"
}

var largeUnits = []struct {
	threshold float64
	suffix    string
}{
	{1e8, "亿"},
	{1e4, "万"},
	{1e3, "千"},
}

// FormatLargeNumber abbreviates with 千, 万 and 亿 using two decimals.
func FormatLargeNumber(v float64) string {
	for _, u := range largeUnits {
		if v >= u.threshold {
			return decimal.NewFromFloat(v).Div(decimal.NewFromFloat(u.threshold)).StringFixed(2) + u.suffix
		}
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Date layouts accepted by FormatDate.
const (
	LayoutISO       = "YYYY-MM-DD"
	LayoutSlash     = "YYYY/MM/DD"
	LayoutEuropean  = "DD/MM/YYYY"
	LayoutMonthDay  = "MM-DD"
	LayoutYearMonth = "YYYY年MM月"
	LayoutMonthDayC = "MM月DD日"
)

var dateLayouts = map[string]string{
	LayoutISO:       "2006-01-02",
	LayoutSlash:     "2006/01/02",
	LayoutEuropean:  "02/01/2006",
	LayoutMonthDay:  "01-02",
	LayoutYearMonth: "2006年01月",
	LayoutMonthDayC: "01月02日",
}

// FormatDate formats t with one of the layout names above; unknown names
// fall back to YYYY-MM-DD.
func FormatDate(t time.Time, layout string) string {
	goLayout, ok := dateLayouts[layout]
	if !ok {
		goLayout = dateLayouts[LayoutISO]
	}
	return t.Format(goLayout)
}

// FormatDateRange renders "MM月DD日 - MM月DD日".
func FormatDateRange(start, end time.Time) string {
	return FormatDate(start, LayoutMonthDayC) + " - " + FormatDate(end, LayoutMonthDayC)
}

// ParseDate accepts the date forms the finance API emits.
func ParseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05", "2006-01"} {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// MonthLabel turns YYYY-MM into "3月"; other input is returned unchanged.
func MonthLabel(month string) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return month
	}
	return strconv.Itoa(int(t.Month())) + "月"
}
