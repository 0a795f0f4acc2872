package format

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"moneyviz/internal/models"
)

// Period is a TimeSeries bucket size.
type Period string

const (
	Day   Period = "day"
	Week  Period = "week"
	Month Period = "month"
	Year  Period = "year"
)

// AggregateData sums value per group key. Groups keep first-seen order and
// sums are exact decimal additions.
func AggregateData[T any](items []T, groupBy func(T) string, value func(T) float64) []Item {
	sums := make(map[string]decimal.Decimal)
	var order []string
	for _, it := range items {
		k := groupBy(it)
		if _, ok := sums[k]; !ok {
			order = append(order, k)
		}
		sums[k] = sums[k].Add(decimal.NewFromFloat(value(it)))
	}
	out := make([]Item, len(order))
	for i, k := range order {
		out[i] = Item{Name: k, Value: sums[k].InexactFloat64()}
	}
	return out
}

// CalculatePercentages annotates each item with its share of the total
// value in percent. A zero total yields zero shares.
func CalculatePercentages(items []Item) []Item {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(decimal.NewFromFloat(it.Value))
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it
		if total.IsZero() {
			out[i].Percentage = 0
			continue
		}
		out[i].Percentage = decimal.NewFromFloat(it.Value).Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	return out
}

// TimeSeries sums item amounts into date buckets. Items whose date does not
// parse are skipped; buckets keep first-seen order.
func TimeSeries(items []Item, period Period) []Item {
	sums := make(map[string]decimal.Decimal)
	var order []string
	for _, it := range items {
		t, err := ParseDate(it.Date)
		if err != nil {
			continue
		}
		k := periodKey(t, period)
		if _, ok := sums[k]; !ok {
			order = append(order, k)
		}
		sums[k] = sums[k].Add(decimal.NewFromFloat(it.Amount))
	}
	out := make([]Item, len(order))
	for i, k := range order {
		out[i] = Item{Date: k, Amount: sums[k].InexactFloat64()}
	}
	return out
}

func periodKey(t time.Time, period Period) string {
	switch period {
	case Week:
		return WeekKey(t)
	case Month:
		return FormatDate(t, LayoutYearMonth)
	case Year:
		return fmt.Sprintf("%d年", t.Year())
	default:
		return FormatDate(t, LayoutISO)
	}
}

// WeekKey labels the week of year t falls in, counting weeks that start on
// Sunday with January 1st in week one.
func WeekKey(t time.Time) string {
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	offset := t.YearDay() - 1 + int(jan1.Weekday()) + 1
	week := (offset + 6) / 7
	return fmt.Sprintf("%d年第%d周", t.Year(), week)
}

// MonthlySeries returns months in chronological order with income and
// expense aligned to them, whatever the map iteration order.
func MonthlySeries(stats models.MonthlyStats) (months []string, income, expense []float64) {
	months = stats.Months()
	income = make([]float64, len(months))
	expense = make([]float64, len(months))
	for i, m := range months {
		income[i] = stats[m].Income
		expense[i] = stats[m].Expense
	}
	return months, income, expense
}

// LastMonths keeps the n most recent months of stats.
func LastMonths(stats models.MonthlyStats, n int) models.MonthlyStats {
	months := stats.Months()
	if n >= 0 && len(months) > n {
		months = months[len(months)-n:]
	}
	out := make(models.MonthlyStats, len(months))
	for _, m := range months {
		out[m] = stats[m]
	}
	return out
}

// TopCategories returns the n largest category totals of one transaction type.
func TopCategories(rows []models.CategoryTotal, txType string, n int) []Item {
	var items []Item
	for _, r := range rows {
		if r.Type == txType {
			items = append(items, Item{Name: r.Category, Value: r.Total})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Value > items[j].Value })
	if n >= 0 && len(items) > n {
		items = items[:n]
	}
	return items
}

// TransactionAmount and TransactionCategory are AggregateData accessors.
func TransactionAmount(t models.Transaction) float64  { return t.Amount }
func TransactionCategory(t models.Transaction) string { return t.Category }
