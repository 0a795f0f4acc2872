package view

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"moneyviz/internal/charts"
	"moneyviz/internal/format"
	"moneyviz/internal/models"
)

// Analytics charts.
const (
	ChartMonthlyAll   = "monthly-chart"
	ChartCategory     = "category-chart"
	ChartGrowth       = "growth-chart"
	ChartCategoryPie  = "category-doughnut-chart"
	ChartSpendingHeat = "spending-heatmap"
	ChartCashflow     = "cashflow-sankey"
)

// AnalyticsDays is the default window of the growth chart.
const AnalyticsDays = 90

// Cash flow node names.
const (
	NodeIncome  = "总收入"
	NodeSavings = "结余"
)

// Analytics is the analysis page.
type Analytics struct {
	base
}

// NewAnalytics creates the analytics view.
func NewAnalytics(vc *Context, m *Markup) *Analytics {
	return &Analytics{base: newBase(vc, m, "analytics")}
}

// Load fetches monthly statistics, income and expense aggregates, the
// growth trend and the expense transactions together and renders every
// chart once all of them arrived.
func (a *Analytics) Load(parent context.Context) error {
	ctx, gen := a.begin(parent)
	defer a.finish(gen)
	src := a.vc.Source

	var (
		stats  models.MonthlyStats
		ie     *models.IncomeExpense
		trend  []models.TrendPoint
		spends []models.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats, err = src.MonthlyStats(gctx)
		return err
	})
	g.Go(func() (err error) {
		ie, err = src.IncomeExpense(gctx, "", "")
		return err
	})
	g.Go(func() (err error) {
		trend, err = src.Trend(gctx, AnalyticsDays)
		return err
	})
	g.Go(func() (err error) {
		spends, err = src.Transactions(gctx, models.TransactionFilter{Type: models.TxExpense})
		return err
	})
	if err := g.Wait(); err != nil {
		a.fail(ctx, "分析数据", err)
		return err
	}

	if !a.apply(gen, func() {
		months, income, expense := format.MonthlySeries(stats)
		labels := make([]string, len(months))
		for i, m := range months {
			labels[i] = format.MonthLabel(m)
		}
		a.show(charts.Bar, ChartMonthlyAll, charts.Config{"title": "月度收支对比", "showLegend": true}, charts.Comparison{
			Labels: labels,
			Series: []format.Series{{Name: models.TxIncome, Data: income}, {Name: models.TxExpense, Data: expense}},
		})
		a.show(charts.Bar, ChartCategory, charts.Config{"title": "分类支出分析", "horizontal": true}, format.TopCategories(ie.ByCategory, models.TxExpense, 10))
		a.showGrowth(trend)
		a.show(charts.Pie, ChartCategoryPie, charts.Config{"title": "收支分类明细", "donut": true}, Breakdown(ie.ByCategory, BreakdownLimit))
		a.show(charts.Heatmap, ChartSpendingHeat, charts.Config{"title": "支出热力图", "colorScale": "heat"}, SpendingHeatmap(spends))
		a.show(charts.Sankey, ChartCashflow, charts.Config{"title": "资金流向"}, CashFlows(ie.ByCategory))
	}) {
		return ErrStale
	}
	return nil
}

// LoadTrend redraws the growth chart for a period of 7d, 30d or 90d.
func (a *Analytics) LoadTrend(ctx context.Context, period string) error {
	days, err := PeriodDays(period)
	if err != nil {
		return err
	}
	points, err := a.vc.Source.Trend(ctx, days)
	if err != nil {
		a.fail(ctx, "资产趋势", err)
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.showGrowth(points)
	return nil
}

func (a *Analytics) showGrowth(points []models.TrendPoint) {
	a.show(charts.Line, ChartGrowth, charts.Config{
		"title":               "资产增长趋势",
		"showTrendLine":       true,
		"showMovingAverage":   len(points) >= 7,
		"movingAveragePeriod": 7,
	}, TrendItems(points))
}

func (a *Analytics) Regions() []string {
	return []string{ChartMonthlyAll, ChartCategory, ChartGrowth, ChartCategoryPie, ChartSpendingHeat, ChartCashflow}
}

// PeriodDays maps a trend period name to days.
func PeriodDays(period string) (int, error) {
	switch period {
	case "7d":
		return 7, nil
	case "30d", "":
		return 30, nil
	case "90d":
		return 90, nil
	default:
		return 0, fmt.Errorf("unknown trend period %q", period)
	}
}

// SpendingHeatmap sums expenses per category and month.
func SpendingHeatmap(txs []models.Transaction) charts.HeatmapCategoryInput {
	type key struct{ row, col string }
	totals := map[key]float64{}
	var order []key
	for _, t := range txs {
		if t.Type != models.TxExpense {
			continue
		}
		month := t.Date
		if d, err := format.ParseDate(t.Date); err == nil {
			month = format.FormatDate(d, format.LayoutYearMonth)
		}
		category := t.Category
		if category == "" {
			category = "其他"
		}
		k := key{row: category, col: month}
		if _, ok := totals[k]; !ok {
			order = append(order, k)
		}
		totals[k] += t.Amount
	}

	in := charts.HeatmapCategoryInput{Categories: make([]charts.CategoryCell, 0, len(order))}
	for _, k := range order {
		in.Categories = append(in.Categories, charts.CategoryCell{Row: k.row, Column: k.col, Value: totals[k]})
	}
	return in
}

// CashFlows routes every income category into total income and total
// income out to the expense categories, with what is left over flowing to
// savings.
func CashFlows(rows []models.CategoryTotal) charts.SankeyInput {
	var in charts.SankeyInput
	var income, expense float64
	for _, r := range rows {
		if r.Type == models.TxIncome && r.Total > 0 {
			in.Flows = append(in.Flows, charts.Flow{From: r.Category, To: NodeIncome, Value: r.Total, FromCategory: "source", ToCategory: "hub"})
			income += r.Total
		}
	}
	for _, r := range rows {
		if r.Type == models.TxExpense && r.Total > 0 {
			in.Flows = append(in.Flows, charts.Flow{From: NodeIncome, To: r.Category, Value: r.Total, FromCategory: "hub", ToCategory: "target"})
			expense += r.Total
		}
	}
	if income > expense && income > 0 {
		in.Flows = append(in.Flows, charts.Flow{From: NodeIncome, To: NodeSavings, Value: income - expense, FromCategory: "hub", ToCategory: "target"})
	}
	return in
}
