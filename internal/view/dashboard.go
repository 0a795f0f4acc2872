package view

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"moneyviz/internal/charts"
	"moneyviz/internal/format"
	"moneyviz/internal/logger"
	"moneyviz/internal/models"
)

// Dashboard regions and charts.
const (
	RegionStats    = "dashboard-stats"
	RegionRecent   = "recent-transactions"
	RegionRatios   = "financial-ratios"
	RegionInsights = "insights"

	ChartDistribution = "asset-distribution-chart"
	ChartTrend        = "asset-trend-chart"
	ChartMonthly      = "monthly-income-expense-chart"
	ChartBreakdown    = "category-breakdown-chart"
	ChartAllocation   = "asset-allocation-radar"
	ChartSavings      = "savings-rate-gauge"
)

// Dashboard load sizes.
const (
	RecentLimit    = 5
	DashboardDays  = 30
	MonthlyWindow  = 6
	BreakdownLimit = 8
)

// Dashboard is the overview page.
type Dashboard struct {
	base
}

// NewDashboard creates the dashboard view.
func NewDashboard(vc *Context, m *Markup) *Dashboard {
	return &Dashboard{base: newBase(vc, m, "dashboard")}
}

// Load fetches every dashboard section concurrently. Each section updates
// only its own region or chart as soon as it arrives, and a failed section
// leaves the others alone. Fetch failures are queued as notices and
// returned together. A load superseded by a newer one or by Teardown
// returns ErrStale and touches nothing after that point.
func (d *Dashboard) Load(parent context.Context) error {
	ctx, gen := d.begin(parent)
	defer d.finish(gen)
	src := d.vc.Source

	var (
		mu      sync.Mutex
		errs    *multierror.Error
		summary *models.AssetSummary
		ratios  *models.Ratios
		stats   models.MonthlyStats
	)
	failed := func(what string, err error) {
		d.fail(ctx, what, err)
		mu.Lock()
		errs = multierror.Append(errs, err)
		mu.Unlock()
	}

	var g errgroup.Group
	g.Go(func() error {
		s, err := src.Summary(ctx)
		if err != nil {
			failed("资产汇总", err)
			return nil
		}
		mu.Lock()
		summary = s
		mu.Unlock()
		d.apply(gen, func() {
			d.renderRegion(RegionStats, "stats", s)
			d.show(charts.Radar, ChartAllocation, charts.Config{"title": "资产配置", "maxValue": 100}, AllocationRadar(*s))
		})
		return nil
	})
	g.Go(func() error {
		dist, err := src.Distribution(ctx)
		if err != nil {
			failed("资产分布", err)
			return nil
		}
		d.apply(gen, func() {
			d.show(charts.Pie, ChartDistribution, charts.Config{"title": "资产分布", "donut": true, "showCenter": true}, DistributionItems(*dist))
		})
		return nil
	})
	g.Go(func() error {
		txs, err := src.Transactions(ctx, models.TransactionFilter{Limit: RecentLimit})
		if err != nil {
			failed("最近交易", err)
			return nil
		}
		d.apply(gen, func() {
			if len(txs) == 0 {
				d.emptyRegion(RegionRecent, EmptyState{Icon: "💸", Title: "暂无交易记录"})
				return
			}
			d.renderRegion(RegionRecent, "recent", txs)
		})
		return nil
	})
	g.Go(func() error {
		points, err := src.Trend(ctx, DashboardDays)
		if err != nil {
			failed("资产趋势", err)
			return nil
		}
		d.apply(gen, func() {
			d.show(charts.Line, ChartTrend, charts.Config{"title": "资产趋势", "showArea": true}, TrendItems(points))
		})
		return nil
	})
	g.Go(func() error {
		r, err := src.Ratios(ctx)
		if err != nil {
			failed("财务比率", err)
			return nil
		}
		mu.Lock()
		ratios = r
		mu.Unlock()
		d.apply(gen, func() {
			d.renderRegion(RegionRatios, "ratios", NewRatioView(*r))
			d.show(charts.Gauge, ChartSavings, charts.Config{"title": "月储蓄率", "label": "月储蓄率"}, SavingsGauge(*r))
		})
		return nil
	})
	g.Go(func() error {
		m, err := src.MonthlyStats(ctx)
		if err != nil {
			failed("月度统计", err)
			return nil
		}
		mu.Lock()
		stats = m
		mu.Unlock()
		d.apply(gen, func() {
			d.show(charts.Bar, ChartMonthly, charts.Config{"title": "月度收支对比", "showLegend": true}, MonthlyComparison(m, MonthlyWindow))
		})
		return nil
	})
	g.Go(func() error {
		ie, err := src.IncomeExpense(ctx, "", "")
		if err != nil {
			failed("收支分类", err)
			return nil
		}
		d.apply(gen, func() {
			d.show(charts.Pie, ChartBreakdown, charts.Config{"title": "收支分类明细", "donut": true}, Breakdown(ie.ByCategory, BreakdownLimit))
		})
		return nil
	})
	_ = g.Wait()

	if !d.current(gen) {
		return ErrStale
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	mu.Lock()
	insights := Insights(summary, ratios, stats)
	mu.Unlock()
	html, err := d.markup.Markdown(insights)
	if err != nil {
		d.log.Error("failed to render insights", err)
	} else {
		d.apply(gen, func() { d.setRegion(RegionInsights, html) })
	}

	if errs != nil {
		d.log.Warn("dashboard loaded with errors", logger.Fields{"errors": errs.Len()})
	}
	return errs.ErrorOrNil()
}

// Regions implements Page.
func (d *Dashboard) Regions() []string {
	return []string{
		RegionStats, ChartDistribution, ChartTrend, ChartMonthly, ChartBreakdown,
		ChartAllocation, ChartSavings, RegionRecent, RegionRatios, RegionInsights,
	}
}

// DistributionItems turns the asset distribution into pie items, by
// category when the API provides categories and by asset type otherwise.
func DistributionItems(d models.Distribution) []format.Item {
	rows := d.ByCategory
	if len(rows) == 0 {
		rows = d.ByType
	}
	items := make([]format.Item, 0, len(rows))
	for _, r := range rows {
		name := r.Name
		if name == "" {
			name = r.Type
		}
		items = append(items, format.Item{Name: name, Value: r.Total, Color: r.Color})
	}
	return items
}

// TrendItems plots total assets by date.
func TrendItems(points []models.TrendPoint) []format.Item {
	items := make([]format.Item, len(points))
	for i, p := range points {
		label := p.Date
		if t, err := format.ParseDate(p.Date); err == nil {
			label = format.FormatDate(t, format.LayoutMonthDay)
		}
		items[i] = format.Item{Date: label, Value: p.TotalAssets}
	}
	return items
}

// MonthlyComparison is income against expense for the last n months in
// chronological order.
func MonthlyComparison(stats models.MonthlyStats, n int) charts.Comparison {
	months, income, expense := format.MonthlySeries(format.LastMonths(stats, n))
	labels := make([]string, len(months))
	for i, m := range months {
		labels[i] = format.MonthLabel(m)
	}
	return charts.Comparison{
		Labels: labels,
		Series: []format.Series{
			{Name: models.TxIncome, Data: income},
			{Name: models.TxExpense, Data: expense},
		},
	}
}

// Breakdown is the n largest income and expense categories together.
func Breakdown(rows []models.CategoryTotal, n int) []format.Item {
	var items []format.Item
	for _, r := range rows {
		if r.Type != models.TxIncome && r.Type != models.TxExpense {
			continue
		}
		items = append(items, format.Item{Name: r.Category + "（" + r.Type + "）", Value: r.Total})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Value > items[j].Value })
	if len(items) > n {
		items = items[:n]
	}
	return items
}

// AllocationRadar compares the actual asset split with IdealAllocation.
func AllocationRadar(s models.AssetSummary) format.RadarInput {
	return format.RadarInput{
		Dimensions: []string{models.AssetLiquid, models.AssetInvestment, models.AssetFixed},
		Series: []format.Series{
			{Name: "当前配置", Values: []float64{s.LiquidRatio, s.InvestmentRatio, s.FixedRatio}},
			{Name: "理想配置", Values: []float64{IdealAllocation.Liquid, IdealAllocation.Investment, IdealAllocation.Fixed}},
		},
	}
}

// SavingsGauge shows the savings rate on a 0 to 100 dial.
func SavingsGauge(r models.Ratios) charts.GaugeInput {
	return charts.GaugeInput{Value: math.Max(0, math.Min(100, r.SavingsRate)), Min: 0, Max: 100, Label: "月储蓄率"}
}
