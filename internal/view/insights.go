package view

import (
	"fmt"
	"strings"

	"moneyviz/internal/format"
	"moneyviz/internal/models"
)

// IdealAllocation is the target split of assets, in percent.
var IdealAllocation = struct {
	Liquid, Investment, Fixed float64
}{Liquid: 20, Investment: 60, Fixed: 20}

// Allocation suggestions.
const (
	SuggestLiquid     = "建议增加流动资产储备，确保应急基金充足"
	SuggestInvestment = "可以考虑增加投资资产配置，提高资产增值潜力"
)

// AllocationSuggestions compares the summary's ratios with IdealAllocation.
// Liquid assets may fall 5 points short and investments 10 before a
// suggestion is made.
func AllocationSuggestions(s models.AssetSummary) []string {
	var out []string
	if s.LiquidRatio < IdealAllocation.Liquid-5 {
		out = append(out, SuggestLiquid)
	}
	if s.InvestmentRatio < IdealAllocation.Investment-10 {
		out = append(out, SuggestInvestment)
	}
	return out
}

// MonthChange is the percentage change of income and expense between two
// months. A zero base yields zero.
type MonthChange struct {
	Current, Previous string
	Income, Expense   float64
}

// LatestChange compares the two most recent months in stats.
func LatestChange(stats models.MonthlyStats) (MonthChange, bool) {
	months := stats.Months()
	if len(months) < 2 {
		return MonthChange{}, false
	}
	cur, prev := months[len(months)-1], months[len(months)-2]
	pct := func(now, before float64) float64 {
		if before <= 0 {
			return 0
		}
		return (now - before) / before * 100
	}
	return MonthChange{
		Current:  cur,
		Previous: prev,
		Income:   pct(stats[cur].Income, stats[prev].Income),
		Expense:  pct(stats[cur].Expense, stats[prev].Expense),
	}, true
}

// Insights writes the markdown for the insights panel. Any argument may be
// nil and its section is skipped.
func Insights(summary *models.AssetSummary, ratios *models.Ratios, stats models.MonthlyStats) string {
	var b strings.Builder
	b.WriteString("### 财务洞察\n\n")

	if summary != nil {
		fmt.Fprintf(&b, "- 总资产 **%s**，流动资产占比 %.1f%%，投资资产占比 %.1f%%\n",
			format.FormatCurrency(summary.TotalAssets), summary.LiquidRatio, summary.InvestmentRatio)
		for _, s := range AllocationSuggestions(*summary) {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}
	if ratios != nil {
		if ratios.EmergencyFundSufficient() {
			b.WriteString("- 应急基金：充足\n")
		} else {
			fmt.Fprintf(&b, "- 应急基金可覆盖 %.1f 个月支出\n", ratios.EmergencyFundMonths)
		}
	}
	if c, ok := LatestChange(stats); ok {
		fmt.Fprintf(&b, "- %s 收入较 %s 变化 %+.1f%%，支出变化 %+.1f%%\n",
			format.MonthLabel(c.Current), format.MonthLabel(c.Previous), c.Income, c.Expense)
	}
	return b.String()
}
