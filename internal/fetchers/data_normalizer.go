package fetchers

import (
	"math"
	"sort"

	"moneyviz/internal/models"
)

// DefaultCurrency is assumed for accounts the API returns without one.
const DefaultCurrency = "CNY"

// DataNormalizer cleans API payloads before the views read them
type DataNormalizer struct{}

// NewDataNormalizer creates a new data normalizer instance
func NewDataNormalizer() *DataNormalizer {
	return &DataNormalizer{}
}

// NormalizeTrend orders points by date and keeps the last point per date.
func (n *DataNormalizer) NormalizeTrend(points []models.TrendPoint) []models.TrendPoint {
	byDate := make(map[string]models.TrendPoint, len(points))
	for _, p := range points {
		if p.Date == "" {
			continue
		}
		byDate[p.Date] = p
	}
	out := make([]models.TrendPoint, 0, len(byDate))
	for _, p := range byDate {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// NormalizeAccounts fills in the default currency.
func (n *DataNormalizer) NormalizeAccounts(accounts []models.Account) []models.Account {
	out := make([]models.Account, len(accounts))
	for i, a := range accounts {
		if a.Currency == "" {
			a.Currency = DefaultCurrency
		}
		out[i] = a
	}
	return out
}

// NormalizeRatios zeroes non-finite ratios and caps the emergency fund at
// models.EmergencyFundCap months.
func (n *DataNormalizer) NormalizeRatios(r *models.Ratios) {
	for _, v := range []*float64{&r.LiquidityRatio, &r.InvestmentRatio, &r.FixedRatio, &r.SavingsRate, &r.ExpenseRatio} {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = 0
		}
	}
	if math.IsNaN(r.EmergencyFundMonths) || math.IsInf(r.EmergencyFundMonths, 1) || r.EmergencyFundMonths > models.EmergencyFundCap {
		r.EmergencyFundMonths = models.EmergencyFundCap
	}
	if r.EmergencyFundMonths < 0 {
		r.EmergencyFundMonths = 0
	}
}

// NormalizeDistribution drops empty slices and orders each breakdown by
// total, largest first.
func (n *DataNormalizer) NormalizeDistribution(d *models.Distribution) {
	d.ByType = normalizeRows(d.ByType)
	d.ByCategory = normalizeRows(d.ByCategory)
	d.ByPlatform = normalizeRows(d.ByPlatform)
}

func normalizeRows(rows []models.DistributionRow) []models.DistributionRow {
	out := rows[:0:0]
	for _, r := range rows {
		if r.Total == 0 && r.Count == 0 {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}
