package fetchers

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"moneyviz/internal/models"
)

func TestNormalizeRatios(t *testing.T) {
	tests := []struct {
		name string
		in   models.Ratios
		want models.Ratios
	}{
		{
			name: "finite values untouched",
			in:   models.Ratios{SavingsRate: 30, EmergencyFundMonths: 6},
			want: models.Ratios{SavingsRate: 30, EmergencyFundMonths: 6},
		},
		{
			name: "infinite fund capped",
			in:   models.Ratios{EmergencyFundMonths: math.Inf(1)},
			want: models.Ratios{EmergencyFundMonths: models.EmergencyFundCap},
		},
		{
			name: "nan ratio zeroed",
			in:   models.Ratios{ExpenseRatio: math.NaN(), EmergencyFundMonths: 2000},
			want: models.Ratios{EmergencyFundMonths: models.EmergencyFundCap},
		},
	}
	n := NewDataNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.in
			n.NormalizeRatios(&r)
			if diff := cmp.Diff(tt.want, r); diff != "" {
				t.Errorf("ratios mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeAccounts(t *testing.T) {
	in := []models.Account{{ID: 1}, {ID: 2, Currency: "USD"}}
	got := NewDataNormalizer().NormalizeAccounts(in)
	if got[0].Currency != DefaultCurrency || got[1].Currency != "USD" {
		t.Errorf("Unexpected currencies: %q %q", got[0].Currency, got[1].Currency)
	}
	if in[0].Currency != "" {
		t.Errorf("Expected input to stay untouched")
	}
}

func TestNormalizeDistribution(t *testing.T) {
	d := models.Distribution{ByType: []models.DistributionRow{
		{Type: "固定资产", Total: 10, Count: 1},
		{Type: "其他资产"},
		{Type: "流动资产", Total: 30, Count: 2},
	}}
	NewDataNormalizer().NormalizeDistribution(&d)

	want := []models.DistributionRow{{Type: "流动资产", Total: 30, Count: 2}, {Type: "固定资产", Total: 10, Count: 1}}
	if diff := cmp.Diff(want, d.ByType); diff != "" {
		t.Errorf("distribution mismatch (-want +got):\n%s", diff)
	}
}
