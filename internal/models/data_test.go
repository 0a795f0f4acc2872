package models

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMonthlyStatsMonthsAreChronological(t *testing.T) {
	raw := `{"2025-03":{"income":10,"expense":4,"count":2,"net":6},
	         "2024-12":{"income":1,"expense":1,"count":2,"net":0},
	         "2025-01":{"income":5,"expense":9,"count":3,"net":-4}}`

	var stats MonthlyStats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		t.Fatalf("Failed to unmarshal monthly stats: %v", err)
	}

	want := []string{"2024-12", "2025-01", "2025-03"}
	if diff := cmp.Diff(want, stats.Months()); diff != "" {
		t.Errorf("Months() mismatch (-want +got):\n%s", diff)
	}
	if stats["2025-01"].Net != -4 {
		t.Errorf("Expected net -4 for 2025-01, got %v", stats["2025-01"].Net)
	}
}

func TestIncomeExpenseDecoding(t *testing.T) {
	raw := `{"summary":{"收入":{"total":8000,"count":2},"支出":{"total":3200.5,"count":14}},
	         "daily":[{"date":"2025-05-01","type":"支出","total":120}],
	         "by_category":[{"category":"餐饮","type":"支出","total":900,"count":10}]}`

	var ie IncomeExpense
	if err := json.Unmarshal([]byte(raw), &ie); err != nil {
		t.Fatalf("Failed to unmarshal income-expense: %v", err)
	}
	if ie.Summary[TxExpense].Total != 3200.5 {
		t.Errorf("Expected expense total 3200.5, got %v", ie.Summary[TxExpense].Total)
	}
	if len(ie.ByCategory) != 1 || ie.ByCategory[0].Category != "餐饮" {
		t.Errorf("Unexpected by_category: %+v", ie.ByCategory)
	}
}

func TestRatiosEmergencyFund(t *testing.T) {
	tests := []struct {
		months float64
		want   bool
	}{
		{999, true},
		{6.5, false},
		{0, false},
	}
	for _, tt := range tests {
		if got := (Ratios{EmergencyFundMonths: tt.months}).EmergencyFundSufficient(); got != tt.want {
			t.Errorf("EmergencyFundSufficient(%v) = %v, want %v", tt.months, got, tt.want)
		}
	}
}
