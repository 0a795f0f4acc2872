package view

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"moneyviz/internal/charts"
	"moneyviz/internal/models"
)

func TestValidateTransaction(t *testing.T) {
	valid := models.Transaction{AccountID: 1, Date: "2024-03-01", Type: models.TxIncome, Amount: 1}
	tests := []struct {
		name    string
		mutate  func(*models.Transaction)
		wantErr bool
	}{
		{"valid", func(*models.Transaction) {}, false},
		{"no account", func(tx *models.Transaction) { tx.AccountID = 0 }, true},
		{"zero amount", func(tx *models.Transaction) { tx.Amount = 0 }, true},
		{"unknown type", func(tx *models.Transaction) { tx.Type = "退款" }, true},
		{"bad date", func(tx *models.Transaction) { tx.Date = "yesterday" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			err := ValidateTransaction(tx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateTransaction() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidTransaction) {
				t.Errorf("Expected ErrInvalidTransaction, got %v", err)
			}
		})
	}
}

func TestAllocationSuggestions(t *testing.T) {
	tests := []struct {
		name    string
		summary models.AssetSummary
		want    []string
	}{
		{"balanced", models.AssetSummary{LiquidRatio: 20, InvestmentRatio: 60}, nil},
		{"within tolerance", models.AssetSummary{LiquidRatio: 15, InvestmentRatio: 50}, nil},
		{"short on both", models.AssetSummary{LiquidRatio: 10, InvestmentRatio: 30}, []string{SuggestLiquid, SuggestInvestment}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, AllocationSuggestions(tt.summary)); diff != "" {
				t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewRatioView(t *testing.T) {
	v := NewRatioView(models.Ratios{SavingsRate: -5, EmergencyFundMonths: models.EmergencyFundCap})
	if v.EmergencyText != "充足" || !strings.Contains(v.EmergencyClass, "success") {
		t.Errorf("Expected a sufficient emergency fund, got %+v", v)
	}
	if !strings.Contains(v.SavingsClass, "danger") {
		t.Errorf("Expected a negative savings rate to be flagged, got %q", v.SavingsClass)
	}

	v = NewRatioView(models.Ratios{EmergencyFundMonths: 3})
	if v.EmergencyText != "3.0个月" || !strings.Contains(v.EmergencyClass, "warning") {
		t.Errorf("Expected a short emergency fund warning, got %+v", v)
	}
}

func TestLatestChange(t *testing.T) {
	stats := models.MonthlyStats{
		"2024-02": {Income: 100, Expense: 50},
		"2024-03": {Income: 150, Expense: 25},
		"2024-01": {Income: 0, Expense: 0},
	}
	c, ok := LatestChange(stats)
	if !ok {
		t.Fatalf("Expected a change")
	}
	want := MonthChange{Current: "2024-03", Previous: "2024-02", Income: 50, Expense: -50}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("change mismatch (-want +got):\n%s", diff)
	}
	if _, ok := LatestChange(models.MonthlyStats{"2024-01": {}}); ok {
		t.Errorf("Expected no change for a single month")
	}
}

func TestCashFlows(t *testing.T) {
	rows := []models.CategoryTotal{
		{Category: "工资", Type: models.TxIncome, Total: 1000},
		{Category: "住房", Type: models.TxExpense, Total: 600},
		{Category: "转入", Type: models.TxTransfer, Total: 50},
	}
	got := CashFlows(rows)
	want := []charts.Flow{
		{From: "工资", To: NodeIncome, Value: 1000, FromCategory: "source", ToCategory: "hub"},
		{From: NodeIncome, To: "住房", Value: 600, FromCategory: "hub", ToCategory: "target"},
		{From: NodeIncome, To: NodeSavings, Value: 400, FromCategory: "hub", ToCategory: "target"},
	}
	if diff := cmp.Diff(want, got.Flows); diff != "" {
		t.Errorf("flows mismatch (-want +got):\n%s", diff)
	}
}

func TestSpendingHeatmap(t *testing.T) {
	txs := []models.Transaction{
		{Date: "2024-03-28", Type: models.TxExpense, Category: "餐饮", Amount: 10},
		{Date: "2024-03-02", Type: models.TxExpense, Category: "餐饮", Amount: 5},
		{Date: "2024-02-10", Type: models.TxExpense, Amount: 7},
		{Date: "2024-02-15", Type: models.TxIncome, Category: "工资", Amount: 100},
	}
	want := []charts.CategoryCell{
		{Row: "餐饮", Column: "2024年03月", Value: 15},
		{Row: "其他", Column: "2024年02月", Value: 7},
	}
	if diff := cmp.Diff(want, SpendingHeatmap(txs).Categories); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupAccounts(t *testing.T) {
	accounts := []models.Account{
		{ID: 1, CategoryType: models.AssetFixed, Balance: 10},
		{ID: 2, CategoryType: models.AssetLiquid, Balance: 5},
		{ID: 3, CategoryType: models.AssetLiquid, Balance: 7},
		{ID: 4, Balance: 1},
	}
	groups := GroupAccounts(accounts)
	var types []string
	for _, g := range groups {
		types = append(types, g.Type)
	}
	if diff := cmp.Diff([]string{models.AssetLiquid, models.AssetFixed, models.AssetOther}, types); diff != "" {
		t.Errorf("group order mismatch (-want +got):\n%s", diff)
	}
	if groups[0].Total != 12 {
		t.Errorf("Expected liquid total 12, got %v", groups[0].Total)
	}
}

func TestBreakdown(t *testing.T) {
	rows := []models.CategoryTotal{
		{Category: "工资", Type: models.TxIncome, Total: 100},
		{Category: "住房", Type: models.TxExpense, Total: 300},
		{Category: "餐饮", Type: models.TxExpense, Total: 50},
	}
	items := Breakdown(rows, 2)
	if len(items) != 2 || items[0].Name != "住房（支出）" || items[1].Value != 100 {
		t.Errorf("Unexpected breakdown %+v", items)
	}
}

func TestMarkdown(t *testing.T) {
	m, err := NewMarkup()
	if err != nil {
		t.Fatalf("NewMarkup failed: %v", err)
	}
	out, err := m.Markdown(Insights(&models.AssetSummary{TotalAssets: 1000, LiquidRatio: 5}, nil, nil))
	if err != nil {
		t.Fatalf("Markdown failed: %v", err)
	}
	if !strings.Contains(out, "<h3") || !strings.Contains(out, SuggestLiquid) {
		t.Errorf("Unexpected markup %q", out)
	}
}

func TestNotices(t *testing.T) {
	n := NewNotices(2)
	n.Add(LevelInfo, "a")
	n.Add(LevelInfo, "b")
	n.Add(LevelError, "c")
	got := n.Drain()
	if len(got) != 2 || got[0].Message != "b" || got[1].Message != "c" {
		t.Errorf("Expected the two newest notices, got %+v", got)
	}
	if n.Len() != 0 {
		t.Errorf("Expected Drain to empty the queue")
	}
}
