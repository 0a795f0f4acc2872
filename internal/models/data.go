package models

import (
	"sort"
	"time"
)

// Transaction types as the finance API spells them.
const (
	TxIncome   = "收入"
	TxExpense  = "支出"
	TxTransfer = "转账"
)

// Asset category types.
const (
	AssetLiquid     = "流动资产"
	AssetInvestment = "投资资产"
	AssetFixed      = "固定资产"
	AssetOther      = "其他资产"
)

// EmergencyFundCap is the value the API reports when monthly expense is zero
// or the fund would otherwise be unbounded.
const EmergencyFundCap = 999

// DashboardData is everything the dashboard view renders in one load
type DashboardData struct {
	Timestamp    time.Time      `json:"timestamp"`
	Summary      *AssetSummary  `json:"summary,omitempty"`
	Distribution *Distribution  `json:"distribution,omitempty"`
	Recent       []Transaction  `json:"recent,omitempty"`
	Trend        []TrendPoint   `json:"trend,omitempty"`
	Monthly      MonthlyStats   `json:"monthly,omitempty"`
	Ratios       *Ratios        `json:"ratios,omitempty"`
	IncomeExp    *IncomeExpense `json:"income_expense,omitempty"`
}

// Category is an asset category
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"` // one of the Asset* constants
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

// CategoryStats is a category with its account aggregates
type CategoryStats struct {
	Category
	AccountCount int     `json:"account_count"`
	TotalBalance float64 `json:"total_balance"`
}

// Account is a money holding account
type Account struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	CategoryID     int     `json:"category_id"`
	Balance        float64 `json:"balance"`
	InitialBalance float64 `json:"initial_balance"`
	Currency       string  `json:"currency,omitempty"`       // CNY by default
	Platform       string  `json:"platform,omitempty"`       // bank, alipay, wechat, ...
	AccountNumber  string  `json:"account_number,omitempty"` // last four digits
	Description    string  `json:"description,omitempty"`
	IsActive       bool    `json:"is_active"`
	CategoryName   string  `json:"category_name,omitempty"`
	CategoryType   string  `json:"category_type,omitempty"`
	CategoryColor  string  `json:"category_color,omitempty"`
}

// Transaction is a single ledger entry
type Transaction struct {
	ID           int     `json:"id"`
	AccountID    int     `json:"account_id"`
	Date         string  `json:"date"` // YYYY-MM-DD
	Description  string  `json:"description"`
	Type         string  `json:"type"` // TxIncome, TxExpense or TxTransfer
	Amount       float64 `json:"amount"`
	Category     string  `json:"category,omitempty"`
	BalanceAfter float64 `json:"balance_after,omitempty"`
	Note         string  `json:"note,omitempty"`
	AccountName  string  `json:"account_name,omitempty"`
}

// TransactionFilter narrows a transaction listing
type TransactionFilter struct {
	AccountID int
	StartDate string
	EndDate   string
	Type      string
	Limit     int
}

// AssetSummary is the totals block from /analytics/summary
type AssetSummary struct {
	TotalAssets      float64 `json:"total_assets"`
	TotalLiquid      float64 `json:"total_liquid"`
	TotalInvestment  float64 `json:"total_investment"`
	TotalFixed       float64 `json:"total_fixed"`
	TotalOther       float64 `json:"total_other"`
	AccountCount     int     `json:"account_count"`
	TransactionCount int     `json:"transaction_count"`
	LastUpdate       string  `json:"last_update,omitempty"`
	LiquidRatio      float64 `json:"liquid_ratio"`     // percent
	InvestmentRatio  float64 `json:"investment_ratio"` // percent
	FixedRatio       float64 `json:"fixed_ratio"`      // percent
}

// DistributionRow is one aggregated slice of the asset distribution
type DistributionRow struct {
	Name     string  `json:"name,omitempty"`
	Type     string  `json:"type,omitempty"`
	Platform string  `json:"platform,omitempty"`
	Icon     string  `json:"icon,omitempty"`
	Color    string  `json:"color,omitempty"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// Distribution is the response of /analytics/distribution
type Distribution struct {
	ByType     []DistributionRow `json:"by_type"`
	ByCategory []DistributionRow `json:"by_category"`
	ByPlatform []DistributionRow `json:"by_platform"`
}

// TypeTotal is a per transaction type aggregate
type TypeTotal struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// DailyTotal is one date/type aggregate
type DailyTotal struct {
	Date  string  `json:"date"`
	Type  string  `json:"type"`
	Total float64 `json:"total"`
}

// CategoryTotal is one category/type aggregate
type CategoryTotal struct {
	Category string  `json:"category"`
	Type     string  `json:"type"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// IncomeExpense is the response of /analytics/income-expense
type IncomeExpense struct {
	Summary    map[string]TypeTotal `json:"summary"`
	Daily      []DailyTotal         `json:"daily"`
	ByCategory []CategoryTotal      `json:"by_category"`
}

// TrendPoint is one day of the asset trend
type TrendPoint struct {
	Date        string  `json:"date"`
	TotalAssets float64 `json:"total_assets"`
	Liquid      float64 `json:"liquid,omitempty"`
	Investment  float64 `json:"investment,omitempty"`
	Fixed       float64 `json:"fixed,omitempty"`
}

// MonthlyStat is one month of income and expense
type MonthlyStat struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Count   int     `json:"count"`
	Net     float64 `json:"net"`
}

// MonthlyStats maps YYYY-MM to its statistics
type MonthlyStats map[string]MonthlyStat

// Months returns the month keys in chronological order.
func (m MonthlyStats) Months() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Ratios is the response of /analytics/ratios
type Ratios struct {
	LiquidityRatio      float64 `json:"liquidity_ratio"`
	InvestmentRatio     float64 `json:"investment_ratio"`
	FixedRatio          float64 `json:"fixed_ratio"`
	SavingsRate         float64 `json:"savings_rate"`
	ExpenseRatio        float64 `json:"expense_ratio"`
	EmergencyFundMonths float64 `json:"emergency_fund_months"`
}

// EmergencyFundSufficient reports whether the API capped the fund months.
func (r Ratios) EmergencyFundSufficient() bool {
	return r.EmergencyFundMonths >= EmergencyFundCap
}

// CreatedResponse is returned by POST endpoints
type CreatedResponse struct {
	ID int `json:"id"`
}

// APIError is the error body the finance API returns
type APIError struct {
	Error string `json:"error"`
}
