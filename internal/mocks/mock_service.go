package mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"moneyviz/internal/logger"
	"moneyviz/internal/models"
)

// ErrNotFound is returned for ids the fixtures do not hold.
var ErrNotFound = fmt.Errorf("mock resource not found")

// MockService answers finance API calls from JSON fixtures. Writes are kept
// in memory for the lifetime of the service.
type MockService struct {
	mocksDir string
	log      *logger.Logger

	mu           sync.Mutex
	loaded       bool
	accounts     []models.Account
	transactions []models.Transaction
	nextID       int
}

// NewMockService creates a new mock service reading mocksDir/data
func NewMockService(mocksDir string) *MockService {
	return &MockService{
		mocksDir: filepath.Join(mocksDir, "data"),
		log:      logger.Component("mocks"),
	}
}

// ensureLoaded reads the mutable fixtures once. It must be called with m.mu
// held.
func (m *MockService) ensureLoaded() error {
	if m.loaded {
		return nil
	}
	if err := m.loadTypedJSONFile("accounts.json", &m.accounts); err != nil {
		return err
	}
	if err := m.loadTypedJSONFile("transactions.json", &m.transactions); err != nil {
		return err
	}
	for _, t := range m.transactions {
		if t.ID > m.nextID {
			m.nextID = t.ID
		}
	}
	for _, a := range m.accounts {
		if a.ID > m.nextID {
			m.nextID = a.ID
		}
	}
	m.loaded = true
	m.log.Info("loaded mock fixtures", logger.Fields{"dir": m.mocksDir, "accounts": len(m.accounts), "transactions": len(m.transactions)})
	return nil
}

// Summary returns the fixture asset totals
func (m *MockService) Summary(ctx context.Context) (*models.AssetSummary, error) {
	var s models.AssetSummary
	if err := m.load(ctx, "summary.json", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Distribution returns the fixture asset distribution
func (m *MockService) Distribution(ctx context.Context) (*models.Distribution, error) {
	var d models.Distribution
	if err := m.load(ctx, "distribution.json", &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// IncomeExpense returns the fixture income and expense aggregates; the date
// range is not applied.
func (m *MockService) IncomeExpense(ctx context.Context, start, end string) (*models.IncomeExpense, error) {
	var ie models.IncomeExpense
	if err := m.load(ctx, "income_expense.json", &ie); err != nil {
		return nil, err
	}
	return &ie, nil
}

// Trend returns at most the last days fixture points
func (m *MockService) Trend(ctx context.Context, days int) ([]models.TrendPoint, error) {
	var points []models.TrendPoint
	if err := m.load(ctx, "trend.json", &points); err != nil {
		return nil, err
	}
	if days > 0 && len(points) > days {
		points = points[len(points)-days:]
	}
	return points, nil
}

// MonthlyStats returns the fixture monthly statistics
func (m *MockService) MonthlyStats(ctx context.Context) (models.MonthlyStats, error) {
	stats := models.MonthlyStats{}
	if err := m.load(ctx, "monthly_stats.json", &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// Ratios returns the fixture financial ratios
func (m *MockService) Ratios(ctx context.Context) (*models.Ratios, error) {
	var r models.Ratios
	if err := m.load(ctx, "ratios.json", &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Categories returns the fixture categories
func (m *MockService) Categories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := m.load(ctx, "categories.json", &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// CategoryStats returns the fixture category statistics
func (m *MockService) CategoryStats(ctx context.Context) ([]models.CategoryStats, error) {
	var stats []models.CategoryStats
	if err := m.load(ctx, "category_stats.json", &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// Accounts returns the active accounts
func (m *MockService) Accounts(ctx context.Context) ([]models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureLoaded(); err != nil {
		return nil, err
	}
	out := make([]models.Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		if a.IsActive {
			out = append(out, a)
		}
	}
	return out, ctx.Err()
}

// Account returns one account
func (m *MockService) Account(ctx context.Context, id int) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureLoaded(); err != nil {
		return nil, err
	}
	for _, a := range m.accounts {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, fmt.Errorf("account %d: %w", id, ErrNotFound)
}

// SaveAccount creates or replaces an account
func (m *MockService) SaveAccount(ctx context.Context, a models.Account) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureLoaded(); err != nil {
		return 0, err
	}
	if a.ID == 0 {
		m.nextID++
		a.ID = m.nextID
		a.IsActive = true
		m.accounts = append(m.accounts, a)
		return a.ID, nil
	}
	for i := range m.accounts {
		if m.accounts[i].ID == a.ID {
			m.accounts[i] = a
			return a.ID, nil
		}
	}
	return 0, fmt.Errorf("account %d: %w", a.ID, ErrNotFound)
}

// DeleteAccount removes an account
func (m *MockService) DeleteAccount(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureLoaded(); err != nil {
		return err
	}
	for i, a := range m.accounts {
		if a.ID == id {
			m.accounts = append(m.accounts[:i], m.accounts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("account %d: %w", id, ErrNotFound)
}

// Transactions returns transactions newest first, narrowed by filter
func (m *MockService) Transactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureLoaded(); err != nil {
		return nil, err
	}

	var out []models.Transaction
	for _, t := range m.transactions {
		switch {
		case filter.AccountID > 0 && t.AccountID != filter.AccountID:
		case filter.Type != "" && t.Type != filter.Type:
		case filter.StartDate != "" && t.Date < filter.StartDate:
		case filter.EndDate != "" && t.Date > filter.EndDate:
		default:
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID > out[j].ID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, ctx.Err()
}

// Transaction returns one transaction
func (m *MockService) Transaction(ctx context.Context, id int) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureLoaded(); err != nil {
		return nil, err
	}
	for _, t := range m.transactions {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("transaction %d: %w", id, ErrNotFound)
}

// SaveTransaction creates or replaces a transaction
func (m *MockService) SaveTransaction(ctx context.Context, tx models.Transaction) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureLoaded(); err != nil {
		return 0, err
	}
	if tx.ID == 0 {
		m.nextID++
		tx.ID = m.nextID
		m.transactions = append(m.transactions, tx)
		return tx.ID, nil
	}
	for i := range m.transactions {
		if m.transactions[i].ID == tx.ID {
			m.transactions[i] = tx
			return tx.ID, nil
		}
	}
	return 0, fmt.Errorf("transaction %d: %w", tx.ID, ErrNotFound)
}

// DeleteTransaction removes a transaction
func (m *MockService) DeleteTransaction(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureLoaded(); err != nil {
		return err
	}
	for i, t := range m.transactions {
		if t.ID == id {
			m.transactions = append(m.transactions[:i], m.transactions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("transaction %d: %w", id, ErrNotFound)
}

func (m *MockService) load(ctx context.Context, filename string, target interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.loadTypedJSONFile(filename, target)
}

// loadTypedJSONFile loads a JSON file and unmarshals it into the provided type
func (m *MockService) loadTypedJSONFile(filename string, target interface{}) error {
	filePath := filepath.Join(m.mocksDir, filename)
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	if err := json.Unmarshal(content, target); err != nil {
		return fmt.Errorf("failed to unmarshal file %s: %w", filename, err)
	}
	return nil
}
