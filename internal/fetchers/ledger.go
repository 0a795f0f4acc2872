package fetchers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"moneyviz/internal/models"
)

// Accounts lists the active accounts
func (f *FinanceFetcher) Accounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if err := f.get(ctx, "/accounts", nil, &accounts); err != nil {
		return nil, err
	}
	return f.normalizer.NormalizeAccounts(accounts), nil
}

// Account fetches one account
func (f *FinanceFetcher) Account(ctx context.Context, id int) (*models.Account, error) {
	var a models.Account
	if err := f.get(ctx, fmt.Sprintf("/accounts/%d", id), nil, &a); err != nil {
		return nil, err
	}
	normalized := f.normalizer.NormalizeAccounts([]models.Account{a})
	return &normalized[0], nil
}

// SaveAccount creates a when its ID is zero and updates it otherwise. It
// returns the account id.
func (f *FinanceFetcher) SaveAccount(ctx context.Context, a models.Account) (int, error) {
	if a.ID == 0 {
		var created models.CreatedResponse
		if err := f.do(ctx, http.MethodPost, "/accounts", nil, a, &created); err != nil {
			return 0, err
		}
		return created.ID, nil
	}
	if err := f.do(ctx, http.MethodPut, fmt.Sprintf("/accounts/%d", a.ID), nil, a, nil); err != nil {
		return 0, err
	}
	return a.ID, nil
}

// DeleteAccount deletes an account
func (f *FinanceFetcher) DeleteAccount(ctx context.Context, id int) error {
	return f.do(ctx, http.MethodDelete, fmt.Sprintf("/accounts/%d", id), nil, nil, nil)
}

// Transactions lists transactions, newest first, narrowed by filter
func (f *FinanceFetcher) Transactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	params := map[string]string{}
	if filter.AccountID > 0 {
		params["account_id"] = strconv.Itoa(filter.AccountID)
	}
	if filter.StartDate != "" {
		params["start_date"] = filter.StartDate
	}
	if filter.EndDate != "" {
		params["end_date"] = filter.EndDate
	}
	if filter.Type != "" {
		params["type"] = filter.Type
	}
	if filter.Limit > 0 {
		params["limit"] = strconv.Itoa(filter.Limit)
	}

	var txs []models.Transaction
	if err := f.get(ctx, "/transactions", params, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// Transaction fetches one transaction
func (f *FinanceFetcher) Transaction(ctx context.Context, id int) (*models.Transaction, error) {
	var tx models.Transaction
	if err := f.get(ctx, fmt.Sprintf("/transactions/%d", id), nil, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// SaveTransaction creates tx when its ID is zero and updates it otherwise.
// It returns the transaction id.
func (f *FinanceFetcher) SaveTransaction(ctx context.Context, tx models.Transaction) (int, error) {
	if tx.ID == 0 {
		var created models.CreatedResponse
		if err := f.do(ctx, http.MethodPost, "/transactions", nil, tx, &created); err != nil {
			return 0, err
		}
		return created.ID, nil
	}
	if err := f.do(ctx, http.MethodPut, fmt.Sprintf("/transactions/%d", tx.ID), nil, tx, nil); err != nil {
		return 0, err
	}
	return tx.ID, nil
}

// DeleteTransaction deletes a transaction
func (f *FinanceFetcher) DeleteTransaction(ctx context.Context, id int) error {
	return f.do(ctx, http.MethodDelete, fmt.Sprintf("/transactions/%d", id), nil, nil, nil)
}

// Categories lists the asset categories
func (f *FinanceFetcher) Categories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := f.get(ctx, "/categories", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// CategoryStats lists categories with account counts and balances
func (f *FinanceFetcher) CategoryStats(ctx context.Context) ([]models.CategoryStats, error) {
	var stats []models.CategoryStats
	if err := f.get(ctx, "/categories/stats", nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}
