package view

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"moneyviz/internal/charts"
	"moneyviz/internal/format"
	"moneyviz/internal/logger"
	"moneyviz/internal/models"
)

// Accounts regions and charts.
const (
	RegionAccounts       = "accounts-container"
	RegionAccountDetails = "account-details"

	ChartCategoryShare  = "category-share-chart"
	ChartAccountBalance = "account-balance-chart"
)

// AccountDetailLimit is how many transactions the account details show.
const AccountDetailLimit = 20

// ErrInvalidAccount is returned for accounts that fail validation.
var ErrInvalidAccount = errors.New("invalid account")

var assetTypeOrder = []string{models.AssetLiquid, models.AssetInvestment, models.AssetFixed, models.AssetOther}

// Accounts lists accounts grouped by asset type.
type Accounts struct {
	base
}

// NewAccounts creates the accounts view.
func NewAccounts(vc *Context, m *Markup) *Accounts {
	return &Accounts{base: newBase(vc, m, "accounts")}
}

// Load fetches categories and accounts and renders them.
func (a *Accounts) Load(parent context.Context) error {
	ctx, gen := a.begin(parent)
	defer a.finish(gen)

	var (
		stats    []models.CategoryStats
		accounts []models.Account
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats, err = a.vc.Source.CategoryStats(gctx)
		return err
	})
	g.Go(func() (err error) {
		accounts, err = a.vc.Source.Accounts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		a.fail(ctx, "账户", err)
		return err
	}

	if !a.apply(gen, func() {
		groups := GroupAccounts(accounts)
		if len(groups) == 0 {
			a.emptyRegion(RegionAccounts, EmptyState{Icon: "🏦", Title: "暂无账户", Description: "添加您的第一个账户吧"})
		} else {
			a.renderRegion(RegionAccounts, "accounts", groups)
		}
		a.show(charts.Pie, ChartCategoryShare, charts.Config{"title": "分类占比"}, CategoryShare(stats))
		a.show(charts.Bar, ChartAccountBalance, charts.Config{"title": "账户余额", "horizontal": true, "showValues": true}, AccountBalances(accounts))
	}) {
		return ErrStale
	}
	return nil
}

// Details renders one account with its latest transactions.
func (a *Accounts) Details(ctx context.Context, id int) error {
	var (
		account *models.Account
		txs     []models.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		account, err = a.vc.Source.Account(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		txs, err = a.vc.Source.Transactions(gctx, models.TransactionFilter{AccountID: id, Limit: AccountDetailLimit})
		return err
	})
	if err := g.Wait(); err != nil {
		a.fail(ctx, "账户详情", err)
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	header, err := a.markup.Render("accounts", []AccountGroup{{Type: account.CategoryType, Total: account.Balance, Accounts: []models.Account{*account}}})
	if err != nil {
		return err
	}
	var body string
	if len(txs) == 0 {
		body, err = a.markup.Render("empty", EmptyState{Icon: "💸", Title: "暂无交易记录"})
	} else {
		body, err = a.markup.Render("transactions", txs)
	}
	if err != nil {
		return err
	}
	a.setRegion(RegionAccountDetails, header+body)
	return nil
}

// Save validates and stores acc, then reloads the view.
func (a *Accounts) Save(ctx context.Context, acc models.Account) (int, error) {
	if err := ValidateAccount(acc); err != nil {
		return 0, err
	}
	id, err := a.vc.Source.SaveAccount(ctx, acc)
	if err != nil {
		a.vc.Notices.Add(LevelError, "保存账户失败")
		return 0, fmt.Errorf("failed to save account: %w", err)
	}
	a.vc.Notices.Add(LevelSuccess, "账户已保存")
	if err := a.Load(ctx); err != nil {
		a.log.Warn("account list reload failed", logger.Fields{"error": err.Error()})
	}
	return id, nil
}

func (a *Accounts) Regions() []string {
	return []string{RegionAccounts, ChartCategoryShare, ChartAccountBalance, RegionAccountDetails}
}

// ValidateAccount checks the fields the API requires.
func ValidateAccount(a models.Account) error {
	switch {
	case strings.TrimSpace(a.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidAccount)
	case a.CategoryID <= 0:
		return fmt.Errorf("%w: category is required", ErrInvalidAccount)
	}
	return nil
}

// GroupAccounts groups accounts by asset type in the fixed type order;
// unknown types follow in first-seen order and empty groups are dropped.
func GroupAccounts(accounts []models.Account) []AccountGroup {
	byType := map[string]*AccountGroup{}
	var order []string
	for _, t := range assetTypeOrder {
		byType[t] = &AccountGroup{Type: t}
		order = append(order, t)
	}
	for _, acc := range accounts {
		t := acc.CategoryType
		if t == "" {
			t = models.AssetOther
		}
		g, ok := byType[t]
		if !ok {
			g = &AccountGroup{Type: t}
			byType[t] = g
			order = append(order, t)
		}
		g.Accounts = append(g.Accounts, acc)
		g.Total += acc.Balance
	}

	var out []AccountGroup
	for _, t := range order {
		if g := byType[t]; len(g.Accounts) > 0 {
			out = append(out, *g)
		}
	}
	return out
}

// CategoryShare is the balance per category, empty categories left out.
func CategoryShare(stats []models.CategoryStats) []format.Item {
	var items []format.Item
	for _, s := range stats {
		if s.TotalBalance == 0 {
			continue
		}
		items = append(items, format.Item{Name: s.Name, Value: s.TotalBalance, Color: s.Color})
	}
	return items
}

// AccountBalances plots each account's balance.
func AccountBalances(accounts []models.Account) format.BarInput {
	in := format.BarInput{Label: "余额"}
	for _, a := range accounts {
		in.Labels = append(in.Labels, charts.TruncateLabel(a.Name, 10))
		in.Values = append(in.Values, a.Balance)
	}
	return in
}
