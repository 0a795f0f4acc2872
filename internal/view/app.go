package view

import (
	"context"
	"fmt"
	"sync"

	"moneyviz/internal/logger"
)

// View names.
const (
	ViewDashboard    = "dashboard"
	ViewAccounts     = "accounts"
	ViewTransactions = "transactions"
	ViewAnalytics    = "analytics"
)

// Page is a view the app can navigate to.
type Page interface {
	Load(ctx context.Context) error
	Teardown()
	Charts() []string
	// Regions lists the page regions the view fills, in layout order.
	Regions() []string
}

// App switches between views, tearing down the one it leaves.
type App struct {
	Context      *Context
	Markup       *Markup
	Dashboard    *Dashboard
	Accounts     *Accounts
	Transactions *Transactions
	Analytics    *Analytics

	mu      sync.Mutex
	current string
	log     *logger.Logger
}

// NewApp builds every view over vc.
func NewApp(vc *Context) (*App, error) {
	m, err := NewMarkup()
	if err != nil {
		return nil, err
	}
	return &App{
		Context:      vc,
		Markup:       m,
		Dashboard:    NewDashboard(vc, m),
		Accounts:     NewAccounts(vc, m),
		Transactions: NewTransactions(vc, m),
		Analytics:    NewAnalytics(vc, m),
		log:          logger.Component("view"),
	}, nil
}

// Page returns the view called name.
func (a *App) Page(name string) (Page, error) {
	switch name {
	case ViewDashboard:
		return a.Dashboard, nil
	case ViewAccounts:
		return a.Accounts, nil
	case ViewTransactions:
		return a.Transactions, nil
	case ViewAnalytics:
		return a.Analytics, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, name)
	}
}

// Current is the name of the view shown last.
func (a *App) Current() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// Show navigates to the view called name and loads it. Leaving a view
// cancels its pending fetches and destroys its charts.
func (a *App) Show(ctx context.Context, name string) error {
	next, err := a.Page(name)
	if err != nil {
		return err
	}

	a.mu.Lock()
	prev := a.current
	a.current = name
	a.mu.Unlock()

	if prev != "" && prev != name {
		if p, err := a.Page(prev); err == nil {
			p.Teardown()
		}
		a.log.Debug("view switched", logger.Fields{"from": prev, "to": name})
	}
	return next.Load(ctx)
}

// Refresh reloads the current view.
func (a *App) Refresh(ctx context.Context) error {
	name := a.Current()
	if name == "" {
		name = ViewDashboard
	}
	return a.Show(ctx, name)
}

// Close tears down every view and destroys all remaining charts.
func (a *App) Close() {
	for _, p := range []Page{a.Dashboard, a.Accounts, a.Transactions, a.Analytics} {
		p.Teardown()
	}
	a.Context.Factory.DestroyAll()
}
