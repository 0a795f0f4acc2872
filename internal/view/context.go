// Package view composes the dashboard pages: it fetches finance data,
// reshapes it, and drives charts and page regions through an explicit
// Context.
package view

import (
	"context"
	"errors"
	"sync"
	"time"

	"moneyviz/internal/engine"
	"moneyviz/internal/factory"
	"moneyviz/internal/models"
	"moneyviz/internal/palette"
	"moneyviz/internal/registry"
	"moneyviz/internal/theme"
)

// ErrConfirmationRequired is returned by destructive actions called without
// explicit confirmation.
var ErrConfirmationRequired = errors.New("confirmation required")

// ErrUnknownView is returned for view names Show does not know.
var ErrUnknownView = errors.New("unknown view")

// Source is the finance API as the views consume it.
type Source interface {
	Summary(ctx context.Context) (*models.AssetSummary, error)
	Distribution(ctx context.Context) (*models.Distribution, error)
	IncomeExpense(ctx context.Context, start, end string) (*models.IncomeExpense, error)
	Trend(ctx context.Context, days int) ([]models.TrendPoint, error)
	MonthlyStats(ctx context.Context) (models.MonthlyStats, error)
	Ratios(ctx context.Context) (*models.Ratios, error)

	Accounts(ctx context.Context) ([]models.Account, error)
	Account(ctx context.Context, id int) (*models.Account, error)
	SaveAccount(ctx context.Context, a models.Account) (int, error)
	DeleteAccount(ctx context.Context, id int) error
	CategoryStats(ctx context.Context) ([]models.CategoryStats, error)

	Transactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error)
	Transaction(ctx context.Context, id int) (*models.Transaction, error)
	SaveTransaction(ctx context.Context, tx models.Transaction) (int, error)
	DeleteTransaction(ctx context.Context, id int) error
}

// Context is everything a view needs: the data source, the chart factory
// with its registry and page, the palette and the notice queue.
type Context struct {
	Source   Source
	Factory  *factory.Factory
	Registry *registry.Registry
	Palette  *palette.Palette
	Page     *engine.Page
	Notices  *Notices
}

// NewContext builds a Context around f. The palette follows theme changes.
func NewContext(src Source, f *factory.Factory, p *palette.Palette) *Context {
	c := &Context{
		Source:   src,
		Factory:  f,
		Registry: f.Registry(),
		Palette:  p,
		Page:     f.Page(),
		Notices:  NewNotices(20),
	}
	c.Registry.OnThemeChange(func(m theme.Mode) { p.OnThemeChange(m.String()) })
	return c
}

// Level grades a notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a transient user-facing message.
type Notice struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Notices is a bounded queue of notices, oldest dropped first.
type Notices struct {
	mu    sync.Mutex
	max   int
	items []Notice
}

// NewNotices keeps at most max notices.
func NewNotices(max int) *Notices {
	if max <= 0 {
		max = 1
	}
	return &Notices{max: max}
}

// Add queues a notice.
func (n *Notices) Add(level Level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, Notice{Level: level, Message: message, Time: time.Now()})
	if len(n.items) > n.max {
		n.items = n.items[len(n.items)-n.max:]
	}
}

// Drain returns the queued notices and empties the queue.
func (n *Notices) Drain() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.items
	n.items = nil
	return out
}

// Len is the number of queued notices.
func (n *Notices) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.items)
}
