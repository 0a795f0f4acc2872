package view

import (
	"context"
	"errors"
	"fmt"

	"moneyviz/internal/format"
	"moneyviz/internal/logger"
	"moneyviz/internal/models"
)

// RegionTransactions holds the transaction table.
const RegionTransactions = "transactions-container"

// ErrInvalidTransaction is returned for transactions that fail validation.
var ErrInvalidTransaction = errors.New("invalid transaction")

// Transactions is the transaction list with its forms.
type Transactions struct {
	base
	filter models.TransactionFilter
}

// NewTransactions creates the transactions view.
func NewTransactions(vc *Context, m *Markup) *Transactions {
	return &Transactions{base: newBase(vc, m, "transactions")}
}

// SetFilter narrows later loads.
func (t *Transactions) SetFilter(f models.TransactionFilter) {
	t.mu.Lock()
	t.filter = f
	t.mu.Unlock()
}

// Load fetches the filtered transactions and renders the table.
func (t *Transactions) Load(parent context.Context) error {
	ctx, gen := t.begin(parent)
	defer t.finish(gen)

	t.mu.Lock()
	filter := t.filter
	t.mu.Unlock()

	txs, err := t.vc.Source.Transactions(ctx, filter)
	if err != nil {
		t.fail(ctx, "交易记录", err)
		return err
	}
	if !t.apply(gen, func() {
		if len(txs) == 0 {
			t.emptyRegion(RegionTransactions, EmptyState{Icon: "💸", Title: "暂无交易记录", Description: "开始记录您的第一笔交易吧"})
			return
		}
		t.renderRegion(RegionTransactions, "transactions", txs)
	}) {
		return ErrStale
	}
	return nil
}

// Save validates and stores tx, then reloads the list.
func (t *Transactions) Save(ctx context.Context, tx models.Transaction) (int, error) {
	if err := ValidateTransaction(tx); err != nil {
		return 0, err
	}
	id, err := t.vc.Source.SaveTransaction(ctx, tx)
	if err != nil {
		t.vc.Notices.Add(LevelError, "保存交易失败")
		return 0, fmt.Errorf("failed to save transaction: %w", err)
	}
	t.vc.Notices.Add(LevelSuccess, "交易已保存")
	t.reload(ctx)
	return id, nil
}

// Delete removes the transaction id. It refuses to act unless confirmed.
func (t *Transactions) Delete(ctx context.Context, id int, confirmed bool) error {
	if !confirmed {
		return fmt.Errorf("delete transaction %d: %w", id, ErrConfirmationRequired)
	}
	if err := t.vc.Source.DeleteTransaction(ctx, id); err != nil {
		t.vc.Notices.Add(LevelError, "删除交易失败")
		return fmt.Errorf("failed to delete transaction %d: %w", id, err)
	}
	t.log.Info("transaction deleted", logger.Fields{"transaction": id})
	t.vc.Notices.Add(LevelSuccess, "交易已删除")
	t.reload(ctx)
	return nil
}

// reload refreshes the list after a write. A failed reload has already
// become a notice and does not undo the write.
func (t *Transactions) reload(ctx context.Context) {
	if err := t.Load(ctx); err != nil {
		t.log.Warn("transaction list reload failed", logger.Fields{"error": err.Error()})
	}
}

func (t *Transactions) Regions() []string { return []string{RegionTransactions} }

// ValidateTransaction checks the fields the API requires.
func ValidateTransaction(tx models.Transaction) error {
	switch {
	case tx.AccountID <= 0:
		return fmt.Errorf("%w: account is required", ErrInvalidTransaction)
	case tx.Amount <= 0:
		return fmt.Errorf("%w: amount must be positive", ErrInvalidTransaction)
	case tx.Type != models.TxIncome && tx.Type != models.TxExpense && tx.Type != models.TxTransfer:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, tx.Type)
	}
	if _, err := format.ParseDate(tx.Date); err != nil {
		return fmt.Errorf("%w: bad date %q", ErrInvalidTransaction, tx.Date)
	}
	return nil
}
