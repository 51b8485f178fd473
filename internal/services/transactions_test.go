package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"tally/internal/core"
	"tally/internal/storage"
)

type recordingPublisher struct {
	exports []string
	deletes []string
	fail    bool
}

func (p *recordingPublisher) PublishExport(_ context.Context, transactionID, _ string) error {
	if p.fail {
		return fmt.Errorf("queue unavailable")
	}
	p.exports = append(p.exports, transactionID)
	return nil
}

func (p *recordingPublisher) PublishDelete(_ context.Context, transactionID, _ string) error {
	if p.fail {
		return fmt.Errorf("queue unavailable")
	}
	p.deletes = append(p.deletes, transactionID)
	return nil
}

func newTxService(t *testing.T, pub ExportPublisher) (*TransactionService, *storage.Repository) {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "tally.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return NewTransactionService(repo, pub, 16, time.Minute), repo
}

func TestAddNegatesExpenses(t *testing.T) {
	svc, _ := newTxService(t, nil)
	ctx := context.Background()

	tests := []struct {
		name      string
		amount    int64
		typ       core.TransactionType
		wantCents int64
	}{
		{"expense stored negative", 2000, core.Expense, -2000},
		{"already negative stays negative", -2000, core.Expense, -2000},
		{"income kept as given", 10000, core.Income, 10000},
		{"transfer kept as given", 5000, core.Transfer, 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := svc.Add(ctx, "u1", AddTransactionParams{
				Amount:      core.Money{Cents: tt.amount},
				Type:        tt.typ,
				Description: "test entry",
				Category:    "Other",
				Date:        core.NewDate(2024, 1, 5),
			})
			if err != nil {
				t.Fatalf("Add: %v", err)
			}
			if tx.Amount.Cents != tt.wantCents {
				t.Errorf("stored cents = %d, want %d", tx.Amount.Cents, tt.wantCents)
			}
		})
	}
}

func TestAddValidates(t *testing.T) {
	svc, _ := newTxService(t, nil)

	_, err := svc.Add(context.Background(), "u1", AddTransactionParams{
		Amount: core.Money{Cents: 100},
		Type:   "refund", Description: "x", Category: "Other",
		Date: core.NewDate(2024, 1, 5),
	})
	if !errors.Is(err, core.ErrInvalidType) {
		t.Errorf("Add = %v, want ErrInvalidType", err)
	}
}

func TestAddPublishesExport(t *testing.T) {
	pub := &recordingPublisher{}
	svc, _ := newTxService(t, pub)
	ctx := context.Background()

	tx, err := svc.Add(ctx, "u1", AddTransactionParams{
		Amount: core.Money{Cents: 650}, Type: core.Expense,
		Description: "Starbucks", Category: "Food", Date: core.NewDate(2024, 1, 5),
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(pub.exports) != 1 || pub.exports[0] != tx.ID {
		t.Errorf("exports = %v, want [%s]", pub.exports, tx.ID)
	}

	if err := svc.Delete(ctx, "u1", tx.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(pub.deletes) != 1 || pub.deletes[0] != tx.ID {
		t.Errorf("deletes = %v, want [%s]", pub.deletes, tx.ID)
	}
}

func TestAddSurvivesPublishFailure(t *testing.T) {
	pub := &recordingPublisher{fail: true}
	svc, _ := newTxService(t, pub)
	ctx := context.Background()

	// The row is persisted first; a dead queue must not fail the add.
	if _, err := svc.Add(ctx, "u1", AddTransactionParams{
		Amount: core.Money{Cents: 650}, Type: core.Expense,
		Description: "Starbucks", Category: "Food", Date: core.NewDate(2024, 1, 5),
	}); err != nil {
		t.Fatalf("Add with failing publisher: %v", err)
	}

	txs, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(txs) != 1 {
		t.Errorf("stored %d transactions, want 1", len(txs))
	}
}

func TestListCacheInvalidatedOnMutation(t *testing.T) {
	svc, _ := newTxService(t, nil)
	ctx := context.Background()

	if txs, err := svc.List(ctx, "u1"); err != nil || len(txs) != 0 {
		t.Fatalf("initial list = %v, %v", txs, err)
	}

	// The empty result is cached; the add must invalidate it.
	if _, err := svc.Add(ctx, "u1", AddTransactionParams{
		Amount: core.Money{Cents: 650}, Type: core.Expense,
		Description: "Starbucks", Category: "Food", Date: core.NewDate(2024, 1, 5),
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	txs, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(txs) != 1 {
		t.Errorf("list after add = %d rows, stale cache served", len(txs))
	}
}

func TestSummarize(t *testing.T) {
	svc, _ := newTxService(t, nil)
	ctx := context.Background()
	today := core.NewDate(2024, 1, 5)

	add := func(cents int64, typ core.TransactionType, category string, date core.Date) {
		t.Helper()
		if _, err := svc.Add(ctx, "u1", AddTransactionParams{
			Amount: core.Money{Cents: cents}, Type: typ,
			Description: category + " entry", Category: category, Date: date,
		}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	add(10000, core.Income, "Salary", today)
	add(2000, core.Expense, "Food", today)
	add(3000, core.Expense, "Housing", today.AddDays(-1))

	summary, err := svc.Summarize(ctx, "u1", today)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if summary.Totals.Income.Cents != 10000 || summary.Totals.Expenses.Cents != 5000 || summary.Totals.Net.Cents != 5000 {
		t.Errorf("totals = %+v", summary.Totals)
	}
	if len(summary.Weekly) != 7 {
		t.Errorf("weekly has %d entries, want 7", len(summary.Weekly))
	}
	if summary.Weekly[6].Expenses.Cents != 2000 || summary.Weekly[5].Expenses.Cents != 3000 {
		t.Errorf("weekly buckets wrong: %+v", summary.Weekly)
	}
	if len(summary.ByDate) != 2 {
		t.Errorf("got %d date groups, want 2", len(summary.ByDate))
	}
	if len(summary.TopCategories) != 3 {
		t.Errorf("top categories = %+v", summary.TopCategories)
	}
	// Inclusive category policy: salary income lands in its category.
	if summary.TopCategories[0].Category != "Salary" || summary.TopCategories[0].Amount.Cents != 10000 {
		t.Errorf("top category = %+v, want Salary 10000", summary.TopCategories[0])
	}
}
