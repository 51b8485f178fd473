// Package services holds one service object per collection. Each wraps the
// repository with a per-user cache that is invalidated on every mutation,
// and mutations hand the resulting record straight back to the caller.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tally/internal/cache"
	"tally/internal/core"
	"tally/internal/storage"
)

// ExportPublisher queues transactions for the sheet export. Satisfied by
// the AMQP client; nil disables export.
type ExportPublisher interface {
	PublishExport(ctx context.Context, transactionID, userID string) error
	PublishDelete(ctx context.Context, transactionID, userID string) error
}

type TransactionService struct {
	storage   *storage.Repository
	publisher ExportPublisher
	cache     *cache.Cache[[]core.Transaction]
}

func NewTransactionService(storage *storage.Repository, publisher ExportPublisher, cacheSize int, cacheTTL time.Duration) *TransactionService {
	return &TransactionService{
		storage:   storage,
		publisher: publisher,
		cache:     cache.New[[]core.Transaction](cacheSize, cacheTTL),
	}
}

// AddTransactionParams carries the user-entered fields. Amount is the
// magnitude; the sign convention is applied here, not by callers.
type AddTransactionParams struct {
	Amount      core.Money
	Type        core.TransactionType
	Description string
	Category    string
	Date        core.Date
}

// Add stores a new transaction. Expense amounts are stored negated
// regardless of the sign the caller supplied. The export publish is
// best-effort: the transaction is already persisted, so a queue outage
// only delays the sheet.
func (s *TransactionService) Add(ctx context.Context, userID string, p AddTransactionParams) (core.Transaction, error) {
	tx := core.Transaction{
		UserID:      userID,
		Amount:      p.Amount,
		Type:        p.Type,
		Description: p.Description,
		Category:    p.Category,
		Date:        p.Date,
	}
	if tx.Type == core.Expense {
		tx.Amount = tx.Amount.Negated()
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	inserted, err := s.storage.InsertTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}
	s.cache.Invalidate(userID)

	if s.publisher != nil {
		if err := s.publisher.PublishExport(ctx, inserted.ID, userID); err != nil {
			slog.ErrorContext(ctx, "Failed to publish export message",
				"transaction_id", inserted.ID, "error", err)
		}
	}

	return inserted, nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	if err := s.storage.DeleteTransaction(ctx, userID, id); err != nil {
		return err
	}
	s.cache.Invalidate(userID)

	if s.publisher != nil {
		if err := s.publisher.PublishDelete(ctx, id, userID); err != nil {
			slog.ErrorContext(ctx, "Failed to publish delete message",
				"transaction_id", id, "error", err)
		}
	}
	return nil
}

// List returns the user's transactions, date-descending.
func (s *TransactionService) List(ctx context.Context, userID string) ([]core.Transaction, error) {
	if txs, ok := s.cache.Get(userID); ok {
		return txs, nil
	}
	txs, err := s.storage.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	s.cache.Set(userID, txs)
	return txs, nil
}

// Summary is everything the dashboard and insights screens derive from the
// transaction list.
type Summary struct {
	Totals        core.Totals
	Categories    []core.CategoryTotal
	TopCategories []core.CategoryTotal
	ByDate        []core.DateGroup
	Weekly        []core.DayActivity
}

// Summarize recomputes all aggregates from the full list. No aggregate
// state is kept anywhere; this runs on every call.
func (s *TransactionService) Summarize(ctx context.Context, userID string, today core.Date) (Summary, error) {
	txs, err := s.List(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	categories := core.CategoryTotals(txs)
	return Summary{
		Totals:        core.CalculateTotals(txs),
		Categories:    categories,
		TopCategories: core.TopCategories(categories, 4),
		ByDate:        core.GroupByDate(txs),
		Weekly:        core.WeeklySeries(txs, today),
	}, nil
}

// InvalidateCache drops the user's cached list. The bank sync writes
// transactions behind this service's back and calls this afterwards.
func (s *TransactionService) InvalidateCache(userID string) {
	s.cache.Invalidate(userID)
}
