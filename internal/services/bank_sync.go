package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tally/internal/core"
	"tally/internal/storage"
)

// ErrAccountNotFound covers both a missing account and someone else's
// account; callers cannot tell them apart.
var ErrAccountNotFound = errors.New("bank account not found")

// BankSyncService imports a fabricated bank statement. There is no bank:
// the statement is a fixed demo set, and the interesting part is the
// dedup against previously imported rows.
type BankSyncService struct {
	storage      *storage.Repository
	transactions *TransactionService
	accounts     *AccountService
	now          func() time.Time
}

func NewBankSyncService(storage *storage.Repository, transactions *TransactionService, accounts *AccountService, now func() time.Time) *BankSyncService {
	if now == nil {
		now = time.Now
	}
	return &BankSyncService{
		storage:      storage,
		transactions: transactions,
		accounts:     accounts,
		now:          now,
	}
}

type SyncResult struct {
	Message          string
	TransactionCount int
}

// Sync imports the mock statement for one account: fabricate, dedup by
// bank transaction ID, insert the remainder, stamp last_synced. Any failure
// after the account resolves is recorded on the account's sync_error before
// being returned.
func (s *BankSyncService) Sync(ctx context.Context, userID, accountID string) (SyncResult, error) {
	account, err := s.storage.GetBankAccount(ctx, userID, accountID)
	if errors.Is(err, storage.ErrNotFound) {
		return SyncResult{}, ErrAccountNotFound
	}
	if err != nil {
		return SyncResult{}, fmt.Errorf("resolve bank account: %w", err)
	}

	result, err := s.sync(ctx, userID, account)
	if err != nil {
		if recErr := s.storage.RecordSyncError(ctx, userID, accountID, err.Error()); recErr != nil {
			slog.ErrorContext(ctx, "Failed to record sync error",
				"account_id", accountID, "error", recErr)
		}
		s.accounts.InvalidateCache(userID)
		return SyncResult{}, err
	}
	return result, nil
}

func (s *BankSyncService) sync(ctx context.Context, userID string, account core.BankAccount) (SyncResult, error) {
	now := s.now()
	statement := mockStatement(account.ID, userID, now)

	ids := make([]string, len(statement))
	for i, tx := range statement {
		ids[i] = tx.BankTransactionID
	}

	existing, err := s.storage.ExistingBankTransactionIDs(ctx, userID, ids)
	if err != nil {
		return SyncResult{}, fmt.Errorf("check existing imports: %w", err)
	}

	var fresh []core.Transaction
	for _, tx := range statement {
		if _, seen := existing[tx.BankTransactionID]; !seen {
			fresh = append(fresh, tx)
		}
	}

	if _, err := s.storage.InsertTransactions(ctx, fresh); err != nil {
		return SyncResult{}, fmt.Errorf("import transactions: %w", err)
	}

	if err := s.storage.MarkAccountSynced(ctx, userID, account.ID, now); err != nil {
		return SyncResult{}, fmt.Errorf("stamp last synced: %w", err)
	}

	s.transactions.InvalidateCache(userID)
	s.accounts.InvalidateCache(userID)

	slog.InfoContext(ctx, "Bank sync complete",
		"account_id", account.ID,
		"imported", len(fresh),
		"duplicates", len(statement)-len(fresh))

	return SyncResult{
		Message:          fmt.Sprintf("Successfully synced %d new transactions", len(fresh)),
		TransactionCount: len(fresh),
	}, nil
}

type mockEntry struct {
	description string
	cents       int64
	typ         core.TransactionType
	category    string
}

var mockEntries = []mockEntry{
	{"Salary Deposit", 350000, core.Income, "Salary"},
	{"Starbucks", -650, core.Expense, "Food"},
	{"Target", -4523, core.Expense, "Shopping"},
	{"Spotify", -1299, core.Expense, "Subscriptions"},
	{"Shell Gas Station", -5200, core.Expense, "Transport"},
	{"Trader Joe's", -6789, core.Expense, "Food"},
	{"Uber", -2450, core.Expense, "Transport"},
	{"Amazon Prime", -1499, core.Expense, "Subscriptions"},
	{"Gym Membership", -5000, core.Expense, "Health"},
	{"Netflix", -1599, core.Expense, "Subscriptions"},
}

// mockStatement fabricates the demo statement: one entry per day walking
// backward from now. IDs are scoped by account and second-granularity
// timestamp, so repeating a sync within the same second regenerates the
// same IDs (dedup catches them) and two accounts never collide.
func mockStatement(accountID, userID string, now time.Time) []core.Transaction {
	today := core.DateOf(now)
	stamp := now.Unix()

	txs := make([]core.Transaction, len(mockEntries))
	for i, e := range mockEntries {
		txs[i] = core.Transaction{
			UserID:            userID,
			Amount:            core.Money{Cents: e.cents},
			Type:              e.typ,
			Description:       e.description,
			Category:          e.category,
			Date:              today.AddDays(-i),
			SyncedFromBank:    true,
			BankTransactionID: fmt.Sprintf("bank_%s_%d_%d", accountID, stamp, i),
		}
	}
	return txs
}
