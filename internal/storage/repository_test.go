package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"tally/internal/core"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "tally.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestTransactionCRUDAndOrdering(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	older := core.Transaction{
		UserID:      "u1",
		Amount:      core.Money{Cents: -2000},
		Type:        core.Expense,
		Description: "Groceries",
		Category:    "Food",
		Date:        core.NewDate(2024, 1, 1),
	}
	newer := older
	newer.Description = "Rent"
	newer.Category = "Housing"
	newer.Date = core.NewDate(2024, 1, 10)

	if _, err := repo.InsertTransaction(ctx, older); err != nil {
		t.Fatalf("insert older: %v", err)
	}
	inserted, err := repo.InsertTransaction(ctx, newer)
	if err != nil {
		t.Fatalf("insert newer: %v", err)
	}
	if inserted.ID == "" || inserted.CreatedAt.IsZero() {
		t.Fatalf("insert did not stamp id/created_at: %+v", inserted)
	}

	txs, err := repo.ListTransactions(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if txs[0].Description != "Rent" {
		t.Errorf("list not date-descending: first is %q", txs[0].Description)
	}

	// Other users see nothing.
	other, err := repo.ListTransactions(ctx, "u2")
	if err != nil {
		t.Fatalf("list other user: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("user isolation broken: %d rows", len(other))
	}
	if err := repo.DeleteTransaction(ctx, "u2", inserted.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-user delete = %v, want ErrNotFound", err)
	}

	if err := repo.DeleteTransaction(ctx, "u1", inserted.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	txs, err = repo.ListTransactions(ctx, "u1")
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(txs) != 1 {
		t.Errorf("got %d transactions after delete, want 1", len(txs))
	}
}

func TestExistingBankTransactionIDs(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	batch := []core.Transaction{
		{
			UserID: "u1", Amount: core.Money{Cents: -650}, Type: core.Expense,
			Description: "Starbucks", Category: "Food", Date: core.NewDate(2024, 1, 2),
			SyncedFromBank: true, BankTransactionID: "bank_a_100_0",
		},
		{
			UserID: "u1", Amount: core.Money{Cents: 350000}, Type: core.Income,
			Description: "Salary Deposit", Category: "Salary", Date: core.NewDate(2024, 1, 1),
			SyncedFromBank: true, BankTransactionID: "bank_a_100_1",
		},
	}
	if _, err := repo.InsertTransactions(ctx, batch); err != nil {
		t.Fatalf("bulk insert: %v", err)
	}

	existing, err := repo.ExistingBankTransactionIDs(ctx, "u1",
		[]string{"bank_a_100_0", "bank_a_100_1", "bank_a_100_2"})
	if err != nil {
		t.Fatalf("query existing: %v", err)
	}
	if len(existing) != 2 {
		t.Errorf("got %d existing ids, want 2", len(existing))
	}
	if _, ok := existing["bank_a_100_2"]; ok {
		t.Errorf("unseen id reported as existing")
	}

	// Scoped to the user.
	existing, err = repo.ExistingBankTransactionIDs(ctx, "u2", []string{"bank_a_100_0"})
	if err != nil {
		t.Fatalf("query existing other user: %v", err)
	}
	if len(existing) != 0 {
		t.Errorf("other user sees %d ids, want 0", len(existing))
	}

	// Empty candidate set short-circuits.
	existing, err = repo.ExistingBankTransactionIDs(ctx, "u1", nil)
	if err != nil || len(existing) != 0 {
		t.Errorf("empty candidates: %v, %v", existing, err)
	}
}

func TestGoalPartialUpdate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	g, err := repo.InsertGoal(ctx, core.Goal{
		UserID: "u1", Name: "Vacation Fund",
		Target: core.Money{Cents: 500000}, Current: core.Money{Cents: 175000},
		Icon: "🏖️",
	})
	if err != nil {
		t.Fatalf("insert goal: %v", err)
	}

	current := core.Money{Cents: 200000}
	updated, err := repo.UpdateGoal(ctx, "u1", g.ID, GoalUpdate{Current: &current})
	if err != nil {
		t.Fatalf("update goal: %v", err)
	}
	if updated.Current.Cents != 200000 {
		t.Errorf("current = %d, want 200000", updated.Current.Cents)
	}
	if updated.Name != "Vacation Fund" || updated.Target.Cents != 500000 {
		t.Errorf("untouched fields changed: %+v", updated)
	}

	// Empty update is a read.
	same, err := repo.UpdateGoal(ctx, "u1", g.ID, GoalUpdate{})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if same.Current.Cents != 200000 {
		t.Errorf("empty update changed row: %+v", same)
	}

	if _, err := repo.UpdateGoal(ctx, "u2", g.ID, GoalUpdate{Current: &current}); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-user update = %v, want ErrNotFound", err)
	}
}

func TestInsights(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	in, err := repo.InsertInsight(ctx, core.Insight{
		UserID: "u1", Type: core.SpendingAlert,
		Title: "Entertainment up 8%", Description: "Review your entertainment budget.",
	})
	if err != nil {
		t.Fatalf("insert insight: %v", err)
	}

	if err := repo.SetInsightRead(ctx, "u1", in.ID, true); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	list, err := repo.ListInsights(ctx, "u1")
	if err != nil {
		t.Fatalf("list insights: %v", err)
	}
	if len(list) != 1 || !list[0].IsRead {
		t.Errorf("insight not marked read: %+v", list)
	}

	if err := repo.DeleteInsight(ctx, "u1", in.ID); err != nil {
		t.Fatalf("delete insight: %v", err)
	}
}

func TestChatMessageOrdering(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	texts := []string{"first", "second", "third"}
	for _, text := range texts {
		if _, err := repo.InsertChatMessage(ctx, core.ChatMessage{
			UserID: "u1", Sender: core.SenderUser,
			Text: text, ConversationID: "conv_1",
		}); err != nil {
			t.Fatalf("insert message: %v", err)
		}
	}
	// A different conversation must stay out of the listing.
	if _, err := repo.InsertChatMessage(ctx, core.ChatMessage{
		UserID: "u1", Sender: core.SenderUser, Text: "elsewhere", ConversationID: "conv_2",
	}); err != nil {
		t.Fatalf("insert message: %v", err)
	}

	msgs, err := repo.ListChatMessages(ctx, "u1", "conv_1")
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	for i, text := range texts {
		if msgs[i].Text != text {
			t.Errorf("msgs[%d] = %q, want %q (ascending order)", i, msgs[i].Text, text)
		}
	}
}

func TestBankAccountSyncColumns(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a, err := repo.InsertBankAccount(ctx, core.BankAccount{
		UserID: "u1", BankName: "Chase", AccountType: core.Checking,
		LastFour: "4821", Connected: true,
	})
	if err != nil {
		t.Fatalf("insert account: %v", err)
	}
	if a.LastSynced != nil {
		t.Errorf("fresh account has last_synced set")
	}

	if err := repo.RecordSyncError(ctx, "u1", a.ID, "bank gateway timeout"); err != nil {
		t.Fatalf("record sync error: %v", err)
	}
	got, err := repo.GetBankAccount(ctx, "u1", a.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if got.SyncError != "bank gateway timeout" {
		t.Errorf("sync_error = %q", got.SyncError)
	}

	at := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	if err := repo.MarkAccountSynced(ctx, "u1", a.ID, at); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	got, err = repo.GetBankAccount(ctx, "u1", a.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if got.LastSynced == nil || !got.LastSynced.Equal(at) {
		t.Errorf("last_synced = %v, want %v", got.LastSynced, at)
	}
	if got.SyncError != "" {
		t.Errorf("sync_error not cleared: %q", got.SyncError)
	}

	if err := repo.SetAccountConnected(ctx, "u1", a.ID, false); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	got, _ = repo.GetBankAccount(ctx, "u1", a.ID)
	if got.Connected {
		t.Errorf("account still connected after disconnect")
	}

	if err := repo.DeleteBankAccount(ctx, "u1", a.ID); err != nil {
		t.Fatalf("delete account: %v", err)
	}
	if _, err := repo.GetBankAccount(ctx, "u1", a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete = %v, want ErrNotFound", err)
	}
}
