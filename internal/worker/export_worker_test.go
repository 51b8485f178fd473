package worker

import (
	"context"
	"path/filepath"
	"testing"

	"tally/internal/amqp"
	"tally/internal/core"
	"tally/internal/sheets/memory"
	"tally/internal/storage"
)

func newWorker(t *testing.T) (*ExportWorker, *storage.Repository, *memory.Store) {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "tally.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	store := memory.New()
	return NewExportWorker(repo, store, store), repo, store
}

func TestHandleExport(t *testing.T) {
	w, repo, store := newWorker(t)
	ctx := context.Background()

	tx, err := repo.InsertTransaction(ctx, core.Transaction{
		UserID: "u1", Amount: core.Money{Cents: -650}, Type: core.Expense,
		Description: "Starbucks", Category: "Food", Date: core.NewDate(2024, 1, 2),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := w.Handle(ctx, amqp.NewExportMessage(amqp.KindExport, tx.ID, "u1")); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	rows := store.Rows()
	if len(rows) != 1 || rows[0].ID != tx.ID {
		t.Errorf("exported rows = %+v", rows)
	}
}

func TestHandleExportMissingTransaction(t *testing.T) {
	w, _, store := newWorker(t)

	// A row deleted before delivery must ack, not requeue forever.
	err := w.Handle(context.Background(), amqp.NewExportMessage(amqp.KindExport, "gone", "u1"))
	if err != nil {
		t.Fatalf("Handle of missing transaction: %v", err)
	}
	if len(store.Rows()) != 0 {
		t.Errorf("unexpected export: %+v", store.Rows())
	}
}

func TestHandleDelete(t *testing.T) {
	w, repo, store := newWorker(t)
	ctx := context.Background()

	tx, err := repo.InsertTransaction(ctx, core.Transaction{
		UserID: "u1", Amount: core.Money{Cents: -650}, Type: core.Expense,
		Description: "Starbucks", Category: "Food", Date: core.NewDate(2024, 1, 2),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := w.Handle(ctx, amqp.NewExportMessage(amqp.KindExport, tx.ID, "u1")); err != nil {
		t.Fatalf("export: %v", err)
	}

	if err := w.Handle(ctx, amqp.NewExportMessage(amqp.KindDelete, tx.ID, "u1")); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.Rows()) != 0 {
		t.Errorf("row not removed: %+v", store.Rows())
	}
}

func TestHandleWriterFailurePropagates(t *testing.T) {
	w, repo, store := newWorker(t)
	ctx := context.Background()

	tx, err := repo.InsertTransaction(ctx, core.Transaction{
		UserID: "u1", Amount: core.Money{Cents: -650}, Type: core.Expense,
		Description: "Starbucks", Category: "Food", Date: core.NewDate(2024, 1, 2),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	store.FailNext = true
	if err := w.Handle(ctx, amqp.NewExportMessage(amqp.KindExport, tx.ID, "u1")); err == nil {
		t.Error("writer failure swallowed; the message would be acked")
	}
}
