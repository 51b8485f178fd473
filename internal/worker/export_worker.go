// Package worker moves transactions from the local store to the export
// sheet, driven by AMQP messages from the API server.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tally/internal/amqp"
	"tally/internal/sheets"
	"tally/internal/storage"
)

type ExportWorker struct {
	storage *storage.Repository
	writer  sheets.TransactionWriter
	deleter sheets.TransactionDeleter
}

func NewExportWorker(storage *storage.Repository, writer sheets.TransactionWriter, deleter sheets.TransactionDeleter) *ExportWorker {
	return &ExportWorker{
		storage: storage,
		writer:  writer,
		deleter: deleter,
	}
}

// Handle processes one export message. The transaction is re-read from the
// store, so the exported row always reflects the current state. A row that
// vanished between publish and delivery is treated as done, not an error —
// requeueing it would never succeed.
func (w *ExportWorker) Handle(ctx context.Context, msg *amqp.ExportMessage) error {
	switch msg.Kind {
	case amqp.KindDelete:
		if err := w.deleter.Delete(ctx, msg.TransactionID); err != nil {
			return fmt.Errorf("delete exported row: %w", err)
		}
		return nil

	case amqp.KindExport:
		tx, err := w.storage.GetTransaction(ctx, msg.UserID, msg.TransactionID)
		if errors.Is(err, storage.ErrNotFound) {
			slog.InfoContext(ctx, "Transaction gone before export, skipping",
				"transaction_id", msg.TransactionID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("load transaction: %w", err)
		}

		ref, err := w.writer.Append(ctx, tx)
		if err != nil {
			return fmt.Errorf("append to sheet: %w", err)
		}
		slog.InfoContext(ctx, "Transaction exported",
			"transaction_id", tx.ID, "row_ref", ref)
		return nil
	}

	return fmt.Errorf("unknown message kind %q", msg.Kind)
}
