// Package sheets defines the outbound ports for the transaction export.
package sheets

import (
	"context"

	"tally/internal/core"
)

type (
	// TransactionWriter appends one transaction to the export target and
	// returns a reference to the written row.
	TransactionWriter interface {
		Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
	}

	// TransactionDeleter removes a previously exported transaction by its ID.
	// Deleting an ID that was never exported is not an error.
	TransactionDeleter interface {
		Delete(ctx context.Context, transactionID string) error
	}
)
