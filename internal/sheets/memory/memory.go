// Package memory is an in-memory export target backing the worker tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"tally/internal/core"
	ports "tally/internal/sheets"
)

var (
	_ ports.TransactionWriter  = (*Store)(nil)
	_ ports.TransactionDeleter = (*Store)(nil)
)

type Store struct {
	mu   sync.Mutex
	rows []core.Transaction

	// FailNext makes the next operation fail, for error-path tests.
	FailNext bool
}

func New() *Store {
	return &Store{}
}

func (s *Store) Append(_ context.Context, tx core.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailNext {
		s.FailNext = false
		return "", fmt.Errorf("memory store: simulated append failure")
	}
	s.rows = append(s.rows, tx)
	return fmt.Sprintf("row-%d", len(s.rows)), nil
}

func (s *Store) Delete(_ context.Context, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailNext {
		s.FailNext = false
		return fmt.Errorf("memory store: simulated delete failure")
	}
	for i, row := range s.rows {
		if row.ID == transactionID {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

// Rows returns a copy of the exported rows in append order.
func (s *Store) Rows() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.rows))
	copy(out, s.rows)
	return out
}
