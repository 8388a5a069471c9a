package memory

import (
	"context"
	"sync"

	ports "ledger/internal/sheets"
)

// Store is an in-process mirror used when no spreadsheet is configured.
type Store struct {
	mu       sync.Mutex
	rows     [][]string
	replaces int
}

var (
	_ ports.Mirror = (*Store)(nil)
	_ ports.Reader = (*Store)(nil)
)

func New() *Store {
	return &Store{}
}

func (s *Store) Replace(_ context.Context, records [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = cloneRows(records)
	s.replaces++
	return nil
}

func (s *Store) Rows(_ context.Context) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRows(s.rows), nil
}

// Replaces reports how many times the table was rewritten.
func (s *Store) Replaces() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaces
}

func cloneRows(in [][]string) [][]string {
	out := make([][]string, len(in))
	for i, row := range in {
		out[i] = append([]string(nil), row...)
	}
	return out
}
