// Package memory implements the capital stores in process memory.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/etnz/capital"
)

type book struct {
	txs       []capital.Transaction
	summaries []capital.MonthSummary
	initial   capital.Money
}

// Store keeps every owner's book in maps. Its zero value is not ready, use New.
type Store struct {
	mu    sync.Mutex
	books map[string]*book
}

var _ capital.Store = (*Store)(nil)

// New returns an empty Store.
func New() *Store { return &Store{books: make(map[string]*book)} }

func (s *Store) book(owner string) *book {
	b, ok := s.books[owner]
	if !ok {
		b = &book{}
		s.books[owner] = b
	}
	return b
}

func (s *Store) ListTransactions(ctx context.Context, owner string) ([]capital.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.book(owner).txs), nil
}

func (s *Store) CreateTransaction(ctx context.Context, owner string, tx capital.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.book(owner)
	if slices.ContainsFunc(b.txs, func(x capital.Transaction) bool { return x.ID == tx.ID }) {
		return fmt.Errorf("transaction %s already exists", tx.ID)
	}
	b.txs = append(b.txs, tx)
	return nil
}

func (s *Store) UpdateTransaction(ctx context.Context, owner string, tx capital.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.book(owner)
	i := slices.IndexFunc(b.txs, func(x capital.Transaction) bool { return x.ID == tx.ID })
	if i < 0 {
		return fmt.Errorf("transaction %s: %w", tx.ID, capital.ErrNotFound)
	}
	b.txs[i] = tx
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.book(owner)
	i := slices.IndexFunc(b.txs, func(x capital.Transaction) bool { return x.ID == id })
	if i < 0 {
		return fmt.Errorf("transaction %s: %w", id, capital.ErrNotFound)
	}
	b.txs = slices.Delete(b.txs, i, i+1)
	return nil
}

func (s *Store) ListMonthSummaries(ctx context.Context, owner string) ([]capital.MonthSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.book(owner).summaries), nil
}

func (s *Store) CreateMonthSummary(ctx context.Context, owner string, summary capital.MonthSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.book(owner)
	if slices.ContainsFunc(b.summaries, func(x capital.MonthSummary) bool { return x.Month == summary.Month }) {
		return fmt.Errorf("%s: %w", summary.Month, capital.ErrDuplicateMonth)
	}
	b.summaries = append(b.summaries, summary)
	return nil
}

func (s *Store) GetInitialCapital(ctx context.Context, owner string) (capital.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book(owner).initial, nil
}

func (s *Store) SetInitialCapital(ctx context.Context, owner string, value capital.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.book(owner).initial = value
	return nil
}
