package capital

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

const (
	transactionsFile = "transactions.jsonl"
	summariesFile    = "summaries.jsonl"
	capitalFile      = "capital.json"
)

// FileStore keeps each owner's book in plain files under a root directory:
//
//	<root>/<owner>/transactions.jsonl
//	<root>/<owner>/summaries.jsonl
//	<root>/<owner>/capital.json
//
// Files are rewritten whole on each change so that they can be versioned and
// reviewed with git. Transactions are kept in creation order, month summaries
// in month order.
type FileStore struct {
	root string
	mu   sync.Mutex
}

// NewFileStore returns a FileStore rooted at dir. The directory is created on first write.
func NewFileStore(dir string) *FileStore { return &FileStore{root: dir} }

// Owners lists the owners having a book under the root directory.
func (s *FileStore) Owners() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not list owners in %q: %w", s.root, err)
	}
	var owners []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			owners = append(owners, e.Name())
		}
	}
	return owners, nil
}

func (s *FileStore) path(owner, name string) (string, error) {
	if owner == "" || owner == "." || owner == ".." || strings.ContainsAny(owner, `/\`) {
		return "", fmt.Errorf("invalid owner %q", owner)
	}
	return filepath.Join(s.root, owner, name), nil
}

// open returns a reader on the file, or an empty reader if it does not exist yet.
func (s *FileStore) open(owner, name string) (io.ReadCloser, error) {
	p, err := s.path(owner, name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %w", p, err)
	}
	return f, nil
}

// save atomically replaces the file with what encode writes.
func (s *FileStore) save(owner, name string, encode func(io.Writer) error) error {
	p, err := s.path(owner, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return fmt.Errorf("could not create directory for %q: %w", p, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), "."+name+".*")
	if err != nil {
		return fmt.Errorf("error opening %q for writing: %w", p, err)
	}
	defer os.Remove(tmp.Name())
	if err := encode(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("could not write %q: %w", p, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not write %q: %w", p, err)
	}
	return os.Rename(tmp.Name(), p)
}

// transactions returns the owner's transactions in creation order.
func (s *FileStore) transactions(owner string) ([]Transaction, error) {
	r, err := s.open(owner, transactionsFile)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	txs, err := DecodeTransactions(r)
	if err != nil {
		return nil, fmt.Errorf("could not decode transactions of %q: %w", owner, err)
	}
	return txs, nil
}

func (s *FileStore) saveTransactions(owner string, txs []Transaction) error {
	return s.save(owner, transactionsFile, func(w io.Writer) error { return EncodeTransactions(w, txs) })
}

func (s *FileStore) ListTransactions(ctx context.Context, owner string) ([]Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactions(owner)
}

func (s *FileStore) CreateTransaction(ctx context.Context, owner string, tx Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	txs, err := s.transactions(owner)
	if err != nil {
		return err
	}
	if slices.ContainsFunc(txs, func(x Transaction) bool { return x.ID == tx.ID }) {
		return fmt.Errorf("transaction %s already exists", tx.ID)
	}
	return s.saveTransactions(owner, append(txs, tx))
}

// UpdateTransaction replaces the transaction in place, so it keeps its rank
// among the transactions of its new day.
func (s *FileStore) UpdateTransaction(ctx context.Context, owner string, tx Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	txs, err := s.transactions(owner)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(txs, func(x Transaction) bool { return x.ID == tx.ID })
	if i < 0 {
		return fmt.Errorf("transaction %s: %w", tx.ID, ErrNotFound)
	}
	txs[i] = tx
	return s.saveTransactions(owner, txs)
}

func (s *FileStore) DeleteTransaction(ctx context.Context, owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	txs, err := s.transactions(owner)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(txs, func(x Transaction) bool { return x.ID == id })
	if i < 0 {
		return fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	return s.saveTransactions(owner, slices.Delete(txs, i, i+1))
}

func (s *FileStore) summaries(owner string) (Summaries, error) {
	r, err := s.open(owner, summariesFile)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	sums, err := DecodeSummaries(r)
	if err != nil {
		return nil, fmt.Errorf("could not decode month summaries of %q: %w", owner, err)
	}
	return sums, nil
}

func (s *FileStore) ListMonthSummaries(ctx context.Context, owner string) ([]MonthSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaries(owner)
}

func (s *FileStore) CreateMonthSummary(ctx context.Context, owner string, summary MonthSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sums, err := s.summaries(owner)
	if err != nil {
		return err
	}
	if sums.IsClosed(summary.Month) {
		return fmt.Errorf("%s: %w", summary.Month, ErrDuplicateMonth)
	}
	sums = NewSummaries(append(sums, summary)...)
	return s.save(owner, summariesFile, func(w io.Writer) error { return EncodeSummaries(w, sums) })
}

func (s *FileStore) GetInitialCapital(ctx context.Context, owner string) (Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.open(owner, capitalFile)
	if err != nil {
		return Money{}, err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return Money{}, fmt.Errorf("could not read initial capital of %q: %w", owner, err)
	}
	var v Money
	if len(bytes.TrimSpace(data)) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return Money{}, fmt.Errorf("could not decode initial capital of %q: %w", owner, err)
	}
	return v, nil
}

func (s *FileStore) SetInitialCapital(ctx context.Context, owner string, value Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(owner, capitalFile, func(w io.Writer) error { return encodeLine(w, value) })
}
