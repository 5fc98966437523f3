package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/etnz/capital"
	"github.com/etnz/capital/date"
	"github.com/etnz/capital/store/storetest"
)

func open(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "capital.db"))
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) capital.Store { return open(t) })
}

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "capital.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	if err := s.CreateMonthSummary(ctx, "alice", capital.MonthSummary{Month: date.MustParseMonth("2025-01")}); err != nil {
		t.Fatalf("CreateMonthSummary() unexpected error: %v", err)
	}
	s.Close()

	// migrations are idempotent and data survives
	s, err = Open(path)
	if err != nil {
		t.Fatalf("Open() again unexpected error: %v", err)
	}
	defer s.Close()
	sums, err := s.ListMonthSummaries(ctx, "alice")
	if err != nil || len(sums) != 1 {
		t.Errorf("ListMonthSummaries() = %v, %v, want one summary", sums, err)
	}
}
