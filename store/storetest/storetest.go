// Package storetest checks that a capital.Store behaves the way the Book expects.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/etnz/capital"
	"github.com/etnz/capital/date"
	"github.com/shopspring/decimal"
)

// Run runs the conformance suite against stores returned by newStore. Every
// call must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) capital.Store) {
	t.Helper()
	t.Run("transactions", func(t *testing.T) { testTransactions(t, newStore(t)) })
	t.Run("summaries", func(t *testing.T) { testSummaries(t, newStore(t)) })
	t.Run("initial capital", func(t *testing.T) { testInitialCapital(t, newStore(t)) })
	t.Run("owners", func(t *testing.T) { testOwners(t, newStore(t)) })
}

func tx(id, day string, typ capital.Type, value int64) capital.Transaction {
	t := capital.Transaction{
		ID:         id,
		Date:       date.MustParse(day),
		Type:       typ,
		TotalValue: capital.M(value, "EUR"),
		Asset:      "EUR",
	}
	if typ.Trades() {
		t.AmountPrimary = capital.Q(value)
		t.Asset = "USDT"
	}
	return t
}

func testTransactions(t *testing.T, s capital.Store) {
	ctx := context.Background()
	txs, err := s.ListTransactions(ctx, "alice")
	if err != nil {
		t.Fatalf("ListTransactions() unexpected error: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("ListTransactions() = %v, want none", txs)
	}

	buy := tx("b", "2025-01-03", capital.BuyStable, 300).WithFee(decimal.NewFromInt(5), "EUR").WithParty("ACME", "Lyon")
	buy.Memo = "first buy"
	want := []capital.Transaction{
		tx("a", "2025-01-03", capital.DepositCash, 500),
		buy,
		tx("c", "2025-01-01", capital.WithdrawCash, 20),
	}
	for _, x := range want {
		if err := s.CreateTransaction(ctx, "alice", x); err != nil {
			t.Fatalf("CreateTransaction(%s) unexpected error: %v", x.ID, err)
		}
	}

	got, err := s.ListTransactions(ctx, "alice")
	if err != nil {
		t.Fatalf("ListTransactions() unexpected error: %v", err)
	}
	// same day transactions keep their creation order
	ledger := capital.NewLedger(got...)
	var order []string
	for _, x := range ledger.Transactions() {
		order = append(order, x.ID)
	}
	if len(order) != 3 || order[0] != "c" || order[1] != "a" || order[2] != "b" {
		t.Errorf("ledger order = %v, want [c a b]", order)
	}
	if x, ok := ledger.Get("b"); !ok || !x.Equal(buy) {
		t.Errorf("stored buy = %+v, want %+v", x, buy)
	}

	// a transaction moved to another day ranks there by creation
	if err := s.UpdateTransaction(ctx, "alice", tx("c", "2025-01-03", capital.WithdrawCash, 20)); err != nil {
		t.Fatalf("UpdateTransaction() unexpected error: %v", err)
	}
	got, err = s.ListTransactions(ctx, "alice")
	if err != nil {
		t.Fatalf("ListTransactions() unexpected error: %v", err)
	}
	order = order[:0]
	for _, x := range capital.NewLedger(got...).Transactions() {
		order = append(order, x.ID)
	}
	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Errorf("ledger order after moving c = %v, want [a b c]", order)
	}

	moved := tx("a", "2025-02-10", capital.DepositCash, 700)
	if err := s.UpdateTransaction(ctx, "alice", moved); err != nil {
		t.Fatalf("UpdateTransaction() unexpected error: %v", err)
	}
	if err := s.UpdateTransaction(ctx, "alice", tx("z", "2025-02-10", capital.DepositCash, 1)); !errors.Is(err, capital.ErrNotFound) {
		t.Errorf("UpdateTransaction() error = %v, want %v", err, capital.ErrNotFound)
	}
	if err := s.DeleteTransaction(ctx, "alice", "c"); err != nil {
		t.Fatalf("DeleteTransaction() unexpected error: %v", err)
	}
	if err := s.DeleteTransaction(ctx, "alice", "c"); !errors.Is(err, capital.ErrNotFound) {
		t.Errorf("DeleteTransaction() error = %v, want %v", err, capital.ErrNotFound)
	}

	got, err = s.ListTransactions(ctx, "alice")
	if err != nil {
		t.Fatalf("ListTransactions() unexpected error: %v", err)
	}
	ledger = capital.NewLedger(got...)
	if ledger.Len() != 2 {
		t.Fatalf("ListTransactions() = %d transactions, want 2", ledger.Len())
	}
	if x, ok := ledger.Get("a"); !ok || !x.Equal(moved) {
		t.Errorf("updated transaction = %+v, want %+v", x, moved)
	}
}

func testSummaries(t *testing.T, s capital.Store) {
	ctx := context.Background()
	jan := capital.MonthSummary{
		Month:          date.MustParseMonth("2025-01"),
		CapitalBase:    capital.M(1000, "EUR"),
		PortfolioValue: capital.M(1495, "EUR"),
		Fees:           capital.M(5, "EUR"),
		Marketing:      capital.M(0, "EUR"),
		Net:            capital.M(495, "EUR"),
		ClosedAt:       time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := s.CreateMonthSummary(ctx, "alice", jan); err != nil {
		t.Fatalf("CreateMonthSummary() unexpected error: %v", err)
	}
	again := jan
	again.Net = capital.M(1, "EUR")
	if err := s.CreateMonthSummary(ctx, "alice", again); !errors.Is(err, capital.ErrDuplicateMonth) {
		t.Errorf("CreateMonthSummary() error = %v, want %v", err, capital.ErrDuplicateMonth)
	}
	sums, err := s.ListMonthSummaries(ctx, "alice")
	if err != nil {
		t.Fatalf("ListMonthSummaries() unexpected error: %v", err)
	}
	if len(sums) != 1 || !sums[0].Equal(jan) {
		t.Errorf("ListMonthSummaries() = %+v, want [%+v]", sums, jan)
	}
}

func testInitialCapital(t *testing.T, s capital.Store) {
	ctx := context.Background()
	v, err := s.GetInitialCapital(ctx, "alice")
	if err != nil {
		t.Fatalf("GetInitialCapital() unexpected error: %v", err)
	}
	if !v.IsZero() {
		t.Errorf("GetInitialCapital() = %v, want zero", v)
	}
	for _, want := range []capital.Money{capital.M(1000, "EUR"), capital.M(250.5, "EUR")} {
		if err := s.SetInitialCapital(ctx, "alice", want); err != nil {
			t.Fatalf("SetInitialCapital() unexpected error: %v", err)
		}
		if got, err := s.GetInitialCapital(ctx, "alice"); err != nil || !got.Decimal().Equal(want.Decimal()) {
			t.Errorf("GetInitialCapital() = %v, %v, want %v", got, err, want)
		}
	}
}

func testOwners(t *testing.T, s capital.Store) {
	ctx := context.Background()
	if err := s.CreateTransaction(ctx, "alice", tx("a", "2025-01-03", capital.DepositCash, 500)); err != nil {
		t.Fatalf("CreateTransaction() unexpected error: %v", err)
	}
	if err := s.CreateMonthSummary(ctx, "alice", capital.MonthSummary{Month: date.MustParseMonth("2025-01")}); err != nil {
		t.Fatalf("CreateMonthSummary() unexpected error: %v", err)
	}
	txs, err := s.ListTransactions(ctx, "bob")
	if err != nil || len(txs) != 0 {
		t.Errorf("ListTransactions(bob) = %v, %v, want nothing", txs, err)
	}
	// bob closes the same month independently
	if err := s.CreateMonthSummary(ctx, "bob", capital.MonthSummary{Month: date.MustParseMonth("2025-01")}); err != nil {
		t.Errorf("CreateMonthSummary(bob) unexpected error: %v", err)
	}
	if err := s.DeleteTransaction(ctx, "bob", "a"); !errors.Is(err, capital.ErrNotFound) {
		t.Errorf("DeleteTransaction(bob, a) error = %v, want %v", err, capital.ErrNotFound)
	}
}
