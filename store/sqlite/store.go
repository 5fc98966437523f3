// Package sqlite implements the capital stores on a SQLite database.
//
// Decimal values are stored as TEXT to keep them exact. The month summary
// table's primary key on (owner, month) rejects a second close of the same
// month even when two closes race.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/capital"
	"github.com/etnz/capital/date"
	"github.com/shopspring/decimal"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Store is a capital.Store backed by SQLite.
type Store struct {
	db *sql.DB
}

var _ capital.Store = (*Store)(nil)

// Open opens (or creates) the database at dbPath and migrates it.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// isConstraint reports whether err is a primary key or unique constraint violation.
func isConstraint(err error) bool {
	var e *msqlite.Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}

func parseDecimal(column, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("column %s: %w", column, err)
	}
	return d, nil
}

const selectTransactions = `SELECT id, day, type, amount_primary, total_value, currency, fee_amount, fee_unit, asset, memo, client, city
FROM transactions WHERE owner = ? ORDER BY seq`

func (s *Store) ListTransactions(ctx context.Context, owner string) ([]capital.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, selectTransactions, owner)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []capital.Transaction
	for rows.Next() {
		var (
			tx                               capital.Transaction
			day, typ, units, value, currency string
			feeAmount, feeUnit               string
		)
		if err := rows.Scan(&tx.ID, &day, &typ, &units, &value, &currency, &feeAmount, &feeUnit, &tx.Asset, &tx.Memo, &tx.Client, &tx.City); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if tx.Date, err = date.Parse(day); err != nil {
			return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
		tx.Type = capital.Type(typ)
		u, err := parseDecimal("amount_primary", units)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
		v, err := parseDecimal("total_value", value)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
		f, err := parseDecimal("fee_amount", feeAmount)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
		tx.AmountPrimary = capital.Q(u)
		tx.TotalValue = capital.M(v, currency)
		if !f.IsZero() {
			tx.Fee = capital.Fee{Amount: f, Unit: feeUnit}
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func (s *Store) CreateTransaction(ctx context.Context, owner string, tx capital.Transaction) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO transactions
(owner, id, day, type, amount_primary, total_value, currency, fee_amount, fee_unit, asset, memo, client, city)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		owner, tx.ID, tx.Date.String(), string(tx.Type),
		tx.AmountPrimary.Decimal().String(), tx.TotalValue.Decimal().String(), tx.TotalValue.Currency(),
		tx.Fee.Amount.String(), tx.Fee.Unit,
		tx.Asset, tx.Memo, tx.Client, tx.City)
	if isConstraint(err) {
		return fmt.Errorf("transaction %s already exists: %w", tx.ID, err)
	}
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (s *Store) UpdateTransaction(ctx context.Context, owner string, tx capital.Transaction) error {
	res, err := s.db.ExecContext(ctx, `UPDATE transactions SET
day = ?, type = ?, amount_primary = ?, total_value = ?, currency = ?, fee_amount = ?, fee_unit = ?, asset = ?, memo = ?, client = ?, city = ?
WHERE owner = ? AND id = ?`,
		tx.Date.String(), string(tx.Type),
		tx.AmountPrimary.Decimal().String(), tx.TotalValue.Decimal().String(), tx.TotalValue.Currency(),
		tx.Fee.Amount.String(), tx.Fee.Unit,
		tx.Asset, tx.Memo, tx.Client, tx.City,
		owner, tx.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return expectOne(res, "transaction "+tx.ID)
}

func (s *Store) DeleteTransaction(ctx context.Context, owner, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE owner = ? AND id = ?`, owner, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return expectOne(res, "transaction "+id)
}

func expectOne(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, capital.ErrNotFound)
	}
	return nil
}

func (s *Store) ListMonthSummaries(ctx context.Context, owner string) ([]capital.MonthSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT month, currency, capital_base, portfolio_value, fees, marketing, net, closed_at
FROM month_summaries WHERE owner = ? ORDER BY month`, owner)
	if err != nil {
		return nil, fmt.Errorf("list month summaries: %w", err)
	}
	defer rows.Close()

	var sums []capital.MonthSummary
	for rows.Next() {
		var month, currency, closedAt string
		var cols [5]string
		if err := rows.Scan(&month, &currency, &cols[0], &cols[1], &cols[2], &cols[3], &cols[4], &closedAt); err != nil {
			return nil, fmt.Errorf("scan month summary: %w", err)
		}
		m, err := date.ParseMonth(month)
		if err != nil {
			return nil, fmt.Errorf("month summary: %w", err)
		}
		names := [5]string{"capital_base", "portfolio_value", "fees", "marketing", "net"}
		var values [5]capital.Money
		for i, c := range cols {
			d, err := parseDecimal(names[i], c)
			if err != nil {
				return nil, fmt.Errorf("month summary %s: %w", m, err)
			}
			values[i] = capital.M(d, currency)
		}
		sum := capital.MonthSummary{
			Month:          m,
			CapitalBase:    values[0],
			PortfolioValue: values[1],
			Fees:           values[2],
			Marketing:      values[3],
			Net:            values[4],
		}
		if closedAt != "" {
			if sum.ClosedAt, err = time.Parse(time.RFC3339Nano, closedAt); err != nil {
				return nil, fmt.Errorf("month summary %s: closed_at: %w", m, err)
			}
		}
		sums = append(sums, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list month summaries: %w", err)
	}
	return sums, nil
}

func (s *Store) CreateMonthSummary(ctx context.Context, owner string, sum capital.MonthSummary) error {
	var closedAt string
	if !sum.ClosedAt.IsZero() {
		closedAt = sum.ClosedAt.UTC().Format(time.RFC3339Nano)
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO month_summaries
(owner, month, currency, capital_base, portfolio_value, fees, marketing, net, closed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		owner, sum.Month.String(), sum.CapitalBase.Currency(),
		sum.CapitalBase.Decimal().String(), sum.PortfolioValue.Decimal().String(),
		sum.Fees.Decimal().String(), sum.Marketing.Decimal().String(), sum.Net.Decimal().String(),
		closedAt)
	if isConstraint(err) {
		return fmt.Errorf("%s: %w", sum.Month, capital.ErrDuplicateMonth)
	}
	if err != nil {
		return fmt.Errorf("create month summary: %w", err)
	}
	return nil
}

func (s *Store) GetInitialCapital(ctx context.Context, owner string) (capital.Money, error) {
	var amount, currency string
	err := s.db.QueryRowContext(ctx, `SELECT amount, currency FROM initial_capital WHERE owner = ?`, owner).Scan(&amount, &currency)
	if errors.Is(err, sql.ErrNoRows) {
		return capital.Money{}, nil
	}
	if err != nil {
		return capital.Money{}, fmt.Errorf("get initial capital: %w", err)
	}
	d, err := parseDecimal("amount", amount)
	if err != nil {
		return capital.Money{}, fmt.Errorf("get initial capital: %w", err)
	}
	return capital.M(d, currency), nil
}

func (s *Store) SetInitialCapital(ctx context.Context, owner string, value capital.Money) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO initial_capital (owner, amount, currency) VALUES (?, ?, ?)
ON CONFLICT (owner) DO UPDATE SET amount = excluded.amount, currency = excluded.currency`,
		owner, value.Decimal().String(), value.Currency())
	if err != nil {
		return fmt.Errorf("set initial capital: %w", err)
	}
	return nil
}
