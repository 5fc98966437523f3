package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/etnz/capital"
	"github.com/etnz/capital/date"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// shape counts the markdown nodes the reports rely on.
type shape struct {
	headings, tables, rows int
}

func parse(t *testing.T, src string) shape {
	t.Helper()
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(text.NewReader([]byte(src)))
	var s shape
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindHeading:
			s.headings++
		case extast.KindTable:
			s.tables++
		case extast.KindTableRow:
			s.rows++
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("walk markdown: %v", err)
	}
	return s
}

func eur(v int64) capital.Money { return capital.M(v, "EUR") }

func monthView(t *testing.T) capital.View {
	t.Helper()
	u := capital.DefaultUnits
	var txs []capital.Transaction
	for _, tx := range []capital.Transaction{
		capital.NewDeposit(date.MustParse("2025-01-03"), eur(500), "seed | round").WithParty("ACME", "Lyon"),
		capital.NewBuy(date.MustParse("2025-01-15"), capital.Q(300), eur(300), "").WithFee(decimal.NewFromInt(5), "EUR"),
	} {
		tx, err := tx.Validate(u)
		if err != nil {
			t.Fatalf("invalid fixture: %v", err)
		}
		txs = append(txs, tx)
	}
	r := capital.Reduce(u, eur(1000), txs)
	r.BaseSource = capital.BaseInitial
	return capital.View{Report: r, Transactions: txs, Total: len(txs)}
}

func TestRenderMonth(t *testing.T) {
	v := monthView(t)
	tests := []struct {
		name string
		opts MonthOptions
		want shape
	}{
		// 7 KPI rows, 2 distribution rows and 2 transaction rows.
		{"full", MonthOptions{}, shape{headings: 4, tables: 3, rows: 11}},
		{"skip transactions", MonthOptions{SkipTransactions: true}, shape{headings: 3, tables: 2, rows: 9}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out := RenderMonth(v, capital.DefaultUnits, test.opts)
			if strings.HasPrefix(out, "error") {
				t.Fatalf("RenderMonth() failed: %s", out)
			}
			if got := parse(t, out); got != test.want {
				t.Errorf("RenderMonth() shape = %+v, want %+v\n%s", got, test.want, out)
			}
			if !strings.Contains(out, "# Capital report for 2025-01") {
				t.Errorf("RenderMonth() has no title:\n%s", out)
			}
		})
	}
}

func TestRenderMonth_EscapesCells(t *testing.T) {
	out := RenderMonth(monthView(t), capital.DefaultUnits, MonthOptions{})
	if !strings.Contains(out, `seed \| round`) {
		t.Errorf("memo pipe is not escaped:\n%s", out)
	}
}

func TestRenderMonth_Empty(t *testing.T) {
	v := capital.View{Report: capital.Reduce(capital.DefaultUnits, eur(1000), nil)}
	v.Report.Month = date.MustParseMonth("2025-03")
	out := RenderMonth(v, capital.DefaultUnits, MonthOptions{})
	if !strings.Contains(out, "No transactions.") {
		t.Errorf("RenderMonth() of an empty month:\n%s", out)
	}
	if got := parse(t, out); got.tables != 2 {
		t.Errorf("RenderMonth() of an empty month has %d tables, want 2", got.tables)
	}
}

func TestRenderTransactions(t *testing.T) {
	v := monthView(t)
	if got := parse(t, RenderTransactions(v.Transactions)); got.tables != 1 || got.rows != 2 {
		t.Errorf("RenderTransactions() shape = %+v, want 1 table of 2 rows", got)
	}
	if out := RenderTransactions(nil); !strings.Contains(out, "No transactions.") {
		t.Errorf("RenderTransactions(nil) = %q", out)
	}
}

func TestRenderHistory(t *testing.T) {
	closedAt := time.Date(2025, 2, 1, 8, 30, 0, 0, time.UTC)
	s := capital.NewSummaries(
		capital.MonthSummary{Month: date.MustParseMonth("2025-02"), CapitalBase: eur(1495), PortfolioValue: eur(1495), Fees: eur(0), Marketing: eur(0), Net: eur(0)},
		capital.MonthSummary{Month: date.MustParseMonth("2025-01"), CapitalBase: eur(1000), PortfolioValue: eur(1495), Fees: eur(5), Marketing: eur(0), Net: eur(495), ClosedAt: closedAt},
	)
	out := RenderHistory(s)
	if got := parse(t, out); got.tables != 1 || got.rows != 2 {
		t.Errorf("RenderHistory() shape = %+v, want 1 table of 2 rows\n%s", got, out)
	}
	if i, j := strings.Index(out, "| 2025-01 |"), strings.Index(out, "| 2025-02 |"); i < 0 || j < i {
		t.Errorf("RenderHistory() is not sorted by month:\n%s", out)
	}
	if !strings.Contains(out, "2025-02-01 08:30") {
		t.Errorf("RenderHistory() misses the close time:\n%s", out)
	}

	if out := RenderHistory(nil); !strings.Contains(out, "No month closed yet.") {
		t.Errorf("RenderHistory(nil) = %q", out)
	}
}

func TestTransaction(t *testing.T) {
	v := monthView(t)
	tests := []struct {
		tx   capital.Transaction
		want []string
	}{
		{v.Transactions[0], []string{"Deposited", "on 2025-01-03"}},
		{v.Transactions[1], []string{"Bought 300 USDT", "(fee 5 EUR)", "on 2025-01-15"}},
	}
	for _, test := range tests {
		got := Transaction(test.tx)
		for _, want := range test.want {
			if !strings.Contains(got, want) {
				t.Errorf("Transaction(%s) = %q, want it to contain %q", test.tx.Type, got, want)
			}
		}
	}
}
