package agent

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/etnz/capital"
	"github.com/etnz/capital/date"
	"github.com/etnz/capital/store/memory"
	"google.golang.org/genai"
)

func newBook(t *testing.T) *capital.Book {
	t.Helper()
	now := func() time.Time { return time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC) }
	b := capital.NewBook(memory.New(), capital.WithClock(now))
	ctx := context.Background()
	if err := b.SetInitialCapital(ctx, "alice", capital.M(1000, "EUR")); err != nil {
		t.Fatal(err)
	}
	txs := []capital.Transaction{
		capital.NewDeposit(date.MustParse("2025-01-02"), capital.M(500, "EUR"), ""),
		capital.NewMarketing(date.MustParse("2025-01-05"), capital.M(20, "EUR"), "").WithParty("ACME", "Lyon"),
		capital.NewDeposit(date.MustParse("2025-02-03"), capital.M(10, "EUR"), ""),
	}
	if _, err := b.Import(ctx, "alice", txs); err != nil {
		t.Fatal(err)
	}
	if _, _, err := b.Close(ctx, "alice", date.MustParseMonth("2025-01")); err != nil {
		t.Fatal(err)
	}
	return b
}

func call(t *testing.T, lib Library, name string, args map[string]any) map[string]any {
	t.Helper()
	resp := lib(context.Background(), &genai.FunctionCall{ID: "1", Name: name, Args: args})
	if resp.ID != "1" || resp.Name != name {
		t.Errorf("%s response = %s/%s", name, resp.ID, resp.Name)
	}
	return resp.Response
}

func TestTools(t *testing.T) {
	lib := NewLibrary(Tools(newBook(t), "alice"))
	tests := []struct {
		name string
		args map[string]any
		want []string
	}{
		{"working_month", nil, []string{"Working month: 2025-02", "Latest closed month: 2025-01"}},
		{"month_report", nil, []string{"# Capital report for 2025-02"}},
		{"month_report", map[string]any{"month": "2025-01", "search": "lyon"}, []string{"# Capital report for 2025-01", "ACME"}},
		{"close_history", nil, []string{"| 2025-01 |"}},
		{"list_transactions", map[string]any{"type": "deposit"}, []string{"2025-01-02", "2025-02-03"}},
		{"documentation", map[string]any{"topic": "dates"}, []string{"# Dates"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			resp := call(t, lib, test.name, test.args)
			out, ok := resp["output"].(string)
			if !ok {
				t.Fatalf("%s() = %v, want an output", test.name, resp)
			}
			for _, want := range test.want {
				if !strings.Contains(out, want) {
					t.Errorf("%s() output misses %q:\n%s", test.name, want, out)
				}
			}
		})
	}
}

func TestTools_Errors(t *testing.T) {
	lib := NewLibrary(Tools(newBook(t), "alice"))
	tests := []struct {
		name string
		args map[string]any
	}{
		{"month_report", map[string]any{"month": "january"}},
		{"month_report", map[string]any{"month": 2025}},
		{"list_transactions", map[string]any{"type": "refund"}},
		{"documentation", map[string]any{"topic": "unknown"}},
		{"unknown", nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			resp := call(t, lib, test.name, test.args)
			if _, ok := resp["error"].(string); !ok {
				t.Errorf("%s(%v) = %v, want an error", test.name, test.args, resp)
			}
		})
	}
}

func TestExpert_CallWithoutQuestion(t *testing.T) {
	e := NewExpert("Accountant", "")
	resp := e.Call(context.Background(), "1", map[string]any{"question": 42})
	if _, ok := resp.Response["error"]; !ok {
		t.Errorf("Call() = %v, want an error", resp.Response)
	}
	resp = e.Call(context.Background(), "1", map[string]any{"question": "how much?"})
	if _, ok := resp.Response["error"]; !ok {
		t.Errorf("Call() on a stopped expert = %v, want an error", resp.Response)
	}
}

func TestNew(t *testing.T) {
	a := New(nil, strings.NewReader(""), "", NewAccountant(newBook(t), "alice", ""))
	if a.Facilitator.ModelName != DefaultModel {
		t.Errorf("facilitator model = %q", a.Facilitator.ModelName)
	}
	decls := a.Facilitator.Config.Tools[0].FunctionDeclarations
	if len(decls) != 1 || decls[0].Name != "Accountant" {
		t.Errorf("facilitator tools = %v", decls)
	}
}
