package capital

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/etnz/capital/date"
	"github.com/shopspring/decimal"
)

func TestDecodeLedger(t *testing.T) {
	jsonlStream := `
{"id":"a","date":"2025-01-03","type":"buy-stable-asset","amountPrimary":300,"totalValue":300,"currency":"EUR","feeAmount":5,"feeUnit":"EUR","asset":"USDT"}
{"id":"b","date":"2025-01-02","type":"deposit-cash","totalValue":500,"currency":"EUR","client":"ACME","city":"Lyon"}

{"id":"c","date":"2025-01-03","type":"marketing-expense","totalValue":12.5,"currency":"EUR","memo":"flyers"}
`
	ledger, err := DecodeLedger(strings.NewReader(jsonlStream))
	if err != nil {
		t.Fatalf("DecodeLedger() returned an unexpected error: %v", err)
	}
	if ledger.Len() != 3 {
		t.Fatalf("DecodeLedger() decoded %d transactions, want 3", ledger.Len())
	}

	// sorted by date, same day keeps the file order.
	var ids []string
	for _, tx := range ledger.Transactions() {
		ids = append(ids, tx.ID)
	}
	if got := strings.Join(ids, ","); got != "b,a,c" {
		t.Errorf("DecodeLedger() order = %s, want b,a,c", got)
	}

	buy, _ := ledger.Get("a")
	want := NewBuy(date.New(2025, time.January, 3), Q(300), M(300, "EUR"), "").WithFee(decimal.NewFromInt(5), "EUR")
	want.ID, want.Asset = "a", "USDT"
	if !buy.Equal(want) {
		t.Errorf("DecodeLedger() buy = %+v, want %+v", buy, want)
	}
}

func TestDecodeLedger_Malformed(t *testing.T) {
	_, err := DecodeLedger(strings.NewReader(`{"id":"a","date":"03/01/2025"}`))
	if err == nil {
		t.Fatal("DecodeLedger() expected an error for an unparsable date")
	}
}

func TestTransaction_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Money
		wantErr error
	}{
		{"total value", `{"id":"a","date":"2025-01-02","type":"deposit-cash","totalValue":500,"currency":"EUR"}`, EUR(500), nil},
		{"legacy amount", `{"id":"a","date":"2025-01-02","type":"deposit-cash","amount":500,"currency":"EUR"}`, EUR(500), nil},
		{"zero value", `{"id":"a","date":"2025-01-02","type":"deposit-cash","totalValue":0,"currency":"EUR"}`, EUR(0), nil},
		{"missing value", `{"id":"a","date":"2025-01-02","type":"deposit-cash","currency":"EUR"}`, Money{}, ErrInvalidTransaction},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var tx Transaction
			err := json.Unmarshal([]byte(test.line), &tx)
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Errorf("Unmarshal() error = %v, want %v", err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal() unexpected error: %v", err)
			}
			if !tx.TotalValue.Equal(test.want) {
				t.Errorf("Unmarshal() total value = %v, want %v", tx.TotalValue, test.want)
			}
		})
	}
}

func TestEncodeLedger(t *testing.T) {
	// tx2 and tx3 have the same date, their relative order must be preserved.
	tx1 := NewBuy(date.New(2025, time.August, 3), Q(10), M(10, "EUR"), "")
	tx1.ID = "1"
	tx2 := NewDeposit(date.New(2025, time.August, 1), M(1000, "EUR"), "")
	tx2.ID = "2"
	tx3 := NewWithdraw(date.New(2025, time.August, 1), M(10, "EUR"), "rent")
	tx3.ID = "3"

	ledger := &Ledger{transactions: []Transaction{tx1, tx2, tx3}}

	var buffer bytes.Buffer
	if err := EncodeLedger(&buffer, ledger); err != nil {
		t.Fatalf("EncodeLedger() returned an unexpected error: %v", err)
	}

	want := `{"id":"2","date":"2025-08-01","type":"deposit-cash","totalValue":1000,"currency":"EUR"}
{"id":"3","date":"2025-08-01","type":"withdraw-cash","totalValue":10,"currency":"EUR","memo":"rent"}
{"id":"1","date":"2025-08-03","type":"buy-stable-asset","amountPrimary":10,"totalValue":10,"currency":"EUR"}
`
	if got := buffer.String(); got != want {
		t.Errorf("EncodeLedger() output mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}

	// and back again
	decoded, err := DecodeLedger(&buffer)
	if err != nil {
		t.Fatalf("DecodeLedger() returned an unexpected error: %v", err)
	}
	for i, tx := range decoded.Transactions() {
		if want := ledger.transactions[i]; !tx.Equal(want) {
			t.Errorf("transaction %d = %+v, want %+v", i, tx, want)
		}
	}
}

func TestSummaries_RoundTrip(t *testing.T) {
	closedAt := time.Date(2025, time.February, 1, 9, 30, 0, 0, time.UTC)
	in := NewSummaries(
		MonthSummary{Month: date.MustParseMonth("2025-02"), CapitalBase: M(1495, "EUR"), PortfolioValue: M(1400, "EUR"), Fees: M(0, "EUR"), Marketing: M(20, "EUR"), Net: M(-95, "EUR")},
		MonthSummary{Month: date.MustParseMonth("2025-01"), CapitalBase: M(1000, "EUR"), PortfolioValue: M(1495, "EUR"), Fees: M(5, "EUR"), Marketing: M(0, "EUR"), Net: M(495, "EUR"), ClosedAt: closedAt},
	)

	var buffer bytes.Buffer
	if err := EncodeSummaries(&buffer, in); err != nil {
		t.Fatalf("EncodeSummaries() returned an unexpected error: %v", err)
	}
	firstLine, _, _ := strings.Cut(buffer.String(), "\n")
	wantLine := `{"month":"2025-01","currency":"EUR","capitalBase":1000,"portfolioValueAtClose":1495,"fees":5,"marketing":0,"net":495,"closedAt":"2025-02-01T09:30:00Z"}`
	if firstLine != wantLine {
		t.Errorf("EncodeSummaries() first line = %s, want %s", firstLine, wantLine)
	}

	out, err := DecodeSummaries(&buffer)
	if err != nil {
		t.Fatalf("DecodeSummaries() returned an unexpected error: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("DecodeSummaries() = %d summaries, want %d", len(out), len(in))
	}
	for i := range in {
		if !out[i].Equal(in[i]) {
			t.Errorf("summary %d = %+v, want %+v", i, out[i], in[i])
		}
	}
	if !out[0].ClosedAt.Equal(closedAt) {
		t.Errorf("ClosedAt = %v, want %v", out[0].ClosedAt, closedAt)
	}
}
