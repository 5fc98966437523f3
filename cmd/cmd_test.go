package cmd

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/etnz/capital"
	"github.com/etnz/capital/config"
	"github.com/etnz/capital/date"
	"github.com/etnz/capital/events"
	"github.com/shopspring/decimal"
)

var units = capital.Units{Base: "EUR", Stable: "USDT"}

func parse(t *testing.T, setFlags func(*flag.FlagSet), args ...string) *flag.FlagSet {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	setFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse(%v) error = %v", args, err)
	}
	return fs
}

func TestTxFlags(t *testing.T) {
	tests := []struct {
		name    string
		typ     capital.Type
		args    []string
		want    capital.Transaction
		wantErr string
	}{
		{
			name: "buy with fee",
			typ:  capital.BuyStable,
			args: []string{"-d", "2025-01-15", "-u", "300", "-v", "280.50", "-fee", "5", "-client", "ACME", "-city", "Lyon"},
			want: capital.NewBuy(date.MustParse("2025-01-15"), capital.Q(300), capital.M(decimal.RequireFromString("280.50"), "EUR"), "").
				WithFee(decimal.NewFromInt(5), "").WithParty("ACME", "Lyon"),
		},
		{
			name: "deposit",
			typ:  capital.DepositCash,
			args: []string{"-d", "2025-02-01", "-v", "1000", "-m", "seed"},
			want: capital.NewDeposit(date.MustParse("2025-02-01"), capital.M(1000, "EUR"), "seed"),
		},
		{name: "missing value", typ: capital.DepositCash, args: []string{"-d", "2025-02-01"}, wantErr: "-v"},
		{name: "bad date", typ: capital.DepositCash, args: []string{"-d", "01/02/2025", "-v", "1"}, wantErr: "invalid date"},
		{name: "bad fee", typ: capital.DepositCash, args: []string{"-v", "1", "-fee", "five"}, wantErr: "invalid fee"},
		{name: "bad units", typ: capital.BuyStable, args: []string{"-v", "1", "-u", "many"}, wantErr: "invalid units"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var tf txFlags
			parse(t, tf.SetFlags, test.args...)
			got, err := tf.transaction(test.typ, units)
			if test.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), test.wantErr) {
					t.Errorf("transaction() error = %v, want %q", err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("transaction() unexpected error: %v", err)
			}
			if got.Type != test.want.Type || got.Date != test.want.Date || !got.TotalValue.Equal(test.want.TotalValue) ||
				!got.AmountPrimary.Equal(test.want.AmountPrimary) || !got.Fee.Equal(test.want.Fee) ||
				got.Memo != test.want.Memo || got.Client != test.want.Client || got.City != test.want.City {
				t.Errorf("transaction() = %+v, want %+v", got, test.want)
			}
		})
	}
}

func TestFilterFlags(t *testing.T) {
	var ff filterFlags
	parse(t, ff.SetFlags, "-t", "buy, sell", "-asset", "USDT", "-q", "lyon")
	f, err := ff.filter()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(f.Types, []capital.Type{capital.BuyStable, capital.SellStable}) || !slices.Equal(f.Assets, []string{"USDT"}) || f.Search != "lyon" {
		t.Errorf("filter() = %+v", f)
	}

	ff = filterFlags{types: "refund"}
	if _, err := ff.filter(); err == nil {
		t.Error("filter() expected an error for an unknown type")
	}
}

func TestImportCmd_Flags(t *testing.T) {
	var c importCmd
	parse(t, c.SetFlags, "-items", "$.data[*]", "-path", "totalValue=$.amount.value", "-path", "type=$.kind")
	if c.items != "$.data[*]" || c.paths["totalValue"] != "$.amount.value" || c.paths["type"] != "$.kind" {
		t.Errorf("import flags = %+v", c)
	}
	if err := c.paths.Set("nothing"); err == nil {
		t.Error("Set(nothing) expected an error")
	}
}

func TestImportCmd_Read(t *testing.T) {
	csv := "date,type,totalValue\n2025-01-02,deposit,100\n"
	json := `{"data":[{"on":"2025-01-02","kind":"marketing","amount":{"value":20}}]}`

	c := importCmd{paths: pathFlags{"date": "$.on", "type": "$.kind", "totalValue": "$.amount.value"}, items: "$.data[*]"}
	txs, err := c.read(strings.NewReader(csv), "export.CSV", units)
	if err != nil || len(txs) != 1 || txs[0].Type != capital.DepositCash {
		t.Errorf("read(csv) = %+v, %v", txs, err)
	}
	txs, err = c.read(strings.NewReader(json), "export.json", units)
	if err != nil || len(txs) != 1 || txs[0].Type != capital.MarketingExpense || !txs[0].TotalValue.Equal(capital.M(20, "EUR")) {
		t.Errorf("read(json) = %+v, %v", txs, err)
	}
	if _, err := c.read(strings.NewReader(csv), "export.xls", units); err == nil {
		t.Error("read(xls) expected an error")
	}
	c.format = "csv"
	if _, err := c.read(strings.NewReader(csv), "export.txt", units); err != nil {
		t.Errorf("read(-format csv) error = %v", err)
	}
}

func TestWriteEvent(t *testing.T) {
	var buf bytes.Buffer
	m := &events.Message{
		Event:       "month.closed",
		Owner:       "alice",
		Month:       "2025-01",
		CapitalBase: "1000",
		Net:         "495",
		Currency:    "EUR",
		Timestamp:   time.Date(2025, 2, 1, 8, 30, 0, 0, time.UTC),
	}
	if _, err := writeEvent(&buf, m); err != nil {
		t.Fatal(err)
	}
	want := "2025-02-01 08:30:00 alice month.closed 2025-01 base=1000 net=495 EUR\n"
	if buf.String() != want {
		t.Errorf("writeEvent() = %q, want %q", buf.String(), want)
	}
}

func TestCommands(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range commands() {
		if seen[c.Name()] {
			t.Errorf("command %q is registered twice", c.Name())
		}
		seen[c.Name()] = true
		if c.Synopsis() == "" || !strings.HasPrefix(c.Usage(), c.Name()) {
			t.Errorf("command %q lacks a synopsis or a usage", c.Name())
		}
	}
	for _, name := range []string{"deposit", "withdraw", "marketing", "buy", "sell", "close", "month", "import", "serve"} {
		if !IsCommand(name) {
			t.Errorf("IsCommand(%q) = false", name)
		}
	}
	if IsCommand("hello") {
		t.Error("IsCommand(hello) = true")
	}
}

func TestCompletion(t *testing.T) {
	c := Completion()
	buy, ok := c.Sub["buy"]
	if !ok {
		t.Fatal("no completion for buy")
	}
	for _, f := range []string{"d", "u", "v", "fee", "fee-unit", "client", "city"} {
		if _, ok := buy.Flags[f]; !ok {
			t.Errorf("buy completion misses flag -%s", f)
		}
	}
	if got := c.Flags["backend"].Predict(""); !slices.Equal(got, config.Backends) {
		t.Errorf("backend prediction = %v", got)
	}
	if got := c.Sub["month"].Flags["t"].Predict(""); !slices.Contains(got, "buy") {
		t.Errorf("type prediction = %v", got)
	}
}

func TestOpenStore(t *testing.T) {
	for _, backend := range config.Backends {
		t.Run(backend, func(t *testing.T) {
			dir := t.TempDir()
			cfg := &config.Config{Backend: backend, DataDir: dir, SQLitePath: filepath.Join(dir, "capital.db")}
			s, closeStore, err := openStore(cfg)
			if err != nil {
				t.Fatalf("openStore() error = %v", err)
			}
			defer closeStore()
			if v, err := s.GetInitialCapital(t.Context(), "alice"); err != nil || !v.IsZero() {
				t.Errorf("GetInitialCapital() = %v, %v", v, err)
			}
		})
	}
}

func TestExtensionEnv(t *testing.T) {
	*ownerFlag, *backendFlag = "bob", "sqlite"
	t.Cleanup(func() { *ownerFlag, *backendFlag = "", "" })
	env := extensionEnv(nil)
	want := []string{EnvOwner + "=bob", EnvBackend + "=sqlite", EnvVerbose + "=false"}
	if !slices.Equal(env, want) {
		t.Errorf("extensionEnv() = %v, want %v", env, want)
	}
}

func TestRunExtension(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("extensions are shell scripts in this test")
	}
	dir := t.TempDir()
	script := "#!/bin/sh\nexit 3\n"
	if err := os.WriteFile(filepath.Join(dir, "capital-hello"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir)

	if found, code := RunExtension("missing", nil); found || code != 0 {
		t.Errorf("RunExtension(missing) = %v, %d, want false, 0", found, code)
	}
	if found, code := RunExtension("hello", nil); !found || code != 3 {
		t.Errorf("RunExtension(hello) = %v, %d, want true, 3", found, code)
	}
}
