package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/capital"
	"github.com/etnz/capital/date"
	"github.com/etnz/capital/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// txFlags are the flags shared by the commands writing a transaction.
type txFlags struct {
	date    string
	value   string
	units   string
	fee     string
	feeUnit string
	asset   string
	memo    string
	client  string
	city    string
}

func (t *txFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&t.date, "d", date.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&t.value, "v", "", "Total value in the base currency")
	f.StringVar(&t.units, "u", "", "Units of the stable asset bought or sold")
	f.StringVar(&t.fee, "fee", "", "Fee amount")
	f.StringVar(&t.feeUnit, "fee-unit", "", "Fee unit, the base currency or the stable asset (defaults to the base currency)")
	f.StringVar(&t.asset, "asset", "", "Asset tag used for filtering (defaults to the stable asset for trades, the base currency otherwise)")
	f.StringVar(&t.memo, "m", "", "An optional note for the transaction")
	f.StringVar(&t.client, "client", "", "Client the transaction relates to")
	f.StringVar(&t.city, "city", "", "City the transaction relates to")
}

// transaction builds the transaction of type typ from the flags.
func (t *txFlags) transaction(typ capital.Type, u capital.Units) (capital.Transaction, error) {
	tx := capital.Transaction{Type: typ, Asset: t.asset, Memo: t.memo, Client: t.client, City: t.city}
	var err error
	if tx.Date, err = date.Parse(t.date); err != nil {
		return tx, fmt.Errorf("invalid date: %w", err)
	}
	if t.value == "" {
		return tx, fmt.Errorf("the total value (-v) is required")
	}
	if tx.TotalValue, err = capital.ParseMoney(t.value, u.Base); err != nil {
		return tx, fmt.Errorf("invalid value: %w", err)
	}
	if t.units != "" {
		if tx.AmountPrimary, err = capital.ParseQuantity(t.units); err != nil {
			return tx, fmt.Errorf("invalid units: %w", err)
		}
	}
	if t.fee != "" {
		amount, err := decimal.NewFromString(t.fee)
		if err != nil {
			return tx, fmt.Errorf("invalid fee: %w", err)
		}
		tx = tx.WithFee(amount, t.feeUnit)
	}
	return tx, nil
}

// --- Record Commands ---

type recordCmd struct {
	txFlags
	name     string
	typ      capital.Type
	synopsis string
}

func newRecordCmd(typ capital.Type) *recordCmd {
	c := &recordCmd{typ: typ}
	switch typ {
	case capital.DepositCash:
		c.name, c.synopsis = "deposit", "record cash paid into the business"
	case capital.WithdrawCash:
		c.name, c.synopsis = "withdraw", "record cash taken out of the business"
	case capital.MarketingExpense:
		c.name, c.synopsis = "marketing", "record a marketing expense paid from cash"
	case capital.BuyStable:
		c.name, c.synopsis = "buy", "record a purchase of the stable asset with cash"
	case capital.SellStable:
		c.name, c.synopsis = "sell", "record a sale of the stable asset for cash"
	}
	return c
}

func (c *recordCmd) Name() string     { return c.name }
func (c *recordCmd) Synopsis() string { return c.synopsis }
func (c *recordCmd) Usage() string {
	if c.typ.Trades() {
		return fmt.Sprintf(`%s -d <date> -u <units> -v <value> [-fee <amount> -fee-unit <unit>] [-m <memo>] [-client <client>] [-city <city>]

  Records a %s transaction of <units> of the stable asset for <value> in the base currency.
`, c.name, c.typ)
	}
	return fmt.Sprintf(`%s -d <date> -v <value> [-fee <amount> -fee-unit <unit>] [-m <memo>] [-client <client>] [-city <city>]

  Records a %s transaction of <value> in the base currency.
`, c.name, c.typ)
}

func (c *recordCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, a *app) error {
		tx, err := c.transaction(c.typ, a.cfg.Units())
		if err != nil {
			return err
		}
		tx, err = a.book.Record(ctx, a.cfg.Owner, tx)
		if err != nil {
			return err
		}
		fmt.Printf("%s (id %s)\n", renderer.Transaction(tx), tx.ID)
		return nil
	})
}

// --- Edit Command ---

type editCmd struct {
	txFlags
	typ string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "replace a transaction of an open month" }
func (*editCmd) Usage() string {
	return `edit -t <type> -d <date> -v <value> [...] <id>

  Replaces every field of the transaction <id>. Both the previous and the new
  date must fall in open months.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	c.txFlags.SetFlags(f)
	f.StringVar(&c.typ, "t", "", "Transaction type (deposit, withdraw, marketing, buy, sell)")
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	typ, err := capital.ParseType(c.typ)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing type: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(ctx context.Context, a *app) error {
		tx, err := c.transaction(typ, a.cfg.Units())
		if err != nil {
			return err
		}
		tx.ID = f.Arg(0)
		tx, err = a.book.Update(ctx, a.cfg.Owner, tx)
		if err != nil {
			return err
		}
		fmt.Printf("Updated: %s\n", renderer.Transaction(tx))
		return nil
	})
}

// --- Remove Command ---

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete transactions of open months" }
func (*rmCmd) Usage() string {
	return `rm <id>...

  Deletes the given transactions. Transactions of closed months cannot be deleted.
`
}
func (*rmCmd) SetFlags(f *flag.FlagSet) {}

func (*rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(ctx context.Context, a *app) error {
		for _, id := range f.Args() {
			if err := a.book.Delete(ctx, a.cfg.Owner, id); err != nil {
				return fmt.Errorf("could not delete %s: %w", id, err)
			}
			fmt.Printf("Deleted %s\n", id)
		}
		return nil
	})
}

// --- Init Command ---

type initCmd struct{}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "set the initial capital of the book" }
func (*initCmd) Usage() string {
	return `init <amount>

  Sets the capital base of the first month, when no month was closed yet.
`
}
func (*initCmd) SetFlags(f *flag.FlagSet) {}

func (*initCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(ctx context.Context, a *app) error {
		v, err := capital.ParseMoney(f.Arg(0), a.cfg.Currency)
		if err != nil {
			return err
		}
		if err := a.book.SetInitialCapital(ctx, a.cfg.Owner, v); err != nil {
			return err
		}
		fmt.Printf("Initial capital set to %s\n", v)
		return nil
	})
}
