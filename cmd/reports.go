package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/capital"
	"github.com/etnz/capital/chart"
	"github.com/etnz/capital/date"
	"github.com/etnz/capital/renderer"
	"github.com/google/subcommands"
)

// filterFlags select the transactions to display.
type filterFlags struct {
	types  string
	assets string
	search string
}

func (p *filterFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.types, "t", "", "Comma separated transaction types to display")
	f.StringVar(&p.assets, "asset", "", "Comma separated asset tags to display")
	f.StringVar(&p.search, "q", "", "Only display transactions whose client or city contains this text")
}

func (p *filterFlags) filter() (capital.Filter, error) {
	f := capital.Filter{Assets: split(p.assets), Search: p.search}
	for _, s := range split(p.types) {
		t, err := capital.ParseType(s)
		if err != nil {
			return f, err
		}
		f.Types = append(f.Types, t)
	}
	return f, nil
}

func split(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// month returns the month m designates, or the working month when m is empty.
func month(ctx context.Context, a *app, m string) (date.Month, error) {
	if m == "" {
		return a.book.WorkingMonth(ctx, a.cfg.Owner)
	}
	return date.ParseMonth(m)
}

// --- Transactions Command ---

type txCmd struct {
	filterFlags
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions across all months" }
func (*txCmd) Usage() string {
	return `tx [-t <types>] [-asset <assets>] [-q <text>]

  Lists every transaction of the book passing the filters, by date.
`
}

func (c *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, a *app) error {
		flt, err := c.filter()
		if err != nil {
			return err
		}
		txs, err := a.book.Transactions(ctx, a.cfg.Owner, flt)
		if err != nil {
			return err
		}
		printMarkdown(renderer.RenderTransactions(txs))
		return nil
	})
}

// --- Month Command ---

type monthCmd struct {
	filterFlags
	month  string
	noList bool
}

func (*monthCmd) Name() string     { return "month" }
func (*monthCmd) Synopsis() string { return "display the report of a month" }
func (*monthCmd) Usage() string {
	return `month [-month <YYYY-MM>] [-no-tx] [-t <types>] [-asset <assets>] [-q <text>]

  Displays the capital base, the key figures, the distribution and the
  transactions of a month. The figures always account for every transaction
  of the month, the filters only select the transactions listed.
`
}

func (c *monthCmd) SetFlags(f *flag.FlagSet) {
	c.filterFlags.SetFlags(f)
	f.StringVar(&c.month, "month", "", "Month to display (defaults to the working month)")
	f.BoolVar(&c.noList, "no-tx", false, "Do not list the transactions")
}

func (c *monthCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, a *app) error {
		m, err := month(ctx, a, c.month)
		if err != nil {
			return err
		}
		flt, err := c.filter()
		if err != nil {
			return err
		}
		v, err := a.book.MonthView(ctx, a.cfg.Owner, m, flt)
		if err != nil {
			return err
		}
		printMarkdown(renderer.RenderMonth(v, a.cfg.Units(), renderer.MonthOptions{SkipTransactions: c.noList}))
		return nil
	})
}

// --- Close Command ---

type closeCmd struct {
	month string
}

func (*closeCmd) Name() string     { return "close" }
func (*closeCmd) Synopsis() string { return "freeze a month and carry its ending capital over" }
func (*closeCmd) Usage() string {
	return `close [-month <YYYY-MM>]

  Closes the month (the working month by default). Its transactions can no
  longer change and its ending capital becomes the next month's capital base.
`
}

func (c *closeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "month", "", "Month to close (defaults to the working month)")
}

func (c *closeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, a *app) error {
		m, err := month(ctx, a, c.month)
		if err != nil {
			return err
		}
		sum, next, err := a.book.Close(ctx, a.cfg.Owner, m)
		if err != nil {
			return err
		}
		fmt.Printf("Closed %s: capital base %s, net %s, ending capital %s.\n", sum.Month, sum.CapitalBase, sum.Net.SignedString(), sum.EndingCapital())
		fmt.Printf("Now working on %s.\n", next)
		return nil
	})
}

// --- History Command ---

type historyCmd struct{}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the closed months" }
func (*historyCmd) Usage() string {
	return `history

  Displays every closed month with its capital base, net result and ending capital.
`
}
func (*historyCmd) SetFlags(f *flag.FlagSet) {}

func (*historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, a *app) error {
		sums, err := a.book.Summaries(ctx, a.cfg.Owner)
		if err != nil {
			return err
		}
		printMarkdown(renderer.RenderHistory(sums))
		return nil
	})
}

// --- Chart Command ---

type chartCmd struct {
	output string
	title  string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "plot the ending capital of closed months" }
func (*chartCmd) Usage() string {
	return `chart [-o <file.png>] [-title <title>]

  Plots the ending capital and the capital base of every closed month into a PNG file.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "capital.png", "Output PNG file")
	f.StringVar(&c.title, "title", chart.DefaultOptions.Title, "Chart title")
}

func (c *chartCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, a *app) error {
		sums, err := a.book.Summaries(ctx, a.cfg.Owner)
		if err != nil {
			return err
		}
		opts := chart.DefaultOptions
		opts.Title = c.title
		if err := chart.Save(c.output, sums, opts); err != nil {
			return err
		}
		fmt.Printf("Chart saved to %s\n", c.output)
		return nil
	})
}
