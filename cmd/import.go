package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/capital"
	"github.com/etnz/capital/importer"
	"github.com/etnz/capital/renderer"
	"github.com/google/subcommands"
)

// pathFlags collects repeated -path field=expression flags.
type pathFlags map[string]string

func (p pathFlags) String() string {
	var parts []string
	for k, v := range p {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

func (p pathFlags) Set(s string) error {
	field, expr, ok := strings.Cut(s, "=")
	if !ok || field == "" || expr == "" {
		return fmt.Errorf("expected field=expression, got %q", s)
	}
	p[field] = expr
	return nil
}

type importCmd struct {
	format string
	items  string
	paths  pathFlags
	dryRun bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "record transactions from a CSV or JSON file" }
func (*importCmd) Usage() string {
	return `import [-format csv|json] [-items <jsonpath>] [-path field=<jsonpath>]... [-n] <file>

  Records every transaction of the file, or none if one of them is invalid or
  falls in a closed month. CSV files have a header row naming the fields, JSON
  items are selected and read with JSONPath expressions.

  Fields: ` + strings.Join(importer.Fields, ", ") + `
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	c.paths = make(pathFlags)
	f.StringVar(&c.format, "format", "", "File format, csv or json (defaults to the file extension)")
	f.StringVar(&c.items, "items", importer.DefaultMapping.Items, "JSONPath selecting the transactions of a JSON file")
	f.Var(c.paths, "path", "JSONPath of a field within an item, as field=expression (repeatable)")
	f.BoolVar(&c.dryRun, "n", false, "Only check and display the transactions")
}

// read decodes the transactions of r in the command's format.
func (c *importCmd) read(r io.Reader, name string, u capital.Units) ([]capital.Transaction, error) {
	format := c.format
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	}
	switch format {
	case "csv":
		return importer.ReadCSV(r, u)
	case "json":
		return importer.ReadJSON(r, importer.Mapping{Items: c.items, Paths: c.paths}, u)
	}
	return nil, fmt.Errorf("unknown format %q, use -format csv or json", format)
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(ctx context.Context, a *app) error {
		file, err := os.Open(f.Arg(0))
		if err != nil {
			return err
		}
		defer file.Close()

		txs, err := c.read(file, file.Name(), a.cfg.Units())
		if err != nil {
			return fmt.Errorf("could not read %s: %w", file.Name(), err)
		}
		if c.dryRun {
			printMarkdown(renderer.RenderTransactions(txs))
			fmt.Printf("%d transactions read from %s, none recorded\n", len(txs), file.Name())
			return nil
		}
		if txs, err = a.book.Import(ctx, a.cfg.Owner, txs); err != nil {
			return err
		}
		printMarkdown(renderer.RenderTransactions(txs))
		fmt.Printf("%d transactions imported from %s\n", len(txs), file.Name())
		return nil
	})
}
