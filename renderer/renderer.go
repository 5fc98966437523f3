// Package renderer turns capital reports into markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
	"time"

	"github.com/etnz/capital"
)

//go:embed templates/*.md
var templates embed.FS

// MonthOptions holds configuration for rendering a month report.
type MonthOptions struct {
	SkipTransactions bool // Do not render the transactions section.
}

type monthData struct {
	capital.View
	Units capital.Units
}

// RenderMonth renders a month view: its KPIs, its distribution and the
// transactions that passed the view's filter.
func RenderMonth(v capital.View, u capital.Units, opts MonthOptions) string {
	partials := map[string]string{
		"month_title":        "month_title.md",
		"month_kpis":         "month_kpis.md",
		"month_distribution": "month_distribution.md",
		"transactions_table": "transactions_table.md",
	}
	if !opts.SkipTransactions {
		partials["month_transactions"] = "month_transactions.md"
	} else {
		// An empty file name results in an empty template.
		partials["month_transactions"] = ""
	}
	return renderTemplate("month", "month.md", partials, monthData{View: v, Units: u})
}

// RenderTransactions renders a transaction list as a markdown table.
func RenderTransactions(txs []capital.Transaction) string {
	partials := map[string]string{
		"transactions_table": "transactions_table.md",
	}
	return renderTemplate("transactions", "transactions.md", partials, txs)
}

// RenderHistory renders the closed months, oldest first.
func RenderHistory(s capital.Summaries) string {
	return renderTemplate("history", "history.md", nil, s)
}

// Transaction renders a transaction to a one line sentence.
func Transaction(tx capital.Transaction) string {
	var s string
	switch tx.Type {
	case capital.DepositCash:
		s = fmt.Sprintf("Deposited %s", tx.TotalValue)
	case capital.WithdrawCash:
		s = fmt.Sprintf("Withdrew %s", tx.TotalValue)
	case capital.MarketingExpense:
		s = fmt.Sprintf("Spent %s on marketing", tx.TotalValue)
	case capital.BuyStable:
		s = fmt.Sprintf("Bought %s %s for %s", tx.AmountPrimary, tx.Asset, tx.TotalValue)
	case capital.SellStable:
		s = fmt.Sprintf("Sold %s %s for %s", tx.AmountPrimary, tx.Asset, tx.TotalValue)
	default:
		s = string(tx.Type)
	}
	if !tx.Fee.IsZero() {
		s += fmt.Sprintf(" (fee %s)", tx.Fee)
	}
	return fmt.Sprintf("%s on %s", s, tx.Date)
}

var funcs = template.FuncMap{
	"signed": func(m capital.Money) string { return m.SignedString() },
	"units": func(tx capital.Transaction) string {
		if !tx.Type.Trades() {
			return ""
		}
		return tx.AmountPrimary.String()
	},
	"fee": func(f capital.Fee) string {
		if f.IsZero() {
			return ""
		}
		return f.String()
	},
	// cell escapes free text for a table cell.
	"cell": func(s string) string {
		s = strings.ReplaceAll(s, "|", `\|`)
		return strings.ReplaceAll(s, "\n", " ")
	},
	"datetime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("2006-01-02 15:04")
	},
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		if file != "" {
			content, err = fs.ReadFile(templates, "templates/"+file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
