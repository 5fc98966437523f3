package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/capital/events"
)

// printMarkdown renders md for the terminal, or prints it as is when rendering fails.
func printMarkdown(md string) {
	out, err := renderMarkdown(md)
	if err != nil {
		out = md
	}
	fmt.Print(out)
}

func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func printEvent(m *events.Message) (int, error) { return writeEvent(os.Stdout, m) }

// writeEvent writes one line describing m.
func writeEvent(w io.Writer, m *events.Message) (int, error) {
	line := fmt.Sprintf("%s %s %s", m.Timestamp.Format("2006-01-02 15:04:05"), m.Owner, m.Event)
	if m.Month != "" {
		line += " " + m.Month
	}
	if m.TransactionID != "" {
		line += " " + m.TransactionID
	}
	if m.Net != "" {
		line += fmt.Sprintf(" base=%s net=%s %s", m.CapitalBase, m.Net, m.Currency)
	}
	return fmt.Fprintln(w, line)
}
