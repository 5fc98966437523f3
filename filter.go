package capital

import (
	"slices"
	"strings"
)

// Filter selects the transactions to display. Empty criteria match everything.
//
// Filters only shape what is shown, reports are always reduced from the full month.
type Filter struct {
	Types  []Type
	Assets []string
	Search string // Search is matched case-insensitively against client and city.
}

// IsZero reports whether the filter accepts every transaction.
func (f Filter) IsZero() bool {
	return len(f.Types) == 0 && len(f.Assets) == 0 && strings.TrimSpace(f.Search) == ""
}

// Match reports whether tx passes the filter.
func (f Filter) Match(tx Transaction) bool {
	if len(f.Types) > 0 && !slices.Contains(f.Types, tx.Type) {
		return false
	}
	if len(f.Assets) > 0 && !slices.ContainsFunc(f.Assets, func(a string) bool { return strings.EqualFold(a, tx.Asset) }) {
		return false
	}
	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		return strings.Contains(strings.ToLower(tx.Client), s) || strings.Contains(strings.ToLower(tx.City), s)
	}
	return true
}

// Apply returns a new slice with the transactions passing the filter, in order.
func (f Filter) Apply(txs []Transaction) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.Match(tx) {
			out = append(out, tx)
		}
	}
	return out
}
