package capital

import (
	"iter"
	"slices"
	"sort"

	"github.com/etnz/capital/date"
)

// Ledger represents the transactions of one owner.
//
// In a Ledger transactions are always in chronological order, transactions on
// the same day keep the order they were appended in.
type Ledger struct {
	transactions []Transaction
}

// NewLedger creates a ledger holding txs.
func NewLedger(txs ...Transaction) *Ledger {
	l := &Ledger{transactions: make([]Transaction, 0, len(txs))}
	l.Append(txs...)
	return l
}

// Append adds transactions to the ledger.
func (l *Ledger) Append(txs ...Transaction) {
	l.transactions = append(l.transactions, txs...)
	l.stableSort() // Ensure the ledger remains sorted after appending
}

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// Get returns the transaction with the given id.
func (l *Ledger) Get(id string) (Transaction, bool) {
	i := l.index(id)
	if i < 0 {
		return Transaction{}, false
	}
	return l.transactions[i], true
}

// Replace swaps the transaction sharing tx's id for tx. It returns false when there is none.
func (l *Ledger) Replace(tx Transaction) bool {
	i := l.index(tx.ID)
	if i < 0 {
		return false
	}
	l.transactions[i] = tx
	l.stableSort() // the date may have changed
	return true
}

// Remove deletes the transaction with the given id. It returns false when there is none.
func (l *Ledger) Remove(id string) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.transactions = slices.Delete(l.transactions, i, i+1)
	return true
}

func (l *Ledger) index(id string) int {
	return slices.IndexFunc(l.transactions, func(tx Transaction) bool { return tx.ID == id })
}

// Transactions iterates over the transactions matching every filter.
func (l *Ledger) Transactions(filters ...func(Transaction) bool) iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
	next:
		for i, tx := range l.transactions {
			for _, accept := range filters {
				if !accept(tx) {
					continue next
				}
			}
			if !yield(i, tx) {
				return
			}
		}
	}
}

// All returns a copy of every transaction.
func (l *Ledger) All() []Transaction { return slices.Clone(l.transactions) }

// Month returns the transactions dated in m, in ledger order.
func (l *Ledger) Month(m date.Month) []Transaction {
	var txs []Transaction
	for _, tx := range l.Transactions(InMonth(m)) {
		txs = append(txs, tx)
	}
	return txs
}

// Months returns every month holding at least one transaction, in order.
func (l *Ledger) Months() []date.Month {
	var months []date.Month
	for _, tx := range l.transactions {
		m := tx.Month()
		if len(months) == 0 || months[len(months)-1] != m {
			months = append(months, m)
		}
	}
	return months
}

// InMonth selects transactions dated in m.
func InMonth(m date.Month) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Month() == m }
}

// stableSort sorts the ledger by transaction date. The sort is stable, meaning
// transactions on the same day maintain their original relative order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].Date.Before(l.transactions[j].Date)
	})
}
