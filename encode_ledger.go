package capital

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// amountCmd reads an amount stored as two fields.
type amountCmd struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (a amountCmd) Money() Money {
	return M(a.Amount, a.Currency)
}

// EncodeTransaction writes tx as a single JSON line.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	return encodeLine(w, tx)
}

// EncodeTransactions writes txs in JSONL format, one transaction per line, in
// the order given.
func EncodeTransactions(w io.Writer, txs []Transaction) error {
	for _, tx := range txs {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}

// DecodeTransactions reads transactions in JSONL format, in file order.
func DecodeTransactions(r io.Reader) ([]Transaction, error) {
	return decodeLines[Transaction](r)
}

// EncodeLedger persists the ledger to w in JSONL format, one transaction per
// line in ledger order.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	ledger.stableSort()
	return EncodeTransactions(w, ledger.transactions)
}

// DecodeLedger reads transactions in JSONL format and returns them as a sorted Ledger.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	txs, err := DecodeTransactions(r)
	if err != nil {
		return nil, err
	}
	return NewLedger(txs...), nil
}

// EncodeSummaries writes the close history in JSONL format, one month per line.
func EncodeSummaries(w io.Writer, summaries Summaries) error {
	for _, s := range NewSummaries(summaries...) {
		if err := encodeLine(w, s); err != nil {
			return err
		}
	}
	return nil
}

// DecodeSummaries reads a close history in JSONL format.
func DecodeSummaries(r io.Reader) (Summaries, error) {
	list, err := decodeLines[MonthSummary](r)
	if err != nil {
		return nil, err
	}
	return NewSummaries(list...), nil
}

func encodeLine(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %T: %w", v, err)
	}
	// Write the JSON data followed by a newline to create the JSONL format.
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write %T: %w", v, err)
	}
	return nil
}

func decodeLines[T any](r io.Reader) ([]T, error) {
	var list []T
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}
		var v T
		if err := json.Unmarshal(lineBytes, &v); err != nil {
			return nil, fmt.Errorf("line %d: could not decode %q: %w", line, string(lineBytes), err)
		}
		list = append(list, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ledger: %w", err)
	}
	return list, nil
}
