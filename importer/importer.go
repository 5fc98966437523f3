// Package importer reads transactions in bulk from CSV files and JSON exports.
//
// Both formats are turned into a set of named fields, then into validated
// transactions. The field names are:
//
//	id, date, type, amountPrimary, totalValue, currency, feeAmount, feeUnit, asset, memo, client, city
//
// Only date, type and totalValue are required.
package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/capital"
	"github.com/etnz/capital/date"
	"github.com/shopspring/decimal"
)

// Fields lists the transaction fields an import can fill.
var Fields = []string{"id", "date", "type", "amountPrimary", "totalValue", "currency", "feeAmount", "feeUnit", "asset", "memo", "client", "city"}

var required = []string{"date", "type", "totalValue"}

// record holds the raw fields of one imported transaction.
type record map[string]string

// transaction converts the record into a validated transaction.
func (r record) transaction(u capital.Units) (capital.Transaction, error) {
	var errs []error
	for _, f := range required {
		if strings.TrimSpace(r[f]) == "" {
			errs = append(errs, fmt.Errorf("missing %s", f))
		}
	}
	if len(errs) > 0 {
		return capital.Transaction{}, errors.Join(errs...)
	}

	tx := capital.Transaction{
		ID:     strings.TrimSpace(r["id"]),
		Asset:  strings.TrimSpace(r["asset"]),
		Memo:   r["memo"],
		Client: r["client"],
		City:   r["city"],
	}
	var err error
	if tx.Date, err = date.Parse(strings.TrimSpace(r["date"])); err != nil {
		errs = append(errs, err)
	}
	if tx.Type, err = capital.ParseType(r["type"]); err != nil {
		errs = append(errs, err)
	}
	if tx.TotalValue, err = capital.ParseMoney(strings.TrimSpace(r["totalValue"]), strings.ToUpper(strings.TrimSpace(r["currency"]))); err != nil {
		errs = append(errs, err)
	}
	if s := strings.TrimSpace(r["amountPrimary"]); s != "" {
		if tx.AmountPrimary, err = capital.ParseQuantity(s); err != nil {
			errs = append(errs, err)
		}
	}
	if s := strings.TrimSpace(r["feeAmount"]); s != "" {
		amount, err := decimal.NewFromString(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid fee %q: %w", s, err))
		}
		tx.Fee = capital.Fee{Amount: amount, Unit: strings.TrimSpace(r["feeUnit"])}
	}
	if len(errs) > 0 {
		return capital.Transaction{}, errors.Join(errs...)
	}
	return tx.Validate(u)
}

// convert turns records into transactions, reporting every failing record at once.
func convert(records []record, u capital.Units, where func(i int) string) ([]capital.Transaction, error) {
	var (
		txs  []capital.Transaction
		errs []error
	)
	for i, r := range records {
		tx, err := r.transaction(u)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where(i), err))
			continue
		}
		txs = append(txs, tx)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return txs, nil
}
