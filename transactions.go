package capital

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/capital/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type is the kind of a transaction. The sign of its effect on cash is implied
// by the type, amounts are always stored as non-negative magnitudes.
type Type string

// Transaction types understood by the reducer.
const (
	DepositCash      Type = "deposit-cash"
	WithdrawCash     Type = "withdraw-cash"
	MarketingExpense Type = "marketing-expense"
	BuyStable        Type = "buy-stable-asset"
	SellStable       Type = "sell-stable-asset"
)

// AllTypes lists the known types in display order.
var AllTypes = []Type{DepositCash, WithdrawCash, MarketingExpense, BuyStable, SellStable}

// Known reports whether t is one of AllTypes.
func (t Type) Known() bool {
	switch t {
	case DepositCash, WithdrawCash, MarketingExpense, BuyStable, SellStable:
		return true
	}
	return false
}

// Trades reports whether t moves stable asset units.
func (t Type) Trades() bool { return t == BuyStable || t == SellStable }

func (t Type) String() string { return string(t) }

var typeAliases = map[string]Type{
	"deposit":   DepositCash,
	"withdraw":  WithdrawCash,
	"marketing": MarketingExpense,
	"buy":       BuyStable,
	"sell":      SellStable,
}

// ParseType parses a type name, accepting the short forms "deposit", "withdraw",
// "marketing", "buy" and "sell".
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if t, ok := typeAliases[s]; ok {
		return t, nil
	}
	if t := Type(s); t.Known() {
		return t, nil
	}
	return Type(s), fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Fee is an optional fee paid along with a transaction.
type Fee struct {
	Amount decimal.Decimal
	Unit   string // Unit is either the base unit or the stable asset symbol.
}

func (f Fee) IsZero() bool     { return f.Amount.IsZero() }
func (f Fee) Equal(o Fee) bool { return f.Amount.Equal(o.Amount) && f.Unit == o.Unit }
func (f Fee) String() string   { return f.Amount.String() + " " + f.Unit }

// Transaction is the atomic ledger event.
type Transaction struct {
	ID            string
	Date          date.Date
	Type          Type
	AmountPrimary Quantity // AmountPrimary is the number of stable asset units bought or sold.
	TotalValue    Money    // TotalValue is the value of the transaction in the base unit.
	Fee           Fee
	Asset         string // Asset tags the transaction for filtering.
	Memo          string
	Client        string
	City          string
}

// Month returns the month bucket the transaction belongs to.
func (t Transaction) Month() date.Month { return t.Date.YearMonth() }

// NewDeposit creates a cash deposit.
func NewDeposit(day date.Date, value Money, memo string) Transaction {
	return Transaction{Date: day, Type: DepositCash, TotalValue: value, Memo: memo}
}

// NewWithdraw creates a cash withdrawal.
func NewWithdraw(day date.Date, value Money, memo string) Transaction {
	return Transaction{Date: day, Type: WithdrawCash, TotalValue: value, Memo: memo}
}

// NewMarketing creates a marketing expense paid from cash.
func NewMarketing(day date.Date, value Money, memo string) Transaction {
	return Transaction{Date: day, Type: MarketingExpense, TotalValue: value, Memo: memo}
}

// NewBuy creates a purchase of units of the stable asset for value.
func NewBuy(day date.Date, units Quantity, value Money, memo string) Transaction {
	return Transaction{Date: day, Type: BuyStable, AmountPrimary: units, TotalValue: value, Memo: memo}
}

// NewSell creates a sale of units of the stable asset for value.
func NewSell(day date.Date, units Quantity, value Money, memo string) Transaction {
	return Transaction{Date: day, Type: SellStable, AmountPrimary: units, TotalValue: value, Memo: memo}
}

// WithFee returns a copy of t paying a fee of amount in unit.
func (t Transaction) WithFee(amount decimal.Decimal, unit string) Transaction {
	t.Fee = Fee{Amount: amount, Unit: unit}
	return t
}

// WithParty returns a copy of t with its client and city metadata set.
func (t Transaction) WithParty(client, city string) Transaction {
	t.Client, t.City = client, city
	return t
}

// Validate checks the transaction and returns a copy with quick fixes applied:
// a missing id is generated, missing units default to the base unit and a
// missing asset tag defaults to the stable asset for trades and to the base
// unit otherwise. All failures are reported at once.
func (t Transaction) Validate(u Units) (Transaction, error) {
	// first the quick fixes
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.TotalValue = t.TotalValue.In(u.Base)
	if !t.Fee.IsZero() && t.Fee.Unit == "" {
		t.Fee.Unit = u.Base
	}
	if t.Fee.IsZero() {
		t.Fee = Fee{}
	}
	if t.Asset == "" {
		if t.Type.Trades() {
			t.Asset = u.Stable
		} else {
			t.Asset = u.Base
		}
	}

	var errs []error
	if t.Date.IsZero() {
		errs = append(errs, fmt.Errorf("%w: date is missing", ErrInvalidTransaction))
	}
	switch {
	case t.Type == "":
		errs = append(errs, fmt.Errorf("%w: type is missing", ErrInvalidTransaction))
	case !t.Type.Known():
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownType, t.Type))
	}
	if t.TotalValue.IsNegative() {
		errs = append(errs, fmt.Errorf("%w: total value %s", ErrNegativeAmount, t.TotalValue))
	}
	if t.TotalValue.Currency() != u.Base {
		errs = append(errs, fmt.Errorf("%w: total value must be in %s, got %s", ErrInvalidTransaction, u.Base, t.TotalValue.Currency()))
	}
	if t.AmountPrimary.IsNegative() {
		errs = append(errs, fmt.Errorf("%w: amount %s", ErrNegativeAmount, t.AmountPrimary))
	} else if t.Type.Trades() && t.AmountPrimary.IsZero() {
		errs = append(errs, fmt.Errorf("%w: %s needs a positive amount of %s", ErrInvalidTransaction, t.Type, u.Stable))
	}
	if t.Fee.Amount.IsNegative() {
		errs = append(errs, fmt.Errorf("%w: fee %s", ErrNegativeAmount, t.Fee))
	} else if !t.Fee.IsZero() && !u.Recognized(t.Fee.Unit) {
		errs = append(errs, fmt.Errorf("%w: fee unit %q is neither %s nor %s", ErrInvalidTransaction, t.Fee.Unit, u.Base, u.Stable))
	}
	if len(errs) > 0 {
		return t, invalid("validate", errors.Join(errs...))
	}
	return t, nil
}

// Equal reports whether both transactions carry the same values.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID &&
		t.Date == o.Date &&
		t.Type == o.Type &&
		t.AmountPrimary.Equal(o.AmountPrimary) &&
		t.TotalValue.Equal(o.TotalValue) &&
		t.Fee.Equal(o.Fee) &&
		t.Asset == o.Asset &&
		t.Memo == o.Memo &&
		t.Client == o.Client &&
		t.City == o.City
}

// MarshalJSON writes the transaction with a stable field order, omitting empty fields.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("date", t.Date)
	w.Append("type", t.Type)
	w.Optional("amountPrimary", t.AmountPrimary)
	w.Append("totalValue", t.TotalValue.Decimal())
	w.Optional("currency", t.TotalValue.Currency())
	if !t.Fee.IsZero() {
		w.Append("feeAmount", t.Fee.Amount)
		w.Append("feeUnit", t.Fee.Unit)
	}
	w.Optional("asset", t.Asset)
	w.Optional("memo", t.Memo)
	w.Optional("client", t.Client)
	w.Optional("city", t.City)
	return w.MarshalJSON()
}

// UnmarshalJSON reads a transaction. The value is read from "totalValue", or
// from "amount" in files written by earlier versions, and must be present.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID            string           `json:"id"`
		Date          date.Date        `json:"date"`
		Type          Type             `json:"type"`
		AmountPrimary Quantity         `json:"amountPrimary"`
		TotalValue    *decimal.Decimal `json:"totalValue"`
		Amount        *decimal.Decimal `json:"amount"`
		Currency      string           `json:"currency"`
		FeeAmount     decimal.Decimal  `json:"feeAmount"`
		FeeUnit       string           `json:"feeUnit"`
		Asset         string           `json:"asset"`
		Memo          string           `json:"memo"`
		Client        string           `json:"client"`
		City          string           `json:"city"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	value := temp.TotalValue
	if value == nil {
		value = temp.Amount
	}
	if value == nil {
		return fmt.Errorf("%w: totalValue is missing", ErrInvalidTransaction)
	}
	*t = Transaction{
		ID:            temp.ID,
		Date:          temp.Date,
		Type:          temp.Type,
		AmountPrimary: temp.AmountPrimary,
		TotalValue:    M(*value, temp.Currency),
		Asset:         temp.Asset,
		Memo:          temp.Memo,
		Client:        temp.Client,
		City:          temp.City,
	}
	if !temp.FeeAmount.IsZero() {
		t.Fee = Fee{Amount: temp.FeeAmount, Unit: temp.FeeUnit}
	}
	return nil
}
