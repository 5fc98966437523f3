package capital

import (
	"slices"
	"sort"

	"github.com/etnz/capital/date"
)

// Distribution splits the portfolio value between its holdings.
type Distribution struct {
	StableAsset Quantity // StableAsset is the number of stable asset units held.
	Cash        Money
}

// Report holds the balances and KPIs of one month.
type Report struct {
	Month          date.Month
	CapitalBase    Money
	BaseSource     BaseSource
	PortfolioValue Money
	Net            Money // Net is PortfolioValue - CapitalBase.
	Fees           Money
	Marketing      Money
	Deposits       Money
	Withdrawals    Money
	Distribution   Distribution
	Count          int // Count is the number of transactions folded.
	Closed         bool
}

// Reduce folds the transactions of one month into its end of month balances.
//
// Transactions are applied by ascending date, same day transactions in the
// order given. Fees are paid from cash whatever the type, unknown types only
// pay their fee. Values are read as base unit magnitudes. Reduce does not
// modify txs.
func Reduce(u Units, base Money, txs []Transaction) Report {
	txs = slices.Clone(txs)
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })

	base = M(base.Decimal(), u.Base)
	zero := u.Zero()
	cash, units := base, Q(0)
	fees, marketing, deposits, withdrawals := zero, zero, zero, zero

	for _, tx := range txs {
		fee := u.FeeValue(tx.Fee)
		fees = fees.Add(fee)
		cash = cash.Sub(fee)

		value := M(tx.TotalValue.Decimal(), u.Base)
		switch tx.Type {
		case DepositCash:
			cash = cash.Add(value)
			deposits = deposits.Add(value)
		case WithdrawCash:
			cash = cash.Sub(value)
			withdrawals = withdrawals.Add(value)
		case MarketingExpense:
			cash = cash.Sub(value)
			marketing = marketing.Add(value)
		case BuyStable:
			units = units.Add(tx.AmountPrimary)
			cash = cash.Sub(value)
		case SellStable:
			units = units.Sub(tx.AmountPrimary)
			cash = cash.Add(value)
		}
	}

	value := units.Value(u.Base).Add(cash)
	r := Report{
		CapitalBase:    base,
		PortfolioValue: value,
		Net:            value.Sub(base),
		Fees:           fees,
		Marketing:      marketing,
		Deposits:       deposits,
		Withdrawals:    withdrawals,
		Distribution:   Distribution{StableAsset: units, Cash: cash},
		Count:          len(txs),
	}
	if len(txs) > 0 {
		r.Month = txs[0].Month()
	}
	return r
}

// Equal reports whether both reports hold the same values.
func (r Report) Equal(o Report) bool {
	return r.Month == o.Month &&
		r.CapitalBase.Equal(o.CapitalBase) &&
		r.BaseSource == o.BaseSource &&
		r.PortfolioValue.Equal(o.PortfolioValue) &&
		r.Net.Equal(o.Net) &&
		r.Fees.Equal(o.Fees) &&
		r.Marketing.Equal(o.Marketing) &&
		r.Deposits.Equal(o.Deposits) &&
		r.Withdrawals.Equal(o.Withdrawals) &&
		r.Distribution.StableAsset.Equal(o.Distribution.StableAsset) &&
		r.Distribution.Cash.Equal(o.Distribution.Cash) &&
		r.Count == o.Count &&
		r.Closed == o.Closed
}

// MarshalJSON writes the report with amounts as plain decimals in the report currency.
func (r Report) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("month", r.Month)
	w.Append("currency", r.CapitalBase.Currency())
	w.Append("capitalBase", r.CapitalBase.Decimal())
	w.Append("baseSource", r.BaseSource)
	w.Append("portfolioValue", r.PortfolioValue.Decimal())
	w.Append("net", r.Net.Decimal())
	w.Append("fees", r.Fees.Decimal())
	w.Append("marketing", r.Marketing.Decimal())
	w.Append("deposits", r.Deposits.Decimal())
	w.Append("withdrawals", r.Withdrawals.Decimal())
	w.Append("cash", r.Distribution.Cash.Decimal())
	w.Append("stableAsset", r.Distribution.StableAsset)
	w.Append("count", r.Count)
	w.Append("closed", r.Closed)
	return w.MarshalJSON()
}
