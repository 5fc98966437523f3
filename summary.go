package capital

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/etnz/capital/date"
	"github.com/shopspring/decimal"
)

// MonthSummary is the frozen record of a closed month.
type MonthSummary struct {
	Month          date.Month
	CapitalBase    Money
	PortfolioValue Money // PortfolioValue is the portfolio value at close.
	Fees           Money
	Marketing      Money
	Net            Money // Net is PortfolioValue - CapitalBase.
	ClosedAt       time.Time
}

// EndingCapital is the value the month hands over to the next one.
func (s MonthSummary) EndingCapital() Money { return s.CapitalBase.Add(s.Net) }

// Equal compares the frozen values, ClosedAt is informational and ignored.
func (s MonthSummary) Equal(o MonthSummary) bool {
	return s.Month == o.Month &&
		s.CapitalBase.Equal(o.CapitalBase) &&
		s.PortfolioValue.Equal(o.PortfolioValue) &&
		s.Fees.Equal(o.Fees) &&
		s.Marketing.Equal(o.Marketing) &&
		s.Net.Equal(o.Net)
}

func (s MonthSummary) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("month", s.Month)
	w.Append("currency", s.CapitalBase.Currency())
	w.Append("capitalBase", s.CapitalBase.Decimal())
	w.Append("portfolioValueAtClose", s.PortfolioValue.Decimal())
	w.Append("fees", s.Fees.Decimal())
	w.Append("marketing", s.Marketing.Decimal())
	w.Append("net", s.Net.Decimal())
	if !s.ClosedAt.IsZero() {
		w.Append("closedAt", s.ClosedAt.UTC())
	}
	return w.MarshalJSON()
}

func (s *MonthSummary) UnmarshalJSON(data []byte) error {
	var temp struct {
		Month     date.Month      `json:"month"`
		Currency  string          `json:"currency"`
		Base      decimal.Decimal `json:"capitalBase"`
		Value     decimal.Decimal `json:"portfolioValueAtClose"`
		Fees      decimal.Decimal `json:"fees"`
		Marketing decimal.Decimal `json:"marketing"`
		Net       decimal.Decimal `json:"net"`
		ClosedAt  time.Time       `json:"closedAt"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	c := temp.Currency
	*s = MonthSummary{
		Month:          temp.Month,
		CapitalBase:    M(temp.Base, c),
		PortfolioValue: M(temp.Value, c),
		Fees:           M(temp.Fees, c),
		Marketing:      M(temp.Marketing, c),
		Net:            M(temp.Net, c),
		ClosedAt:       temp.ClosedAt,
	}
	return nil
}

// Summaries is the close history of an owner, sorted by month.
type Summaries []MonthSummary

// NewSummaries returns a sorted copy of list.
func NewSummaries(list ...MonthSummary) Summaries {
	s := slices.Clone(Summaries(list))
	slices.SortStableFunc(s, func(a, b MonthSummary) int { return a.Month.Compare(b.Month) })
	return s
}

// Get returns the summary of month m.
func (s Summaries) Get(m date.Month) (MonthSummary, bool) {
	i, found := slices.BinarySearchFunc(s, m, func(x MonthSummary, m date.Month) int { return x.Month.Compare(m) })
	if !found {
		return MonthSummary{}, false
	}
	return s[i], true
}

// IsClosed reports whether month m has a summary.
func (s Summaries) IsClosed(m date.Month) bool {
	_, ok := s.Get(m)
	return ok
}

// Latest returns the summary of the latest closed month.
func (s Summaries) Latest() (MonthSummary, bool) {
	if len(s) == 0 {
		return MonthSummary{}, false
	}
	return s[len(s)-1], true
}

// Months returns the closed months in order.
func (s Summaries) Months() []date.Month {
	months := make([]date.Month, len(s))
	for i, x := range s {
		months[i] = x.Month
	}
	return months
}
