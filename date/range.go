package date

import "fmt"

// Range represents a range of dates.
type Range struct{ From, To Date }

// NewRange returns the range between two days, in whichever order they are given.
func NewRange(a, b Date) Range {
	if b.Before(a) {
		a, b = b, a
	}
	return Range{From: a, To: b}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Months returns every month touched by the range, in order.
func (r Range) Months() []Month {
	var months []Month
	for m := r.From.YearMonth(); !m.After(r.To.YearMonth()); m = m.Next() {
		months = append(months, m)
	}
	return months
}

// Identifier compute a unique identifier for the Range.
func (r Range) Identifier() string {
	if r.From.Day() == 1 && r.From.YearMonth().Last() == r.To {
		return r.From.YearMonth().String()
	}
	return fmt.Sprintf("%s_%s", r.From, r.To)
}
