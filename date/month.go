package date

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// MonthFormat is the canonical textual form of a Month.
const MonthFormat = "2006-01"

const readMonthFormat = "2006-1"

// Month is a year-month bucket key. The zero value is not a valid month.
type Month struct {
	y int
	m time.Month
}

// NewMonth returns a normalized Month, so that NewMonth(2025, 13) is 2026-01.
func NewMonth(year int, month time.Month) Month {
	return New(year, month, 1).YearMonth()
}

// ThisMonth returns the current calendar month.
func ThisMonth() Month { return Today().YearMonth() }

// Year returns the year of the month.
func (m Month) Year() int { return m.y }

// Month returns the calendar month.
func (m Month) Month() time.Month { return m.m }

// IsZero returns true for the zero Month.
func (m Month) IsZero() bool { return m == Month{} }

// String formats the month as "2006-01".
func (m Month) String() string { return m.First().time().Format(MonthFormat) }

// First returns the first day of the month.
func (m Month) First() Date { return New(m.y, m.m, 1) }

// Last returns the last day of the month.
func (m Month) Last() Date { return New(m.y, m.m+1, 0) }

// Range returns the days of the month, boundaries included.
func (m Month) Range() Range { return Range{From: m.First(), To: m.Last()} }

// Add returns the month i months later (or earlier when i is negative).
func (m Month) Add(i int) Month { return NewMonth(m.y, m.m+time.Month(i)) }

// Prev returns the previous calendar month.
func (m Month) Prev() Month { return m.Add(-1) }

// Next returns the next calendar month.
func (m Month) Next() Month { return m.Add(1) }

// Compare returns -1, 0 or +1 depending on whether m is before, equal to or after x.
func (m Month) Compare(x Month) int {
	switch {
	case m.y < x.y, m.y == x.y && m.m < x.m:
		return -1
	case m == x:
		return 0
	default:
		return 1
	}
}

// Before reports whether m is before x.
func (m Month) Before(x Month) bool { return m.Compare(x) < 0 }

// After reports whether m is after x.
func (m Month) After(x Month) bool { return m.Compare(x) > 0 }

// Contains reports whether the day d belongs to the month.
func (m Month) Contains(d Date) bool { return d.YearMonth() == m }

// ParseMonth parses "2025-01" (or the lenient "2025-1").
func ParseMonth(str string) (Month, error) {
	str = strings.TrimSpace(str)
	on, err := time.Parse(readMonthFormat, str)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q want format %q: %w", str, MonthFormat, err)
	}
	return NewMonth(on.Year(), on.Month()), nil
}

// MustParseMonth is like ParseMonth but panics on error.
func MustParseMonth(str string) Month {
	m, err := ParseMonth(str)
	if err != nil {
		panic(err.Error())
	}
	return m
}

// Earliest returns the earliest of the given months, or the zero Month when none are given.
func Earliest(months ...Month) Month {
	var min Month
	for i, m := range months {
		if i == 0 || m.Before(min) {
			min = m
		}
	}
	return min
}

func (m *Month) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	v, err := ParseMonth(str)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (m Month) MarshalJSON() ([]byte, error) {
	str := m.String()
	return json.Marshal(&str)
}

// MarshalText lets a Month be used as a map key in JSON documents.
func (m Month) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Month) UnmarshalText(text []byte) error {
	v, err := ParseMonth(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
