package capital

import (
	"fmt"

	"github.com/etnz/capital/date"
)

// BaseSource tells which rule produced a capital base.
type BaseSource int

const (
	BaseUnresolved BaseSource = iota
	// BaseChained: the previous month is closed, its ending capital carries over.
	BaseChained
	// BaseInitial: the month is the first tracked one, it starts with the initial capital.
	BaseInitial
	// BaseRolledForward: some earlier month is closed but not the previous one,
	// the latest close carries over across the gap.
	BaseRolledForward
	// BaseDefault: there is no history to derive from, the initial capital applies.
	BaseDefault
)

func (s BaseSource) String() string {
	switch s {
	case BaseChained:
		return "chained"
	case BaseInitial:
		return "initial"
	case BaseRolledForward:
		return "roll-forward"
	case BaseDefault:
		return "default"
	default:
		return "unresolved"
	}
}

func (s BaseSource) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Base is a resolved capital base.
type Base struct {
	Value  Money
	Source BaseSource
	From   date.Month // From is the closed month the value derives from, zero for the initial capital.
}

func (b Base) String() string {
	if b.From.IsZero() {
		return fmt.Sprintf("%s (%s)", b.Value, b.Source)
	}
	return fmt.Sprintf("%s (%s from %s)", b.Value, b.Source, b.From)
}

// ResolveBase returns the capital base of month m. The first matching rule wins:
//
//  1. m-1 is closed: its ending capital.
//  2. m is the earliest of the closed months, the months holding transactions
//     and the current month: the initial capital.
//  3. m is after the latest closed month: the latest ending capital.
//  4. otherwise: the initial capital.
//
// It is pure and never stored, callers resolve it on every read.
func ResolveBase(m date.Month, summaries Summaries, txMonths []date.Month, current date.Month, initial Money) Base {
	prev := m.Prev()
	if s, ok := summaries.Get(prev); ok {
		return Base{Value: s.EndingCapital(), Source: BaseChained, From: prev}
	}

	candidates := append(summaries.Months(), txMonths...)
	if !current.IsZero() {
		candidates = append(candidates, current)
	}
	if m == date.Earliest(candidates...) {
		return Base{Value: initial, Source: BaseInitial}
	}

	if latest, ok := summaries.Latest(); ok && m.After(latest.Month) {
		return Base{Value: latest.EndingCapital(), Source: BaseRolledForward, From: latest.Month}
	}
	return Base{Value: initial, Source: BaseDefault}
}
