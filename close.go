package capital

import (
	"fmt"
	"time"

	"github.com/etnz/capital/date"
)

// Close builds the summary freezing month m from its capital base and the
// report Reduce returned for it.
//
// It fails when m is already closed, when base is unresolved, or when the
// report was computed for another month or from another base. Close only
// builds the summary, persisting it is up to the caller.
func Close(m date.Month, base Base, r Report, summaries Summaries, now time.Time) (MonthSummary, error) {
	if m.IsZero() {
		return MonthSummary{}, invalid("close", fmt.Errorf("%w: month is missing", ErrInvalidTransaction))
	}
	if summaries.IsClosed(m) {
		return MonthSummary{}, invalid("close", fmt.Errorf("%w: %s", ErrMonthClosed, m))
	}
	if base.Source == BaseUnresolved {
		return MonthSummary{}, invalid("close", fmt.Errorf("%w: %s", ErrNoCapitalBase, m))
	}
	if r.Count > 0 && r.Month != m {
		return MonthSummary{}, invalid("close", fmt.Errorf("%w: report of %s cannot close %s", ErrReportMismatch, r.Month, m))
	}
	if !r.CapitalBase.Decimal().Equal(base.Value.Decimal()) {
		return MonthSummary{}, invalid("close", fmt.Errorf("%w: report starts from %s, base is %s", ErrReportMismatch, r.CapitalBase, base.Value))
	}
	return MonthSummary{
		Month:          m,
		CapitalBase:    r.CapitalBase,
		PortfolioValue: r.PortfolioValue,
		Fees:           r.Fees,
		Marketing:      r.Marketing,
		Net:            r.Net,
		ClosedAt:       now,
	}, nil
}
