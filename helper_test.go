package capital

import (
	"github.com/etnz/capital/date"
	"github.com/shopspring/decimal"
)

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// day is a helper for test to parse a date from const
func day(s string) date.Date { return date.MustParse(s) }

// month is a helper for test to parse a month from const
func month(s string) date.Month { return date.MustParseMonth(s) }

// dec is a helper for test to create a decimal from const
func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// summary is a helper for test to create a closed month from its base and net.
func summary(m string, base, net float64) MonthSummary {
	return MonthSummary{
		Month:          month(m),
		CapitalBase:    EUR(base),
		PortfolioValue: EUR(base + net),
		Fees:           EUR(0),
		Marketing:      EUR(0),
		Net:            EUR(net),
	}
}
