package capital

import (
	"errors"
	"testing"
	"time"
)

func TestClose(t *testing.T) {
	now := time.Date(2025, time.February, 1, 8, 0, 0, 0, time.UTC)
	report := Reduce(DefaultUnits, EUR(1000), []Transaction{
		NewDeposit(day("2025-01-02"), EUR(500), ""),
		NewBuy(day("2025-01-03"), Q(300), EUR(300), "").WithFee(dec(5), "EUR"),
	})
	base := Base{Value: EUR(1000), Source: BaseInitial}

	got, err := Close(month("2025-01"), base, report, nil, now)
	if err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}
	want := MonthSummary{
		Month:          month("2025-01"),
		CapitalBase:    EUR(1000),
		PortfolioValue: EUR(1495),
		Fees:           EUR(5),
		Marketing:      EUR(0),
		Net:            EUR(495),
	}
	if !got.Equal(want) {
		t.Errorf("Close() = %+v, want %+v", got, want)
	}
	if !got.ClosedAt.Equal(now) {
		t.Errorf("Close() closedAt = %v, want %v", got.ClosedAt, now)
	}
	if !got.EndingCapital().Equal(EUR(1495)) {
		t.Errorf("EndingCapital() = %v, want %v", got.EndingCapital(), EUR(1495))
	}
}

func TestClose_EmptyMonth(t *testing.T) {
	report := Reduce(DefaultUnits, EUR(120), nil)
	got, err := Close(month("2025-03"), Base{Value: EUR(120), Source: BaseRolledForward}, report, nil, time.Now())
	if err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}
	if !got.CapitalBase.Equal(EUR(120)) || !got.Net.IsZero() {
		t.Errorf("Close() = %+v, want base 120 and no net", got)
	}
}

func TestClose_Preconditions(t *testing.T) {
	january := Reduce(DefaultUnits, EUR(10), []Transaction{NewDeposit(day("2025-01-02"), EUR(5), "")})
	resolved := Base{Value: EUR(10), Source: BaseDefault}
	testCases := []struct {
		name      string
		m         string
		base      Base
		report    Report
		summaries Summaries
		want      error
	}{
		{
			name:      "already closed",
			m:         "2025-01",
			base:      resolved,
			report:    january,
			summaries: NewSummaries(summary("2025-01", 10, 0)),
			want:      ErrMonthClosed,
		},
		{
			name:   "unresolved base",
			m:      "2025-01",
			base:   Base{Value: EUR(10)},
			report: january,
			want:   ErrNoCapitalBase,
		},
		{
			name:   "report of another month",
			m:      "2025-03",
			base:   resolved,
			report: january,
			want:   ErrReportMismatch,
		},
		{
			name:   "report from another base",
			m:      "2025-01",
			base:   Base{Value: EUR(99), Source: BaseChained},
			report: january,
			want:   ErrReportMismatch,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Close(month(tc.m), tc.base, tc.report, tc.summaries, time.Now())
			if !errors.Is(err, tc.want) {
				t.Fatalf("Close() error = %v, want %v", err, tc.want)
			}
			if !IsValidation(err) {
				t.Errorf("Close() error %v is not a validation error", err)
			}
		})
	}
}
