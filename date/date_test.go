package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2025-01-31", want: New(2025, time.January, 31)},
		{in: "2025-7-1", want: New(2025, time.July, 1)},
		{in: " 2025-02-03 ", want: New(2025, time.February, 3)},
		{in: "2025-03-04T10:11:12Z", want: New(2025, time.March, 4)},
		{in: "31/01/2025", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestDate_YearMonth(t *testing.T) {
	if got, want := New(2025, time.January, 31).YearMonth(), NewMonth(2025, time.January); got != want {
		t.Errorf("YearMonth() = %v, want %v", got, want)
	}
	// normalization crosses month boundaries.
	if got, want := New(2025, time.January, 32).YearMonth(), NewMonth(2025, time.February); got != want {
		t.Errorf("YearMonth() = %v, want %v", got, want)
	}
}

func TestDate_JSON(t *testing.T) {
	d := New(2025, time.March, 9)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	if string(data) != `"2025-03-09"` {
		t.Errorf("Marshal() = %s, want %q", data, "2025-03-09")
	}
	var got Date
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if got != d {
		t.Errorf("Unmarshal() = %v, want %v", got, d)
	}
}
