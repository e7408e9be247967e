package dates

import (
	"testing"
	"time"
)

func TestParseLocale(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "5/1/2019", want: "2019-05-01"},
		{in: "12/31/2022", want: "2022-12-31"},
		{in: " 6/2/2022 ", want: "2022-06-02"},
		{in: "2019-05-01", wantErr: true},
		{in: "13/1/2019", wantErr: true},
		{in: "5/1", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseLocale(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLocale(%q): %v", tc.in, err)
			}
			if Day(got) != tc.want {
				t.Fatalf("Day = %q, want %q", Day(got), tc.want)
			}
		})
	}
}

func TestDayUsesPacificCalendar(t *testing.T) {
	// 05:00 UTC on March 2nd is still March 1st in Los Angeles.
	utc := time.Date(2025, 3, 2, 5, 0, 0, 0, time.UTC)
	if got := Day(utc); got != "2025-03-01" {
		t.Fatalf("Day = %q, want 2025-03-01", got)
	}
}

func TestYear(t *testing.T) {
	if got := Year("2019-05-01"); got != 2019 {
		t.Fatalf("Year = %d", got)
	}
	if got := Year(""); got != 0 {
		t.Fatalf("Year of empty = %d", got)
	}
}
