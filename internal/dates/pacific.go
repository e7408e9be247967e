// Package dates handles the archive's calendar arithmetic. Every show date
// is anchored to the US Pacific calendar day: comparisons convert a moment
// to its YYYY-MM-DD string in America/Los_Angeles first, so a show late in
// the evening Pacific time never rolls into the next UTC day.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ISODay is the canonical calendar-day layout.
const ISODay = "2006-01-02"

var pacific *time.Location

func init() {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		// tzdata is compiled in on every platform we ship to; a fixed
		// UTC-8 offset keeps the binary limping along if it ever is
		// not, at the cost of ignoring DST.
		loc = time.FixedZone("PST", -8*60*60)
	}
	pacific = loc
}

// Pacific returns the archive's home time zone.
func Pacific() *time.Location {
	return pacific
}

// ParseLocale parses a source-file date like "5/1/2019" or "05/01/2019"
// into midnight of that calendar day, Pacific time.
func ParseLocale(s string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid date %q: want M/D/YYYY", s)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
		}
		nums[i] = n
	}

	month, day, year := nums[0], nums[1], nums[2]
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1000 {
		return time.Time{}, fmt.Errorf("invalid date %q: out of range", s)
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, pacific), nil
}

// Day formats a moment as its Pacific calendar day.
func Day(t time.Time) string {
	return t.In(pacific).Format(ISODay)
}

// Today is the current Pacific calendar day.
func Today() string {
	return Day(time.Now())
}

// Year extracts the calendar year from a Pacific day string.
func Year(isoDay string) int {
	if len(isoDay) < 4 {
		return 0
	}
	y, _ := strconv.Atoi(isoDay[:4])
	return y
}
