// Package recurring advances the start date of repeating tasks.
package recurring

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
)

// ErrInvalidInterval is returned for an interval outside Daily..Yearly.
var ErrInvalidInterval = errors.New("invalid interval")

// Interval selects how far a repeating task moves when its next occurrence
// is scheduled.
type Interval int

const (
	Daily Interval = iota
	Weekly
	FourWeekly
	Yearly
)

// Count is the number of defined intervals.
const Count = 4

var (
	intervalDays   = [Count]int{1, 7, 28, 364}
	intervalLabels = [Count]string{"a day", "a week", "a month", "a year"}
	intervalNames  = [Count]string{"day", "week", "month", "year"}
)

// Validate reports whether i is one of the defined intervals.
func (i Interval) Validate() error {
	if i < Daily || i > Yearly {
		return fmt.Errorf("%w: %d", ErrInvalidInterval, int(i))
	}
	return nil
}

// Days returns the fixed day delta of the interval. Months and years are
// whole weeks (28 and 364 days), not calendar months.
func (i Interval) Days() int {
	if i.Validate() != nil {
		return intervalDays[Daily]
	}
	return intervalDays[i]
}

// Advance returns d moved forward by one interval.
func (i Interval) Advance(d civil.Date) civil.Date {
	return d.AddDays(i.Days())
}

// Next cycles to the following interval, wrapping after Yearly.
func (i Interval) Next() Interval {
	return (i + 1) % Count
}

// Label is the human phrase shown next to a repeat toggle.
func (i Interval) Label() string {
	if i.Validate() != nil {
		return "?"
	}
	return intervalLabels[i]
}

func (i Interval) String() string {
	if i.Validate() != nil {
		return strconv.Itoa(int(i))
	}
	return intervalNames[i]
}

// ParseInterval accepts day|week|month|year (plural and "daily" style
// spellings too) or the numeric index.
func ParseInterval(s string) (Interval, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "", "d", "day", "days", "daily":
		return Daily, nil
	case "w", "week", "weeks", "weekly":
		return Weekly, nil
	case "m", "month", "months", "monthly", "4w":
		return FourWeekly, nil
	case "y", "year", "years", "yearly":
		return Yearly, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInterval, s)
	}
	i := Interval(n)
	if err := i.Validate(); err != nil {
		return 0, err
	}
	return i, nil
}
