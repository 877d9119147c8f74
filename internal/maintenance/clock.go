// Package maintenance holds the request lifecycle and the derived equipment,
// request and team figures. It has no storage dependencies.
package maintenance

import (
	"math"
	"time"
)

// Clock supplies the current calendar day
type Clock interface {
	Today() time.Time
}

// SystemClock reads the wall clock in the given location (UTC when nil)
type SystemClock struct {
	Location *time.Location
}

// Today returns the current day at midnight UTC
func (c SystemClock) Today() time.Time {
	now := time.Now().UTC()
	if c.Location != nil {
		now = now.In(c.Location)
	}
	return Day(now)
}

// FixedClock always returns the same day
type FixedClock time.Time

// Today returns the fixed day
func (c FixedClock) Today() time.Time {
	return Day(time.Time(c))
}

// Day truncates t to its calendar date, expressed as midnight UTC
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayPtr is Day for optional dates
func DayPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := Day(*t)
	return &d
}

// DaysBetween returns the number of calendar days from `from` to `to`
func DaysBetween(from, to time.Time) int {
	return int(math.Round(Day(to).Sub(Day(from)).Hours() / 24))
}

// AddDays shifts a date by n calendar days
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}
