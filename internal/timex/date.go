package timex

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day key used for ledger records.
const DateLayout = "2006-01-02"

// Clock reports the current time. Services take one so tests can pin "now".
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always reports the same instant; Advance moves it forward.
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time { return c.T }

func (c *FixedClock) Advance(d time.Duration) { c.T = c.T.Add(d) }

// DateKey formats t as a calendar-day key in t's own location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// Today is the date key for clock's current instant.
func Today(c Clock) string {
	return DateKey(c.Now())
}

// ParseDate checks that s is a valid YYYY-MM-DD key and returns the day at
// midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}
