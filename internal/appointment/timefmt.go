package appointment

import (
	"fmt"
	"time"
)

const (
	storageDateLayout = "2006-01-02"
	displayDateLayout = "02-01-2006"
	clockLayout       = "15:04"
)

// Clock is a wall-clock time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

func NewClock(hour, minute int) Clock {
	return Clock{Hour: hour, Minute: minute}
}

// ParseClock parses a 24-hour "HH:mm" value.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return Clock{}, fmt.Errorf("invalid time %q, want HH:mm", s)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c Clock) Before(other Clock) bool {
	return c.minutes() < other.minutes()
}

func (c Clock) minutes() int {
	return c.Hour*60 + c.Minute
}

// DateOf drops the time of day, keeping t's calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses the ISO storage form.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(storageDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseDisplayDate parses the dd-MM-yyyy form users type.
func ParseDisplayDate(s string) (time.Time, error) {
	t, err := time.Parse(displayDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want DD-MM-YYYY", s)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(storageDateLayout)
}

func FormatDisplayDate(t time.Time) string {
	return t.Format(displayDateLayout)
}

// ParseSlotInput parses a slot as typed by a doctor: dd-MM-yyyy date and HH:mm times.
// Errors are *ParseError with Source "input"; nothing is mutated, so callers can simply reprompt.
func ParseSlotInput(date, start, end string) (time.Time, Clock, Clock, error) {
	d, err := ParseDisplayDate(date)
	if err != nil {
		return time.Time{}, Clock{}, Clock{}, &ParseError{Source: "input", Err: err}
	}
	s, err := ParseClock(start)
	if err != nil {
		return time.Time{}, Clock{}, Clock{}, &ParseError{Source: "input", Err: err}
	}
	e, err := ParseClock(end)
	if err != nil {
		return time.Time{}, Clock{}, Clock{}, &ParseError{Source: "input", Err: err}
	}
	return d, s, e, nil
}
