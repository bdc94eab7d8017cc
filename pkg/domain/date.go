package domain

import (
	"fmt"
	"strings"
	"time"

	dErrors "vaxcard/pkg/domain-errors"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without a time component. Application dates are
// day-granular; comparisons ignore the clock.
type Date struct {
	t time.Time
}

// NewDate builds a Date from year, month, day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time to its calendar date in UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate constructs a Date from the wire format YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, dErrors.New(dErrors.CodeInvalidInput, "date cannot be empty")
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, dErrors.New(dErrors.CodeInvalidInput, "date must be a valid YYYY-MM-DD calendar date")
	}
	return Date{t: t.UTC()}, nil
}

func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// After reports whether d falls on a later calendar day than other.
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// Time exposes the underlying midnight-UTC instant for storage drivers.
func (d Date) Time() time.Time {
	return d.t
}

func (d Date) String() string {
	return d.t.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", d.String())), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "date cannot be empty")
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
