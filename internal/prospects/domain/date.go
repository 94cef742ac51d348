package domain

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Date is a calendar day in YYYY-MM-DD form. The zero value means "not set".
type Date struct {
	d civil.Date
}

// ParseDate parses a YYYY-MM-DD string. An empty string yields the zero Date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	d, err := civil.ParseDate(s)
	if err != nil || !d.IsValid() {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{d: d}, nil
}

// MustParseDate is ParseDate for fixtures and tests.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	return Date{d: civil.DateOf(t)}
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{d: civil.Date{Year: year, Month: month, Day: day}}
}

func (d Date) IsSet() bool {
	return d.d != civil.Date{}
}

func (d Date) String() string {
	if !d.IsSet() {
		return ""
	}
	return d.d.String()
}

func (d Date) Equal(o Date) bool {
	return d.d == o.d
}

func (d Date) Before(o Date) bool {
	return d.d.Before(o.d)
}

func (d Date) After(o Date) bool {
	return d.d.After(o.d)
}

// AddDays returns the date n days later; the zero Date stays unset.
func (d Date) AddDays(n int) Date {
	if !d.IsSet() {
		return d
	}
	return Date{d: d.d.AddDays(n)}
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
