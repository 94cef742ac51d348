package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount is a non-negative monetary value stored in cents.
type Amount int64

// MaxAmount is the largest representable amount.
const MaxAmount = Amount(math.MaxInt64)

// AmountFromUnits builds an Amount from whole currency units, saturating at
// MaxAmount.
func AmountFromUnits(units int64) Amount {
	switch {
	case units < 0:
		return 0
	case units > math.MaxInt64/100:
		return MaxAmount
	}
	return Amount(units * 100)
}

// AmountFromFloat validates a user-supplied value expressed in currency units.
func AmountFromFloat(f float64) (Amount, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, f)
	}
	// float64(math.MaxInt64) rounds up to 2^63, which no int64 can hold.
	cents := math.Round(f * 100)
	if cents >= float64(math.MaxInt64) {
		return 0, fmt.Errorf("%w: %v out of range", ErrInvalidAmount, f)
	}
	return Amount(cents), nil
}

// Add sums two amounts, saturating at MaxAmount.
func (a Amount) Add(b Amount) Amount {
	if b > 0 && a > MaxAmount-b {
		return MaxAmount
	}
	return a + b
}

// ParseAmount parses a decimal string. An empty string is zero.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return AmountFromFloat(f)
}

func (a Amount) Float64() float64 {
	return float64(a) / 100
}

// String renders the amount in currency units with the shortest exact form
// ("15000", "1500.5").
func (a Amount) String() string {
	return strconv.FormatFloat(a.Float64(), 'f', -1, 64)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON is lenient: null, blank, unparsable, negative or non-finite
// values decode to zero.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}

	var raw string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	} else {
		raw = string(data)
	}

	parsed, err := ParseAmount(raw)
	if err != nil {
		*a = 0
		return nil
	}
	*a = parsed
	return nil
}
