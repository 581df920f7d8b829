package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// DateLayout is the canonical wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// Layouts accepted when reading dates. Browsers send toISOString() values,
// older records carry Python isoformat() timestamps without an offset.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

var ErrInvalidDate = errors.New("invalid date")

// Date is a calendar day stored as midnight UTC.
//
// A Date that failed to parse keeps the original text in Raw and reports
// false from Valid, so malformed records can travel through the system and be
// reported instead of rejected wholesale.
type Date struct {
	time.Time
	Raw string
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t as seen on t's own wall clock.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses an ISO-8601 date or timestamp and keeps only the calendar day.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{Raw: s}, ErrInvalidDate
}

// ParseDateLenient behaves like ParseDate but never fails; an unparseable
// value yields an invalid Date carrying the raw text.
func ParseDateLenient(s string) Date {
	d, _ := ParseDate(s)
	return d
}

// Valid reports whether the date holds a real calendar day.
func (d Date) Valid() bool {
	return !d.IsZero()
}

// Validate checks that the date is set.
func (d Date) Validate() error {
	if !d.Valid() {
		if d.Raw != "" {
			return errors.New("unparseable date " + `"` + d.Raw + `"`)
		}
		return errors.New("date cannot be zero")
	}
	return nil
}

func (d Date) String() string {
	if !d.Valid() {
		return d.Raw
	}
	return d.Format(DateLayout)
}

// AddDays returns the date n days later.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

// AddMonthsClamped moves the date n calendar months forward, keeping the day
// of month but clamping it to the last day of the target month
// (Jan 31 + 1 month is Feb 28, or Feb 29 in leap years).
func (d Date) AddMonthsClamped(n int) Date {
	year, month, day := d.Date()
	total := int(month) - 1 + n
	year += total / 12
	total %= 12
	if total < 0 {
		total += 12
		year--
	}
	target := time.Month(total + 1)
	if last := daysIn(year, target); day > last {
		day = last
	}
	return NewDate(year, int(target), day)
}

// AddYearsClamped moves the date n years forward; Feb 29 becomes Feb 28 in
// non-leap years.
func (d Date) AddYearsClamped(n int) Date {
	return d.AddMonthsClamped(12 * n)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		if d.Raw == "" {
			return []byte("null"), nil
		}
		return json.Marshal(d.Raw)
	}
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON accepts date strings in any supported layout. Unparseable
// strings are kept in Raw instead of failing the whole document.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*d = Date{Raw: string(data)}
		return nil
	}
	*d = ParseDateLenient(s)
	return nil
}
