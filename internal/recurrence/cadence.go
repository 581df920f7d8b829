// Package recurrence is the recurring-transaction engine: it expands
// definitions into occurrence dates, normalises amounts to a monthly rate and
// sorts definitions into due and upcoming buckets.
//
// Every function here is pure. Inputs are never mutated and per-record data
// problems are reported as Issues instead of failing the whole call.
//
// Step lengths follow the Strategy Pattern: each frequency has a Cadence that
// knows how to reach its n-th occurrence from the start date.
package recurrence

import (
	"fmt"
	"time"

	"fintrack/internal/core"
)

// Cadence is the strategy interface for one recurrence frequency.
type Cadence interface {
	// Nth returns the occurrence n steps after start (n >= 0).
	Nth(start core.Date, n int) core.Date
	// StepsToReach returns the smallest n such that Nth(start, n) is not before ref.
	// ref is strictly after start.
	StepsToReach(start core.Date, ref time.Time) int
}

// fixedDays steps by a constant number of days.
type fixedDays int

func (c fixedDays) Nth(start core.Date, n int) core.Date {
	return start.AddDays(n * int(c))
}

func (c fixedDays) StepsToReach(start core.Date, ref time.Time) int {
	days := ceilDays(start.Time, ref)
	n := days / int64(c)
	if days%int64(c) > 0 {
		n++
	}
	return int(n)
}

const secondsPerDay = 24 * 60 * 60

// ceilDays is ceil((to - from) / 1 day) for UTC instants. A time.Duration
// saturates after ~292 years, so whole seconds are counted instead.
func ceilDays(from, to time.Time) int64 {
	secs := to.Unix() - from.Unix()
	nanos := to.Nanosecond() - from.Nanosecond()
	if nanos < 0 {
		secs--
		nanos += int(time.Second)
	}
	days := secs / secondsPerDay
	rem := secs % secondsPerDay
	if rem < 0 {
		days--
		rem += secondsPerDay
	}
	if rem > 0 || nanos > 0 {
		days++
	}
	return days
}

// calendarMonths steps by whole calendar months, always counted from the start
// date so that a clamped month end does not drift (Jan 31, Feb 29, Mar 31).
type calendarMonths int

func (c calendarMonths) Nth(start core.Date, n int) core.Date {
	return start.AddMonthsClamped(n * int(c))
}

func (c calendarMonths) StepsToReach(start core.Date, ref time.Time) int {
	months := (ref.Year()-start.Year())*12 + int(ref.Month()) - int(start.Month())
	n := months / int(c)
	if n < 0 {
		n = 0
	}
	for c.Nth(start, n).Before(ref) {
		n++
	}
	for n > 0 && !c.Nth(start, n-1).Before(ref) {
		n--
	}
	return n
}

// cadences maps frequencies to their step strategies.
var cadences = map[core.Frequency]Cadence{
	core.Daily:    fixedDays(1),
	core.Weekly:   fixedDays(7),
	core.Biweekly: fixedDays(14),
	core.Monthly:  calendarMonths(1),
	core.Yearly:   calendarMonths(12),
}

// CadenceFor returns the step strategy for a frequency.
func CadenceFor(freq core.Frequency) (Cadence, error) {
	c, ok := cadences[freq]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedFrequency, freq)
	}
	return c, nil
}
