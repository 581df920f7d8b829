package recurrence

import (
	"fmt"
	"time"

	"fintrack/internal/core"
)

// MaxOccurrences bounds a single OccurrencesBetween scan.
const MaxOccurrences = 1000

// wallUTC reinterprets t's wall clock as UTC so it can be compared with
// calendar dates, which are stored as midnight UTC.
func wallUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// checkDates reports unparseable start or end dates.
func checkDates(def core.RecurringDefinition) error {
	if err := def.StartDate.Validate(); err != nil {
		return fmt.Errorf("%w: start date: %v", ErrInvalidDateData, err)
	}
	if def.EndDate != nil {
		if err := def.EndDate.Validate(); err != nil {
			return fmt.Errorf("%w: end date: %v", ErrInvalidDateData, err)
		}
	}
	return nil
}

// NextOccurrenceOnOrAfter returns the first occurrence of def at or after ref.
// ok is false when the recurrence has ended before ref. The active flag is not
// consulted.
//
// An error wrapping ErrInvalidDateData or ErrUnrecognizedFrequency means no
// occurrence can be computed for the definition.
func NextOccurrenceOnOrAfter(def core.RecurringDefinition, ref time.Time) (next core.Date, ok bool, err error) {
	if err := checkDates(def); err != nil {
		return core.Date{}, false, err
	}
	cadence, err := CadenceFor(def.Frequency)
	if err != nil {
		return core.Date{}, false, err
	}

	ref = wallUTC(ref)
	if def.EndDate != nil && ref.After(def.EndDate.Time) {
		return core.Date{}, false, nil
	}
	if !ref.After(def.StartDate.Time) {
		return def.StartDate, true, nil
	}

	next = cadence.Nth(def.StartDate, cadence.StepsToReach(def.StartDate, ref))
	if def.EndDate != nil && next.After(def.EndDate.Time) {
		return core.Date{}, false, nil
	}
	return next, true, nil
}

// OccurrencesBetween lists the occurrence dates of def in [from, to], both
// inclusive, oldest first. At most MaxOccurrences dates are returned; callers
// resume from the day after the last one.
func OccurrencesBetween(def core.RecurringDefinition, from, to core.Date) ([]core.Date, error) {
	var dates []core.Date
	ref := from
	for len(dates) < MaxOccurrences {
		next, ok, err := NextOccurrenceOnOrAfter(def, ref.Time)
		if err != nil {
			return nil, err
		}
		if !ok || next.After(to.Time) {
			break
		}
		dates = append(dates, next)
		ref = next.AddDays(1)
	}
	return dates, nil
}
