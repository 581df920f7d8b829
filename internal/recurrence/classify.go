package recurrence

import (
	"fmt"
	"sort"
	"time"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

// DefaultLeadDays is the upcoming window used when the user has not chosen one.
const DefaultLeadDays = 3

// Item is one definition placed in a due or upcoming bucket.
type Item struct {
	DefinitionID   string          `json:"id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Frequency      core.Frequency  `json:"frequency"`
	Amount         decimal.Decimal `json:"amount"`
	IsIncome       bool            `json:"is_income"`
	NextOccurrence core.Date       `json:"next_occurrence"`
	DaysUntil      int             `json:"days_until"`
}

// Classification holds the due and upcoming buckets plus the definitions that
// were skipped because of bad data.
type Classification struct {
	Due      []Item  `json:"due"`
	Upcoming []Item  `json:"upcoming"`
	Issues   []Issue `json:"issues"`
}

// Classify sorts active definitions into due (next occurrence today or
// earlier) and upcoming (within leadDays). Negative leadDays count as 0.
//
// A definition's next occurrence is searched from the day after its last
// processed date, so occurrences that were never materialised show up as
// overdue. Definitions never processed are searched from the start of now's day.
func Classify(defs []core.RecurringDefinition, now time.Time, leadDays int) Classification {
	if leadDays < 0 {
		leadDays = 0
	}
	now = wallUTC(now)
	today := core.DateOf(now)

	out := Classification{Due: []Item{}, Upcoming: []Item{}, Issues: []Issue{}}
	for _, def := range defs {
		if !def.Active() {
			continue
		}

		ref := today
		if def.LastProcessed != nil {
			if !def.LastProcessed.Valid() {
				out.Issues = append(out.Issues, issueFor(def.ID,
					fmt.Errorf("%w: last processed: %v", ErrInvalidDateData, def.LastProcessed.Validate())))
				continue
			}
			ref = def.LastProcessed.AddDays(1)
		}

		next, ok, err := NextOccurrenceOnOrAfter(def, ref.Time)
		if err != nil {
			out.Issues = append(out.Issues, issueFor(def.ID, err))
			continue
		}
		if !ok {
			continue
		}

		item := Item{
			DefinitionID:   def.ID,
			Name:           def.Name,
			Category:       def.Category,
			Frequency:      def.Frequency,
			Amount:         def.Amount,
			IsIncome:       def.IsIncome,
			NextOccurrence: next,
			DaysUntil:      daysUntil(next, now),
		}
		switch {
		case item.DaysUntil <= 0:
			out.Due = append(out.Due, item)
		case item.DaysUntil <= leadDays:
			out.Upcoming = append(out.Upcoming, item)
		}
	}

	sortItems(out.Due)
	sortItems(out.Upcoming)
	return out
}

// daysUntil is ceil((next - now) / 1 day).
func daysUntil(next core.Date, now time.Time) int {
	return int(ceilDays(now, next.Time))
}

func sortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.NextOccurrence.Equal(b.NextOccurrence.Time) {
			return a.NextOccurrence.Before(b.NextOccurrence.Time)
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.DefinitionID < b.DefinitionID
	})
}
