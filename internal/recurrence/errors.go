package recurrence

import (
	"encoding/json"
	"errors"
)

var (
	// ErrInvalidDateData marks a definition whose start, end or last processed
	// date could not be parsed.
	ErrInvalidDateData = errors.New("invalid date data")
	// ErrUnrecognizedFrequency marks a definition whose cadence has no step length.
	ErrUnrecognizedFrequency = errors.New("unrecognized frequency")
)

// IssueKind names the class of a per-record data problem.
type IssueKind string

const (
	KindInvalidDateData       IssueKind = "InvalidDateData"
	KindUnrecognizedFrequency IssueKind = "UnrecognizedFrequency"
)

// Issue reports a definition that was left out of a result because of bad data.
type Issue struct {
	DefinitionID string
	Kind         IssueKind
	Err          error
}

func (i Issue) Error() string {
	return i.DefinitionID + ": " + i.Err.Error()
}

func (i Issue) Unwrap() error { return i.Err }

func (i Issue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		DefinitionID string    `json:"id"`
		Kind         IssueKind `json:"kind"`
		Message      string    `json:"message"`
	}{i.DefinitionID, i.Kind, i.Err.Error()})
}

// issueFor turns a projection error into an Issue.
func issueFor(id string, err error) Issue {
	kind := KindInvalidDateData
	if errors.Is(err, ErrUnrecognizedFrequency) {
		kind = KindUnrecognizedFrequency
	}
	return Issue{DefinitionID: id, Kind: kind, Err: err}
}
