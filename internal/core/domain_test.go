package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
		{Date{Raw: "not-a-date"}, false},
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-01-01", "2024-01-01", true},
		{"2024-01-31T00:00:00.000Z", "2024-01-31", true},
		{"2024-02-29T10:30:00", "2024-02-29", true},
		{"2024-03-01T23:30:00+02:00", "2024-03-01", true},
		{"2024-13-01", "", false},
		{"yesterday", "", false},
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil || d.String() != tc.want {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.want, d, err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidDate) || d.Valid() || d.Raw != tc.in {
			t.Fatalf("%q expected invalid date keeping raw text, got %+v (err=%v)", tc.in, d, err)
		}
	}
}

func TestAddMonthsClamped(t *testing.T) {
	cases := []struct {
		start Date
		n     int
		want  string
	}{
		{NewDate(2024, 1, 31), 1, "2024-02-29"},
		{NewDate(2023, 1, 31), 1, "2023-02-28"},
		{NewDate(2024, 1, 31), 2, "2024-03-31"},
		{NewDate(2024, 1, 31), 3, "2024-04-30"},
		{NewDate(2024, 11, 15), 3, "2025-02-15"},
		{NewDate(2024, 3, 31), -1, "2024-02-29"},
		{NewDate(2024, 2, 29), 12, "2025-02-28"},
	}
	for _, tc := range cases {
		if got := tc.start.AddMonthsClamped(tc.n).String(); got != tc.want {
			t.Errorf("%s + %d months = %s, want %s", tc.start, tc.n, got, tc.want)
		}
	}
	if got := NewDate(2024, 2, 29).AddYearsClamped(4).String(); got != "2028-02-29" {
		t.Errorf("leap day + 4 years = %s", got)
	}
}

func TestDateJSONKeepsUnparseableText(t *testing.T) {
	var def RecurringDefinition
	payload := `{"id":"r1","start_date":"31/01/2024","end_date":null,"amount":-12}`
	if err := json.Unmarshal([]byte(payload), &def); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if def.StartDate.Valid() || def.StartDate.Raw != "31/01/2024" {
		t.Fatalf("expected invalid start date with raw text, got %+v", def.StartDate)
	}
	if def.EndDate != nil {
		t.Fatalf("expected nil end date, got %v", def.EndDate)
	}

	out, err := json.Marshal(def)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var again RecurringDefinition
	if err := json.Unmarshal(out, &again); err != nil {
		t.Fatalf("unmarshal again: %v", err)
	}
	if again.StartDate.Raw != "31/01/2024" {
		t.Fatalf("raw text lost on round trip: %+v", again.StartDate)
	}
}

func TestRecurringDefinitionNormalize(t *testing.T) {
	def := RecurringDefinition{
		Name:      "  Rent ",
		Category:  "Housing",
		Amount:    decimal.NewFromInt(900),
		Frequency: "Monthly",
		IsIncome:  false,
	}
	def.Normalize()
	if def.Name != "Rent" || def.Frequency != Monthly {
		t.Fatalf("unexpected normalisation: %+v", def)
	}
	if !def.Amount.Equal(decimal.NewFromInt(-900)) {
		t.Fatalf("expense amount should be negative, got %s", def.Amount)
	}
}

func TestRecurringDefinitionValidate(t *testing.T) {
	end := NewDate(2024, 12, 31)
	good := RecurringDefinition{
		Name:      "Salary",
		Category:  "Income",
		Amount:    decimal.NewFromInt(2500),
		Frequency: Monthly,
		StartDate: NewDate(2024, 1, 1),
		EndDate:   &end,
		IsIncome:  true,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	before := NewDate(2023, 12, 31)
	invalid := Date{Raw: "garbage"}
	tests := []struct {
		name   string
		mutate func(*RecurringDefinition)
		want   error
	}{
		{"empty name", func(d *RecurringDefinition) { d.Name = "" }, ErrEmptyName},
		{"empty category", func(d *RecurringDefinition) { d.Category = "" }, ErrEmptyCategory},
		{"zero amount", func(d *RecurringDefinition) { d.Amount = decimal.Zero }, ErrInvalidAmount},
		{"sign mismatch", func(d *RecurringDefinition) { d.Amount = decimal.NewFromInt(-1) }, ErrValidation},
		{"bad frequency", func(d *RecurringDefinition) { d.Frequency = "fortnightly" }, ErrInvalidFrequency},
		{"bad start", func(d *RecurringDefinition) { d.StartDate = Date{Raw: "x"} }, ErrInvalidStartDate},
		{"bad end", func(d *RecurringDefinition) { d.EndDate = &invalid }, ErrInvalidEndDate},
		{"end before start", func(d *RecurringDefinition) { d.EndDate = &before }, ErrEndBeforeStart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := good
			tt.mutate(&def)
			err := def.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Validate() error %v should wrap ErrValidation", err)
			}
		})
	}
}

func TestRecurringDefinitionActive(t *testing.T) {
	var def RecurringDefinition
	if !def.Active() {
		t.Fatal("missing flag should mean active")
	}
	def.SetActive(false)
	if def.Active() {
		t.Fatal("explicit false should be paused")
	}
}
