package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{"1.005", "1.01", true}, // half-up rounding
		{" 2.50 ", "2.5", true},
		{"-12.00", "-12", true},
		{"0", "", false},
		{"0.001", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"1e3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestSignedAmount(t *testing.T) {
	twelve := decimal.NewFromInt(12)
	if got := SignedAmount(twelve, false); !got.Equal(decimal.NewFromInt(-12)) {
		t.Fatalf("expense should be negative, got %s", got)
	}
	if got := SignedAmount(twelve.Neg(), true); !got.Equal(twelve) {
		t.Fatalf("income should be positive, got %s", got)
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(decimal.NewFromInt(-12), "€", false); got != "-€12.00" {
		t.Fatalf("FormatAmount expense = %q", got)
	}
	if got := FormatAmount(decimal.RequireFromString("1000.5"), "$", true); got != "$1000.50" {
		t.Fatalf("FormatAmount income = %q", got)
	}
}
