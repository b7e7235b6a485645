package utils

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDecimal_AcceptsFormattedStrings(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"20000", "20000"},
		{"20,000", "20000"},
		{"$ 1,234.50", "1234.5"},
		{"USD -20", "-20"},
		{"  -$45.45 ", "-45.45"},
	}
	for _, tc := range cases {
		d, err := ParseDecimal(tc.in)
		if err != nil {
			t.Fatalf("ParseDecimal(%q) error: %v", tc.in, err)
		}
		if d.String() != tc.expected {
			t.Fatalf("ParseDecimal(%q) expected %s, got %s", tc.in, tc.expected, d.String())
		}
	}
}

func TestParseDecimal_RejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "-", "$", "--5", "-+5", "- -5", "USD --20"} {
		if _, err := ParseDecimal(in); err == nil {
			t.Fatalf("ParseDecimal(%q) expected error", in)
		}
	}
}

func TestCoerceDecimal(t *testing.T) {
	ten := decimal.NewFromInt(10)
	cases := []struct {
		name     string
		in       any
		expected string
	}{
		{"nil", nil, "0"},
		{"decimal", ten, "10"},
		{"decimal ptr", &ten, "10"},
		{"nil decimal ptr", (*decimal.Decimal)(nil), "0"},
		{"numeric string", "700", "700"},
		{"junk string", "seven hundred", "0"},
		{"empty string", "", "0"},
		{"json number", json.Number("41.45"), "41.45"},
		{"float", 2.5, "2.5"},
		{"int", 46, "46"},
		{"bool", true, "0"},
		{"NaN", math.NaN(), "0"},
		{"positive infinity", math.Inf(1), "0"},
		{"negative infinity", math.Inf(-1), "0"},
		{"float32 NaN", float32(math.NaN()), "0"},
		{"float32 infinity", float32(math.Inf(1)), "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CoerceDecimal(tc.in)
			if got.String() != tc.expected {
				t.Fatalf("CoerceDecimal(%v) expected %s, got %s", tc.in, tc.expected, got.String())
			}
		})
	}
}
