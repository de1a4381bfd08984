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
		{".5", "0.5", true},
		{"7.", "7", true},
		{"42.505", "42.51", true}, // half-up rounding
		{"42.504", "42.5", true},
		{" 2.50 ", "2.5", true},
		{"-1", "", false},
		{"+1", "", false},
		{"0", "", false},
		{"0.004", "", false}, // rounds to zero
		{"abc", "", false},
		{"1.2.3", "", false},
		{"1,2.3", "", false},
		{".", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error, got %s", tc.in, got)
		}
	}
}

func TestRoundAmount(t *testing.T) {
	cases := map[string]string{
		"42.505": "42.51",
		"42.515": "42.52",
		"0.125":  "0.13",
		"10":     "10",
		"-1.005": "-1.01",
	}
	for in, want := range cases {
		got := RoundAmount(decimal.RequireFromString(in))
		if !got.Equal(decimal.RequireFromString(want)) {
			t.Errorf("RoundAmount(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		amount string
		cur    Currency
		want   string
	}{
		{"42.5", USD, "$42.50"},
		{"3", EUR, "€3.00"},
		{"-12.345", GBP, "-£12.35"},
		{"1000", JPY, "¥1000.00"},
		{"1", Currency("XXX"), "$1.00"},
	}
	for _, tc := range cases {
		got := FormatAmount(RoundAmount(decimal.RequireFromString(tc.amount)), tc.cur)
		if got != tc.want {
			t.Errorf("FormatAmount(%s, %s) = %q, want %q", tc.amount, tc.cur, got, tc.want)
		}
	}
}
