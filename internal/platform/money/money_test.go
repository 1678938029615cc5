package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount_Formats(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"12.34", "12.34"},
		{"12,34", "12.34"},
		{"$40.00", "40"},
		{" 100 ", "100"},
		{"0", "0"},
	}
	for _, c := range cases {
		got, err := ParseAmount(c.in)
		if err != nil {
			t.Fatalf("ParseAmount(%q) error: %v", c.in, err)
		}
		if got.String() != c.want {
			t.Fatalf("ParseAmount(%q) = %s, expected %s", c.in, got, c.want)
		}
	}
}

func TestParseAmount_Rejects(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "12.3.4"} {
		if _, err := ParseAmount(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
	if _, err := ParseAmount("-5.00"); err != ErrNegativeAmount {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
}

func TestRoundCents(t *testing.T) {
	in := decimal.RequireFromString("13.335")
	if got := RoundCents(in); got.String() != "13.34" {
		t.Fatalf("expected 13.34, got %s", got)
	}
}

func TestWithinTolerance(t *testing.T) {
	tol := decimal.RequireFromString("0.01")
	a := decimal.RequireFromString("100.00")

	if !WithinTolerance(a, decimal.RequireFromString("100.01"), tol) {
		t.Fatalf("expected 100.00 ~ 100.01 within 0.01")
	}
	if WithinTolerance(a, decimal.RequireFromString("100.02"), tol) {
		t.Fatalf("expected 100.00 !~ 100.02 within 0.01")
	}
}
