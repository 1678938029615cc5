package calendar

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParse_DateOnly_NoTimezoneShift(t *testing.T) {
	// Una fecha pelada es un día calendario literal: no debe moverse
	// aunque la zona local del proceso esté detrás de UTC.
	d, err := Parse("2026-03-15")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if d.Year() != 2026 || d.Month() != time.March || d.Day() != 15 {
		t.Fatalf("expected 2026-03-15, got %s", d)
	}
}

func TestParse_RFC3339_TruncatesToLocalDay(t *testing.T) {
	d, err := Parse("2026-03-15T10:30:00Z")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	want := FromTime(time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC).In(time.Local))
	if !d.Equal(want) {
		t.Fatalf("expected %s, got %s", want, d)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "15/03/2026", "2026-13-01", "not a date"} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestDaysBetween_Basics(t *testing.T) {
	d := NewDate(2026, time.January, 10)

	if got := DaysBetween(d, d); got != 0 {
		t.Fatalf("DaysBetween(d, d) = %d, expected 0", got)
	}
	if got := DaysBetween(d, d.AddDays(1)); got != 1 {
		t.Fatalf("DaysBetween(d, d+1) = %d, expected 1", got)
	}
	if got := DaysBetween(d.AddDays(1), d); got != -1 {
		t.Fatalf("DaysBetween(d+1, d) = %d, expected -1", got)
	}
}

func TestDaysBetween_AcrossDSTWindow(t *testing.T) {
	// Marzo incluye el cambio de horario en varias zonas; la resta de
	// días calendario tiene que seguir dando exacto.
	a := NewDate(2026, time.March, 1)
	b := NewDate(2026, time.April, 1)
	if got := DaysBetween(a, b); got != 31 {
		t.Fatalf("expected 31 days, got %d", got)
	}
}

func TestAddDays_MonthRollover(t *testing.T) {
	d := NewDate(2026, time.January, 31)
	if got := d.AddDays(1); got.String() != "2026-02-01" {
		t.Fatalf("expected 2026-02-01, got %s", got)
	}
	if got := d.AddDays(60); got.String() != "2026-04-01" {
		t.Fatalf("expected 2026-04-01, got %s", got)
	}
}

func TestToday_UsesInjectedClock(t *testing.T) {
	now := func() time.Time {
		return time.Date(2026, 7, 4, 23, 59, 0, 0, time.UTC)
	}
	d := Today(now)
	want := FromTime(now().Local())
	if !d.Equal(want) {
		t.Fatalf("expected %s, got %s", want, d)
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := NewDate(2026, time.November, 2)

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2026-11-02"` {
		t.Fatalf("unexpected json: %s", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d) {
		t.Fatalf("round trip mismatch: %s vs %s", back, d)
	}
}
