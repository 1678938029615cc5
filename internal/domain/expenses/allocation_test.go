package expenses

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func shareFor(t *testing.T, shares []Share, animalID string) decimal.Decimal {
	t.Helper()
	for _, sh := range shares {
		if sh.AnimalID == animalID {
			return sh.Amount
		}
	}
	t.Fatalf("no share for %s in %v", animalID, shares)
	return decimal.Zero
}

func sumShares(shares []Share) decimal.Decimal {
	sum := decimal.Zero
	for _, sh := range shares {
		sum = sum.Add(sh.Amount)
	}
	return sum
}

// -------------------------
// Remainder mode
// -------------------------

func TestAllocateRemainder_PercentSecondary(t *testing.T) {
	shares, err := AllocateRemainder(RemainderRequest{
		Total:           dec("100"),
		PrimaryAnimalID: "cow",
		Secondaries: []RemainderEntry{
			{AnimalID: "pig", Value: dec("30"), Unit: UnitPercent},
		},
	})
	if err != nil {
		t.Fatalf("AllocateRemainder error: %v", err)
	}

	if got := shareFor(t, shares, "pig"); !got.Equal(dec("30")) {
		t.Fatalf("expected pig 30, got %s", got)
	}
	if got := shareFor(t, shares, "cow"); !got.Equal(dec("70")) {
		t.Fatalf("expected cow 70, got %s", got)
	}
	// El primario va primero en el resultado.
	if shares[0].AnimalID != "cow" {
		t.Fatalf("expected primary first, got %s", shares[0].AnimalID)
	}
}

func TestAllocateRemainder_DollarSecondaries(t *testing.T) {
	shares, err := AllocateRemainder(RemainderRequest{
		Total:           dec("250.00"),
		PrimaryAnimalID: "cow",
		Secondaries: []RemainderEntry{
			{AnimalID: "pig", Value: dec("75.50"), Unit: UnitDollars},
			{AnimalID: "goat", Value: dec("24.50"), Unit: UnitDollars},
		},
	})
	if err != nil {
		t.Fatalf("AllocateRemainder error: %v", err)
	}
	if got := shareFor(t, shares, "cow"); !got.Equal(dec("150")) {
		t.Fatalf("expected cow 150, got %s", got)
	}
	if got := sumShares(shares); !got.Equal(dec("250")) {
		t.Fatalf("expected shares to sum 250, got %s", got)
	}
}

func TestAllocateRemainder_OverAllocationRejected(t *testing.T) {
	_, err := AllocateRemainder(RemainderRequest{
		Total:           dec("100"),
		PrimaryAnimalID: "cow",
		Secondaries: []RemainderEntry{
			{AnimalID: "pig", Value: dec("55"), Unit: UnitDollars},
			{AnimalID: "goat", Value: dec("60"), Unit: UnitDollars},
		},
	})
	var te ToleranceError
	if !errors.As(err, &te) {
		t.Fatalf("expected ToleranceError, got %v", err)
	}
	// ToleranceError es un caso de validación: errors.As debe poder
	// verlo como ValidationError vía Unwrap.
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ToleranceError to unwrap to ValidationError")
	}
}

func TestAllocateRemainder_FloatNoiseClampsToZero(t *testing.T) {
	// Secundarios que pasan el total por menos de un centavo: se acepta
	// y el primario queda en 0, no en negativo.
	shares, err := AllocateRemainder(RemainderRequest{
		Total:           dec("100.00"),
		PrimaryAnimalID: "cow",
		Secondaries: []RemainderEntry{
			{AnimalID: "pig", Value: dec("100.005"), Unit: UnitDollars},
		},
	})
	if err != nil {
		t.Fatalf("expected sub-cent overage accepted, got %v", err)
	}
	if got := shareFor(t, shares, "cow"); !got.IsZero() {
		t.Fatalf("expected primary clamped to 0, got %s", got)
	}
}

func TestAllocateRemainder_Rejections(t *testing.T) {
	base := RemainderRequest{Total: dec("100"), PrimaryAnimalID: "cow"}

	cases := []struct {
		name string
		req  RemainderRequest
	}{
		{"zero total", RemainderRequest{Total: decimal.Zero, PrimaryAnimalID: "cow"}},
		{"negative total", RemainderRequest{Total: dec("-5"), PrimaryAnimalID: "cow"}},
		{"blank primary", RemainderRequest{Total: dec("100"), PrimaryAnimalID: "  "}},
		{"duplicate of primary", withSecondaries(base, RemainderEntry{AnimalID: "cow", Value: dec("10"), Unit: UnitDollars})},
		{"duplicate secondary", withSecondaries(base,
			RemainderEntry{AnimalID: "pig", Value: dec("10"), Unit: UnitDollars},
			RemainderEntry{AnimalID: "pig", Value: dec("20"), Unit: UnitDollars})},
		{"negative value", withSecondaries(base, RemainderEntry{AnimalID: "pig", Value: dec("-1"), Unit: UnitDollars})},
		{"bad unit", withSecondaries(base, RemainderEntry{AnimalID: "pig", Value: dec("10"), Unit: SplitUnit("euros")})},
	}
	for _, c := range cases {
		_, err := AllocateRemainder(c.req)
		var ve ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected ValidationError, got %v", c.name, err)
		}
	}
}

func withSecondaries(req RemainderRequest, ss ...RemainderEntry) RemainderRequest {
	req.Secondaries = ss
	return req
}

// -------------------------
// Explicit mode
// -------------------------

func TestAllocateExplicit_EqualDistributesLeftoverCents(t *testing.T) {
	shares, err := AllocateExplicit(ExplicitRequest{
		Total: dec("40.00"),
		Mode:  ModeEqual,
		Entries: []ExplicitEntry{
			{AnimalID: "a1"}, {AnimalID: "a2"}, {AnimalID: "a3"},
		},
	})
	if err != nil {
		t.Fatalf("AllocateExplicit error: %v", err)
	}

	// 40.00 / 3: el centavo sobrante cae en el primero del request.
	want := []string{"13.34", "13.33", "13.33"}
	for i, w := range want {
		if shares[i].Amount.StringFixed(2) != w {
			t.Fatalf("share %d: expected %s, got %s", i, w, shares[i].Amount)
		}
	}
	if got := sumShares(shares); !got.Equal(dec("40")) {
		t.Fatalf("expected shares to sum 40, got %s", got)
	}
}

func TestAllocateExplicit_EqualExactDivision(t *testing.T) {
	shares, err := AllocateExplicit(ExplicitRequest{
		Total:   dec("90.00"),
		Mode:    ModeEqual,
		Entries: []ExplicitEntry{{AnimalID: "a1"}, {AnimalID: "a2"}},
	})
	if err != nil {
		t.Fatalf("AllocateExplicit error: %v", err)
	}
	for _, sh := range shares {
		if !sh.Amount.Equal(dec("45")) {
			t.Fatalf("expected 45 each, got %s", sh.Amount)
		}
	}
}

func TestAllocateExplicit_CustomPercent(t *testing.T) {
	shares, err := AllocateExplicit(ExplicitRequest{
		Total: dec("200"),
		Mode:  ModeCustom,
		Unit:  UnitPercent,
		Entries: []ExplicitEntry{
			{AnimalID: "a1", Value: dec("25")},
			{AnimalID: "a2", Value: dec("75")},
		},
	})
	if err != nil {
		t.Fatalf("AllocateExplicit error: %v", err)
	}
	if got := shareFor(t, shares, "a1"); !got.Equal(dec("50")) {
		t.Fatalf("expected a1 50, got %s", got)
	}
	if got := shareFor(t, shares, "a2"); !got.Equal(dec("150")) {
		t.Fatalf("expected a2 150, got %s", got)
	}
}

func TestAllocateExplicit_CustomPercentMustSum100(t *testing.T) {
	_, err := AllocateExplicit(ExplicitRequest{
		Total: dec("200"),
		Mode:  ModeCustom,
		Unit:  UnitPercent,
		Entries: []ExplicitEntry{
			{AnimalID: "a1", Value: dec("25")},
			{AnimalID: "a2", Value: dec("70")},
		},
	})
	var te ToleranceError
	if !errors.As(err, &te) {
		t.Fatalf("expected ToleranceError for 95%%, got %v", err)
	}

	// 33.33*3 = 99.99: dentro de la ventana de ±0.1.
	shares, err := AllocateExplicit(ExplicitRequest{
		Total: dec("100"),
		Mode:  ModeCustom,
		Unit:  UnitPercent,
		Entries: []ExplicitEntry{
			{AnimalID: "a1", Value: dec("33.33")},
			{AnimalID: "a2", Value: dec("33.33")},
			{AnimalID: "a3", Value: dec("33.33")},
		},
	})
	if err != nil {
		t.Fatalf("expected 99.99%% accepted, got %v", err)
	}
	if len(shares) != 3 {
		t.Fatalf("expected 3 shares, got %d", len(shares))
	}
}

func TestAllocateExplicit_CustomPercentZeroShareRejected(t *testing.T) {
	_, err := AllocateExplicit(ExplicitRequest{
		Total: dec("100"),
		Mode:  ModeCustom,
		Unit:  UnitPercent,
		Entries: []ExplicitEntry{
			{AnimalID: "a1", Value: dec("0")},
			{AnimalID: "a2", Value: dec("100")},
		},
	})
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for zero percent, got %v", err)
	}
}

func TestAllocateExplicit_CustomDollarsTolerance(t *testing.T) {
	entries := []ExplicitEntry{
		{AnimalID: "a1", Value: dec("60.00")},
		{AnimalID: "a2", Value: dec("40.01")},
	}

	// 100.01 contra 100.00: dentro del centavo de tolerancia.
	if _, err := AllocateExplicit(ExplicitRequest{
		Total: dec("100.00"), Mode: ModeCustom, Unit: UnitDollars, Entries: entries,
	}); err != nil {
		t.Fatalf("expected 100.01 accepted against 100.00, got %v", err)
	}

	entries[1].Value = dec("40.02")
	_, err := AllocateExplicit(ExplicitRequest{
		Total: dec("100.00"), Mode: ModeCustom, Unit: UnitDollars, Entries: entries,
	})
	var te ToleranceError
	if !errors.As(err, &te) {
		t.Fatalf("expected ToleranceError for 100.02, got %v", err)
	}
}

func TestAllocateExplicit_Rejections(t *testing.T) {
	cases := []struct {
		name string
		req  ExplicitRequest
	}{
		{"zero total", ExplicitRequest{Total: decimal.Zero, Mode: ModeEqual, Entries: []ExplicitEntry{{AnimalID: "a1"}}}},
		{"empty entries", ExplicitRequest{Total: dec("10"), Mode: ModeEqual}},
		{"blank animal", ExplicitRequest{Total: dec("10"), Mode: ModeEqual, Entries: []ExplicitEntry{{AnimalID: " "}}}},
		{"duplicate animal", ExplicitRequest{Total: dec("10"), Mode: ModeEqual, Entries: []ExplicitEntry{{AnimalID: "a1"}, {AnimalID: "a1"}}}},
		{"negative value", ExplicitRequest{Total: dec("10"), Mode: ModeCustom, Unit: UnitDollars, Entries: []ExplicitEntry{{AnimalID: "a1", Value: dec("-1")}}}},
		{"bad unit", ExplicitRequest{Total: dec("10"), Mode: ModeCustom, Unit: SplitUnit("euros"), Entries: []ExplicitEntry{{AnimalID: "a1", Value: dec("10")}}}},
		{"bad mode", ExplicitRequest{Total: dec("10"), Mode: SplitMode("weighted"), Entries: []ExplicitEntry{{AnimalID: "a1"}}}},
	}
	for _, c := range cases {
		_, err := AllocateExplicit(c.req)
		var ve ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected ValidationError, got %v", c.name, err)
		}
	}
}
