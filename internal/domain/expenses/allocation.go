package expenses

import (
	"strings"

	"granja-care/internal/platform/money"

	"github.com/shopspring/decimal"
)

// Ventanas de tolerancia heredadas del comportamiento observable:
// el origen hacía la cuenta en punto flotante binario, así que la
// validación absorbe ese ruido en vez de endurecerlo en silencio.
var (
	amountTolerance  = decimal.RequireFromString("0.01")
	percentTolerance = decimal.RequireFromString("0.1")

	hundred = decimal.NewFromInt(100)
)

// Share es el monto asignado a un animal por el validador.
type Share struct {
	AnimalID string
	Amount   decimal.Decimal
}

// RemainderEntry es una asignación secundaria en modo remainder,
// expresada en dólares o en porcentaje del total.
type RemainderEntry struct {
	AnimalID string
	Value    decimal.Decimal
	Unit     SplitUnit
}

// RemainderRequest reparte un total dejando que un animal "primario"
// absorba lo que queda después de restar las asignaciones secundarias.
type RemainderRequest struct {
	Total           decimal.Decimal
	PrimaryAnimalID string
	Secondaries     []RemainderEntry
}

// ExplicitEntry es la participación de un animal en modo explícito.
type ExplicitEntry struct {
	AnimalID string
	Value    decimal.Decimal
}

// ExplicitRequest reparte un total entre un set de animales sin primario
// privilegiado: en partes iguales o con valores custom (dólares o %).
type ExplicitRequest struct {
	Total   decimal.Decimal
	Mode    SplitMode
	Unit    SplitUnit
	Entries []ExplicitEntry
}

// AllocateRemainder valida y computa el reparto en modo remainder.
// secondary = valor directo (dollars) o valor/100*total (percent).
// primary = total - suma de secundarios. Válido si primary >= -0.01:
// la tolerancia negativa chica absorbe ruido de flotantes, pero una
// sobre-asignación real se rechaza. El primario recibe max(0, primary).
func AllocateRemainder(req RemainderRequest) ([]Share, error) {
	if !req.Total.IsPositive() {
		return nil, ValidationError{Field: "total_amount", Reason: "must be positive"}
	}
	primary := strings.TrimSpace(req.PrimaryAnimalID)
	if primary == "" {
		return nil, ValidationError{Field: "primary_animal_id", Reason: "required"}
	}

	seen := map[string]bool{primary: true}
	sum := decimal.Zero
	secondaries := make([]Share, 0, len(req.Secondaries))

	for _, e := range req.Secondaries {
		id := strings.TrimSpace(e.AnimalID)
		if id == "" {
			return nil, ValidationError{Field: "animal_id", Reason: "required"}
		}
		if seen[id] {
			return nil, ValidationError{Field: "animal_id", Reason: "duplicate animal " + id}
		}
		seen[id] = true

		if e.Value.IsNegative() {
			return nil, ValidationError{Field: "value", Reason: "must not be negative"}
		}

		var amount decimal.Decimal
		switch e.Unit {
		case UnitDollars:
			amount = money.RoundCents(e.Value)
		case UnitPercent:
			amount = money.RoundCents(e.Value.Div(hundred).Mul(req.Total))
		default:
			return nil, ValidationError{Field: "unit", Reason: "must be dollars or percent"}
		}

		sum = sum.Add(amount)
		secondaries = append(secondaries, Share{AnimalID: id, Amount: amount})
	}

	rest := req.Total.Sub(sum)
	if rest.LessThan(amountTolerance.Neg()) {
		return nil, ToleranceError{
			Field:  "total_amount",
			Reason: "secondary allocations exceed the total by " + rest.Neg().StringFixed(2),
		}
	}
	if rest.IsNegative() {
		rest = decimal.Zero
	}

	out := make([]Share, 0, len(secondaries)+1)
	out = append(out, Share{AnimalID: primary, Amount: money.RoundCents(rest)})
	out = append(out, secondaries...)
	return out, nil
}

// AllocateExplicit valida y computa el reparto en modo explícito.
// No hay renormalización implícita: si la suma no cierra, se rechaza
// y el caller corrige y reenvía.
func AllocateExplicit(req ExplicitRequest) ([]Share, error) {
	if !req.Total.IsPositive() {
		return nil, ValidationError{Field: "total_amount", Reason: "must be positive"}
	}
	if len(req.Entries) == 0 {
		return nil, ValidationError{Field: "entries", Reason: "at least one animal required"}
	}

	seen := make(map[string]bool, len(req.Entries))
	for _, e := range req.Entries {
		id := strings.TrimSpace(e.AnimalID)
		if id == "" {
			return nil, ValidationError{Field: "animal_id", Reason: "required"}
		}
		if seen[id] {
			return nil, ValidationError{Field: "animal_id", Reason: "duplicate animal " + id}
		}
		seen[id] = true
		if e.Value.IsNegative() {
			return nil, ValidationError{Field: "value", Reason: "must not be negative"}
		}
	}

	switch req.Mode {
	case ModeEqual:
		return splitEqual(req.Total, req.Entries), nil
	case ModeCustom:
		switch req.Unit {
		case UnitDollars:
			return splitCustomDollars(req.Total, req.Entries)
		case UnitPercent:
			return splitCustomPercent(req.Total, req.Entries)
		default:
			return nil, ValidationError{Field: "unit", Reason: "must be dollars or percent"}
		}
	default:
		return nil, ValidationError{Field: "mode", Reason: "must be equal or custom"}
	}
}

// splitEqual divide el total en partes iguales al centavo.
// Regla de redondeo elegida (el origen la dejaba sin definir): cada parte
// se trunca al centavo y los centavos sobrantes se reparten de a uno en
// el orden del request, así la suma cierra exacta contra el total.
func splitEqual(total decimal.Decimal, entries []ExplicitEntry) []Share {
	n := int64(len(entries))
	cents := total.Shift(2)
	base := cents.Div(decimal.NewFromInt(n)).Floor()
	leftover := cents.Sub(base.Mul(decimal.NewFromInt(n))).IntPart()

	out := make([]Share, 0, len(entries))
	for i, e := range entries {
		amount := base
		if int64(i) < leftover {
			amount = amount.Add(decimal.NewFromInt(1))
		}
		out = append(out, Share{
			AnimalID: strings.TrimSpace(e.AnimalID),
			Amount:   amount.Shift(-2),
		})
	}
	return out
}

func splitCustomDollars(total decimal.Decimal, entries []ExplicitEntry) ([]Share, error) {
	sum := decimal.Zero
	out := make([]Share, 0, len(entries))
	for _, e := range entries {
		amount := money.RoundCents(e.Value)
		sum = sum.Add(amount)
		out = append(out, Share{AnimalID: strings.TrimSpace(e.AnimalID), Amount: amount})
	}

	if !money.WithinTolerance(sum, total, amountTolerance) {
		return nil, ToleranceError{
			Field:  "entries",
			Reason: "amounts sum to " + sum.StringFixed(2) + ", expected " + total.StringFixed(2),
		}
	}
	return out, nil
}

func splitCustomPercent(total decimal.Decimal, entries []ExplicitEntry) ([]Share, error) {
	sum := decimal.Zero
	out := make([]Share, 0, len(entries))
	for _, e := range entries {
		// En modo percent cada participación debe ser estrictamente positiva.
		if !e.Value.IsPositive() {
			return nil, ValidationError{Field: "value", Reason: "percent must be greater than zero"}
		}
		sum = sum.Add(e.Value)
		out = append(out, Share{
			AnimalID: strings.TrimSpace(e.AnimalID),
			Amount:   money.RoundCents(e.Value.Div(hundred).Mul(total)),
		})
	}

	if !money.WithinTolerance(sum, hundred, percentTolerance) {
		return nil, ToleranceError{
			Field:  "entries",
			Reason: "percentages sum to " + sum.String() + ", expected 100",
		}
	}
	return out, nil
}
