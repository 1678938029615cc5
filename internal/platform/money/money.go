package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNegativeAmount = errors.New("negative amount")
)

// ParseAmount convierte el string crudo de un formulario en un monto decimal.
// Acepta separador decimal con punto o coma ("12.34" / "12,34") y un "$"
// opcional al inicio. Rechaza vacío, no numérico y negativos.
// El dinero nunca entra al motor como float64 binario.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	return d, nil
}

// RoundCents redondea a 2 decimales (half-up, alejándose de cero).
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// WithinTolerance informa si |a - b| <= tol.
func WithinTolerance(a, b, tol decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tol)
}
