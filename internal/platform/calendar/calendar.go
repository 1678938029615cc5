package calendar

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("invalid date")

const layoutISO = "2006-01-02"

// Date es un día calendario puro (sin hora ni zona).
// Internamente se normaliza a medianoche UTC para que las restas
// entre fechas den días enteros exactos, incluso cruzando cambios
// de horario de verano.
type Date struct {
	t time.Time
}

// NewDate construye una fecha a partir de año/mes/día.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Parse acepta dos formas:
//   - "YYYY-MM-DD": se interpreta como día calendario literal.
//     Nunca se desplaza por la zona del lector (el clásico off-by-one
//     cuando la zona local va detrás de UTC).
//   - RFC3339 completo: se interpreta como instante y se trunca al
//     día calendario local de ese instante.
func Parse(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}

	if len(s) == len(layoutISO) {
		t, err := time.Parse(layoutISO, s)
		if err != nil {
			return Date{}, ErrInvalidDate
		}
		return Date{t: t}, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return FromTime(t.In(time.Local)), nil
}

// FromTime trunca un instante a su día calendario (en la zona del instante).
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// Today devuelve el día calendario actual según el reloj recibido.
// Se recibe el reloj (y no time.Now directo) para poder fijarlo en tests.
func Today(now func() time.Time) Date {
	return FromTime(now().Local())
}

// DaysBetween devuelve b - a en días calendario enteros.
// Ambos operandos ya están normalizados a medianoche UTC, así que la
// división es exacta (no es una división de milisegundos a ojo).
func DaysBetween(a, b Date) int {
	return int(b.t.Sub(a.t) / (24 * time.Hour))
}

// AddDays devuelve la fecha corrida n días (n puede ser negativo).
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }

// Time expone la medianoche UTC subyacente (para columnas DATE en SQL).
func (d Date) Time() time.Time { return d.t }

func (d Date) String() string {
	return d.t.Format(layoutISO)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
