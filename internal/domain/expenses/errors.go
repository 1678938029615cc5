package expenses

import (
	"errors"
	"fmt"
)

// ErrNotFound lo devuelven los repos cuando el gasto no existe.
var ErrNotFound = errors.New("expense not found")

// ValidationError indica entrada inválida corregible por el caller.
// Nunca se reintenta: el mismo input produce el mismo error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ToleranceError es una especialización de ValidationError: la suma de la
// asignación cayó fuera de la ventana de tolerancia (±0.01 dólares /
// ±0.1 puntos porcentuales).
type ToleranceError struct {
	Field  string
	Reason string
}

func (e ToleranceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap permite tratar un ToleranceError como ValidationError con errors.As.
func (e ToleranceError) Unwrap() error {
	return ValidationError{Field: e.Field, Reason: e.Reason}
}

// NotFoundError indica que el gasto referenciado no existe.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("expense %s not found", e.ID)
}
