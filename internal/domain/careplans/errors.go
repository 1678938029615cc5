package careplans

import (
	"errors"
	"fmt"
)

// ErrNotFound lo devuelven los repos cuando el schedule no existe.
var ErrNotFound = errors.New("care schedule not found")

// ValidationError indica entrada inválida corregible por el caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NotFoundError indica que el schedule referenciado no existe.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("care schedule %s not found", e.ID)
}
