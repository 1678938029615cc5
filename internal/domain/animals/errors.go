package animals

import (
	"errors"
	"fmt"
)

// ErrNotFound lo devuelven los repos cuando el animal no existe.
// El service lo traduce a NotFoundError con el id consultado.
var ErrNotFound = errors.New("animal not found")

// ValidationError indica entrada inválida corregible por el caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NotFoundError indica que el animal referenciado no existe.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("animal %s not found", e.ID)
}
