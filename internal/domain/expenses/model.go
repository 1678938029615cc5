package expenses

import (
	"time"

	"granja-care/internal/platform/calendar"

	"github.com/shopspring/decimal"
)

// Expense es un gasto registrado contra un animal.
type Expense struct {
	ID       string
	AnimalID string

	Type   ExpenseType
	Amount decimal.Decimal
	Date   calendar.Date

	Vendor      string
	Description string
	Notes       string

	// SplitGroupID enlaza las filas hermanas creadas por una misma
	// operación de split. Vacío cuando el gasto no viene de un split.
	// Las hermanas son filas independientes: cada una se edita o borra
	// por su cuenta.
	SplitGroupID string

	CreatedAt time.Time
	UpdatedAt time.Time
}
