package animals

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category define las categorías soportadas.
// @Enum pet, livestock
type Category string

const (
	CategoryPet       Category = "pet"
	CategoryLivestock Category = "livestock"
)

// Animal representa el perfil básico de un animal registrado en la granja.
type Animal struct {
	ID string

	Name     string
	Category Category // pet, livestock
	Species  string   // Texto libre: horse, goat, chicken, etc.
	Breed    string

	BirthDate *time.Time
	TagNumber string

	// Solo relevantes para livestock destinado a procesamiento.
	// Alimentan el cálculo de costo por libra.
	ProcessingCost decimal.Decimal
	FinalWeightLbs *decimal.Decimal

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}
