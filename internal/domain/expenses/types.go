package expenses

// ExpenseType clasifica el gasto.
// @Enum purchase, feed, medicine, vet, equipment, farrier, other
type ExpenseType string

const (
	TypePurchase  ExpenseType = "purchase"
	TypeFeed      ExpenseType = "feed"
	TypeMedicine  ExpenseType = "medicine"
	TypeVet       ExpenseType = "vet"
	TypeEquipment ExpenseType = "equipment"
	TypeFarrier   ExpenseType = "farrier"
	TypeOther     ExpenseType = "other"
)

// ValidType informa si el string corresponde a un tipo de gasto conocido.
func ValidType(t string) bool {
	switch ExpenseType(t) {
	case TypePurchase, TypeFeed, TypeMedicine, TypeVet, TypeEquipment, TypeFarrier, TypeOther:
		return true
	}
	return false
}

// SplitMode distingue reparto en partes iguales vs montos personalizados.
type SplitMode string

const (
	ModeEqual  SplitMode = "equal"
	ModeCustom SplitMode = "custom"
)

// SplitUnit es la unidad de los valores crudos en modo custom.
type SplitUnit string

const (
	UnitDollars SplitUnit = "dollars"
	UnitPercent SplitUnit = "percent"
)
