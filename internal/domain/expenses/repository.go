package expenses

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, e Expense) error
	// CreateBatch persiste las filas de un split. La atomicidad es
	// responsabilidad del adapter (el de postgres usa una transacción);
	// el motor solo garantiza que el batch computado es consistente.
	CreateBatch(ctx context.Context, es []Expense) error
	Update(ctx context.Context, e Expense) error
	GetByID(ctx context.Context, id string) (Expense, error)
	ListByAnimal(ctx context.Context, animalID string) ([]Expense, error)
	SumByAnimal(ctx context.Context, animalID string) (decimal.Decimal, error)
	Delete(ctx context.Context, id string) error
}
