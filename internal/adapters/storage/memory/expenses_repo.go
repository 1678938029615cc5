package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"granja-care/internal/domain/expenses"

	"github.com/shopspring/decimal"
)

type expensesRepo struct {
	mu   sync.RWMutex
	byID map[string]expenses.Expense
}

func NewExpensesRepo() expenses.Repository {
	return &expensesRepo{
		byID: make(map[string]expenses.Expense),
	}
}

func (r *expensesRepo) Create(ctx context.Context, e expenses.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		return errors.New("expense id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("expense already exists")
	}

	r.byID[e.ID] = e
	return nil
}

// CreateBatch es todo-o-nada: se valida el batch completo antes de escribir.
func (r *expensesRepo) CreateBatch(ctx context.Context, es []expenses.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range es {
		if e.ID == "" {
			return errors.New("expense id required")
		}
		if _, exists := r.byID[e.ID]; exists {
			return errors.New("expense already exists")
		}
	}
	for _, e := range es {
		r.byID[e.ID] = e
	}
	return nil
}

func (r *expensesRepo) Update(ctx context.Context, e expenses.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[e.ID]; !ok {
		return expenses.ErrNotFound
	}
	r.byID[e.ID] = e
	return nil
}

func (r *expensesRepo) GetByID(ctx context.Context, id string) (expenses.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return expenses.Expense{}, expenses.ErrNotFound
	}
	return e, nil
}

func (r *expensesRepo) ListByAnimal(ctx context.Context, animalID string) ([]expenses.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]expenses.Expense, 0)
	for _, e := range r.byID {
		if e.AnimalID == animalID {
			out = append(out, e)
		}
	}

	// Orden por fecha desc (más reciente primero).
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (r *expensesRepo) SumByAnimal(ctx context.Context, animalID string) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sum := decimal.Zero
	for _, e := range r.byID {
		if e.AnimalID == animalID {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

func (r *expensesRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return expenses.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
