package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"granja-care/internal/domain/careplans"
)

type careplansRepo struct {
	mu   sync.RWMutex
	byID map[string]careplans.CareSchedule
}

func NewCarePlansRepo() careplans.Repository {
	return &careplansRepo{
		byID: make(map[string]careplans.CareSchedule),
	}
}

func (r *careplansRepo) Create(ctx context.Context, s careplans.CareSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLocked(s)
}

func (r *careplansRepo) createLocked(s careplans.CareSchedule) error {
	if s.ID == "" {
		return errors.New("schedule id required")
	}
	if _, exists := r.byID[s.ID]; exists {
		return errors.New("schedule already exists")
	}
	r.byID[s.ID] = s
	return nil
}

// CreateBatch es todo-o-nada: se valida el batch completo antes de escribir.
func (r *careplansRepo) CreateBatch(ctx context.Context, ss []careplans.CareSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range ss {
		if s.ID == "" {
			return errors.New("schedule id required")
		}
		if _, exists := r.byID[s.ID]; exists {
			return errors.New("schedule already exists")
		}
	}
	for _, s := range ss {
		r.byID[s.ID] = s
	}
	return nil
}

func (r *careplansRepo) Update(ctx context.Context, s careplans.CareSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[s.ID]; !ok {
		return careplans.ErrNotFound
	}
	r.byID[s.ID] = s
	return nil
}

func (r *careplansRepo) GetByID(ctx context.Context, id string) (careplans.CareSchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return careplans.CareSchedule{}, careplans.ErrNotFound
	}
	return s, nil
}

func (r *careplansRepo) ListByAnimal(ctx context.Context, animalID string) ([]careplans.CareSchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]careplans.CareSchedule, 0)
	for _, s := range r.byID {
		if s.AnimalID == animalID {
			out = append(out, s)
		}
	}

	// Orden por nombre para salida estable.
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *careplansRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return careplans.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
