package animals

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name      string
	Category  string
	Species   string
	Breed     string
	BirthDate *time.Time
	TagNumber string

	ProcessingCost decimal.Decimal
	FinalWeightLbs *decimal.Decimal

	Notes string
}

func validCategory(c string) bool {
	switch Category(c) {
	case CategoryPet, CategoryLivestock:
		return true
	}
	return false
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Animal, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Animal{}, ValidationError{Field: "name", Reason: "required"}
	}
	if !validCategory(strings.TrimSpace(in.Category)) {
		return Animal{}, ValidationError{Field: "category", Reason: "must be pet or livestock"}
	}
	if in.ProcessingCost.IsNegative() {
		return Animal{}, ValidationError{Field: "processing_cost", Reason: "must not be negative"}
	}
	if in.FinalWeightLbs != nil && in.FinalWeightLbs.IsNegative() {
		return Animal{}, ValidationError{Field: "final_weight_lbs", Reason: "must not be negative"}
	}

	now := s.now()
	a := Animal{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(in.Name),
		Category:       Category(strings.TrimSpace(in.Category)),
		Species:        strings.TrimSpace(in.Species),
		Breed:          strings.TrimSpace(in.Breed),
		BirthDate:      in.BirthDate,
		TagNumber:      strings.TrimSpace(in.TagNumber),
		ProcessingCost: in.ProcessingCost,
		FinalWeightLbs: in.FinalWeightLbs,
		Notes:          strings.TrimSpace(in.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Animal, error) {
	id = strings.TrimSpace(id)
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Animal{}, NotFoundError{ID: id}
		}
		return Animal{}, err
	}
	return a, nil
}

func (s *Service) List(ctx context.Context) ([]Animal, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id string, in CreateInput) (Animal, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Animal{}, err
	}

	if strings.TrimSpace(in.Name) == "" {
		return Animal{}, ValidationError{Field: "name", Reason: "required"}
	}
	if !validCategory(strings.TrimSpace(in.Category)) {
		return Animal{}, ValidationError{Field: "category", Reason: "must be pet or livestock"}
	}
	if in.ProcessingCost.IsNegative() {
		return Animal{}, ValidationError{Field: "processing_cost", Reason: "must not be negative"}
	}
	if in.FinalWeightLbs != nil && in.FinalWeightLbs.IsNegative() {
		return Animal{}, ValidationError{Field: "final_weight_lbs", Reason: "must not be negative"}
	}

	a.Name = strings.TrimSpace(in.Name)
	a.Category = Category(strings.TrimSpace(in.Category))
	a.Species = strings.TrimSpace(in.Species)
	a.Breed = strings.TrimSpace(in.Breed)
	a.BirthDate = in.BirthDate
	a.TagNumber = strings.TrimSpace(in.TagNumber)
	a.ProcessingCost = in.ProcessingCost
	a.FinalWeightLbs = in.FinalWeightLbs
	a.Notes = strings.TrimSpace(in.Notes)
	a.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, a); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Animal{}, NotFoundError{ID: id}
		}
		return Animal{}, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return NotFoundError{ID: id}
		}
		return err
	}
	return nil
}
