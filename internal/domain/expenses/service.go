package expenses

import (
	"context"
	"errors"
	"strings"
	"time"

	"granja-care/internal/platform/calendar"

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
	Type        string
	Amount      decimal.Decimal
	Date        calendar.Date
	Vendor      string
	Description string
	Notes       string
}

// SplitMeta son los datos compartidos por todas las filas de un split.
type SplitMeta struct {
	Type        string
	Date        calendar.Date
	Vendor      string
	Description string
	Notes       string
}

func validateMeta(typ string, date calendar.Date) error {
	if !ValidType(strings.TrimSpace(typ)) {
		return ValidationError{Field: "expense_type", Reason: "unknown type"}
	}
	if date.IsZero() {
		return ValidationError{Field: "expense_date", Reason: "required"}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, animalID string, in CreateInput) (Expense, error) {
	if strings.TrimSpace(animalID) == "" {
		return Expense{}, ValidationError{Field: "animal_id", Reason: "required"}
	}
	if err := validateMeta(in.Type, in.Date); err != nil {
		return Expense{}, err
	}
	if in.Amount.IsNegative() {
		return Expense{}, ValidationError{Field: "amount", Reason: "must not be negative"}
	}

	now := s.now()
	e := Expense{
		ID:          uuid.NewString(),
		AnimalID:    strings.TrimSpace(animalID),
		Type:        ExpenseType(strings.TrimSpace(in.Type)),
		Amount:      in.Amount.Round(2),
		Date:        in.Date,
		Vendor:      strings.TrimSpace(in.Vendor),
		Description: strings.TrimSpace(in.Description),
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Expense{}, err
	}
	return e, nil
}

// SplitRemainder valida la asignación remainder y persiste una fila por
// animal con monto no nulo.
func (s *Service) SplitRemainder(ctx context.Context, req RemainderRequest, meta SplitMeta) ([]Expense, error) {
	shares, err := AllocateRemainder(req)
	if err != nil {
		return nil, err
	}
	return s.persistShares(ctx, shares, meta)
}

// SplitExplicit valida la asignación explícita (equal o custom) y persiste
// una fila por animal con monto no nulo.
func (s *Service) SplitExplicit(ctx context.Context, req ExplicitRequest, meta SplitMeta) ([]Expense, error) {
	shares, err := AllocateExplicit(req)
	if err != nil {
		return nil, err
	}
	return s.persistShares(ctx, shares, meta)
}

func (s *Service) persistShares(ctx context.Context, shares []Share, meta SplitMeta) ([]Expense, error) {
	if err := validateMeta(meta.Type, meta.Date); err != nil {
		return nil, err
	}

	now := s.now()
	groupID := uuid.NewString()

	out := make([]Expense, 0, len(shares))
	for _, sh := range shares {
		// Las asignaciones en cero se descartan en silencio:
		// no se persisten filas de $0.00.
		if sh.Amount.IsZero() {
			continue
		}
		out = append(out, Expense{
			ID:           uuid.NewString(),
			AnimalID:     sh.AnimalID,
			Type:         ExpenseType(strings.TrimSpace(meta.Type)),
			Amount:       sh.Amount,
			Date:         meta.Date,
			Vendor:       strings.TrimSpace(meta.Vendor),
			Description:  strings.TrimSpace(meta.Description),
			Notes:        strings.TrimSpace(meta.Notes),
			SplitGroupID: groupID,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	if len(out) == 0 {
		return nil, ValidationError{Field: "entries", Reason: "allocation produced no non-zero amounts"}
	}

	if err := s.repo.CreateBatch(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Expense, error) {
	id = strings.TrimSpace(id)
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Expense{}, NotFoundError{ID: id}
		}
		return Expense{}, err
	}
	return e, nil
}

func (s *Service) ListByAnimal(ctx context.Context, animalID string) ([]Expense, error) {
	return s.repo.ListByAnimal(ctx, animalID)
}

// TotalForAnimal devuelve el agregado de gastos del animal.
func (s *Service) TotalForAnimal(ctx context.Context, animalID string) (decimal.Decimal, error) {
	return s.repo.SumByAnimal(ctx, strings.TrimSpace(animalID))
}

func (s *Service) Update(ctx context.Context, id string, in CreateInput) (Expense, error) {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return Expense{}, err
	}
	if err := validateMeta(in.Type, in.Date); err != nil {
		return Expense{}, err
	}
	if in.Amount.IsNegative() {
		return Expense{}, ValidationError{Field: "amount", Reason: "must not be negative"}
	}

	e.Type = ExpenseType(strings.TrimSpace(in.Type))
	e.Amount = in.Amount.Round(2)
	e.Date = in.Date
	e.Vendor = strings.TrimSpace(in.Vendor)
	e.Description = strings.TrimSpace(in.Description)
	e.Notes = strings.TrimSpace(in.Notes)
	e.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, e); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Expense{}, NotFoundError{ID: id}
		}
		return Expense{}, err
	}
	return e, nil
}

// Duplicate copia un gasto existente con fecha nueva.
// La copia no hereda el linaje de split: es una fila nueva e independiente.
func (s *Service) Duplicate(ctx context.Context, id string, newDate calendar.Date) (Expense, error) {
	orig, err := s.GetByID(ctx, id)
	if err != nil {
		return Expense{}, err
	}
	if newDate.IsZero() {
		return Expense{}, ValidationError{Field: "expense_date", Reason: "required"}
	}

	now := s.now()
	dup := orig
	dup.ID = uuid.NewString()
	dup.Date = newDate
	dup.SplitGroupID = ""
	dup.CreatedAt = now
	dup.UpdatedAt = now

	if err := s.repo.Create(ctx, dup); err != nil {
		return Expense{}, err
	}
	return dup, nil
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
