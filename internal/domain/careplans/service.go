package careplans

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"granja-care/internal/platform/calendar"

	"github.com/google/uuid"
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
	Name           string
	FrequencyDays  *int
	LastPerformed  *calendar.Date
	ManualDueDate  *calendar.Date
	DueTime        string
	Notes          string
	ReminderAlerts []int
}

// ExpandInput es el template de creación masiva: un mismo ítem de cuidado
// instanciado para un conjunto de animales.
type ExpandInput struct {
	Name           string
	FrequencyDays  *int
	LastPerformed  *calendar.Date
	ManualDueDate  *calendar.Date
	DueTime        string
	Notes          string
	ReminderAlerts []int

	// IsOneTime fuerza semántica manual: los schedules emitidos salen
	// sin frecuencia aunque el template traiga una.
	IsOneTime bool
}

func validateInput(in CreateInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return ValidationError{Field: "name", Reason: "required"}
	}
	if in.FrequencyDays != nil && *in.FrequencyDays <= 0 {
		return ValidationError{Field: "frequency_days", Reason: "must be a positive integer"}
	}
	if in.DueTime != "" {
		if _, err := time.Parse("15:04", in.DueTime); err != nil {
			return ValidationError{Field: "due_time", Reason: "must be HH:MM"}
		}
	}
	for _, m := range in.ReminderAlerts {
		if m < 0 {
			return ValidationError{Field: "reminder_alerts", Reason: "offsets must be >= 0"}
		}
	}
	return nil
}

// normalizeAlerts deja los offsets ordenados de mayor a menor y sin repetidos.
func normalizeAlerts(alerts []int) []int {
	if len(alerts) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(alerts))
	out := make([]int, 0, len(alerts))
	for _, m := range alerts {
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

func (s *Service) build(animalID string, in CreateInput, now time.Time) CareSchedule {
	return CareSchedule{
		ID:             uuid.NewString(),
		AnimalID:       animalID,
		Name:           strings.TrimSpace(in.Name),
		FrequencyDays:  in.FrequencyDays,
		LastPerformed:  in.LastPerformed,
		ManualDueDate:  in.ManualDueDate,
		DueTime:        strings.TrimSpace(in.DueTime),
		Notes:          strings.TrimSpace(in.Notes),
		ReminderAlerts: normalizeAlerts(in.ReminderAlerts),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (s *Service) Create(ctx context.Context, animalID string, in CreateInput) (CareSchedule, error) {
	if strings.TrimSpace(animalID) == "" {
		return CareSchedule{}, ValidationError{Field: "animal_id", Reason: "required"}
	}
	if err := validateInput(in); err != nil {
		return CareSchedule{}, err
	}

	sched := s.build(strings.TrimSpace(animalID), in, s.now())
	if err := s.repo.Create(ctx, sched); err != nil {
		return CareSchedule{}, err
	}
	return sched, nil
}

// Expand instancia el template para cada animal del set.
// Cada schedule emitido es independiente: comparten estado inicial pero
// divergen apenas alguno se completa.
func (s *Service) Expand(ctx context.Context, in ExpandInput, animalIDs []string) ([]CareSchedule, error) {
	if len(animalIDs) == 0 {
		return nil, ValidationError{Field: "animal_ids", Reason: "at least one animal required"}
	}

	base := CreateInput{
		Name:           in.Name,
		FrequencyDays:  in.FrequencyDays,
		LastPerformed:  in.LastPerformed,
		ManualDueDate:  in.ManualDueDate,
		DueTime:        in.DueTime,
		Notes:          in.Notes,
		ReminderAlerts: in.ReminderAlerts,
	}
	if in.IsOneTime {
		base.FrequencyDays = nil
	}
	if err := validateInput(base); err != nil {
		return nil, err
	}

	now := s.now()
	seen := make(map[string]bool, len(animalIDs))
	out := make([]CareSchedule, 0, len(animalIDs))
	for _, id := range animalIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, ValidationError{Field: "animal_ids", Reason: "blank animal id"}
		}
		if seen[id] {
			return nil, ValidationError{Field: "animal_ids", Reason: "duplicate animal id " + id}
		}
		seen[id] = true
		out = append(out, s.build(id, base, now))
	}

	if err := s.repo.CreateBatch(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (CareSchedule, error) {
	id = strings.TrimSpace(id)
	sched, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return CareSchedule{}, NotFoundError{ID: id}
		}
		return CareSchedule{}, err
	}
	return sched, nil
}

func (s *Service) ListByAnimal(ctx context.Context, animalID string) ([]CareSchedule, error) {
	return s.repo.ListByAnimal(ctx, animalID)
}

// ResolveNow computa el estado derivado del schedule contra el día de hoy.
func (s *Service) ResolveNow(sched CareSchedule) Resolution {
	return Resolve(sched, calendar.Today(s.now))
}

func (s *Service) Update(ctx context.Context, id string, in CreateInput) (CareSchedule, error) {
	sched, err := s.GetByID(ctx, id)
	if err != nil {
		return CareSchedule{}, err
	}
	if err := validateInput(in); err != nil {
		return CareSchedule{}, err
	}

	sched.Name = strings.TrimSpace(in.Name)
	sched.FrequencyDays = in.FrequencyDays
	sched.LastPerformed = in.LastPerformed
	sched.ManualDueDate = in.ManualDueDate
	sched.DueTime = strings.TrimSpace(in.DueTime)
	sched.Notes = strings.TrimSpace(in.Notes)
	sched.ReminderAlerts = normalizeAlerts(in.ReminderAlerts)
	sched.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, sched); err != nil {
		if errors.Is(err, ErrNotFound) {
			return CareSchedule{}, NotFoundError{ID: id}
		}
		return CareSchedule{}, err
	}
	return sched, nil
}

// Complete registra una realización del cuidado.
//   - LastPerformed pasa a performedOn (hoy si no se indica).
//   - Si hay frecuencia, se limpia ManualDueDate: la cadencia recurrente
//     recupera la autoridad y el próximo vencimiento sale de
//     last_performed + frequency_days en el siguiente Resolve.
//   - Sin frecuencia (ítem manual), ManualDueDate queda como está; si el
//     caller quiere sacarlo de overdue usa ClearManualDueDate o Update.
func (s *Service) Complete(ctx context.Context, id string, performedOn *calendar.Date, note string) (CareSchedule, error) {
	sched, err := s.GetByID(ctx, id)
	if err != nil {
		return CareSchedule{}, err
	}

	when := calendar.Today(s.now)
	if performedOn != nil {
		when = *performedOn
	}

	sched.LastPerformed = &when
	if sched.FrequencyDays != nil {
		sched.ManualDueDate = nil
	}
	if n := strings.TrimSpace(note); n != "" {
		if sched.Notes != "" {
			sched.Notes += "\n"
		}
		sched.Notes += n
	}
	sched.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, sched); err != nil {
		if errors.Is(err, ErrNotFound) {
			return CareSchedule{}, NotFoundError{ID: id}
		}
		return CareSchedule{}, err
	}
	return sched, nil
}

// ClearManualDueDate quita el override manual. Para ítems sin frecuencia
// equivale a "hecho y sin próxima fecha" (queda unscheduled).
func (s *Service) ClearManualDueDate(ctx context.Context, id string) (CareSchedule, error) {
	sched, err := s.GetByID(ctx, id)
	if err != nil {
		return CareSchedule{}, err
	}

	sched.ManualDueDate = nil
	sched.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, sched); err != nil {
		if errors.Is(err, ErrNotFound) {
			return CareSchedule{}, NotFoundError{ID: id}
		}
		return CareSchedule{}, err
	}
	return sched, nil
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
