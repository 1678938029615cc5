package expenses

import (
	"context"
	"errors"
	"testing"
	"time"

	"granja-care/internal/platform/calendar"

	"github.com/shopspring/decimal"
)

type testRepo struct {
	byID map[string]Expense
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Expense{}}
}

func (r *testRepo) Create(ctx context.Context, e Expense) error {
	if _, ok := r.byID[e.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[e.ID] = e
	return nil
}

func (r *testRepo) CreateBatch(ctx context.Context, es []Expense) error {
	for _, e := range es {
		if err := r.Create(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *testRepo) Update(ctx context.Context, e Expense) error {
	if _, ok := r.byID[e.ID]; !ok {
		return ErrNotFound
	}
	r.byID[e.ID] = e
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Expense, error) {
	e, ok := r.byID[id]
	if !ok {
		return Expense{}, ErrNotFound
	}
	return e, nil
}

func (r *testRepo) ListByAnimal(ctx context.Context, animalID string) ([]Expense, error) {
	out := make([]Expense, 0)
	for _, e := range r.byID {
		if e.AnimalID == animalID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *testRepo) SumByAnimal(ctx context.Context, animalID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range r.byID {
		if e.AnimalID == animalID {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func testMeta() SplitMeta {
	return SplitMeta{
		Type:   "feed",
		Date:   calendar.NewDate(2026, time.July, 1),
		Vendor: "Co-op",
	}
}

func TestService_SplitRemainder_PersistsRowsWithSharedGroup(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	rows, err := svc.SplitRemainder(context.Background(), RemainderRequest{
		Total:           dec("100"),
		PrimaryAnimalID: "cow",
		Secondaries: []RemainderEntry{
			{AnimalID: "pig", Value: dec("30"), Unit: UnitPercent},
		},
	}, testMeta())
	if err != nil {
		t.Fatalf("SplitRemainder error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	group := rows[0].SplitGroupID
	if group == "" {
		t.Fatalf("expected a split group id")
	}
	for _, e := range rows {
		if e.SplitGroupID != group {
			t.Fatalf("expected all rows in the same group")
		}
		if e.Type != TypeFeed || e.Vendor != "Co-op" {
			t.Fatalf("expected shared metadata on each row, got %+v", e)
		}
	}
	if len(repo.byID) != 2 {
		t.Fatalf("expected 2 persisted rows, got %d", len(repo.byID))
	}
}

func TestService_Split_DropsZeroShares(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	// El secundario se lleva todo: el primario queda en 0 y no genera fila.
	rows, err := svc.SplitRemainder(context.Background(), RemainderRequest{
		Total:           dec("50"),
		PrimaryAnimalID: "cow",
		Secondaries: []RemainderEntry{
			{AnimalID: "pig", Value: dec("50"), Unit: UnitDollars},
		},
	}, testMeta())
	if err != nil {
		t.Fatalf("SplitRemainder error: %v", err)
	}
	if len(rows) != 1 || rows[0].AnimalID != "pig" {
		t.Fatalf("expected only the pig row, got %+v", rows)
	}
}

func TestService_Split_RowsAreIndependent(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	rows, err := svc.SplitExplicit(context.Background(), ExplicitRequest{
		Total:   dec("90"),
		Mode:    ModeEqual,
		Entries: []ExplicitEntry{{AnimalID: "a1"}, {AnimalID: "a2"}},
	}, testMeta())
	if err != nil {
		t.Fatalf("SplitExplicit error: %v", err)
	}

	// Borrar una hermana no toca a la otra.
	if err := svc.Delete(context.Background(), rows[0].ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), rows[1].ID); err != nil {
		t.Fatalf("sibling should survive, got %v", err)
	}
}

func TestService_Split_RejectsBadMetadata(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	_, err := svc.SplitExplicit(context.Background(), ExplicitRequest{
		Total:   dec("90"),
		Mode:    ModeEqual,
		Entries: []ExplicitEntry{{AnimalID: "a1"}},
	}, SplitMeta{Type: "snacks", Date: calendar.NewDate(2026, time.July, 1)})

	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for unknown type, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("expected nothing persisted")
	}
}

func TestService_TotalForAnimal(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	date := calendar.NewDate(2026, time.July, 1)
	for _, amount := range []string{"10.50", "4.25"} {
		if _, err := svc.Create(context.Background(), "cow", CreateInput{
			Type: "vet", Amount: dec(amount), Date: date,
		}); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}
	if _, err := svc.Create(context.Background(), "pig", CreateInput{
		Type: "feed", Amount: dec("99"), Date: date,
	}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	total, err := svc.TotalForAnimal(context.Background(), "cow")
	if err != nil {
		t.Fatalf("TotalForAnimal error: %v", err)
	}
	if !total.Equal(dec("14.75")) {
		t.Fatalf("expected 14.75, got %s", total)
	}
}

func TestService_Duplicate_ClearsSplitLineage(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	rows, err := svc.SplitExplicit(context.Background(), ExplicitRequest{
		Total:   dec("80"),
		Mode:    ModeEqual,
		Entries: []ExplicitEntry{{AnimalID: "a1"}, {AnimalID: "a2"}},
	}, testMeta())
	if err != nil {
		t.Fatalf("SplitExplicit error: %v", err)
	}

	newDate := calendar.NewDate(2026, time.August, 1)
	dup, err := svc.Duplicate(context.Background(), rows[0].ID, newDate)
	if err != nil {
		t.Fatalf("Duplicate error: %v", err)
	}

	if dup.ID == rows[0].ID {
		t.Fatalf("expected a fresh id")
	}
	if dup.SplitGroupID != "" {
		t.Fatalf("expected duplicate without split lineage, got %q", dup.SplitGroupID)
	}
	if !dup.Date.Equal(newDate) {
		t.Fatalf("expected new date %s, got %s", newDate, dup.Date)
	}
	if !dup.Amount.Equal(rows[0].Amount) || dup.Type != rows[0].Type {
		t.Fatalf("expected amount and type copied")
	}
}

func TestService_NotFoundTranslation(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	var nf NotFoundError
	if _, err := svc.GetByID(context.Background(), "nope"); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError from GetByID, got %v", err)
	}
	if err := svc.Delete(context.Background(), "nope"); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError from Delete, got %v", err)
	}
	if _, err := svc.Duplicate(context.Background(), "nope", calendar.NewDate(2026, time.July, 1)); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError from Duplicate, got %v", err)
	}
}
