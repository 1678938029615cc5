package careplans

import "context"

type Repository interface {
	Create(ctx context.Context, s CareSchedule) error
	CreateBatch(ctx context.Context, ss []CareSchedule) error
	Update(ctx context.Context, s CareSchedule) error
	GetByID(ctx context.Context, id string) (CareSchedule, error)
	ListByAnimal(ctx context.Context, animalID string) ([]CareSchedule, error)
	Delete(ctx context.Context, id string) error
}
