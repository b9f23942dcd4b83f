package medications

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, m Medication) error
	Update(ctx context.Context, m Medication) error
	GetByID(ctx context.Context, id string) (Medication, error)
	// List incluye registros borrados (soft delete); el service filtra.
	List(ctx context.Context) ([]Medication, error)
}

// IntakeRepository guarda las tomas registradas por día (medicationID, fecha).
type IntakeRepository interface {
	TakenOn(ctx context.Context, day time.Time) (map[string]bool, error)
	Record(ctx context.Context, medicationID string, day time.Time) error
	Remove(ctx context.Context, medicationID string, day time.Time) error
}
