package appointments

import (
	"context"

	"vet-clinic-scheduling/internal/domain/scheduling"
)

type Repository interface {
	scheduling.BlockingLookup

	GetByID(ctx context.Context, id int64) (scheduling.Appointment, error)
	GetByPublicID(ctx context.Context, publicID string) (scheduling.Appointment, error)
	List(ctx context.Context, filter ListFilter) ([]scheduling.Appointment, error)

	// WithinTx ejecuta fn de forma atómica: la verificación de conflictos y la
	// escritura que hace fn no pueden intercalarse con otra transacción.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx es la vista transaccional del repositorio.
type Tx interface {
	scheduling.BlockingLookup

	GetByID(ctx context.Context, id int64) (scheduling.Appointment, error)
	// Create asigna ID al registro.
	Create(ctx context.Context, a *scheduling.Appointment) error
	Update(ctx context.Context, a scheduling.Appointment) error
}

type ListFilter struct {
	VetID           int64
	PetID           int64
	Date            string
	Status          scheduling.Status
	IncludeInactive bool
	Limit           int
	Offset          int
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// NormalizedLimit aplica default y tope al límite de la página.
func (f ListFilter) NormalizedLimit() int {
	if f.Limit <= 0 {
		return DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		return MaxListLimit
	}
	return f.Limit
}
