package scheduling

import (
	"context"
	"fmt"
	"time"
)

// ConflictCheck describe el intervalo candidato y las partes a verificar.
type ConflictCheck struct {
	VetID     int64
	PetID     int64
	Start     time.Time
	End       time.Time
	ExcludeID int64 // la propia cita al reprogramar
}

// ConflictDetector garantiza que ni el veterinario ni la mascota tengan dos citas solapadas.
type ConflictDetector struct {
	lookup BlockingLookup
}

func NewConflictDetector(lookup BlockingLookup) *ConflictDetector {
	return &ConflictDetector{lookup: lookup}
}

// EnsureNoConflicts hace dos lecturas secuenciales: primero la agenda del
// veterinario, luego la de la mascota. Si ambas chocan gana el veterinario.
// Sin vetID o petID no hay nada que verificar.
func (d *ConflictDetector) EnsureNoConflicts(ctx context.Context, in ConflictCheck) error {
	if in.VetID == 0 || in.PetID == 0 {
		return nil
	}

	candidate := Interval{Start: in.Start, End: in.End}

	if err := d.check(ctx, BlockingFilter{
		VetID:       in.VetID,
		ExcludeID:   in.ExcludeID,
		Overlapping: &candidate,
	}, candidate, ErrVeterinarianConflict); err != nil {
		return err
	}

	return d.check(ctx, BlockingFilter{
		PetID:       in.PetID,
		ExcludeID:   in.ExcludeID,
		Overlapping: &candidate,
	}, candidate, ErrPetConflict)
}

func (d *ConflictDetector) check(ctx context.Context, filter BlockingFilter, candidate Interval, kind error) error {
	existing, err := d.lookup.FindBlocking(ctx, filter)
	if err != nil {
		return fmt.Errorf("find blocking appointments: %w", err)
	}

	// El store ya filtra por solape; se vuelve a comprobar para no depender del adapter.
	for _, a := range existing {
		if !a.Blocks() || (filter.ExcludeID != 0 && a.ID == filter.ExcludeID) {
			continue
		}
		if Overlaps(a.Interval(), candidate) {
			return &ConflictError{Kind: kind, Existing: a}
		}
	}
	return nil
}
