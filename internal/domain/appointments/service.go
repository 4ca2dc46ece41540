package appointments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vet-clinic-scheduling/internal/domain/scheduling"

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

type BookInput struct {
	PetID           int64
	VetID           int64
	Date            string
	Time            string
	DurationMinutes int // 0 = default 30
	Status          string
	Reason          string
	Notes           string
}

// Book calcula el turno, verifica conflictos y persiste, todo dentro de la misma transacción.
func (s *Service) Book(ctx context.Context, in BookInput) (scheduling.Appointment, error) {
	if in.PetID <= 0 {
		return scheduling.Appointment{}, fmt.Errorf("%w: petId", scheduling.ErrMissingParameter)
	}
	if in.VetID < 0 {
		return scheduling.Appointment{}, fmt.Errorf("%w: vetId", scheduling.ErrMissingParameter)
	}

	status := scheduling.StatusScheduled
	if strings.TrimSpace(in.Status) != "" {
		st, ok := scheduling.ParseStatus(in.Status)
		if !ok {
			return scheduling.Appointment{}, fmt.Errorf("%w: %q", scheduling.ErrInvalidStatus, in.Status)
		}
		status = st
	}

	slot, err := scheduling.ComputeSlot(in.Date, in.Time, in.DurationMinutes)
	if err != nil {
		return scheduling.Appointment{}, err
	}

	now := s.now()
	a := scheduling.Appointment{
		PublicID:  uuid.NewString(),
		PetID:     in.PetID,
		VetID:     in.VetID,
		Status:    status,
		IsActive:  status != scheduling.StatusCancelled,
		Reason:    strings.TrimSpace(in.Reason),
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	a.ApplySlot(in.Date, slot)

	err = s.repo.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		if err := scheduling.NewConflictDetector(tx).EnsureNoConflicts(ctx, conflictCheck(a)); err != nil {
			return err
		}
		return tx.Create(ctx, &a)
	})
	if err != nil {
		return scheduling.Appointment{}, err
	}
	return a, nil
}

// RescheduleInput: punteros para PATCH real, nil = no tocar.
type RescheduleInput struct {
	Date            *string
	Time            *string
	DurationMinutes *int
	VetID           *int64
	PetID           *int64
	Status          *string
	Reason          *string
	Notes           *string
}

// Reschedule aplica cambios a una cita activa y vuelve a verificar conflictos
// excluyendo la propia cita.
func (s *Service) Reschedule(ctx context.Context, id int64, in RescheduleInput) (scheduling.Appointment, error) {
	if id <= 0 {
		return scheduling.Appointment{}, scheduling.ErrNotFound
	}

	var out scheduling.Appointment
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		cur, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !cur.IsActive {
			return scheduling.ErrNotFound
		}

		next, err := s.merge(cur, in)
		if err != nil {
			return err
		}

		if next.Blocks() {
			if err := scheduling.NewConflictDetector(tx).EnsureNoConflicts(ctx, conflictCheck(next)); err != nil {
				return err
			}
		}

		if err := tx.Update(ctx, next); err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return scheduling.Appointment{}, err
	}
	return out, nil
}

func (s *Service) merge(cur scheduling.Appointment, in RescheduleInput) (scheduling.Appointment, error) {
	next := cur

	date, clock, duration := cur.Date, cur.Time, cur.DurationMinutes
	if in.Date != nil {
		date = *in.Date
	}
	if in.Time != nil {
		clock = *in.Time
	}
	if in.DurationMinutes != nil {
		duration = *in.DurationMinutes
	}

	slot, err := scheduling.ComputeSlot(date, clock, duration)
	if err != nil {
		return scheduling.Appointment{}, err
	}
	next.ApplySlot(date, slot)

	if in.VetID != nil {
		if *in.VetID < 0 {
			return scheduling.Appointment{}, fmt.Errorf("%w: vetId", scheduling.ErrMissingParameter)
		}
		next.VetID = *in.VetID
	}
	if in.PetID != nil {
		if *in.PetID <= 0 {
			return scheduling.Appointment{}, fmt.Errorf("%w: petId", scheduling.ErrMissingParameter)
		}
		next.PetID = *in.PetID
	}
	if in.Status != nil {
		st, ok := scheduling.ParseStatus(*in.Status)
		if !ok {
			return scheduling.Appointment{}, fmt.Errorf("%w: %q", scheduling.ErrInvalidStatus, *in.Status)
		}
		next.Status = st
		// cancelar por PATCH equivale a Cancel
		if st == scheduling.StatusCancelled {
			next.IsActive = false
		}
	}
	if in.Reason != nil {
		next.Reason = strings.TrimSpace(*in.Reason)
	}
	if in.Notes != nil {
		next.Notes = strings.TrimSpace(*in.Notes)
	}

	next.UpdatedAt = s.now()
	return next, nil
}

// Cancel es una baja lógica: isActive=false y status=cancelada. Idempotente.
func (s *Service) Cancel(ctx context.Context, id int64) (scheduling.Appointment, error) {
	if id <= 0 {
		return scheduling.Appointment{}, scheduling.ErrNotFound
	}

	var out scheduling.Appointment
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		cur, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !cur.IsActive && cur.Status == scheduling.StatusCancelled {
			out = cur
			return nil
		}

		cur.IsActive = false
		cur.Status = scheduling.StatusCancelled
		cur.UpdatedAt = s.now()
		if err := tx.Update(ctx, cur); err != nil {
			return err
		}
		out = cur
		return nil
	})
	if err != nil {
		return scheduling.Appointment{}, err
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (scheduling.Appointment, error) {
	if id <= 0 {
		return scheduling.Appointment{}, scheduling.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByPublicID(ctx context.Context, publicID string) (scheduling.Appointment, error) {
	publicID = strings.TrimSpace(publicID)
	if _, err := uuid.Parse(publicID); err != nil {
		return scheduling.Appointment{}, scheduling.ErrNotFound
	}
	return s.repo.GetByPublicID(ctx, publicID)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]scheduling.Appointment, error) {
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Limit = filter.NormalizedLimit()
	return s.repo.List(ctx, filter)
}

func conflictCheck(a scheduling.Appointment) scheduling.ConflictCheck {
	return scheduling.ConflictCheck{
		VetID:     a.VetID,
		PetID:     a.PetID,
		Start:     a.StartDateTime,
		End:       a.EndDateTime,
		ExcludeID: a.ID,
	}
}
