package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"vet-clinic-scheduling/internal/domain/appointments"
	"vet-clinic-scheduling/internal/domain/scheduling"
)

var (
	ErrNotFound = scheduling.ErrNotFound
)

// appointmentRepo guarda las citas en un mapa. Un único mutex serializa las
// transacciones, así verificar conflictos y escribir es atómico.
type appointmentRepo struct {
	mu   sync.Mutex
	byID map[int64]scheduling.Appointment
	seq  int64
}

func NewAppointmentsRepo() appointments.Repository {
	return &appointmentRepo{
		byID: make(map[int64]scheduling.Appointment),
	}
}

func (r *appointmentRepo) FindBlocking(ctx context.Context, filter scheduling.BlockingFilter) ([]scheduling.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return findBlocking(r.byID, nil, filter), nil
}

func (r *appointmentRepo) GetByID(ctx context.Context, id int64) (scheduling.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return scheduling.Appointment{}, ErrNotFound
	}
	return a, nil
}

func (r *appointmentRepo) GetByPublicID(ctx context.Context, publicID string) (scheduling.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	publicID = strings.TrimSpace(publicID)
	for _, a := range r.byID {
		if a.PublicID == publicID {
			return a, nil
		}
	}
	return scheduling.Appointment{}, ErrNotFound
}

func (r *appointmentRepo) List(ctx context.Context, filter appointments.ListFilter) ([]scheduling.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]scheduling.Appointment, 0)
	for _, a := range r.byID {
		if !filter.IncludeInactive && !a.IsActive {
			continue
		}
		if filter.VetID != 0 && a.VetID != filter.VetID {
			continue
		}
		if filter.PetID != 0 && a.PetID != filter.PetID {
			continue
		}
		if filter.Date != "" && a.Date != filter.Date {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		out = append(out, a)
	}
	sortByStart(out)

	if filter.Offset >= len(out) {
		return []scheduling.Appointment{}, nil
	}
	out = out[filter.Offset:]
	if limit := filter.NormalizedLimit(); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *appointmentRepo) WithinTx(ctx context.Context, fn func(ctx context.Context, tx appointments.Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &memTx{
		repo:    r,
		seq:     r.seq,
		pending: make(map[int64]scheduling.Appointment),
	}
	if err := fn(ctx, tx); err != nil {
		// rollback: se descarta lo pendiente
		return err
	}

	for id, a := range tx.pending {
		r.byID[id] = a
	}
	r.seq = tx.seq
	return nil
}

// memTx corre con el mutex del repo tomado. Las escrituras quedan en pending
// hasta el commit y las lecturas ven pending por encima de lo confirmado.
type memTx struct {
	repo    *appointmentRepo
	seq     int64
	pending map[int64]scheduling.Appointment
}

func (t *memTx) FindBlocking(ctx context.Context, filter scheduling.BlockingFilter) ([]scheduling.Appointment, error) {
	return findBlocking(t.repo.byID, t.pending, filter), nil
}

func (t *memTx) GetByID(ctx context.Context, id int64) (scheduling.Appointment, error) {
	if a, ok := t.pending[id]; ok {
		return a, nil
	}
	a, ok := t.repo.byID[id]
	if !ok {
		return scheduling.Appointment{}, ErrNotFound
	}
	return a, nil
}

func (t *memTx) Create(ctx context.Context, a *scheduling.Appointment) error {
	if a == nil {
		return errors.New("appointment required")
	}
	t.seq++
	a.ID = t.seq
	t.pending[a.ID] = *a
	return nil
}

func (t *memTx) Update(ctx context.Context, a scheduling.Appointment) error {
	if _, err := t.GetByID(ctx, a.ID); err != nil {
		return err
	}
	t.pending[a.ID] = a
	return nil
}

func findBlocking(base, overlay map[int64]scheduling.Appointment, filter scheduling.BlockingFilter) []scheduling.Appointment {
	out := make([]scheduling.Appointment, 0)
	for id, a := range base {
		if p, ok := overlay[id]; ok {
			a = p
		}
		if filter.Matches(a) {
			out = append(out, a)
		}
	}
	for id, a := range overlay {
		if _, seen := base[id]; seen {
			continue
		}
		if filter.Matches(a) {
			out = append(out, a)
		}
	}
	sortByStart(out)
	return out
}

func sortByStart(list []scheduling.Appointment) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].StartDateTime.Equal(list[j].StartDateTime) {
			return list[i].ID < list[j].ID
		}
		return list[i].StartDateTime.Before(list[j].StartDateTime)
	})
}
