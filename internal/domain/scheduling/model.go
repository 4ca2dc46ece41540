package scheduling

import (
	"strings"
	"time"
)

// Status es el estado de una cita.
// @Enum programada, confirmada, completada, cancelada, no_asistio
type Status string

const (
	StatusScheduled Status = "programada"
	StatusConfirmed Status = "confirmada"
	StatusCompleted Status = "completada"
	StatusCancelled Status = "cancelada"
	StatusNoShow    Status = "no_asistio"
)

// blockingStatuses son los únicos estados que ocupan agenda.
var blockingStatuses = [...]Status{StatusScheduled, StatusCompleted}

// BlockingStatuses devuelve una copia del conjunto de estados que bloquean agenda.
func BlockingStatuses() []Status {
	out := make([]Status, len(blockingStatuses))
	copy(out, blockingStatuses[:])
	return out
}

// Blocking indica si una cita en este estado participa en la detección de conflictos.
func (s Status) Blocking() bool {
	for _, b := range blockingStatuses {
		if s == b {
			return true
		}
	}
	return false
}

// ParseStatus valida un estado recibido como texto.
func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.TrimSpace(raw))
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return s, true
	default:
		return "", false
	}
}

// Appointment es la única entidad que el núcleo de agenda manipula.
// VetID y PetID son referencias opacas; el núcleo no conoce esas entidades.
type Appointment struct {
	ID       int64
	PublicID string // uuid para el portal de reservas

	PetID int64
	VetID int64

	Date            string // YYYY-MM-DD
	Time            string // HH:MM:SS
	DurationMinutes int
	EndTime         string // HH:MM:00

	StartDateTime time.Time
	EndDateTime   time.Time

	Status   Status
	IsActive bool

	Reason string
	Notes  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval devuelve el intervalo [inicio, fin) de la cita.
func (a Appointment) Interval() Interval {
	return Interval{Start: a.StartDateTime, End: a.EndDateTime}
}

// Blocks indica si la cita ocupa agenda: activa y con estado bloqueante.
func (a Appointment) Blocks() bool {
	return a.IsActive && a.Status.Blocking()
}

// ApplySlot copia al registro los campos derivados del cálculo de turno.
func (a *Appointment) ApplySlot(date string, s Slot) {
	a.Date = strings.TrimSpace(date)
	a.Time = s.NormalizedTime
	a.DurationMinutes = s.Duration
	a.EndTime = s.EndTime
	a.StartDateTime = s.StartDateTime
	a.EndDateTime = s.EndDateTime
}
