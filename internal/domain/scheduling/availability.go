package scheduling

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// BusinessHours son el horario de apertura/cierre por defecto de la clínica.
type BusinessHours struct {
	Opening string
	Closing string
}

var DefaultBusinessHours = BusinessHours{Opening: "09:00", Closing: "18:00"}

type AvailabilityQuery struct {
	VetID           int64
	Date            string
	DurationMinutes int // <= 0 usa 30
	StepMinutes     int // <= 0 usa la duración
	OpeningTime     string
	ClosingTime     string
}

// GridSlot es un turno candidato en formato HH:MM.
type GridSlot struct {
	Start     string
	End       string
	Available bool
}

// Availability devuelve la grilla junto con los parámetros resueltos
// y las citas del día, para que el cliente pinte el calendario.
type Availability struct {
	VetID           int64
	Date            string
	DurationMinutes int
	StepMinutes     int
	OpeningTime     string
	ClosingTime     string

	Slots        []GridSlot
	Appointments []Appointment
}

type AvailabilityService struct {
	lookup BlockingLookup
	hours  BusinessHours
}

func NewAvailabilityService(lookup BlockingLookup, hours BusinessHours) *AvailabilityService {
	if strings.TrimSpace(hours.Opening) == "" {
		hours.Opening = DefaultBusinessHours.Opening
	}
	if strings.TrimSpace(hours.Closing) == "" {
		hours.Closing = DefaultBusinessHours.Closing
	}
	return &AvailabilityService{lookup: lookup, hours: hours}
}

// GetAvailability enumera los turnos de un día para un veterinario.
// Las citas del día se consultan una sola vez; cada turno se compara contra todas.
func (s *AvailabilityService) GetAvailability(ctx context.Context, q AvailabilityQuery) (Availability, error) {
	date := strings.TrimSpace(q.Date)
	if q.VetID == 0 {
		return Availability{}, fmt.Errorf("%w: vetId", ErrMissingParameter)
	}
	if date == "" {
		return Availability{}, fmt.Errorf("%w: date", ErrMissingParameter)
	}

	duration := q.DurationMinutes
	if duration <= 0 {
		duration = DefaultDurationMinutes
	}
	if duration < MinDurationMinutes || duration > MaxDurationMinutes {
		return Availability{}, fmt.Errorf("%w: got %d", ErrInvalidDuration, duration)
	}

	step := q.StepMinutes
	if step <= 0 {
		step = duration
	}
	if step < MinStepMinutes || step > MaxStepMinutes {
		return Availability{}, fmt.Errorf("%w: got %d", ErrInvalidStep, step)
	}

	openingRaw := strings.TrimSpace(q.OpeningTime)
	if openingRaw == "" {
		openingRaw = s.hours.Opening
	}
	closingRaw := strings.TrimSpace(q.ClosingTime)
	if closingRaw == "" {
		closingRaw = s.hours.Closing
	}

	opening, err := CombineDateTime(date, NormalizeTime(openingRaw))
	if err != nil {
		return Availability{}, err
	}
	closing, err := CombineDateTime(date, NormalizeTime(closingRaw))
	if err != nil {
		return Availability{}, err
	}
	if !closing.After(opening) {
		return Availability{}, ErrInvalidBusinessHours
	}

	booked, err := s.lookup.FindBlocking(ctx, BlockingFilter{VetID: q.VetID, Date: date})
	if err != nil {
		return Availability{}, fmt.Errorf("find blocking appointments: %w", err)
	}

	slotLen := time.Duration(duration) * time.Minute
	stepLen := time.Duration(step) * time.Minute

	slots := make([]GridSlot, 0)
	for cur := opening; !cur.Add(slotLen).After(closing); cur = cur.Add(stepLen) {
		candidate := Interval{Start: cur, End: cur.Add(slotLen)}
		slots = append(slots, GridSlot{
			Start:     hhmm(candidate.Start),
			End:       hhmm(candidate.End),
			Available: !overlapsAny(candidate, booked),
		})
	}

	return Availability{
		VetID:           q.VetID,
		Date:            date,
		DurationMinutes: duration,
		StepMinutes:     step,
		OpeningTime:     opening.Format(TimeLayout),
		ClosingTime:     closing.Format(TimeLayout),
		Slots:           slots,
		Appointments:    booked,
	}, nil
}

func overlapsAny(candidate Interval, booked []Appointment) bool {
	for _, a := range booked {
		if Overlaps(candidate, a.Interval()) {
			return true
		}
	}
	return false
}
