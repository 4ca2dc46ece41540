package scheduling

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultDurationMinutes = 30
	MinDurationMinutes     = 5
	MaxDurationMinutes     = 480

	MinStepMinutes = 5
	MaxStepMinutes = 240

	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// wallClock es la "zona" de los instantes de agenda. Se usa UTC sólo como reloj
// sin zona: fecha+hora se combinan tal cual y nunca se convierten.
var wallClock = time.UTC

// Interval es un rango semiabierto [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps: dos rangos chocan sii a.Start < b.End && a.End > b.Start.
// Rangos que sólo se tocan en un extremo no chocan.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// Slot es el resultado canónico de ComputeSlot.
type Slot struct {
	Duration       int
	NormalizedTime string
	StartDateTime  time.Time
	EndDateTime    time.Time
	EndTime        string
}

// Interval devuelve el rango ocupado por el turno.
func (s Slot) Interval() Interval {
	return Interval{Start: s.StartDateTime, End: s.EndDateTime}
}

// ComputeSlot convierte (fecha, hora, duración) en un intervalo canónico.
// durationMinutes == 0 significa "no informado" y usa 30 minutos.
// No valida horario de atención.
func ComputeSlot(date, clock string, durationMinutes int) (Slot, error) {
	duration := durationMinutes
	if duration == 0 {
		duration = DefaultDurationMinutes
	}
	if duration < MinDurationMinutes || duration > MaxDurationMinutes {
		return Slot{}, fmt.Errorf("%w: got %d", ErrInvalidDuration, durationMinutes)
	}

	if strings.TrimSpace(date) == "" {
		return Slot{}, fmt.Errorf("%w: date", ErrMissingParameter)
	}
	if strings.TrimSpace(clock) == "" {
		return Slot{}, fmt.Errorf("%w: time", ErrMissingParameter)
	}

	normalized := NormalizeTime(clock)
	start, err := CombineDateTime(date, normalized)
	if err != nil {
		return Slot{}, err
	}
	end := start.Add(time.Duration(duration) * time.Minute)

	return Slot{
		Duration:       duration,
		NormalizedTime: normalized,
		StartDateTime:  start,
		EndDateTime:    end,
		EndTime:        end.Format("15:04") + ":00",
	}, nil
}

// NormalizeTime lleva H:MM, HH:MM o HH:MM:SS a HH:MM:SS rellenando con ceros.
// Es idempotente sobre valores ya normalizados. Entradas con otra forma se
// devuelven recortadas y fallan luego en CombineDateTime.
func NormalizeTime(clock string) string {
	clock = strings.TrimSpace(clock)
	parts := strings.Split(clock, ":")

	switch len(parts) {
	case 2:
		return pad2(parts[0]) + ":" + pad2(parts[1]) + ":00"
	case 3:
		return pad2(parts[0]) + ":" + pad2(parts[1]) + ":" + pad2(parts[2])
	default:
		return clock
	}
}

// CombineDateTime une una fecha YYYY-MM-DD y una hora HH:MM:SS en un instante de pared.
func CombineDateTime(date, normalizedTime string) (time.Time, error) {
	raw := strings.TrimSpace(date) + "T" + strings.TrimSpace(normalizedTime)
	t, err := time.ParseInLocation(DateLayout+"T"+TimeLayout, raw, wallClock)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateTime, raw)
	}
	return t, nil
}

// ParseDate valida una fecha YYYY-MM-DD.
func ParseDate(date string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), wallClock)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidDateTime, date)
	}
	return t, nil
}

func pad2(s string) string {
	s = strings.TrimSpace(s)
	for len(s) < 2 {
		s = "0" + s
	}
	return s
}

func hhmm(t time.Time) string {
	return t.Format("15:04")
}
