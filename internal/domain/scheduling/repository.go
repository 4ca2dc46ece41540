package scheduling

import "context"

// BlockingLookup es la única capacidad de lectura que el núcleo exige a la persistencia.
// Debe devolver sólo citas activas con estado bloqueante, ordenadas por inicio.
type BlockingLookup interface {
	FindBlocking(ctx context.Context, filter BlockingFilter) ([]Appointment, error)
}

// BlockingFilter: los valores cero significan "sin filtrar".
type BlockingFilter struct {
	VetID       int64
	PetID       int64
	ExcludeID   int64
	Date        string    // YYYY-MM-DD
	Overlapping *Interval // si viene, sólo citas que chocan con este rango
}

// Matches aplica el filtro en memoria. Lo usan los adapters que no tienen motor de consultas.
func (f BlockingFilter) Matches(a Appointment) bool {
	if !a.Blocks() {
		return false
	}
	if f.VetID != 0 && a.VetID != f.VetID {
		return false
	}
	if f.PetID != 0 && a.PetID != f.PetID {
		return false
	}
	if f.ExcludeID != 0 && a.ID == f.ExcludeID {
		return false
	}
	if f.Date != "" && a.Date != f.Date {
		return false
	}
	if f.Overlapping != nil && !Overlaps(a.Interval(), *f.Overlapping) {
		return false
	}
	return true
}
