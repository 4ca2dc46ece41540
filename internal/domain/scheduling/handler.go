package scheduling

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *AvailabilityService) {
	// Público: lo consume el portal de reservas sin sesión.
	r.Get("/availability", getAvailabilityHandler(svc))
}

// AppointmentResponse es la representación JSON de una cita; la comparten
// los endpoints de agenda y de citas.
type AppointmentResponse struct {
	ID              int64     `json:"id"`
	PublicID        string    `json:"publicId"`
	PetID           int64     `json:"petId"`
	VetID           int64     `json:"vetId"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	DurationMinutes int       `json:"durationMinutes"`
	EndTime         string    `json:"endTime"`
	StartDateTime   string    `json:"startDateTime"`
	EndDateTime     string    `json:"endDateTime"`
	Status          Status    `json:"status"`
	IsActive        bool      `json:"isActive"`
	Reason          string    `json:"reason,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type gridSlotResponse struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

type availabilityResponse struct {
	VetID           int64                 `json:"vetId"`
	Date            string                `json:"date"`
	DurationMinutes int                   `json:"durationMinutes"`
	StepMinutes     int                   `json:"stepMinutes"`
	OpeningTime     string                `json:"openingTime"`
	ClosingTime     string                `json:"closingTime"`
	Slots           []gridSlotResponse    `json:"slots"`
	Appointments    []AppointmentResponse `json:"appointments"`
}

// getAvailabilityHandler godoc
// @Summary Turnos disponibles de un veterinario
// @Description Genera la grilla de turnos del día entre apertura y cierre, marcando cada turno como disponible o no según las citas bloqueantes (programada, completada) del veterinario.
// @Tags availability
// @Produce json
// @Param vetId query int true "ID del veterinario"
// @Param date query string true "Fecha YYYY-MM-DD"
// @Param durationMinutes query int false "Duración de cada turno (5-480). Por defecto 30"
// @Param stepMinutes query int false "Paso entre turnos (5-240). Por defecto la duración"
// @Param openingTime query string false "Apertura HH:MM. Por defecto 09:00"
// @Param closingTime query string false "Cierre HH:MM. Por defecto 18:00"
// @Success 200 {object} availabilityResponse
// @Failure 400 {object} map[string]string "parámetros inválidos"
// @Failure 500 {object} map[string]string "internal error"
// @Router /availability [get]
func getAvailabilityHandler(svc *AvailabilityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseAvailabilityQuery(r)
		if err != nil {
			WriteError(w, err)
			return
		}

		out, err := svc.GetAvailability(r.Context(), q)
		if err != nil {
			WriteError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAvailabilityResponse(out))
	}
}

func parseAvailabilityQuery(r *http.Request) (AvailabilityQuery, error) {
	v := r.URL.Query()

	q := AvailabilityQuery{
		Date:        strings.TrimSpace(v.Get("date")),
		OpeningTime: strings.TrimSpace(v.Get("openingTime")),
		ClosingTime: strings.TrimSpace(v.Get("closingTime")),
	}

	if raw := strings.TrimSpace(v.Get("vetId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return AvailabilityQuery{}, fmt.Errorf("%w: vetId must be a positive integer", ErrMissingParameter)
		}
		q.VetID = id
	}

	d, err := PositiveMinutes(v.Get("durationMinutes"), ErrInvalidDuration)
	if err != nil {
		return AvailabilityQuery{}, err
	}
	q.DurationMinutes = d

	s, err := PositiveMinutes(v.Get("stepMinutes"), ErrInvalidStep)
	if err != nil {
		return AvailabilityQuery{}, err
	}
	q.StepMinutes = s

	return q, nil
}

// PositiveMinutes interpreta un parámetro de minutos: vacío, no numérico o no
// positivo devuelve 0 (usar el default); un positivo no entero es inválido.
func PositiveMinutes(raw string, invalid error) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || f <= 0 {
		return 0, nil
	}
	if f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, fmt.Errorf("%w: got %s", invalid, raw)
	}
	return int(f), nil
}

func toAvailabilityResponse(a Availability) availabilityResponse {
	slots := make([]gridSlotResponse, 0, len(a.Slots))
	for _, s := range a.Slots {
		slots = append(slots, gridSlotResponse{Start: s.Start, End: s.End, Available: s.Available})
	}
	appts := make([]AppointmentResponse, 0, len(a.Appointments))
	for _, ap := range a.Appointments {
		appts = append(appts, ToAppointmentResponse(ap))
	}

	return availabilityResponse{
		VetID:           a.VetID,
		Date:            a.Date,
		DurationMinutes: a.DurationMinutes,
		StepMinutes:     a.StepMinutes,
		OpeningTime:     a.OpeningTime[:5],
		ClosingTime:     a.ClosingTime[:5],
		Slots:           slots,
		Appointments:    appts,
	}
}

func ToAppointmentResponse(a Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:              a.ID,
		PublicID:        a.PublicID,
		PetID:           a.PetID,
		VetID:           a.VetID,
		Date:            a.Date,
		Time:            a.Time,
		DurationMinutes: a.DurationMinutes,
		EndTime:         a.EndTime,
		StartDateTime:   a.StartDateTime.Format(DateLayout + "T" + TimeLayout),
		EndDateTime:     a.EndDateTime.Format(DateLayout + "T" + TimeLayout),
		Status:          a.Status,
		IsActive:        a.IsActive,
		Reason:          a.Reason,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// WriteError responde {"error": msg} con el código que corresponde al error.
// Los 5xx no exponen el detalle.
func WriteError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
