package appointments

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"vet-clinic-scheduling/internal/domain/scheduling"
	"vet-clinic-scheduling/internal/middleware"
	"vet-clinic-scheduling/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Post("/", bookHandler(svc, log))
		ar.Get("/", listHandler(svc, log))

		ar.Get("/{appointmentID}", getHandler(svc, log))
		ar.Patch("/{appointmentID}", rescheduleHandler(svc, log))
		ar.Post("/{appointmentID}/cancel", cancelHandler(svc, log))
	})

	// Portal de reservas: consulta por publicId, sin sesión.
	r.Get("/public/appointments/{publicID}", getPublicHandler(svc, log))
}

type bookRequest struct {
	PetID           int64    `json:"petId"`
	VetID           int64    `json:"vetId"`
	Date            string   `json:"date"` // YYYY-MM-DD
	Time            string   `json:"time"` // H:MM, HH:MM o HH:MM:SS
	DurationMinutes *float64 `json:"durationMinutes"`
	Status          string   `json:"status"`
	Reason          string   `json:"reason"`
	Notes           string   `json:"notes"`
}

type rescheduleRequest struct {
	Date            *string  `json:"date"`
	Time            *string  `json:"time"`
	DurationMinutes *float64 `json:"durationMinutes"`
	VetID           *int64   `json:"vetId"`
	PetID           *int64   `json:"petId"`
	Status          *string  `json:"status"`
	Reason          *string  `json:"reason"`
	Notes           *string  `json:"notes"`
}

// bookHandler godoc
// @Summary Reservar cita
// @Description Calcula el turno, verifica que ni el veterinario ni la mascota tengan otra cita bloqueante solapada y la persiste.
// @Tags appointments
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body bookRequest true "Datos de la cita"
// @Success 201 {object} scheduling.AppointmentResponse
// @Failure 400 {object} map[string]string "validación"
// @Failure 401 {object} map[string]string "unauthorized"
// @Failure 409 {object} map[string]string "conflicto de agenda"
// @Router /appointments [post]
func bookHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		var req bookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, log, errInvalidJSON)
			return
		}

		duration, err := wholeMinutes(req.DurationMinutes)
		if err != nil {
			writeError(w, r, log, err)
			return
		}

		a, err := svc.Book(r.Context(), BookInput{
			PetID:           req.PetID,
			VetID:           req.VetID,
			Date:            req.Date,
			Time:            req.Time,
			DurationMinutes: duration,
			Status:          req.Status,
			Reason:          req.Reason,
			Notes:           req.Notes,
		})
		if err != nil {
			writeError(w, r, log, err)
			return
		}

		writeJSON(w, http.StatusCreated, scheduling.ToAppointmentResponse(a))
	}
}

// listHandler godoc
// @Summary Listar citas
// @Tags appointments
// @Produce json
// @Param vetId query int false "Filtra por veterinario"
// @Param petId query int false "Filtra por mascota"
// @Param date query string false "Fecha YYYY-MM-DD"
// @Param status query string false "programada, confirmada, completada, cancelada, no_asistio"
// @Param includeInactive query bool false "Incluye citas dadas de baja"
// @Param limit query int false "1-200. Por defecto 50"
// @Param offset query int false "Desplazamiento"
// @Success 200 {array} scheduling.AppointmentResponse
// @Failure 400 {object} map[string]string "filtros inválidos"
// @Router /appointments [get]
func listHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		filter, err := parseListFilter(r)
		if err != nil {
			writeError(w, r, log, err)
			return
		}

		items, err := svc.List(r.Context(), filter)
		if err != nil {
			writeError(w, r, log, err)
			return
		}

		out := make([]scheduling.AppointmentResponse, 0, len(items))
		for _, a := range items {
			out = append(out, scheduling.ToAppointmentResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getHandler godoc
// @Summary Obtener cita
// @Tags appointments
// @Produce json
// @Param appointmentID path int true "ID de la cita"
// @Success 200 {object} scheduling.AppointmentResponse
// @Failure 404 {object} map[string]string "appointment not found"
// @Router /appointments/{appointmentID} [get]
func getHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		a, err := svc.GetByID(r.Context(), appointmentID(r))
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, scheduling.ToAppointmentResponse(a))
	}
}

// rescheduleHandler godoc
// @Summary Reprogramar / actualizar cita
// @Description Cambia fecha, hora, duración, veterinario, mascota o estado. Vuelve a verificar conflictos excluyendo la propia cita.
// @Tags appointments
// @Accept json
// @Produce json
// @Param appointmentID path int true "ID de la cita"
// @Param payload body rescheduleRequest true "Campos a cambiar"
// @Success 200 {object} scheduling.AppointmentResponse
// @Failure 400 {object} map[string]string "validación"
// @Failure 404 {object} map[string]string "appointment not found"
// @Failure 409 {object} map[string]string "conflicto de agenda"
// @Router /appointments/{appointmentID} [patch]
func rescheduleHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req rescheduleRequest
		if err := dec.Decode(&req); err != nil {
			writeError(w, r, log, errInvalidJSON)
			return
		}

		in := RescheduleInput{
			Date:   req.Date,
			Time:   req.Time,
			VetID:  req.VetID,
			PetID:  req.PetID,
			Status: req.Status,
			Reason: req.Reason,
			Notes:  req.Notes,
		}
		if req.DurationMinutes != nil {
			d, err := wholeMinutes(req.DurationMinutes)
			if err != nil {
				writeError(w, r, log, err)
				return
			}
			in.DurationMinutes = &d
		}

		a, err := svc.Reschedule(r.Context(), appointmentID(r), in)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, scheduling.ToAppointmentResponse(a))
	}
}

// cancelHandler godoc
// @Summary Cancelar cita
// @Description Baja lógica: isActive=false y status=cancelada. Libera el turno.
// @Tags appointments
// @Produce json
// @Param appointmentID path int true "ID de la cita"
// @Success 200 {object} scheduling.AppointmentResponse
// @Failure 404 {object} map[string]string "appointment not found"
// @Router /appointments/{appointmentID}/cancel [post]
func cancelHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		a, err := svc.Cancel(r.Context(), appointmentID(r))
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, scheduling.ToAppointmentResponse(a))
	}
}

// getPublicHandler godoc
// @Summary Consultar cita desde el portal
// @Tags appointments
// @Produce json
// @Param publicID path string true "publicId (uuid) de la cita"
// @Success 200 {object} scheduling.AppointmentResponse
// @Failure 404 {object} map[string]string "appointment not found"
// @Router /public/appointments/{publicID} [get]
func getPublicHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByPublicID(r.Context(), chi.URLParam(r, "publicID"))
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, scheduling.ToAppointmentResponse(a))
	}
}

var errInvalidJSON = fmt.Errorf("%w: invalid json", scheduling.ErrInvalidInput)

func requireUser(w http.ResponseWriter, r *http.Request) bool {
	if _, ok := middleware.GetClaims(r.Context()); !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return false
	}
	return true
}

func appointmentID(r *http.Request) int64 {
	id, err := strconv.ParseInt(chi.URLParam(r, "appointmentID"), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// wholeMinutes: nil o 0 = no informado; un valor no entero es una duración inválida.
func wholeMinutes(v *float64) (int, error) {
	if v == nil {
		return 0, nil
	}
	f := *v
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: got %v", scheduling.ErrInvalidDuration, f)
	}
	return int(f), nil
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	v := r.URL.Query()
	var filter ListFilter

	ids := map[string]*int64{"vetId": &filter.VetID, "petId": &filter.PetID}
	for name, dst := range ids {
		raw := strings.TrimSpace(v.Get(name))
		if raw == "" {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return ListFilter{}, fmt.Errorf("%w: %s must be a positive integer", scheduling.ErrInvalidInput, name)
		}
		*dst = n
	}

	if raw := strings.TrimSpace(v.Get("date")); raw != "" {
		if _, err := scheduling.ParseDate(raw); err != nil {
			return ListFilter{}, err
		}
		filter.Date = raw
	}

	if raw := strings.TrimSpace(v.Get("status")); raw != "" {
		st, ok := scheduling.ParseStatus(raw)
		if !ok {
			return ListFilter{}, fmt.Errorf("%w: %q", scheduling.ErrInvalidStatus, raw)
		}
		filter.Status = st
	}

	if raw := strings.TrimSpace(v.Get("includeInactive")); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return ListFilter{}, fmt.Errorf("%w: includeInactive must be a boolean", scheduling.ErrInvalidInput)
		}
		filter.IncludeInactive = b
	}

	if n, err := strconv.Atoi(v.Get("limit")); err == nil && n > 0 {
		filter.Limit = n
	}
	if n, err := strconv.Atoi(v.Get("offset")); err == nil && n > 0 {
		filter.Offset = n
	}

	return filter, nil
}

// writeError traduce el error y deja rastro en el log sólo si es un 5xx.
func writeError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	if scheduling.HTTPStatus(err) >= http.StatusInternalServerError && log != nil {
		log.Error("appointments request failed", map[string]any{
			"request_id": chimw.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"error":      err.Error(),
		})
	}

	var ce *scheduling.ConflictError
	if errors.As(err, &ce) {
		writeJSON(w, http.StatusConflict, conflictResponse{
			Error:       err.Error(),
			Conflicting: scheduling.ToAppointmentResponse(ce.Existing),
		})
		return
	}
	scheduling.WriteError(w, err)
}

type conflictResponse struct {
	Error       string                         `json:"error"`
	Conflicting scheduling.AppointmentResponse `json:"conflicting"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
