package scheduling

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidDuration      = errors.New("durationMinutes must be an integer between 5 and 480")
	ErrInvalidStep          = errors.New("stepMinutes must be an integer between 5 and 240")
	ErrInvalidDateTime      = errors.New("invalid date/time")
	ErrInvalidBusinessHours = errors.New("closingTime must be after openingTime")
	ErrMissingParameter     = errors.New("missing required parameter")
	ErrInvalidStatus        = errors.New("invalid appointment status")
	ErrInvalidInput         = errors.New("invalid input")

	ErrVeterinarianConflict = errors.New("the veterinarian already has an appointment in that time range")
	ErrPetConflict          = errors.New("the pet already has an appointment in that time range")

	ErrNotFound = errors.New("appointment not found")
)

// ConflictError identifica la cita existente que choca con el intervalo pedido.
type ConflictError struct {
	Kind     error // ErrVeterinarianConflict o ErrPetConflict
	Existing Appointment
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s (appointment %d, %s %s-%s)",
		e.Kind.Error(), e.Existing.ID, e.Existing.Date, hhmm(e.Existing.StartDateTime), hhmm(e.Existing.EndDateTime))
}

func (e *ConflictError) Unwrap() error { return e.Kind }

// HTTPStatus traduce un error del núcleo al código HTTP que debe responder el handler.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidDuration),
		errors.Is(err, ErrInvalidStep),
		errors.Is(err, ErrInvalidDateTime),
		errors.Is(err, ErrInvalidBusinessHours),
		errors.Is(err, ErrMissingParameter),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrVeterinarianConflict), errors.Is(err, ErrPetConflict):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
