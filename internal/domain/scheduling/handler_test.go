package scheduling

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestPositiveMinutes(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"abc", 0, false},
		{"0", 0, false},
		{"-15", 0, false},
		{"45", 45, false},
		{"45.0", 45, false},
		{"45.5", 0, true},
	}
	for _, tt := range tests {
		got, err := PositiveMinutes(tt.raw, ErrInvalidStep)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("PositiveMinutes(%q) = %d, %v", tt.raw, got, err)
		}
		if err != nil && !errors.Is(err, ErrInvalidStep) {
			t.Errorf("PositiveMinutes(%q) wrong error kind: %v", tt.raw, err)
		}
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{fmt.Errorf("%w: x", ErrInvalidDuration), http.StatusBadRequest},
		{ErrInvalidBusinessHours, http.StatusBadRequest},
		{&ConflictError{Kind: ErrPetConflict}, http.StatusConflict},
		{ErrNotFound, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestAvailabilityHandler_InvalidVetID(t *testing.T) {
	r := chi.NewRouter()
	RegisterRoutes(r, NewAvailabilityService(&testLookup{}, BusinessHours{}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/availability?vetId=abc&date=2025-01-10", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("pq: password authentication failed"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "internal error" {
		t.Fatalf("leaked detail: %s", rec.Body.String())
	}
}
