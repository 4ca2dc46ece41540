package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"vet-clinic-scheduling/internal/router"
)

const staffID = "recepcion-1"

type appointmentBody struct {
	ID            int64  `json:"id"`
	PublicID      string `json:"publicId"`
	Time          string `json:"time"`
	EndTime       string `json:"endTime"`
	StartDateTime string `json:"startDateTime"`
	EndDateTime   string `json:"endDateTime"`
	Status        string `json:"status"`
	IsActive      bool   `json:"isActive"`
}

type availabilityBody struct {
	OpeningTime string `json:"openingTime"`
	ClosingTime string `json:"closingTime"`
	Slots       []struct {
		Start     string `json:"start"`
		End       string `json:"end"`
		Available bool   `json:"available"`
	} `json:"slots"`
}

func TestHTTP_EndToEnd_BookingConflictsAndCancel(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	// 1) Vet 2 a las 10:00 por 30 min
	first := book(t, ts.URL, map[string]any{
		"petId": 1, "vetId": 2, "date": "2025-01-10", "time": "10:00", "durationMinutes": 30,
	})
	if first.Time != "10:00:00" || first.EndTime != "10:30:00" || first.Status != "programada" {
		t.Fatalf("unexpected booking: %+v", first)
	}
	if first.StartDateTime != "2025-01-10T10:00:00" || first.EndDateTime != "2025-01-10T10:30:00" {
		t.Fatalf("unexpected interval: %s - %s", first.StartDateTime, first.EndDateTime)
	}

	// 2) 10:15 choca con el vet
	{
		st, body := doReq(t, ts.URL, "POST", "/appointments", staffID, map[string]any{
			"petId": 3, "vetId": 2, "date": "2025-01-10", "time": "10:15", "durationMinutes": 30,
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 overlapping vet, got %d body=%s", st, string(body))
		}
		var resp struct {
			Error       string          `json:"error"`
			Conflicting appointmentBody `json:"conflicting"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Conflicting.ID != first.ID {
			t.Fatalf("expected conflicting appointment %d, body=%s", first.ID, string(body))
		}
	}

	// 3) 10:30 toca el borde: no choca
	book(t, ts.URL, map[string]any{
		"petId": 3, "vetId": 2, "date": "2025-01-10", "time": "10:30", "durationMinutes": 30,
	})

	// 4) Misma mascota con otro vet en el mismo horario => conflicto de mascota
	{
		st, body := doReq(t, ts.URL, "POST", "/appointments", staffID, map[string]any{
			"petId": 1, "vetId": 5, "date": "2025-01-10", "time": "10:10",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 overlapping pet, got %d body=%s", st, string(body))
		}
	}

	// 5) Cancelar libera el turno
	{
		st, body := doReq(t, ts.URL, "POST", "/appointments/"+itoa(first.ID)+"/cancel", staffID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 cancel, got %d body=%s", st, string(body))
		}
		var a appointmentBody
		_ = json.Unmarshal(body, &a)
		if a.Status != "cancelada" || a.IsActive {
			t.Fatalf("unexpected cancelled appointment: %+v", a)
		}
	}
	book(t, ts.URL, map[string]any{
		"petId": 4, "vetId": 2, "date": "2025-01-10", "time": "10:15", "durationMinutes": 15,
	})

	// 6) Portal público por publicId
	{
		st, body := doReq(t, ts.URL, "GET", "/public/appointments/"+first.PublicID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 public lookup, got %d body=%s", st, string(body))
		}
		st, _ = doReq(t, ts.URL, "GET", "/public/appointments/not-a-uuid", "", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for bad public id, got %d", st)
		}
	}
}

func TestHTTP_Reschedule_ExcludesItself(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	a := book(t, ts.URL, map[string]any{
		"petId": 1, "vetId": 2, "date": "2025-01-10", "time": "10:00", "durationMinutes": 30,
	})
	book(t, ts.URL, map[string]any{
		"petId": 2, "vetId": 2, "date": "2025-01-10", "time": "11:00", "durationMinutes": 30,
	})

	// correrla 15 minutos sólo se solapa consigo misma
	st, body := doReq(t, ts.URL, "PATCH", "/appointments/"+itoa(a.ID), staffID, map[string]any{"time": "10:15"})
	if st != http.StatusOK {
		t.Fatalf("expected 200 reschedule, got %d body=%s", st, string(body))
	}
	var got appointmentBody
	_ = json.Unmarshal(body, &got)
	if got.Time != "10:15:00" || got.EndTime != "10:45:00" {
		t.Fatalf("unexpected reschedule: %+v", got)
	}

	// alargarla hasta pisar la de las 11:00
	st, body = doReq(t, ts.URL, "PATCH", "/appointments/"+itoa(a.ID), staffID, map[string]any{"durationMinutes": 60})
	if st != http.StatusConflict {
		t.Fatalf("expected 409 reschedule into next appointment, got %d body=%s", st, string(body))
	}

	st, _ = doReq(t, ts.URL, "PATCH", "/appointments/"+itoa(a.ID), staffID, map[string]any{"color": "rojo"})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 unknown field, got %d", st)
	}
}

func TestHTTP_Availability_Grid(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	book(t, ts.URL, map[string]any{
		"petId": 1, "vetId": 2, "date": "2025-01-10", "time": "09:00", "durationMinutes": 30,
	})

	st, body := doReq(t, ts.URL, "GET",
		"/availability?vetId=2&date=2025-01-10&durationMinutes=30&openingTime=09:00&closingTime=10:00", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 availability, got %d body=%s", st, string(body))
	}

	var grid availabilityBody
	if err := json.Unmarshal(body, &grid); err != nil {
		t.Fatalf("decode: %v body=%s", err, string(body))
	}
	if grid.OpeningTime != "09:00" || grid.ClosingTime != "10:00" {
		t.Fatalf("unexpected hours: %+v", grid)
	}
	if len(grid.Slots) != 2 {
		t.Fatalf("expected 2 slots, got %d body=%s", len(grid.Slots), string(body))
	}
	if grid.Slots[0].Start != "09:00" || grid.Slots[0].End != "09:30" || grid.Slots[0].Available {
		t.Fatalf("unexpected first slot: %+v", grid.Slots[0])
	}
	if grid.Slots[1].Start != "09:30" || grid.Slots[1].End != "10:00" || !grid.Slots[1].Available {
		t.Fatalf("unexpected second slot: %+v", grid.Slots[1])
	}
}

func TestHTTP_ValidationErrors(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	tests := []struct {
		name   string
		method string
		path   string
		user   string
		body   any
		want   int
	}{
		{"duration too short", "POST", "/appointments", staffID,
			map[string]any{"petId": 1, "vetId": 2, "date": "2025-01-10", "time": "10:00", "durationMinutes": 3}, http.StatusBadRequest},
		{"duration not integer", "POST", "/appointments", staffID,
			map[string]any{"petId": 1, "vetId": 2, "date": "2025-01-10", "time": "10:00", "durationMinutes": 30.5}, http.StatusBadRequest},
		{"bad date", "POST", "/appointments", staffID,
			map[string]any{"petId": 1, "vetId": 2, "date": "2025-02-30", "time": "10:00"}, http.StatusBadRequest},
		{"missing pet", "POST", "/appointments", staffID,
			map[string]any{"vetId": 2, "date": "2025-01-10", "time": "10:00"}, http.StatusBadRequest},
		{"unknown status", "POST", "/appointments", staffID,
			map[string]any{"petId": 1, "date": "2025-01-10", "time": "10:00", "status": "pendiente"}, http.StatusBadRequest},
		{"no user", "POST", "/appointments", "",
			map[string]any{"petId": 1, "vetId": 2, "date": "2025-01-10", "time": "10:00"}, http.StatusUnauthorized},
		{"not found", "GET", "/appointments/999", staffID, nil, http.StatusNotFound},
		{"closing equals opening", "GET", "/availability?vetId=2&date=2025-01-10&openingTime=10:00&closingTime=10:00", "", nil, http.StatusBadRequest},
		{"availability missing vet", "GET", "/availability?date=2025-01-10", "", nil, http.StatusBadRequest},
		{"availability bad step", "GET", "/availability?vetId=2&date=2025-01-10&stepMinutes=300", "", nil, http.StatusBadRequest},
		{"list bad status", "GET", "/appointments?status=pendiente", staffID, nil, http.StatusBadRequest},
		{"list bad includeInactive", "GET", "/appointments?includeInactive=quizas", staffID, nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, body := doReq(t, ts.URL, tt.method, tt.path, tt.user, tt.body)
			if st != tt.want {
				t.Fatalf("expected %d, got %d body=%s", tt.want, st, string(body))
			}
			var resp map[string]any
			if err := json.Unmarshal(body, &resp); err != nil || resp["error"] == nil {
				t.Fatalf("expected {\"error\": ...} body, got %s", string(body))
			}
		})
	}
}

func TestHTTP_Health(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "GET", "/health", "", nil)
	if st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("unexpected health: %d %s", st, string(body))
	}
}

func book(t *testing.T, baseURL string, payload map[string]any) appointmentBody {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/appointments", staffID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 book, got %d body=%s", st, string(body))
	}

	var resp appointmentBody
	_ = json.Unmarshal(body, &resp)
	if resp.ID == 0 || resp.PublicID == "" {
		t.Fatalf("book: missing ids body=%s", string(body))
	}
	return resp
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
