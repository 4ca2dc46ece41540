package scheduling

import (
	"errors"
	"testing"
	"time"
)

func TestComputeSlot(t *testing.T) {
	tests := []struct {
		name       string
		date       string
		clock      string
		duration   int
		wantTime   string
		wantEnd    string
		wantMins   int
		wantErr    error
		wantStartS string
	}{
		{name: "pads short components", date: "2025-01-10", clock: "9:5", duration: 45, wantTime: "09:05:00", wantEnd: "09:50:00", wantMins: 45, wantStartS: "2025-01-10T09:05:00"},
		{name: "HH:MM", date: "2025-01-10", clock: "10:00", duration: 30, wantTime: "10:00:00", wantEnd: "10:30:00", wantMins: 30, wantStartS: "2025-01-10T10:00:00"},
		{name: "already normalized", date: "2025-01-10", clock: "10:00:00", duration: 15, wantTime: "10:00:00", wantEnd: "10:15:00", wantMins: 15, wantStartS: "2025-01-10T10:00:00"},
		{name: "default duration", date: "2025-01-10", clock: "14:30", duration: 0, wantTime: "14:30:00", wantEnd: "15:00:00", wantMins: 30, wantStartS: "2025-01-10T14:30:00"},
		{name: "crosses midnight", date: "2025-01-10", clock: "23:45", duration: 30, wantTime: "23:45:00", wantEnd: "00:15:00", wantMins: 30, wantStartS: "2025-01-10T23:45:00"},
		{name: "max duration", date: "2025-01-10", clock: "08:00", duration: 480, wantTime: "08:00:00", wantEnd: "16:00:00", wantMins: 480, wantStartS: "2025-01-10T08:00:00"},
		{name: "too short", date: "2025-01-10", clock: "10:00", duration: 3, wantErr: ErrInvalidDuration},
		{name: "too long", date: "2025-01-10", clock: "10:00", duration: 481, wantErr: ErrInvalidDuration},
		{name: "negative", date: "2025-01-10", clock: "10:00", duration: -30, wantErr: ErrInvalidDuration},
		{name: "missing date", date: "", clock: "10:00", duration: 30, wantErr: ErrMissingParameter},
		{name: "missing time", date: "2025-01-10", clock: " ", duration: 30, wantErr: ErrMissingParameter},
		{name: "impossible date", date: "2025-02-30", clock: "10:00", duration: 30, wantErr: ErrInvalidDateTime},
		{name: "hour out of range", date: "2025-01-10", clock: "25:00", duration: 30, wantErr: ErrInvalidDateTime},
		{name: "garbage time", date: "2025-01-10", clock: "diez", duration: 30, wantErr: ErrInvalidDateTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeSlot(tt.date, tt.clock, tt.duration)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ComputeSlot() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ComputeSlot() unexpected error: %v", err)
			}
			if got.NormalizedTime != tt.wantTime || got.EndTime != tt.wantEnd || got.Duration != tt.wantMins {
				t.Fatalf("ComputeSlot() = %+v", got)
			}
			if s := got.StartDateTime.Format(DateLayout + "T" + TimeLayout); s != tt.wantStartS {
				t.Fatalf("start = %s, want %s", s, tt.wantStartS)
			}
			if d := got.EndDateTime.Sub(got.StartDateTime); d != time.Duration(tt.wantMins)*time.Minute {
				t.Fatalf("end-start = %s, want %d minutes", d, tt.wantMins)
			}
		})
	}
}

func TestNormalizeTime_Idempotent(t *testing.T) {
	for _, in := range []string{"9:5", "09:05", "9:05:7", " 10:30 ", "23:59:59"} {
		once := NormalizeTime(in)
		if twice := NormalizeTime(once); twice != once {
			t.Errorf("NormalizeTime(%q) not idempotent: %q -> %q", in, once, twice)
		}
	}
	if got := NormalizeTime("9:05:7"); got != "09:05:07" {
		t.Errorf("NormalizeTime(9:05:7) = %q", got)
	}
}

func TestOverlaps(t *testing.T) {
	at := func(clock string) time.Time {
		t.Helper()
		v, err := CombineDateTime("2025-01-10", NormalizeTime(clock))
		if err != nil {
			t.Fatal(err)
		}
		return v
	}
	iv := func(a, b string) Interval { return Interval{Start: at(a), End: at(b)} }

	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"partial", iv("10:00", "10:30"), iv("10:15", "10:45"), true},
		{"contained", iv("10:00", "11:00"), iv("10:15", "10:30"), true},
		{"identical", iv("10:00", "10:30"), iv("10:00", "10:30"), true},
		{"touching end", iv("10:00", "10:30"), iv("10:30", "11:00"), false},
		{"touching start", iv("10:30", "11:00"), iv("10:00", "10:30"), false},
		{"disjoint", iv("09:00", "09:30"), iv("11:00", "11:30"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.want {
				t.Fatalf("Overlaps(a,b) = %v, want %v", got, tt.want)
			}
			if got := Overlaps(tt.b, tt.a); got != tt.want {
				t.Fatalf("Overlaps(b,a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatus_Blocking(t *testing.T) {
	want := map[Status]bool{
		StatusScheduled: true,
		StatusCompleted: true,
		StatusConfirmed: false,
		StatusCancelled: false,
		StatusNoShow:    false,
	}
	for st, blocking := range want {
		if st.Blocking() != blocking {
			t.Errorf("%s.Blocking() = %v, want %v", st, st.Blocking(), blocking)
		}
	}
	if _, ok := ParseStatus("pendiente"); ok {
		t.Errorf("ParseStatus accepted unknown status")
	}
}
