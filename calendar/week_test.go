package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"studio-backend/apiclient"
)

var brt = time.FixedZone("BRT", -3*60*60)

func appointmentAt(id string, t time.Time) apiclient.Appointment {
	return apiclient.Appointment{ID: id, Date: t, EndDate: t.Add(45 * time.Minute), Status: apiclient.StatusPending}
}

func TestNewWeek_StartsMonday(t *testing.T) {
	w := NewWeek(time.Date(2026, 1, 17, 15, 0, 0, 0, brt), brt)

	if want := time.Date(2026, 1, 12, 0, 0, 0, 0, brt); !w.Start.Equal(want) {
		t.Fatalf("Start = %s, want %s", w.Start, want)
	}
	if len(w.Days) != DaysShown {
		t.Fatalf("days = %d, want %d", len(w.Days), DaysShown)
	}
	if w.Days[5].Weekday() != time.Saturday {
		t.Errorf("last day = %s, want Saturday", w.Days[5].Weekday())
	}

	want := apiclient.Range{StartDate: "2026-01-12", EndDate: "2026-01-17"}
	if diff := cmp.Diff(want, w.Range()); diff != "" {
		t.Errorf("Range mismatch (-want +got):\n%s", diff)
	}

	if got := w.Next().Start; !got.Equal(time.Date(2026, 1, 19, 0, 0, 0, 0, brt)) {
		t.Errorf("Next().Start = %s", got)
	}
	if got := w.Prev().Start; !got.Equal(time.Date(2026, 1, 5, 0, 0, 0, 0, brt)) {
		t.Errorf("Prev().Start = %s", got)
	}
}

func TestHours(t *testing.T) {
	want := []int{9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19}
	if diff := cmp.Diff(want, Hours()); diff != "" {
		t.Errorf("Hours mismatch (-want +got):\n%s", diff)
	}
}

func TestWeek_Place(t *testing.T) {
	w := NewWeek(time.Date(2026, 1, 14, 0, 0, 0, 0, brt), brt)

	inside := appointmentAt("a", time.Date(2026, 1, 14, 10, 30, 0, 0, brt))
	// 13:00 UTC is 10:00 in the studio.
	sameCell := appointmentAt("b", time.Date(2026, 1, 14, 13, 0, 0, 0, time.UTC))
	sunday := appointmentAt("c", time.Date(2026, 1, 18, 10, 0, 0, 0, brt))
	early := appointmentAt("d", time.Date(2026, 1, 15, 8, 0, 0, 0, brt))
	late := appointmentAt("e", time.Date(2026, 1, 15, 20, 0, 0, 0, brt))
	lastRow := appointmentAt("f", time.Date(2026, 1, 17, 19, 0, 0, 0, brt))

	outside := w.Place([]apiclient.Appointment{inside, sameCell, sunday, early, late, lastRow})

	var outsideIDs []string
	for _, a := range outside {
		outsideIDs = append(outsideIDs, a.ID)
	}
	if diff := cmp.Diff([]string{"c", "d", "e"}, outsideIDs); diff != "" {
		t.Errorf("outside mismatch (-want +got):\n%s", diff)
	}

	cell, err := w.Cell(time.Date(2026, 1, 14, 0, 0, 0, 0, brt), 10)
	if err != nil {
		t.Fatalf("Cell failed: %v", err)
	}
	if len(cell.Appointments) != 2 || !cell.Occupied() {
		t.Errorf("10:00 cell holds %d appointments, want 2", len(cell.Appointments))
	}

	// A 45 minute appointment only marks its start cell.
	next, _ := w.Cell(time.Date(2026, 1, 14, 0, 0, 0, 0, brt), 11)
	if next.Occupied() {
		t.Error("11:00 cell should be free")
	}

	if cell, _ := w.Cell(time.Date(2026, 1, 17, 0, 0, 0, 0, brt), 19); !cell.Occupied() {
		t.Error("19:00 Saturday cell should be occupied")
	}

	// Placing again replaces the previous layout.
	w.Place(nil)
	if cell.Occupied() {
		t.Error("grid not cleared on re-place")
	}
}

func TestWeek_BookingRequest(t *testing.T) {
	w := NewWeek(time.Date(2026, 1, 14, 0, 0, 0, 0, brt), brt)
	w.Place([]apiclient.Appointment{appointmentAt("a", time.Date(2026, 1, 14, 10, 0, 0, 0, brt))})
	day := time.Date(2026, 1, 14, 0, 0, 0, 0, brt)
	notes := "first visit"

	req, err := w.BookingRequest(day, 11, "client-1", []string{"svc-1", "svc-2"}, &notes)
	if err != nil {
		t.Fatalf("BookingRequest failed: %v", err)
	}
	want := apiclient.CreateAppointmentRequest{
		Date:       time.Date(2026, 1, 14, 11, 0, 0, 0, brt),
		ClientID:   "client-1",
		ServiceIDs: []string{"svc-1", "svc-2"},
		Notes:      &notes,
	}
	if diff := cmp.Diff(want, req); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}

	if _, err := w.BookingRequest(day, 10, "client-1", []string{"svc-1"}, nil); !errors.Is(err, ErrSlotOccupied) {
		t.Errorf("occupied cell err = %v, want ErrSlotOccupied", err)
	}
	if _, err := w.BookingRequest(day, 8, "client-1", []string{"svc-1"}, nil); !errors.Is(err, ErrOutsideGrid) {
		t.Errorf("early hour err = %v, want ErrOutsideGrid", err)
	}
	if _, err := w.BookingRequest(day.AddDate(0, 0, 4), 10, "client-1", []string{"svc-1"}, nil); !errors.Is(err, ErrOutsideGrid) {
		t.Errorf("Sunday err = %v, want ErrOutsideGrid", err)
	}
}

func TestDefaultSlot(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		current time.Time
		want    time.Time
	}{
		{
			name:    "today rounds up to next hour",
			now:     time.Date(2026, 1, 17, 14, 20, 0, 0, brt),
			current: time.Date(2026, 1, 17, 0, 0, 0, 0, brt),
			want:    time.Date(2026, 1, 17, 15, 0, 0, 0, brt),
		},
		{
			name:    "early morning starts at opening",
			now:     time.Date(2026, 1, 17, 7, 5, 0, 0, brt),
			current: time.Date(2026, 1, 17, 0, 0, 0, 0, brt),
			want:    time.Date(2026, 1, 17, 9, 0, 0, 0, brt),
		},
		{
			name:    "other day starts at opening",
			now:     time.Date(2026, 1, 17, 14, 20, 0, 0, brt),
			current: time.Date(2026, 1, 20, 16, 0, 0, 0, brt),
			want:    time.Date(2026, 1, 20, 9, 0, 0, 0, brt),
		},
		{
			name:    "now given in UTC",
			now:     time.Date(2026, 1, 17, 17, 45, 0, 0, time.UTC),
			current: time.Date(2026, 1, 17, 0, 0, 0, 0, brt),
			want:    time.Date(2026, 1, 17, 15, 0, 0, 0, brt),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultSlot(tt.now, tt.current, brt); !got.Equal(tt.want) {
				t.Errorf("DefaultSlot() = %s, want %s", got, tt.want)
			}
		})
	}
}
