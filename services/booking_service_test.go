package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"studio-backend/models"
)

var studioLoc = time.FixedZone("BRT", -3*60*60)

func TestBookingService_Create_AggregatesServices(t *testing.T) {
	db := newTestDB(t)
	booking := NewBookingService(db, WithLocation(studioLoc))

	client := seedClient(t, db, "Maria", "+5519992687759")
	cut := seedService(t, db, "Corte", "90.00", 45)
	beard := seedService(t, db, "Barba", "60.00", 30)

	start := time.Date(2026, 1, 17, 15, 0, 0, 0, studioLoc)
	appt, err := booking.Create(context.Background(), BookingRequest{
		Date:       start,
		ClientID:   client.ID,
		ServiceIDs: []uuid.UUID{cut.ID, beard.ID},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if !appt.TotalPrice.Equal(decimal.RequireFromString("150.00")) {
		t.Errorf("total price = %s, want 150.00", appt.TotalPrice)
	}
	if !appt.Date.Equal(start) {
		t.Errorf("date = %s, want %s", appt.Date, start)
	}
	wantEnd := time.Date(2026, 1, 17, 16, 15, 0, 0, studioLoc)
	if !appt.EndDate.Equal(wantEnd) {
		t.Errorf("end date = %s, want %s", appt.EndDate, wantEnd)
	}
	if appt.Status != models.StatusPending {
		t.Errorf("status = %s, want PENDING", appt.Status)
	}
	if appt.Client == nil || appt.Client.ID != client.ID {
		t.Fatalf("client not loaded: %+v", appt.Client)
	}

	var got []uuid.UUID
	for _, s := range appt.Services {
		got = append(got, s.ID)
	}
	// Services are returned by name: Barba, Corte.
	if diff := cmp.Diff([]uuid.UUID{beard.ID, cut.ID}, got); diff != "" {
		t.Errorf("services mismatch (-want +got):\n%s", diff)
	}
}

func TestBookingService_Create_ServiceSetRoundTrips(t *testing.T) {
	db := newTestDB(t)
	booking := NewBookingService(db)

	client := seedClient(t, db, "João", "+5519990000001")
	a := seedService(t, db, "Corte", "90", 45)
	b := seedService(t, db, "Barba", "60", 30)
	c := seedService(t, db, "Sobrancelha", "25", 15)

	created, err := booking.Create(context.Background(), BookingRequest{
		Date:       time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC),
		ClientID:   client.ID,
		ServiceIDs: []uuid.UUID{c.ID, a.ID, b.ID},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	fetched, err := booking.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	want := map[uuid.UUID]bool{a.ID: true, b.ID: true, c.ID: true}
	if len(fetched.Services) != len(want) {
		t.Fatalf("got %d services, want %d", len(fetched.Services), len(want))
	}
	for _, s := range fetched.Services {
		if !want[s.ID] {
			t.Errorf("unexpected service %s", s.ID)
		}
	}
	if !fetched.TotalPrice.Equal(decimal.NewFromInt(175)) {
		t.Errorf("total price = %s, want 175", fetched.TotalPrice)
	}
	if got := fetched.EndDate.Sub(fetched.Date); got != 90*time.Minute {
		t.Errorf("duration = %s, want 1h30m", got)
	}
}

func TestBookingService_Create_RejectsInvalidRequests(t *testing.T) {
	db := newTestDB(t)
	booking := NewBookingService(db)

	client := seedClient(t, db, "Ana", "+5519990000002")
	svc := seedService(t, db, "Corte", "90", 45)
	date := time.Date(2026, 1, 17, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		req  BookingRequest
	}{
		{"no services", BookingRequest{Date: date, ClientID: client.ID}},
		{"empty service list", BookingRequest{Date: date, ClientID: client.ID, ServiceIDs: []uuid.UUID{}}},
		{"no client", BookingRequest{Date: date, ServiceIDs: []uuid.UUID{svc.ID}}},
		{"no date", BookingRequest{ClientID: client.ID, ServiceIDs: []uuid.UUID{svc.ID}}},
		{"duplicate service", BookingRequest{Date: date, ClientID: client.ID, ServiceIDs: []uuid.UUID{svc.ID, svc.ID}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := booking.Create(context.Background(), tt.req)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("err = %v, want ErrInvalidRequest", err)
			}
		})
	}

	if n := countRows(t, db, &models.Appointment{}); n != 0 {
		t.Errorf("appointments stored = %d, want 0", n)
	}
}

func TestBookingService_Create_UnknownServiceWritesNothing(t *testing.T) {
	db := newTestDB(t)
	booking := NewBookingService(db)

	client := seedClient(t, db, "Ana", "+5519990000003")
	svc := seedService(t, db, "Corte", "90", 45)

	_, err := booking.Create(context.Background(), BookingRequest{
		Date:       time.Date(2026, 1, 17, 15, 0, 0, 0, time.UTC),
		ClientID:   client.ID,
		ServiceIDs: []uuid.UUID{svc.ID, uuid.New()},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if n := countRows(t, db, &models.Appointment{}); n != 0 {
		t.Errorf("appointments stored = %d, want 0", n)
	}
	if n := countRows(t, db, &models.AppointmentService{}); n != 0 {
		t.Errorf("join rows stored = %d, want 0", n)
	}
}

func TestBookingService_Create_UnknownClient(t *testing.T) {
	db := newTestDB(t)
	booking := NewBookingService(db)
	svc := seedService(t, db, "Corte", "90", 45)

	_, err := booking.Create(context.Background(), BookingRequest{
		Date:       time.Date(2026, 1, 17, 15, 0, 0, 0, time.UTC),
		ClientID:   uuid.New(),
		ServiceIDs: []uuid.UUID{svc.ID},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestBookingService_Create_RetiredServiceNotBookable(t *testing.T) {
	db := newTestDB(t)
	booking := NewBookingService(db)

	client := seedClient(t, db, "Ana", "+5519990000004")
	svc := seedService(t, db, "Corte", "90", 45)
	if err := db.Model(&svc).Update("active", false).Error; err != nil {
		t.Fatalf("retire service: %v", err)
	}

	_, err := booking.Create(context.Background(), BookingRequest{
		Date:       time.Date(2026, 1, 17, 15, 0, 0, 0, time.UTC),
		ClientID:   client.ID,
		ServiceIDs: []uuid.UUID{svc.ID},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestBookingService_Create_ConcurrentSameSlotBothSucceed(t *testing.T) {
	db := newTestDB(t)
	booking := NewBookingService(db)

	client := seedClient(t, db, "Ana", "+5519990000005")
	svc := seedService(t, db, "Corte", "90", 45)
	req := BookingRequest{
		Date:       time.Date(2026, 1, 17, 15, 0, 0, 0, time.UTC),
		ClientID:   client.ID,
		ServiceIDs: []uuid.UUID{svc.ID},
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = booking.Create(context.Background(), req)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("booking %d failed: %v", i, err)
		}
	}
	if n := countRows(t, db, &models.Appointment{}); n != 2 {
		t.Errorf("appointments stored = %d, want 2", n)
	}
}

func TestBookingService_Create_OverlapCheck(t *testing.T) {
	db := newTestDB(t)
	booking := NewBookingService(db, WithOverlapCheck(true))
	ctx := context.Background()

	client := seedClient(t, db, "Ana", "+5519990000006")
	svc := seedService(t, db, "Corte", "90", 75)
	at := func(h, m int) BookingRequest {
		return BookingRequest{
			Date:       time.Date(2026, 1, 17, h, m, 0, 0, time.UTC),
			ClientID:   client.ID,
			ServiceIDs: []uuid.UUID{svc.ID},
		}
	}

	first, err := booking.Create(ctx, at(15, 0))
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	if _, err := booking.Create(ctx, at(16, 0)); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("overlapping booking err = %v, want ErrSlotTaken", err)
	}
	if _, err := booking.Create(ctx, at(16, 15)); err != nil {
		t.Fatalf("adjacent booking failed: %v", err)
	}

	cancelled := models.StatusCancelled
	if _, err := booking.UpdateStatus(ctx, first.ID, StatusUpdate{Status: &cancelled}); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, err := booking.Create(ctx, at(15, 0)); err != nil {
		t.Fatalf("booking over cancelled slot failed: %v", err)
	}
}

func TestBookingService_UpdateStatus(t *testing.T) {
	db := newTestDB(t)
	booking := NewBookingService(db)
	ctx := context.Background()

	client := seedClient(t, db, "Ana", "+5519990000007")
	svc := seedService(t, db, "Corte", "90", 45)
	appt, err := booking.Create(ctx, BookingRequest{
		Date:       time.Date(2026, 1, 17, 15, 0, 0, 0, time.UTC),
		ClientID:   client.ID,
		ServiceIDs: []uuid.UUID{svc.ID},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	completed := models.StatusCompleted
	notes := "paid in cash"
	updated, err := booking.UpdateStatus(ctx, appt.ID, StatusUpdate{Status: &completed, Notes: &notes})
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if updated.Status != models.StatusCompleted {
		t.Errorf("status = %s, want COMPLETED", updated.Status)
	}
	if updated.Notes == nil || *updated.Notes != notes {
		t.Errorf("notes = %v, want %q", updated.Notes, notes)
	}
	if len(updated.Services) != 1 || updated.Client == nil {
		t.Errorf("relations not loaded: services=%d client=%v", len(updated.Services), updated.Client)
	}

	// Any transition is accepted, including back out of a final state.
	pending := models.StatusPending
	if updated, err = booking.UpdateStatus(ctx, appt.ID, StatusUpdate{Status: &pending}); err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if updated.Status != models.StatusPending {
		t.Errorf("status = %s, want PENDING", updated.Status)
	}
	if updated.Notes == nil || *updated.Notes != notes {
		t.Errorf("notes changed without being sent: %v", updated.Notes)
	}

	bogus := models.AppointmentStatus("DONE")
	if _, err := booking.UpdateStatus(ctx, appt.ID, StatusUpdate{Status: &bogus}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("unknown status err = %v, want ErrInvalidRequest", err)
	}
	if _, err := booking.UpdateStatus(ctx, uuid.New(), StatusUpdate{Status: &completed}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing appointment err = %v, want ErrNotFound", err)
	}
}

func TestBookingService_UpdateStatus_KeepsPriceSnapshot(t *testing.T) {
	db := newTestDB(t)
	booking := NewBookingService(db)
	ctx := context.Background()

	client := seedClient(t, db, "Ana", "+5519990000008")
	svc := seedService(t, db, "Corte", "90", 45)
	appt, err := booking.Create(ctx, BookingRequest{
		Date:       time.Date(2026, 1, 17, 15, 0, 0, 0, time.UTC),
		ClientID:   client.ID,
		ServiceIDs: []uuid.UUID{svc.ID},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := db.Model(&svc).Updates(map[string]interface{}{"price": decimal.NewFromInt(120), "duration_min": 60}).Error; err != nil {
		t.Fatalf("reprice service: %v", err)
	}

	completed := models.StatusCompleted
	updated, err := booking.UpdateStatus(ctx, appt.ID, StatusUpdate{Status: &completed})
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if !updated.TotalPrice.Equal(decimal.NewFromInt(90)) {
		t.Errorf("total price = %s, want 90", updated.TotalPrice)
	}
	if !updated.EndDate.Equal(appt.EndDate) {
		t.Errorf("end date = %s, want %s", updated.EndDate, appt.EndDate)
	}
}

func TestBookingService_Delete(t *testing.T) {
	db := newTestDB(t)
	booking := NewBookingService(db)
	ctx := context.Background()

	client := seedClient(t, db, "Ana", "+5519990000009")
	svc := seedService(t, db, "Corte", "90", 45)
	appt, err := booking.Create(ctx, BookingRequest{
		Date:       time.Date(2026, 1, 17, 15, 0, 0, 0, time.UTC),
		ClientID:   client.ID,
		ServiceIDs: []uuid.UUID{svc.ID},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := booking.Delete(ctx, appt.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n := countRows(t, db, &models.AppointmentService{}); n != 0 {
		t.Errorf("join rows left = %d, want 0", n)
	}
	if _, err := booking.Get(ctx, appt.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete err = %v, want ErrNotFound", err)
	}
	if err := booking.Delete(ctx, appt.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete err = %v, want ErrNotFound", err)
	}
	if n := countRows(t, db, &models.Service{}); n != 1 {
		t.Errorf("services = %d, want the catalog untouched", n)
	}
}

func TestBookingService_List_DayRange(t *testing.T) {
	db := newTestDB(t)
	booking := NewBookingService(db, WithLocation(studioLoc))
	ctx := context.Background()

	client := seedClient(t, db, "Ana", "+5519990000010")
	svc := seedService(t, db, "Corte", "90", 45)
	book := func(ts time.Time) *models.Appointment {
		appt, err := booking.Create(ctx, BookingRequest{Date: ts, ClientID: client.ID, ServiceIDs: []uuid.UUID{svc.ID}})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		return appt
	}

	late := book(time.Date(2026, 1, 17, 23, 30, 0, 0, studioLoc))
	morning := book(time.Date(2026, 1, 17, 9, 0, 0, 0, studioLoc))
	book(time.Date(2026, 1, 18, 0, 0, 0, 0, studioLoc))
	book(time.Date(2026, 1, 16, 23, 59, 0, 0, studioLoc))

	appts, err := booking.List(ctx, DayRange(time.Date(2026, 1, 17, 12, 0, 0, 0, studioLoc), studioLoc))
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	var got []uuid.UUID
	for _, a := range appts {
		got = append(got, a.ID)
	}
	if diff := cmp.Diff([]uuid.UUID{morning.ID, late.ID}, got); diff != "" {
		t.Errorf("day listing mismatch (-want +got):\n%s", diff)
	}

	all, err := booking.List(ctx, Range{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("unbounded listing = %d, want 4", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Date.Before(all[i-1].Date) {
			t.Fatalf("listing not ordered by date at %d", i)
		}
	}
}

func TestBookingService_Get_SoftDeletedClientStillLoaded(t *testing.T) {
	db := newTestDB(t)
	booking := NewBookingService(db)
	ctx := context.Background()

	client := seedClient(t, db, "Ana", "+5519990000011")
	svc := seedService(t, db, "Corte", "90", 45)
	appt, err := booking.Create(ctx, BookingRequest{
		Date:       time.Date(2026, 1, 17, 15, 0, 0, 0, time.UTC),
		ClientID:   client.ID,
		ServiceIDs: []uuid.UUID{svc.ID},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := db.Delete(&client).Error; err != nil {
		t.Fatalf("delete client: %v", err)
	}

	got, err := booking.Get(ctx, appt.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Client == nil || got.Client.Name != "Ana" {
		t.Errorf("client = %+v, want the deleted client", got.Client)
	}
}

func TestBookingService_Stats(t *testing.T) {
	db := newTestDB(t)
	booking := NewBookingService(db, WithLocation(studioLoc))
	ctx := context.Background()

	ana := seedClient(t, db, "Ana", "+5519990000012")
	seedClient(t, db, "Bia", "+5519990000013")
	cut := seedService(t, db, "Corte", "90.00", 45)
	beard := seedService(t, db, "Barba", "60.00", 30)

	today := time.Date(2026, 1, 17, 8, 0, 0, 0, studioLoc)
	book := func(ts time.Time, ids ...uuid.UUID) *models.Appointment {
		appt, err := booking.Create(ctx, BookingRequest{Date: ts, ClientID: ana.ID, ServiceIDs: ids})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		return appt
	}
	setStatus := func(id uuid.UUID, s models.AppointmentStatus) {
		if _, err := booking.UpdateStatus(ctx, id, StatusUpdate{Status: &s}); err != nil {
			t.Fatalf("UpdateStatus failed: %v", err)
		}
	}

	done := book(time.Date(2026, 1, 17, 15, 0, 0, 0, studioLoc), cut.ID, beard.ID)
	setStatus(done.ID, models.StatusCompleted)
	cancelled := book(time.Date(2026, 1, 17, 17, 0, 0, 0, studioLoc), beard.ID)
	setStatus(cancelled.ID, models.StatusCancelled)
	book(time.Date(2026, 1, 17, 18, 0, 0, 0, studioLoc), cut.ID)
	past := book(time.Date(2026, 1, 10, 10, 0, 0, 0, studioLoc), beard.ID)
	setStatus(past.ID, models.StatusCompleted)

	stats, err := booking.Stats(ctx, today)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalAppointments != 4 {
		t.Errorf("totalAppointments = %d, want 4", stats.TotalAppointments)
	}
	if stats.TotalClients != 2 {
		t.Errorf("totalClients = %d, want 2", stats.TotalClients)
	}
	if !stats.TotalRevenue.Equal(decimal.NewFromInt(210)) {
		t.Errorf("totalRevenue = %s, want 210", stats.TotalRevenue)
	}
	if stats.AppointmentsToday != 2 {
		t.Errorf("appointmentsToday = %d, want 2", stats.AppointmentsToday)
	}
}

func TestBookingService_Stats_EmptyDatabase(t *testing.T) {
	db := newTestDB(t)
	stats, err := NewBookingService(db).Stats(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if !stats.TotalRevenue.IsZero() || stats.TotalAppointments != 0 || stats.AppointmentsToday != 0 {
		t.Errorf("stats = %+v, want zeros", stats)
	}
}

func TestBookingService_SideEffects(t *testing.T) {
	db := newTestDB(t)
	publisher := &recordingPublisher{}
	notifier := &recordingNotifier{}
	booking := NewBookingService(db, WithEventPublisher(publisher), WithNotifier(notifier))
	ctx := context.Background()

	client := seedClient(t, db, "Ana", "+5519990000014")
	svc := seedService(t, db, "Corte", "90", 45)
	appt, err := booking.Create(ctx, BookingRequest{
		Date:       time.Date(2026, 1, 17, 15, 0, 0, 0, time.UTC),
		ClientID:   client.ID,
		ServiceIDs: []uuid.UUID{svc.ID},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	booking.Wait()

	notes := "only notes"
	if _, err := booking.UpdateStatus(ctx, appt.ID, StatusUpdate{Notes: &notes}); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	completed := models.StatusCompleted
	if _, err := booking.UpdateStatus(ctx, appt.ID, StatusUpdate{Status: &completed}); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	booking.Wait()
	if err := booking.Delete(ctx, appt.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	booking.Wait()

	want := []string{EventAppointmentCreated, EventAppointmentStatusChanged, EventAppointmentDeleted}
	if diff := cmp.Diff(want, publisher.types()); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{models.TemplateConfirmation}, notifier.kinds); diff != "" {
		t.Errorf("notifications mismatch (-want +got):\n%s", diff)
	}

	first := publisher.events[0]
	if first.TotalPrice != "90.00" || len(first.ServiceIDs) != 1 || first.ServiceIDs[0] != svc.ID.String() {
		t.Errorf("created event = %+v", first)
	}
}

func TestTotals(t *testing.T) {
	minutes, price := Totals([]models.Service{
		{Price: decimal.RequireFromString("90.00"), DurationMin: 45},
		{Price: decimal.RequireFromString("60.50"), DurationMin: 30},
		{Price: decimal.RequireFromString("0.10"), DurationMin: 5},
	})
	if minutes != 80 {
		t.Errorf("minutes = %d, want 80", minutes)
	}
	if price.StringFixed(2) != "150.60" {
		t.Errorf("price = %s, want 150.60", price.StringFixed(2))
	}
}
