package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/belleallure/salon-api/internal/core/domain"
)

var fullDay = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"14:00", "14:30", "15:00", "15:30", "16:00", "16:30", "17:00", "17:30",
}

func TestSlotCalendar_NoBookings_ReturnsFullBaseSequence(t *testing.T) {
	cal := newTestCalendar(newStubAppointmentRepo())

	slots, err := cal.AvailableSlots(context.Background(), "2025-06-10", "julie")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(slots, fullDay) {
		t.Fatalf("expected full base sequence, got %v", slots)
	}
}

func TestSlotCalendar_ExcludesBookedSlot(t *testing.T) {
	repo := newStubAppointmentRepo()
	repo.seed("2025-06-10", "14:00", "julie", domain.StatusPending)
	cal := newTestCalendar(repo)

	slots, err := cal.AvailableSlots(context.Background(), "2025-06-10", "julie")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 13 {
		t.Fatalf("expected 13 slots, got %d: %v", len(slots), slots)
	}
	var want []string
	for _, s := range fullDay {
		if s != "14:00" {
			want = append(want, s)
		}
	}
	if !reflect.DeepEqual(slots, want) {
		t.Fatalf("expected %v, got %v", want, slots)
	}
}

func TestSlotCalendar_IgnoresCancelledAndOtherStylists(t *testing.T) {
	repo := newStubAppointmentRepo()
	repo.seed("2025-06-10", "09:00", "julie", domain.StatusCancelled)
	repo.seed("2025-06-10", "09:30", "sarah", domain.StatusConfirmed)
	repo.seed("2025-06-11", "10:00", "julie", domain.StatusConfirmed)
	cal := newTestCalendar(repo)

	slots, err := cal.AvailableSlots(context.Background(), "2025-06-10", "julie")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(slots, fullDay) {
		t.Fatalf("expected full base sequence, got %v", slots)
	}
}

func TestSlotCalendar_ClosedDay_ReturnsEmptySet(t *testing.T) {
	repo := newStubAppointmentRepo()
	cal := newTestCalendar(repo)

	// 2025-06-08 is a Sunday.
	slots, err := cal.AvailableSlots(context.Background(), "2025-06-08", "sarah")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slots == nil || len(slots) != 0 {
		t.Fatalf("expected empty non-nil set, got %v", slots)
	}
	if repo.findCalls != 0 {
		t.Errorf("store should not be queried for a closed day, got %d calls", repo.findCalls)
	}
}

func TestSlotCalendar_PastDate_ReturnsEmptySet(t *testing.T) {
	cal := newTestCalendar(newStubAppointmentRepo())

	slots, err := cal.AvailableSlots(context.Background(), "2025-05-30", "sarah")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected empty set for past date, got %v", slots)
	}
}

func TestSlotCalendar_Today_DropsElapsedSlots(t *testing.T) {
	repo := newStubAppointmentRepo()
	now := time.Date(2025, time.June, 2, 10, 15, 0, 0, salonZone)
	cal := newTestCalendar(repo, WithClock(clockAt(now)))

	slots, err := cal.AvailableSlots(context.Background(), "2025-06-02", "marie")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) == 0 || slots[0] != "10:30" {
		t.Fatalf("expected first slot 10:30, got %v", slots)
	}
	if len(slots) != 11 {
		t.Fatalf("expected 11 remaining slots, got %d", len(slots))
	}
}

func TestSlotCalendar_StylistDayOff_ReturnsEmptySet(t *testing.T) {
	catalog, err := domain.NewCatalog(
		[]domain.ServiceOffering{{Code: "coupe", DurationMin: 60}},
		[]domain.Stylist{{Code: "paul", WorkDays: []time.Weekday{time.Monday}}},
	)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	cal := NewSlotCalendar(newStubAppointmentRepo(), catalog, domain.DefaultSchedule(salonZone), discardLogger, WithClock(clockAt(fixedNow)))

	slots, err := cal.AvailableSlots(context.Background(), "2025-06-10", "paul")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots on a day off, got %v", slots)
	}
}

func TestSlotCalendar_InvalidParameters(t *testing.T) {
	cal := newTestCalendar(newStubAppointmentRepo())

	cases := []struct {
		name, date, stylist string
		want                error
	}{
		{"missing date", "", "julie", domain.ErrInvalidRequest},
		{"missing stylist", "2025-06-10", "", domain.ErrInvalidRequest},
		{"malformed date", "10/06/2025", "julie", domain.ErrInvalidRequest},
		{"unknown stylist", "2025-06-10", "bob", domain.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := cal.AvailableSlots(context.Background(), tc.date, tc.stylist)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSlotCalendar_UsesCache(t *testing.T) {
	repo := newStubAppointmentRepo()
	cache := newStubSlotCache()
	cache.entries[domain.SlotKey{Date: "2025-06-10", Stylist: "julie"}] = []string{"09:00"}
	cal := newTestCalendar(repo, WithSlotCache(cache))

	slots, err := cal.AvailableSlots(context.Background(), "2025-06-10", "julie")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.findCalls != 0 {
		t.Errorf("expected cache hit to skip the store")
	}
	if slots[0] != "09:30" {
		t.Errorf("cached booking not excluded: %v", slots)
	}
}

func TestSlotCalendar_CacheMissPopulatesAndErrorFallsBack(t *testing.T) {
	repo := newStubAppointmentRepo()
	repo.seed("2025-06-10", "11:00", "julie", domain.StatusPending)
	cache := newStubSlotCache()
	cal := newTestCalendar(repo, WithSlotCache(cache))

	if _, err := cal.AvailableSlots(context.Background(), "2025-06-10", "julie"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := cache.entries[domain.SlotKey{Date: "2025-06-10", Stylist: "julie"}]
	if !reflect.DeepEqual(got, []string{"11:00"}) {
		t.Fatalf("expected cache populated with [11:00], got %v", got)
	}

	cache.getErr = errors.New("redis down")
	slots, err := cal.AvailableSlots(context.Background(), "2025-06-10", "julie")
	if err != nil {
		t.Fatalf("cache failure must not fail the query: %v", err)
	}
	if len(slots) != 13 {
		t.Fatalf("expected 13 slots, got %d", len(slots))
	}
}

func TestSlotCalendar_CheckBookable(t *testing.T) {
	cal := newTestCalendar(newStubAppointmentRepo())

	cases := []struct {
		name, date, time, stylist string
		want                      error
	}{
		{"valid", "2025-06-10", "14:00", "julie", nil},
		{"sunday", "2025-06-08", "10:00", "sarah", domain.ErrValidation},
		{"past date", "2025-05-27", "10:00", "sarah", domain.ErrValidation},
		{"before opening", "2025-06-02", "07:30", "sarah", domain.ErrValidation},
		{"off-grid time", "2025-06-10", "09:15", "sarah", domain.ErrValidation},
		{"lunch break", "2025-06-10", "12:00", "sarah", domain.ErrValidation},
		{"missing time", "2025-06-10", "", "sarah", domain.ErrInvalidRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := cal.CheckBookable(tc.date, tc.time, tc.stylist)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSlotCalendar_BookingDuringQueryIsNotCachedStale(t *testing.T) {
	repo := &mutateAfterFindRepo{stubAppointmentRepo: newStubAppointmentRepo()}
	cache := newStubSlotCache()
	cal := newTestCalendar(repo, WithSlotCache(cache))
	svc := NewAppointmentService(repo, cal, cache, nil, domain.DefaultCatalog(), BookingPolicy{}, discardLogger)

	repo.afterFind = func() {
		if _, err := svc.Create(context.Background(), bookingInput("2025-06-10", "14:00", "julie")); err != nil {
			t.Errorf("create: %v", err)
		}
	}
	if _, err := cal.AvailableSlots(context.Background(), "2025-06-10", "julie"); err != nil {
		t.Fatalf("first query: %v", err)
	}

	slots, err := cal.AvailableSlots(context.Background(), "2025-06-10", "julie")
	if err != nil {
		t.Fatalf("second query: %v", err)
	}
	for _, s := range slots {
		if s == "14:00" {
			t.Fatalf("14:00 is booked but still listed: %v", slots)
		}
	}
	if cache.staleSets != 1 {
		t.Fatalf("expected the pre-booking snapshot to be refused, got %d stale sets", cache.staleSets)
	}
}

func TestSlotCalendar_CancelDuringQueryFreesSlot(t *testing.T) {
	repo := &mutateAfterFindRepo{stubAppointmentRepo: newStubAppointmentRepo()}
	held := repo.seed("2025-06-10", "14:00", "julie", domain.StatusPending)
	cache := newStubSlotCache()
	cal := newTestCalendar(repo, WithSlotCache(cache))
	svc := NewAppointmentService(repo, cal, cache, nil, domain.DefaultCatalog(), BookingPolicy{}, discardLogger)

	repo.afterFind = func() {
		if _, err := svc.Cancel(context.Background(), held.ID); err != nil {
			t.Errorf("cancel: %v", err)
		}
	}
	if _, err := cal.AvailableSlots(context.Background(), "2025-06-10", "julie"); err != nil {
		t.Fatalf("first query: %v", err)
	}

	slots, err := cal.AvailableSlots(context.Background(), "2025-06-10", "julie")
	if err != nil {
		t.Fatalf("second query: %v", err)
	}
	if !reflect.DeepEqual(slots, fullDay) {
		t.Fatalf("cancelled slot not listed again: %v", slots)
	}
}

func TestSlotCalendar_CacheReadErrorSkipsWrite(t *testing.T) {
	repo := newStubAppointmentRepo()
	cache := newStubSlotCache()
	cache.getErr = errors.New("redis down")
	cal := newTestCalendar(repo, WithSlotCache(cache))

	if _, err := cal.AvailableSlots(context.Background(), "2025-06-10", "julie"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cache.entries) != 0 {
		t.Fatalf("a result without a known generation must not be cached")
	}
}
