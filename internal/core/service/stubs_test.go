package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/belleallure/salon-api/internal/core/domain"
	"github.com/belleallure/salon-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

// stubAppointmentRepo mirrors the Mongo partial unique index: at most one
// slot-holding appointment per (date, time, stylist).
type stubAppointmentRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Appointment
	seq       int
	findCalls int
	insertErr error
}

func newStubAppointmentRepo() *stubAppointmentRepo {
	return &stubAppointmentRepo{byID: make(map[string]*domain.Appointment)}
}

func (r *stubAppointmentRepo) holderExists(a *domain.Appointment) bool {
	for id, other := range r.byID {
		if id == a.ID || !other.Status.HoldsSlot() {
			continue
		}
		if other.Date == a.Date && other.Time == a.Time && other.Stylist == a.Stylist {
			return true
		}
	}
	return false
}

func (r *stubAppointmentRepo) Insert(_ context.Context, a *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	if a.Status.HoldsSlot() && r.holderExists(a) {
		return domain.ErrSlotConflict
	}
	r.seq++
	a.ID = fmt.Sprintf("apt-%d", r.seq)
	clone := *a
	r.byID[a.ID] = &clone
	return nil
}

func (r *stubAppointmentRepo) FindByID(_ context.Context, id string) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAppointmentRepo) Find(_ context.Context, f ports.AppointmentFilter) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findCalls++
	var out []*domain.Appointment
	for _, a := range r.byID {
		if f.Date != "" && a.Date != f.Date {
			continue
		}
		if f.Stylist != "" && a.Stylist != f.Stylist {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.ActiveOnly && !a.Status.HoldsSlot() {
			continue
		}
		clone := *a
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (r *stubAppointmentRepo) UpdateByID(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.ID]; !ok {
		return nil, domain.ErrAppointmentNotFound
	}
	if a.Status.HoldsSlot() && r.holderExists(a) {
		return nil, domain.ErrSlotConflict
	}
	clone := *a
	r.byID[a.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubAppointmentRepo) DeleteByID(_ context.Context, id string) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}
	delete(r.byID, id)
	return a, nil
}

func (r *stubAppointmentRepo) seed(date, t string, stylist domain.StylistCode, status domain.AppointmentStatus) *domain.Appointment {
	a := &domain.Appointment{
		Client:  domain.Client{FirstName: "Léa", LastName: "B", Email: "lea@example.com", Phone: "0612345678"},
		Service: "coupe",
		Stylist: stylist,
		Date:    date,
		Time:    t,
		Status:  status,
	}
	if err := r.Insert(context.Background(), a); err != nil {
		panic(err)
	}
	return a
}

// ---------------------------------------------------------------------------
// Cache and notifier stubs
// ---------------------------------------------------------------------------

// stubSlotCache mirrors the Redis generation guard.
type stubSlotCache struct {
	mu          sync.Mutex
	entries     map[domain.SlotKey][]string
	gens        map[domain.SlotKey]int64
	invalidated []domain.SlotKey
	staleSets   int
	getErr      error
}

func newStubSlotCache() *stubSlotCache {
	return &stubSlotCache{
		entries: make(map[domain.SlotKey][]string),
		gens:    make(map[domain.SlotKey]int64),
	}
}

func (c *stubSlotCache) Get(_ context.Context, key domain.SlotKey) ([]string, bool, int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, 0, c.getErr
	}
	v, ok := c.entries[key]
	return v, ok, c.gens[key], nil
}

func (c *stubSlotCache) Set(_ context.Context, key domain.SlotKey, gen int64, booked []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[key] != gen {
		c.staleSets++
		return nil
	}
	c.entries[key] = append([]string(nil), booked...)
	return nil
}

func (c *stubSlotCache) Invalidate(_ context.Context, keys ...domain.SlotKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		c.gens[k]++
		delete(c.entries, k)
		c.invalidated = append(c.invalidated, k)
	}
	return nil
}

// mutateAfterFindRepo runs a mutation once, right after the next Find has
// taken its snapshot.
type mutateAfterFindRepo struct {
	*stubAppointmentRepo
	afterFind func()
}

func (r *mutateAfterFindRepo) Find(ctx context.Context, f ports.AppointmentFilter) ([]*domain.Appointment, error) {
	out, err := r.stubAppointmentRepo.Find(ctx, f)
	if fn := r.afterFind; fn != nil {
		r.afterFind = nil
		fn()
	}
	return out, err
}

type recordingNotifier struct {
	mu        sync.Mutex
	booked    []string
	cancelled []string
}

func (n *recordingNotifier) AppointmentBooked(a *domain.Appointment, _ domain.CalendarEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.booked = append(n.booked, a.ID)
}

func (n *recordingNotifier) AppointmentCancelled(a *domain.Appointment, _ domain.CalendarEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, a.ID)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var (
	discardLogger = zerolog.Nop()
	salonZone     = time.FixedZone("CEST", 2*60*60)
	// Monday 2 June 2025, 08:00 salon time.
	fixedNow = time.Date(2025, time.June, 2, 8, 0, 0, 0, salonZone)
)

func clockAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestCalendar(repo ports.AppointmentRepository, opts ...CalendarOption) *SlotCalendar {
	opts = append([]CalendarOption{WithClock(clockAt(fixedNow))}, opts...)
	return NewSlotCalendar(repo, domain.DefaultCatalog(), domain.DefaultSchedule(salonZone), discardLogger, opts...)
}

func newTestAppointmentService(repo ports.AppointmentRepository, notifier ports.Notifier, policy BookingPolicy) *AppointmentService {
	return NewAppointmentService(repo, newTestCalendar(repo), nil, notifier, domain.DefaultCatalog(), policy, discardLogger)
}

func bookingInput(date, t, stylist string) ports.CreateAppointmentInput {
	return ports.CreateAppointmentInput{
		Client: ports.ClientInput{
			FirstName: "Sophie",
			LastName:  "Laurent",
			Email:     "Sophie.Laurent@example.com",
			Phone:     "06 12 34 56 78",
		},
		Service: "coupe",
		Stylist: stylist,
		Date:    date,
		Time:    t,
		Notes:   "  first visit ",
	}
}
