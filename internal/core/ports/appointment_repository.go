package ports

import (
	"context"

	"github.com/belleallure/salon-api/internal/core/domain"
)

// AppointmentFilter carries the query parameters for finding appointments.
// Zero values mean "no filter".
type AppointmentFilter struct {
	Date    string
	Stylist domain.StylistCode
	Status  domain.AppointmentStatus
	// ActiveOnly restricts the result to appointments that hold their slot.
	ActiveOnly bool
}

// AppointmentRepository defines persistence operations for appointments.
//
// Implementations must enforce uniqueness of (date, time, stylist) among
// appointments that hold their slot: Insert and UpdateByID return
// domain.ErrSlotConflict instead of writing a second holder.
type AppointmentRepository interface {
	// Find returns matching appointments ordered by date then time.
	Find(ctx context.Context, filter AppointmentFilter) ([]*domain.Appointment, error)
	FindByID(ctx context.Context, id string) (*domain.Appointment, error)
	// Insert persists a new appointment and sets its ID.
	Insert(ctx context.Context, a *domain.Appointment) error
	// UpdateByID replaces the mutable fields of an existing appointment.
	UpdateByID(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	// DeleteByID removes the appointment and returns what was deleted.
	DeleteByID(ctx context.Context, id string) (*domain.Appointment, error)
}

// SlotCache stores the booked times of a (date, stylist) pair. It is an
// optimisation only; callers fall back to the repository on any error.
//
// Every key carries a generation that Invalidate bumps. Set only writes when
// the key is still at the generation Get reported, so a snapshot read from
// the store before a mutation is never cached after it.
type SlotCache interface {
	// Get returns the cached times, whether they were present, and the
	// key's current generation.
	Get(ctx context.Context, key domain.SlotKey) (booked []string, hit bool, gen int64, err error)
	// Set stores booked unless key has moved past generation gen.
	Set(ctx context.Context, key domain.SlotKey, gen int64, booked []string) error
	Invalidate(ctx context.Context, keys ...domain.SlotKey) error
}
