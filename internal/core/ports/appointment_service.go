package ports

import (
	"context"

	"github.com/belleallure/salon-api/internal/core/domain"
)

// ClientInput holds the booking client's contact details.
type ClientInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// CreateAppointmentInput carries all data needed to book a slot.
type CreateAppointmentInput struct {
	Client  ClientInput
	Service string
	Stylist string
	Date    string
	Time    string
	Notes   string
}

// UpdateAppointmentInput is a partial update; nil fields are left unchanged.
type UpdateAppointmentInput struct {
	Client  *ClientInput
	Service *string
	Stylist *string
	Date    *string
	Time    *string
	Status  *string
	Notes   *string
}

// ListAppointmentsInput carries the optional list filters.
type ListAppointmentsInput struct {
	Date    string
	Stylist string
	Status  string
}

// BookingResult is returned after a successful booking.
type BookingResult struct {
	Appointment *domain.Appointment
	Calendar    domain.CalendarEvent
}

// SlotService lists bookable slots.
type SlotService interface {
	AvailableSlots(ctx context.Context, date, stylist string) ([]string, error)
}

// AppointmentService defines use-case operations for appointments.
type AppointmentService interface {
	Create(ctx context.Context, input CreateAppointmentInput) (*BookingResult, error)
	Get(ctx context.Context, id string) (*domain.Appointment, error)
	List(ctx context.Context, input ListAppointmentsInput) ([]*domain.Appointment, error)
	Update(ctx context.Context, id string, input UpdateAppointmentInput) (*domain.Appointment, error)
	Cancel(ctx context.Context, id string) (*domain.Appointment, error)
	Delete(ctx context.Context, id string) error
}

// Notifier delivers best-effort client notifications. Implementations must
// not block the caller.
type Notifier interface {
	AppointmentBooked(a *domain.Appointment, ev domain.CalendarEvent)
	AppointmentCancelled(a *domain.Appointment, ev domain.CalendarEvent)
}
