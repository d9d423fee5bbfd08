package domain

import "time"

// AppointmentStatus represents the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
// cancelled is terminal.
var validTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled},
}

// Valid reports whether s is a known status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// HoldsSlot reports whether an appointment in this status occupies its slot.
func (s AppointmentStatus) HoldsSlot() bool {
	return s != StatusCancelled
}

// Client identifies the person who booked.
type Client struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// FullName returns "First Last".
func (c Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Appointment is the core aggregate root.
//
// Date is a calendar date (YYYY-MM-DD) in the salon's time zone and Time is a
// slot of the base sequence (HH:MM). (Date, Time, Stylist) is unique among
// appointments whose status holds the slot.
type Appointment struct {
	ID        string            `json:"id"`
	Client    Client            `json:"client"`
	Service   ServiceCode       `json:"service"`
	Stylist   StylistCode       `json:"stylist"`
	Date      string            `json:"date"`
	Time      string            `json:"time"`
	Status    AppointmentStatus `json:"status"`
	Notes     string            `json:"notes,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// SlotKey is the (date, stylist) pair slot availability is computed for.
type SlotKey struct {
	Date    string
	Stylist StylistCode
}

// Key returns the availability key this appointment belongs to.
func (a *Appointment) Key() SlotKey {
	return SlotKey{Date: a.Date, Stylist: a.Stylist}
}
