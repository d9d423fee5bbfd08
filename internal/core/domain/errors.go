package domain

import "errors"

// Error kinds surfaced to API callers. Services wrap them with detail using
// fmt.Errorf("%w: ...") so errors.Is keeps working at the transport layer.
var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrValidation          = errors.New("validation failed")
	ErrSlotConflict        = errors.New("slot already booked")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrUnavailable         = errors.New("service unavailable")

	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
)
