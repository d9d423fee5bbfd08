package handler

import (
	"time"

	"github.com/belleallure/salon-api/internal/core/domain"
	"github.com/belleallure/salon-api/internal/core/ports"
)

// --- Request types ---

type clientRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	Email     string `json:"email"      validate:"required,email"`
	Phone     string `json:"phone"      validate:"required"`
}

type createAppointmentRequest struct {
	Client  clientRequest `json:"client"`
	Service string        `json:"service" validate:"required,salon_service"`
	Stylist string        `json:"stylist" validate:"required,salon_stylist"`
	Date    string        `json:"date"    validate:"required"`
	Time    string        `json:"time"    validate:"required"`
	Notes   string        `json:"notes"   validate:"max=500"`
}

type updateClientRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// updateAppointmentRequest is a partial update: absent fields stay unchanged.
type updateAppointmentRequest struct {
	Client  *updateClientRequest `json:"client,omitempty"`
	Service *string              `json:"service,omitempty" validate:"omitempty,salon_service"`
	Stylist *string              `json:"stylist,omitempty" validate:"omitempty,salon_stylist"`
	Date    *string              `json:"date,omitempty"`
	Time    *string              `json:"time,omitempty"`
	Status  *string              `json:"status,omitempty"  validate:"omitempty,oneof=pending confirmed cancelled"`
	Notes   *string              `json:"notes,omitempty"   validate:"omitempty,max=500"`
}

// --- Response types ---

type appointmentLinks struct {
	Self            string `json:"self"`
	GoogleCalendar  string `json:"google_calendar,omitempty"`
	OutlookCalendar string `json:"outlook_calendar,omitempty"`
}

type appointmentResponse struct {
	ID        string        `json:"id"`
	Client    domain.Client `json:"client"`
	Service   string        `json:"service"`
	Stylist   string        `json:"stylist"`
	Date      string        `json:"date"`
	Time      string        `json:"time"`
	Status    string        `json:"status"`
	Notes     string        `json:"notes,omitempty"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
}

type createAppointmentResponse struct {
	appointmentResponse
	Links appointmentLinks `json:"_links"`
}

type listAppointmentsResponse struct {
	Data  []appointmentResponse `json:"data"`
	Total int                   `json:"total"`
}

type slotsResponse struct {
	Date    string   `json:"date"`
	Stylist string   `json:"stylist"`
	Slots   []string `json:"slots"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Mapping ---

func toCreateInput(req createAppointmentRequest) ports.CreateAppointmentInput {
	return ports.CreateAppointmentInput{
		Client: ports.ClientInput{
			FirstName: req.Client.FirstName,
			LastName:  req.Client.LastName,
			Email:     req.Client.Email,
			Phone:     req.Client.Phone,
		},
		Service: req.Service,
		Stylist: req.Stylist,
		Date:    req.Date,
		Time:    req.Time,
		Notes:   req.Notes,
	}
}

func toUpdateInput(req updateAppointmentRequest) ports.UpdateAppointmentInput {
	in := ports.UpdateAppointmentInput{
		Service: req.Service,
		Stylist: req.Stylist,
		Date:    req.Date,
		Time:    req.Time,
		Status:  req.Status,
		Notes:   req.Notes,
	}
	if req.Client != nil {
		in.Client = &ports.ClientInput{
			FirstName: req.Client.FirstName,
			LastName:  req.Client.LastName,
			Email:     req.Client.Email,
			Phone:     req.Client.Phone,
		}
	}
	return in
}

func toAppointmentResponse(a *domain.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:        a.ID,
		Client:    a.Client,
		Service:   string(a.Service),
		Stylist:   string(a.Stylist),
		Date:      a.Date,
		Time:      a.Time,
		Status:    string(a.Status),
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func selfLink(id string) string {
	return "/api/appointments/" + id
}
