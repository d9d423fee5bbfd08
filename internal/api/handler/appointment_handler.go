package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/belleallure/salon-api/internal/api/metrics"
	"github.com/belleallure/salon-api/internal/core/domain"
	"github.com/belleallure/salon-api/internal/core/ports"
)

// AppointmentHandler handles HTTP requests for bookings and slot availability.
type AppointmentHandler struct {
	service ports.AppointmentService
	slots   ports.SlotService
}

func NewAppointmentHandler(service ports.AppointmentService, slots ports.SlotService) *AppointmentHandler {
	return &AppointmentHandler{service: service, slots: slots}
}

// AvailableSlots handles GET /api/appointments/available-slots.
//
// @Summary      List bookable slots
// @Description  Returns the free start times for a stylist on a date. Closed days, days off and past dates yield an empty list.
// @Tags         appointments
// @Produce      json
// @Param        date     query     string  true  "Calendar date (YYYY-MM-DD)"
// @Param        stylist  query     string  true  "Stylist code (e.g. julie)"
// @Success      200      {object}  slotsResponse
// @Failure      400      {object}  map[string]string
// @Failure      422      {object}  map[string]string
// @Failure      503      {object}  map[string]string
// @Router       /api/appointments/available-slots [get]
func (h *AppointmentHandler) AvailableSlots(c echo.Context) error {
	date := c.QueryParam("date")
	stylist := c.QueryParam("stylist")

	slots, err := h.slots.AvailableSlots(c.Request().Context(), date, stylist)
	if err != nil {
		metrics.SlotQueriesTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.SlotQueriesTotal.WithLabelValues("ok").Inc()

	return c.JSON(http.StatusOK, slotsResponse{Date: date, Stylist: stylist, Slots: slots})
}

// Create handles POST /api/appointments.
//
// @Summary      Book an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        body  body      createAppointmentRequest  true  "Booking details"
// @Success      201   {object}  createAppointmentResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/appointments [post]
func (h *AppointmentHandler) Create(c echo.Context) error {
	start := time.Now()

	var req createAppointmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.service.Create(c.Request().Context(), toCreateInput(req))
	if err != nil {
		outcome := "error"
		if errors.Is(err, domain.ErrSlotConflict) {
			outcome = "conflict"
			metrics.BookingConflictsTotal.Inc()
		}
		metrics.BookingDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
		return err
	}
	metrics.BookingDuration.WithLabelValues("created").Observe(time.Since(start).Seconds())
	metrics.AppointmentsCreatedTotal.WithLabelValues(string(result.Appointment.Service)).Inc()

	return c.JSON(http.StatusCreated, createAppointmentResponse{
		appointmentResponse: toAppointmentResponse(result.Appointment),
		Links: appointmentLinks{
			Self:            selfLink(result.Appointment.ID),
			GoogleCalendar:  result.Calendar.GoogleCalendarURL(),
			OutlookCalendar: result.Calendar.OutlookCalendarURL(),
		},
	})
}

// List handles GET /api/appointments.
//
// @Summary      List appointments
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        date     query     string  false  "Calendar date (YYYY-MM-DD)"
// @Param        stylist  query     string  false  "Stylist code"
// @Param        status   query     string  false  "pending, confirmed or cancelled"
// @Success      200      {object}  listAppointmentsResponse
// @Failure      400      {object}  map[string]string
// @Failure      401      {object}  map[string]string
// @Failure      403      {object}  map[string]string
// @Router       /api/appointments [get]
func (h *AppointmentHandler) List(c echo.Context) error {
	appts, err := h.service.List(c.Request().Context(), ports.ListAppointmentsInput{
		Date:    c.QueryParam("date"),
		Stylist: c.QueryParam("stylist"),
		Status:  c.QueryParam("status"),
	})
	if err != nil {
		return err
	}

	data := make([]appointmentResponse, 0, len(appts))
	for _, a := range appts {
		data = append(data, toAppointmentResponse(a))
	}
	return c.JSON(http.StatusOK, listAppointmentsResponse{Data: data, Total: len(data)})
}

// Get handles GET /api/appointments/:id.
//
// @Summary      Get an appointment
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment ID"
// @Success      200  {object}  appointmentResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/appointments/{id} [get]
func (h *AppointmentHandler) Get(c echo.Context) error {
	appt, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAppointmentResponse(appt))
}

// Update handles PUT /api/appointments/:id. A client block, when present,
// replaces the stored contact details as a whole.
//
// @Summary      Update an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Appointment ID"
// @Param        body  body      updateAppointmentRequest  true  "Fields to change"
// @Success      200   {object}  appointmentResponse
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/appointments/{id} [put]
func (h *AppointmentHandler) Update(c echo.Context) error {
	var req updateAppointmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	appt, err := h.service.Update(c.Request().Context(), c.Param("id"), toUpdateInput(req))
	if err != nil {
		if errors.Is(err, domain.ErrSlotConflict) {
			metrics.BookingConflictsTotal.Inc()
		}
		return err
	}
	if appt.Status == domain.StatusCancelled && req.Status != nil {
		metrics.AppointmentsCancelledTotal.Inc()
	}
	return c.JSON(http.StatusOK, toAppointmentResponse(appt))
}

// Cancel handles PATCH /api/appointments/:id/cancel.
//
// @Summary      Cancel an appointment
// @Description  Moves the appointment to cancelled and frees its slot. The record is kept.
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment ID"
// @Success      200  {object}  appointmentResponse
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /api/appointments/{id}/cancel [patch]
func (h *AppointmentHandler) Cancel(c echo.Context) error {
	appt, err := h.service.Cancel(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	metrics.AppointmentsCancelledTotal.Inc()
	return c.JSON(http.StatusOK, toAppointmentResponse(appt))
}

// Delete handles DELETE /api/appointments/:id.
//
// @Summary      Delete an appointment
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/appointments/{id} [delete]
func (h *AppointmentHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	metrics.AppointmentsCancelledTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "appointment deleted"})
}
