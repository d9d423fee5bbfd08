package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/belleallure/salon-api/internal/core/domain"
	"github.com/belleallure/salon-api/internal/core/ports"
)

// BookingPolicy holds the salon-level booking settings.
type BookingPolicy struct {
	// AutoConfirm books straight into confirmed instead of pending.
	AutoConfirm  bool
	SalonName    string
	SalonAddress string
}

type AppointmentService struct {
	repo     ports.AppointmentRepository
	calendar *SlotCalendar
	cache    ports.SlotCache
	notifier ports.Notifier
	catalog  *domain.Catalog
	policy   BookingPolicy
	logger   zerolog.Logger
}

func NewAppointmentService(
	repo ports.AppointmentRepository,
	calendar *SlotCalendar,
	cache ports.SlotCache,
	notifier ports.Notifier,
	catalog *domain.Catalog,
	policy BookingPolicy,
	logger zerolog.Logger,
) *AppointmentService {
	return &AppointmentService{
		repo:     repo,
		calendar: calendar,
		cache:    cache,
		notifier: notifier,
		catalog:  catalog,
		policy:   policy,
		logger:   logger,
	}
}

// Create books a slot. The slot is first validated against the booking
// policy; exclusivity is then left to the repository's uniqueness guarantee,
// so a concurrent booking of the same (date, time, stylist) fails with
// domain.ErrSlotConflict rather than double-booking.
func (s *AppointmentService) Create(ctx context.Context, input ports.CreateAppointmentInput) (*ports.BookingResult, error) {
	if strings.TrimSpace(input.Service) == "" {
		return nil, fmt.Errorf("%w: service is required", domain.ErrInvalidRequest)
	}
	client, err := normalizeClient(input.Client)
	if err != nil {
		return nil, err
	}
	offering, ok := s.catalog.Service(input.Service)
	if !ok {
		return nil, fmt.Errorf("%w: unknown service %q", domain.ErrValidation, input.Service)
	}
	stylist, err := s.calendar.CheckBookable(input.Date, input.Time, input.Stylist)
	if err != nil {
		return nil, err
	}

	status := domain.StatusPending
	if s.policy.AutoConfirm {
		status = domain.StatusConfirmed
	}
	now := s.calendar.Now().UTC()
	appt := &domain.Appointment{
		Client:    client,
		Service:   offering.Code,
		Stylist:   stylist.Code,
		Date:      strings.TrimSpace(input.Date),
		Time:      input.Time,
		Status:    status,
		Notes:     strings.TrimSpace(input.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, appt); err != nil {
		if errors.Is(err, domain.ErrSlotConflict) {
			s.logger.Info().Str("date", appt.Date).Str("time", appt.Time).Str("stylist", string(appt.Stylist)).Msg("booking conflict")
			return nil, err
		}
		s.logger.Error().Err(err).Msg("failed to create appointment")
		return nil, err
	}

	s.invalidate(ctx, appt.Key())
	if s.notifier != nil {
		s.notifier.AppointmentBooked(appt, s.CalendarEvent(appt))
	}

	s.logger.Info().
		Str("appointment_id", appt.ID).
		Str("date", appt.Date).
		Str("time", appt.Time).
		Str("stylist", string(appt.Stylist)).
		Msg("appointment created")

	return &ports.BookingResult{
		Appointment: appt,
		Calendar:    s.CalendarEvent(appt),
	}, nil
}

func (s *AppointmentService) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns appointments matching the optional filters, ordered by date and time.
func (s *AppointmentService) List(ctx context.Context, input ports.ListAppointmentsInput) ([]*domain.Appointment, error) {
	filter := ports.AppointmentFilter{}
	if input.Date != "" {
		if _, err := s.calendar.Schedule().ParseDate(input.Date); err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidRequest)
		}
		filter.Date = input.Date
	}
	if input.Stylist != "" {
		st, ok := s.catalog.Stylist(input.Stylist)
		if !ok {
			return nil, fmt.Errorf("%w: unknown stylist %q", domain.ErrValidation, input.Stylist)
		}
		filter.Stylist = st.Code
	}
	if input.Status != "" {
		status := domain.AppointmentStatus(input.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, input.Status)
		}
		filter.Status = status
	}
	return s.repo.Find(ctx, filter)
}

// Update applies a partial update. Status changes follow the appointment
// state machine; a reschedule is re-validated against the booking policy and
// the repository rejects it with domain.ErrSlotConflict if the target slot is
// held.
func (s *AppointmentService) Update(ctx context.Context, id string, input ports.UpdateAppointmentInput) (*domain.Appointment, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.StatusCancelled {
		return nil, fmt.Errorf("%w: appointment is cancelled", domain.ErrInvalidTransition)
	}

	next := *current
	if input.Client != nil {
		client, err := normalizeClient(*input.Client)
		if err != nil {
			return nil, err
		}
		next.Client = client
	}
	if input.Service != nil {
		offering, ok := s.catalog.Service(*input.Service)
		if !ok {
			return nil, fmt.Errorf("%w: unknown service %q", domain.ErrValidation, *input.Service)
		}
		next.Service = offering.Code
	}
	if input.Stylist != nil {
		st, ok := s.catalog.Stylist(*input.Stylist)
		if !ok {
			return nil, fmt.Errorf("%w: unknown stylist %q", domain.ErrValidation, *input.Stylist)
		}
		next.Stylist = st.Code
	}
	if input.Date != nil {
		next.Date = strings.TrimSpace(*input.Date)
	}
	if input.Time != nil {
		next.Time = strings.TrimSpace(*input.Time)
	}
	if input.Notes != nil {
		next.Notes = strings.TrimSpace(*input.Notes)
	}
	if input.Status != nil {
		status := domain.AppointmentStatus(*input.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, *input.Status)
		}
		if status != current.Status && !current.Status.CanTransitionTo(status) {
			return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, current.Status, status)
		}
		next.Status = status
	}

	rescheduled := next.Date != current.Date || next.Time != current.Time || next.Stylist != current.Stylist
	if rescheduled && next.Status.HoldsSlot() {
		if _, err := s.calendar.CheckBookable(next.Date, next.Time, string(next.Stylist)); err != nil {
			return nil, err
		}
	}

	next.UpdatedAt = s.calendar.Now().UTC()
	updated, err := s.repo.UpdateByID(ctx, &next)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, current.Key(), updated.Key())
	if !updated.Status.HoldsSlot() && s.notifier != nil {
		s.notifier.AppointmentCancelled(updated, s.CalendarEvent(updated))
	}

	s.logger.Info().
		Str("appointment_id", updated.ID).
		Str("status", string(updated.Status)).
		Bool("rescheduled", rescheduled).
		Msg("appointment updated")
	return updated, nil
}

// Cancel moves the appointment to cancelled, releasing its slot.
func (s *AppointmentService) Cancel(ctx context.Context, id string) (*domain.Appointment, error) {
	status := string(domain.StatusCancelled)
	return s.Update(ctx, id, ports.UpdateAppointmentInput{Status: &status})
}

// Delete removes the appointment permanently.
func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	s.invalidate(ctx, deleted.Key())
	if deleted.Status.HoldsSlot() && s.notifier != nil {
		s.notifier.AppointmentCancelled(deleted, s.CalendarEvent(deleted))
	}
	s.logger.Info().Str("appointment_id", deleted.ID).Msg("appointment deleted")
	return nil
}

// CalendarEvent describes the appointment for calendar export.
func (s *AppointmentService) CalendarEvent(a *domain.Appointment) domain.CalendarEvent {
	schedule := s.calendar.Schedule()
	ev := domain.CalendarEvent{
		Title:    "Rendez-vous " + s.policy.SalonName,
		Location: s.policy.SalonAddress,
	}
	day, err := schedule.ParseDate(a.Date)
	if err != nil {
		return ev
	}
	start, err := schedule.SlotStart(day, a.Time)
	if err != nil {
		return ev
	}
	duration := schedule.Step
	serviceName := string(a.Service)
	if offering, ok := s.catalog.Service(string(a.Service)); ok {
		duration = offering.Duration()
		serviceName = offering.Name
	}
	stylistName := string(a.Stylist)
	if st, ok := s.catalog.Stylist(string(a.Stylist)); ok {
		stylistName = st.FirstName + " " + st.LastName
	}
	ev.Start = start
	ev.End = start.Add(duration)
	ev.Details = fmt.Sprintf("Service: %s\nCoiffeur: %s", serviceName, stylistName)
	return ev
}

func (s *AppointmentService) invalidate(ctx context.Context, keys ...domain.SlotKey) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.logger.Warn().Err(err).Msg("slot cache invalidation failed")
	}
}
