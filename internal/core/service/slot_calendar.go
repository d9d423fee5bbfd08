package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/belleallure/salon-api/internal/core/domain"
	"github.com/belleallure/salon-api/internal/core/ports"
)

// CalendarOption customises a SlotCalendar.
type CalendarOption func(*SlotCalendar)

// WithClock overrides the time source used for past-date checks.
func WithClock(now func() time.Time) CalendarOption {
	return func(c *SlotCalendar) { c.now = now }
}

// WithSlotCache enables the booked-times cache.
func WithSlotCache(cache ports.SlotCache) CalendarOption {
	return func(c *SlotCalendar) { c.cache = cache }
}

// SlotCalendar computes bookable slots and owns the booking policy: closed
// days, stylist work days, base-sequence membership and past dates are all
// decided here and nowhere else.
type SlotCalendar struct {
	repo     ports.AppointmentRepository
	cache    ports.SlotCache
	catalog  *domain.Catalog
	schedule domain.Schedule
	now      func() time.Time
	log      zerolog.Logger
}

func NewSlotCalendar(
	repo ports.AppointmentRepository,
	catalog *domain.Catalog,
	schedule domain.Schedule,
	log zerolog.Logger,
	opts ...CalendarOption,
) *SlotCalendar {
	c := &SlotCalendar{
		repo:     repo,
		catalog:  catalog,
		schedule: schedule,
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AvailableSlots returns the base slots for (date, stylist) minus the times
// held by non-cancelled appointments, in chronological order. A day the
// booking policy rejects yields an empty set, not an error.
func (c *SlotCalendar) AvailableSlots(ctx context.Context, date, stylist string) ([]string, error) {
	day, st, err := c.resolve(date, stylist)
	if err != nil {
		return nil, err
	}
	if err := c.checkDay(day, st); err != nil {
		c.log.Debug().Str("date", date).Str("stylist", stylist).Err(err).Msg("no slots on day")
		return []string{}, nil
	}

	booked, err := c.bookedTimes(ctx, domain.SlotKey{Date: date, Stylist: st.Code})
	if err != nil {
		return nil, fmt.Errorf("available slots: %w", err)
	}
	taken := make(map[string]struct{}, len(booked))
	for _, t := range booked {
		taken[t] = struct{}{}
	}

	now := c.now().In(c.schedule.Location)
	base := c.schedule.BaseSlots()
	slots := make([]string, 0, len(base))
	for _, slot := range base {
		if _, held := taken[slot]; held {
			continue
		}
		start, err := c.schedule.SlotStart(day, slot)
		if err != nil || !start.After(now) {
			continue
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// CheckBookable validates that slot on date is a legitimate booking target
// for stylist. It does not consult existing bookings.
func (c *SlotCalendar) CheckBookable(date, slot, stylist string) (domain.Stylist, error) {
	day, st, err := c.resolve(date, stylist)
	if err != nil {
		return domain.Stylist{}, err
	}
	if strings.TrimSpace(slot) == "" {
		return domain.Stylist{}, fmt.Errorf("%w: time is required", domain.ErrInvalidRequest)
	}
	if err := c.checkDay(day, st); err != nil {
		return domain.Stylist{}, err
	}
	if !c.schedule.IsSlot(slot) {
		return domain.Stylist{}, fmt.Errorf("%w: %s is not a bookable time", domain.ErrValidation, slot)
	}
	start, err := c.schedule.SlotStart(day, slot)
	if err != nil {
		return domain.Stylist{}, fmt.Errorf("%w: time must be HH:MM", domain.ErrInvalidRequest)
	}
	if !start.After(c.now()) {
		return domain.Stylist{}, fmt.Errorf("%w: %s %s is in the past", domain.ErrValidation, date, slot)
	}
	return st, nil
}

// Now returns the calendar's current time.
func (c *SlotCalendar) Now() time.Time {
	return c.now()
}

// Schedule returns the operating template.
func (c *SlotCalendar) Schedule() domain.Schedule {
	return c.schedule
}

func (c *SlotCalendar) resolve(date, stylist string) (time.Time, domain.Stylist, error) {
	date, stylist = strings.TrimSpace(date), strings.TrimSpace(stylist)
	if date == "" || stylist == "" {
		return time.Time{}, domain.Stylist{}, fmt.Errorf("%w: date and stylist are required", domain.ErrInvalidRequest)
	}
	day, err := c.schedule.ParseDate(date)
	if err != nil {
		return time.Time{}, domain.Stylist{}, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidRequest)
	}
	st, ok := c.catalog.Stylist(stylist)
	if !ok {
		return time.Time{}, domain.Stylist{}, fmt.Errorf("%w: unknown stylist %q", domain.ErrValidation, stylist)
	}
	return day, st, nil
}

// checkDay applies the day-level policy shared by listing and booking.
func (c *SlotCalendar) checkDay(day time.Time, st domain.Stylist) error {
	weekday := day.Weekday()
	if c.schedule.ClosedOn(weekday) {
		return fmt.Errorf("%w: the salon is closed on %s", domain.ErrValidation, strings.ToLower(weekday.String()))
	}
	if !st.WorksOn(weekday) {
		return fmt.Errorf("%w: %s does not work on %s", domain.ErrValidation, st.Code, strings.ToLower(weekday.String()))
	}
	now := c.now().In(c.schedule.Location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.schedule.Location)
	if day.Before(today) {
		return fmt.Errorf("%w: date %s is in the past", domain.ErrValidation, day.Format(domain.DateLayout))
	}
	return nil
}

// bookedTimes reads through the cache. The generation is taken before the
// store query so that a booking committed in between keeps the result out
// of the cache.
func (c *SlotCalendar) bookedTimes(ctx context.Context, key domain.SlotKey) ([]string, error) {
	cacheable := false
	var gen int64
	if c.cache != nil {
		booked, hit, g, err := c.cache.Get(ctx, key)
		switch {
		case err != nil:
			c.log.Warn().Err(err).Str("date", key.Date).Str("stylist", string(key.Stylist)).Msg("slot cache read failed, querying store")
		case hit:
			return booked, nil
		default:
			cacheable, gen = true, g
		}
	}

	appts, err := c.repo.Find(ctx, ports.AppointmentFilter{
		Date:       key.Date,
		Stylist:    key.Stylist,
		ActiveOnly: true,
	})
	if err != nil {
		return nil, err
	}
	booked := make([]string, 0, len(appts))
	for _, a := range appts {
		booked = append(booked, a.Time)
	}

	if cacheable {
		if err := c.cache.Set(ctx, key, gen, booked); err != nil {
			c.log.Warn().Err(err).Str("date", key.Date).Msg("slot cache write failed")
		}
	}
	return booked, nil
}
