package domain

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// TimeBlock is an opening window [Start, End) expressed as HH:MM.
type TimeBlock struct {
	Start string
	End   string
}

// Schedule is the salon's operating template.
type Schedule struct {
	Blocks     []TimeBlock
	Step       time.Duration
	ClosedDays []time.Weekday
	Location   *time.Location

	base []string
}

// NewSchedule validates the template and precomputes the base sequence.
func NewSchedule(blocks []TimeBlock, step time.Duration, closed []time.Weekday, loc *time.Location) (Schedule, error) {
	if step <= 0 {
		return Schedule{}, fmt.Errorf("schedule: step must be positive")
	}
	if loc == nil {
		loc = time.UTC
	}
	s := Schedule{Blocks: blocks, Step: step, ClosedDays: closed, Location: loc}
	var last time.Time
	for i, b := range blocks {
		start, err := time.Parse(TimeLayout, b.Start)
		if err != nil {
			return Schedule{}, fmt.Errorf("schedule: block %d start: %w", i, err)
		}
		end, err := time.Parse(TimeLayout, b.End)
		if err != nil {
			return Schedule{}, fmt.Errorf("schedule: block %d end: %w", i, err)
		}
		if !end.After(start) || (i > 0 && start.Before(last)) {
			return Schedule{}, fmt.Errorf("schedule: block %d out of order", i)
		}
		for t := start; t.Before(end); t = t.Add(step) {
			s.base = append(s.base, t.Format(TimeLayout))
		}
		last = end
	}
	return s, nil
}

// DefaultSchedule is 09:00-12:00 and 14:00-18:00 every 30 minutes, closed on Sunday.
func DefaultSchedule(loc *time.Location) Schedule {
	s, err := NewSchedule(
		[]TimeBlock{{Start: "09:00", End: "12:00"}, {Start: "14:00", End: "18:00"}},
		30*time.Minute,
		[]time.Weekday{time.Sunday},
		loc,
	)
	if err != nil {
		panic(err)
	}
	return s
}

// BaseSlots returns a copy of the base sequence in chronological order.
func (s Schedule) BaseSlots() []string {
	return append([]string(nil), s.base...)
}

// IsSlot reports whether t belongs to the base sequence.
func (s Schedule) IsSlot(t string) bool {
	for _, b := range s.base {
		if b == t {
			return true
		}
	}
	return false
}

// ClosedOn reports whether the salon is closed on the given weekday.
func (s Schedule) ClosedOn(day time.Weekday) bool {
	for _, d := range s.ClosedDays {
		if d == day {
			return true
		}
	}
	return false
}

// ParseDate parses a YYYY-MM-DD calendar date at midnight in the salon's zone.
func (s Schedule) ParseDate(date string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, date, s.Location)
}

// SlotStart returns the instant a slot begins on the given day.
func (s Schedule) SlotStart(day time.Time, slot string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, slot)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, s.Location), nil
}
