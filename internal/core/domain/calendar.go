package domain

import (
	"fmt"
	"net/url"
	"time"
)

// CalendarEvent is the data needed to export an appointment to a calendar.
type CalendarEvent struct {
	Title    string
	Details  string
	Location string
	Start    time.Time
	End      time.Time
}

// GoogleCalendarURL builds a "create event" deep link for Google Calendar.
func (e CalendarEvent) GoogleCalendarURL() string {
	const layout = "20060102T150405Z"
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", e.Title)
	q.Set("dates", fmt.Sprintf("%s/%s", e.Start.UTC().Format(layout), e.End.UTC().Format(layout)))
	q.Set("details", e.Details)
	q.Set("location", e.Location)
	return "https://calendar.google.com/calendar/render?" + q.Encode()
}

// OutlookCalendarURL builds a compose deep link for Outlook.com.
func (e CalendarEvent) OutlookCalendarURL() string {
	q := url.Values{}
	q.Set("subject", e.Title)
	q.Set("startdt", e.Start.UTC().Format(time.RFC3339))
	q.Set("enddt", e.End.UTC().Format(time.RFC3339))
	q.Set("body", e.Details)
	q.Set("location", e.Location)
	return "https://outlook.live.com/calendar/0/deeplink/compose?" + q.Encode()
}
