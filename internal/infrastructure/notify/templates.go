package notify

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/belleallure/salon-api/internal/core/domain"
)

// Kind identifies which email is sent for an appointment.
type Kind string

const (
	KindBooked    Kind = "booked"
	KindCancelled Kind = "cancelled"
)

var bodies = template.Must(template.New("emails").Parse(`
{{- define "booked" -}}
Bonjour {{.Client.FirstName}},

Votre rendez-vous chez {{.Salon}} est enregistré pour le {{.Date}} à {{.Time}}.
{{.Details}}
Statut : {{.Status}}

Adresse : {{.Location}}

Ajouter à votre agenda : {{.GoogleURL}}

À bientôt,
{{.Salon}}
{{- end}}

{{- define "cancelled" -}}
Bonjour {{.Client.FirstName}},

Votre rendez-vous chez {{.Salon}} du {{.Date}} à {{.Time}} a été annulé.
{{.Details}}

Pour reprendre rendez-vous, contactez-nous ou réservez en ligne.

{{.Salon}}
{{- end}}
`))

type emailData struct {
	Salon     string
	Client    domain.Client
	Date      string
	Time      string
	Status    domain.AppointmentStatus
	Details   string
	Location  string
	GoogleURL string
}

// Message is a rendered email ready for a Sender.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Compose renders the email of kind for appointment a.
func Compose(kind Kind, salon string, a *domain.Appointment, ev domain.CalendarEvent) (Message, error) {
	var subject string
	switch kind {
	case KindBooked:
		subject = fmt.Sprintf("%s : confirmation de votre rendez-vous du %s", salon, a.Date)
	case KindCancelled:
		subject = fmt.Sprintf("%s : annulation de votre rendez-vous du %s", salon, a.Date)
	default:
		return Message{}, fmt.Errorf("unknown notification kind %q", kind)
	}

	data := emailData{
		Salon:     salon,
		Client:    a.Client,
		Date:      a.Date,
		Time:      a.Time,
		Status:    a.Status,
		Details:   ev.Details,
		Location:  ev.Location,
		GoogleURL: ev.GoogleCalendarURL(),
	}
	var buf bytes.Buffer
	if err := bodies.ExecuteTemplate(&buf, string(kind), data); err != nil {
		return Message{}, fmt.Errorf("render %s email: %w", kind, err)
	}
	return Message{To: a.Client.Email, Subject: subject, Body: buf.String()}, nil
}
