package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/belleallure/salon-api/internal/core/domain"
	"github.com/belleallure/salon-api/internal/core/ports"
)

type stubAppointmentService struct {
	createFn func(ctx context.Context, in ports.CreateAppointmentInput) (*ports.BookingResult, error)
	getFn    func(ctx context.Context, id string) (*domain.Appointment, error)
	listFn   func(ctx context.Context, in ports.ListAppointmentsInput) ([]*domain.Appointment, error)
	updateFn func(ctx context.Context, id string, in ports.UpdateAppointmentInput) (*domain.Appointment, error)
	cancelFn func(ctx context.Context, id string) (*domain.Appointment, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubAppointmentService) Create(ctx context.Context, in ports.CreateAppointmentInput) (*ports.BookingResult, error) {
	return s.createFn(ctx, in)
}

func (s *stubAppointmentService) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	return s.getFn(ctx, id)
}

func (s *stubAppointmentService) List(ctx context.Context, in ports.ListAppointmentsInput) ([]*domain.Appointment, error) {
	return s.listFn(ctx, in)
}

func (s *stubAppointmentService) Update(ctx context.Context, id string, in ports.UpdateAppointmentInput) (*domain.Appointment, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubAppointmentService) Cancel(ctx context.Context, id string) (*domain.Appointment, error) {
	return s.cancelFn(ctx, id)
}

func (s *stubAppointmentService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type stubSlotService struct {
	fn func(ctx context.Context, date, stylist string) ([]string, error)
}

func (s *stubSlotService) AvailableSlots(ctx context.Context, date, stylist string) ([]string, error) {
	return s.fn(ctx, date, stylist)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator(domain.DefaultCatalog())
	return e
}

func newRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return out
}

func sampleAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:      "665f1c2e9b1e8a3d4c5b6a79",
		Client:  domain.Client{FirstName: "Camille", LastName: "Martin", Email: "camille@example.com", Phone: "0612345678"},
		Service: "coupe",
		Stylist: "julie",
		Date:    "2025-06-10",
		Time:    "14:00",
		Status:  domain.StatusPending,
	}
}
