package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/belleallure/salon-api/internal/core/domain"
	"github.com/belleallure/salon-api/internal/core/ports"
)

const testSecret = "router-secret"

type fakeAppointments struct{ ports.AppointmentService }

func (fakeAppointments) List(context.Context, ports.ListAppointmentsInput) ([]*domain.Appointment, error) {
	return nil, nil
}

type fakeSlots struct{}

func (fakeSlots) AvailableSlots(context.Context, string, string) ([]string, error) {
	return []string{"09:00", "09:30"}, nil
}

type fakeAuth struct{ ports.AuthService }

func (fakeAuth) ListStylists(context.Context) ([]*domain.User, error) {
	return []*domain.User{{ID: "u1", Username: "julie", Role: domain.RoleStylist}}, nil
}

// The router registers Prometheus collectors, so every test shares one instance.
var testRouter = NewRouter(Deps{
	Logger:       zerolog.New(io.Discard),
	JWTSecret:    testSecret,
	CORSOrigins:  []string{"*"},
	Catalog:      domain.DefaultCatalog(),
	Schedule:     domain.DefaultSchedule(time.UTC),
	Appointments: fakeAppointments{},
	Slots:        fakeSlots{},
	Auth:         fakeAuth{},
})

func tokenFor(t *testing.T, role string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "665f1c2e9b1e8a3d4c5b6a79",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func serve(method, path, token, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	testRouter.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Routes(t *testing.T) {
	cases := []struct {
		name   string
		method string
		path   string
		role   string
		body   string
		want   int
	}{
		{"liveness", http.MethodGet, "/health", "", "", http.StatusOK},
		{"readiness without mongo", http.MethodGet, "/health/ready", "", "", http.StatusServiceUnavailable},
		{"metrics", http.MethodGet, "/metrics", "", "", http.StatusOK},
		{"catalog is public", http.MethodGet, "/api/catalog", "", "", http.StatusOK},
		{"slots are public", http.MethodGet, "/api/appointments/available-slots?date=2025-06-10&stylist=julie", "", "", http.StatusOK},
		{"stylists are public", http.MethodGet, "/api/users/stylists", "", "", http.StatusOK},
		{"list needs a token", http.MethodGet, "/api/appointments", "", "", http.StatusUnauthorized},
		{"list with stylist token", http.MethodGet, "/api/appointments", domain.RoleStylist, "", http.StatusOK},
		{"cancel needs a token", http.MethodPatch, "/api/appointments/abc/cancel", "", "", http.StatusUnauthorized},
		{"profile needs a token", http.MethodGet, "/api/users/profile", "", "", http.StatusUnauthorized},
		{"register is admin only", http.MethodPost, "/api/users/register", domain.RoleStylist, `{}`, http.StatusForbidden},
		{"register validates for admins", http.MethodPost, "/api/users/register", domain.RoleAdmin, `{}`, http.StatusBadRequest},
		{"booking validates input", http.MethodPost, "/api/appointments", "", `{"service":"coupe"}`, http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/nope", "", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token := ""
			if tc.role != "" {
				token = tokenFor(t, tc.role)
			}
			rec := serve(tc.method, tc.path, token, tc.body)
			if rec.Code != tc.want {
				t.Fatalf("%s %s: expected %d, got %d (%s)", tc.method, tc.path, tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouter_ErrorEnvelope(t *testing.T) {
	rec := serve(http.MethodGet, "/api/appointments", "", "")
	if !strings.Contains(rec.Body.String(), `"code":"unauthorized"`) {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Fatalf("expected request id header")
	}
}
