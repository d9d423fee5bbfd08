package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/belleallure/salon-api/internal/core/domain"
	"github.com/belleallure/salon-api/internal/core/ports"
)

type stubAuthRepo struct {
	users map[string]*domain.User
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = "id-" + user.Username
	}
	r.users[copy.ID] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubAuthRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubAuthRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubAuthRepo) ListByRole(_ context.Context, role string) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func newTestAuthService(repo ports.AuthRepository) *AuthService {
	return NewAuthService(repo, domain.DefaultCatalog(), "secret", time.Hour)
}

func stylistInput(username string) ports.RegisterInput {
	return ports.RegisterInput{
		Username:    username,
		Password:    "pass123",
		Email:       username + "@salonbelleallure.fr",
		Role:        domain.RoleStylist,
		FirstName:   "Julie",
		LastName:    "Rousseau",
		Specialties: []string{"coupe", "brushing"},
		WorkDays:    []int{1, 2, 3, 4, 5, 6},
		WorkHours:   &domain.WorkHours{Start: "09:00", End: "18:00"},
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	svc := newTestAuthService(newStubAuthRepo())

	user, err := svc.Register(context.Background(), stylistInput("julie.rousseau"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user == nil {
		t.Fatalf("expected user, got nil")
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleStylist {
		t.Fatalf("unexpected role: %s", user.Role)
	}
	if len(user.Specialties) != 2 || user.Specialties[0] != "coupe" {
		t.Fatalf("unexpected specialties: %v", user.Specialties)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(newStubAuthRepo())

	cases := []struct {
		name   string
		mutate func(*ports.RegisterInput)
		want   error
	}{
		{"missing username", func(in *ports.RegisterInput) { in.Username = "" }, domain.ErrInvalidRequest},
		{"missing password", func(in *ports.RegisterInput) { in.Password = "" }, domain.ErrInvalidRequest},
		{"bad role", func(in *ports.RegisterInput) { in.Role = "client" }, domain.ErrValidation},
		{"bad email", func(in *ports.RegisterInput) { in.Email = "nope" }, domain.ErrValidation},
		{"unknown specialty", func(in *ports.RegisterInput) { in.Specialties = []string{"manucure"} }, domain.ErrValidation},
		{"work day out of range", func(in *ports.RegisterInput) { in.WorkDays = []int{7} }, domain.ErrValidation},
		{"password over 72 bytes", func(in *ports.RegisterInput) { in.Password = strings.Repeat("a", 73) }, domain.ErrValidation},
		{"multibyte password over 72 bytes", func(in *ports.RegisterInput) { in.Password = strings.Repeat("é", 40) }, domain.ErrValidation},
		{"inverted work hours", func(in *ports.RegisterInput) { in.WorkHours = &domain.WorkHours{Start: "18:00", End: "09:00"} }, domain.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := stylistInput("x")
			tc.mutate(&in)
			if _, err := svc.Register(context.Background(), in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newTestAuthService(newStubAuthRepo())

	_, _ = svc.Register(context.Background(), stylistInput("bob"))
	if _, err := svc.Register(context.Background(), stylistInput("bob")); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := newTestAuthService(newStubAuthRepo())

	in := stylistInput("admin")
	in.Role = domain.RoleAdmin
	in.Password = "s3cret"
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "admin", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.Username != "admin" {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != domain.RoleAdmin {
		t.Fatalf("expected role %s, got %v", domain.RoleAdmin, claims["role"])
	}
	if claims["sub"] != user.ID {
		t.Fatalf("expected sub %s, got %v", user.ID, claims["sub"])
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc := newTestAuthService(newStubAuthRepo())

	_, _ = svc.Register(context.Background(), stylistInput("dave"))
	if _, _, err := svc.Login(context.Background(), "dave", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUserLooksLikeBadPassword(t *testing.T) {
	svc := newTestAuthService(newStubAuthRepo())

	if _, _, err := svc.Login(context.Background(), "ghost", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_ListStylistsAndProfile(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	stylist, _ := svc.Register(context.Background(), stylistInput("marie"))
	admin := stylistInput("boss")
	admin.Role = domain.RoleAdmin
	_, _ = svc.Register(context.Background(), admin)

	stylists, err := svc.ListStylists(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stylists) != 1 || stylists[0].Username != "marie" {
		t.Fatalf("expected only marie, got %+v", stylists)
	}

	me, err := svc.Profile(context.Background(), stylist.ID)
	if err != nil || me.Username != "marie" {
		t.Fatalf("profile: %+v %v", me, err)
	}
	if _, err := svc.Profile(context.Background(), ""); err != domain.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
