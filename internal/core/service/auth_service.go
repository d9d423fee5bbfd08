package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/belleallure/salon-api/internal/core/domain"
	"github.com/belleallure/salon-api/internal/core/ports"
)

// AuthService implements account registration and login.
type AuthService struct {
	repo      ports.AuthRepository
	catalog   *domain.Catalog
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.AuthRepository, catalog *domain.Catalog, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, catalog: catalog, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || in.Password == "" || email == "" {
		return nil, fmt.Errorf("%w: username, password and email are required", domain.ErrInvalidRequest)
	}
	role := in.Role
	if role == "" {
		role = domain.RoleStylist
	}
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("%w: role must be stylist or admin", domain.ErrValidation)
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	specialties := make([]domain.ServiceCode, 0, len(in.Specialties))
	for _, code := range in.Specialties {
		offering, ok := s.catalog.Service(code)
		if !ok {
			return nil, fmt.Errorf("%w: unknown specialty %q", domain.ErrValidation, code)
		}
		specialties = append(specialties, offering.Code)
	}
	for _, d := range in.WorkDays {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("%w: work day %d out of range 0-6", domain.ErrValidation, d)
		}
	}
	if in.WorkHours != nil {
		if err := validateWorkHours(*in.WorkHours); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: password must be at most 72 bytes", domain.ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Specialties:  specialties,
		WorkDays:     in.WorkDays,
		WorkHours:    in.WorkHours,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login verifies credentials and issues a signed token. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.repo.FindByID(ctx, userID)
}

func (s *AuthService) ListStylists(ctx context.Context) ([]*domain.User, error) {
	return s.repo.ListByRole(ctx, domain.RoleStylist)
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func validateWorkHours(wh domain.WorkHours) error {
	start, err1 := time.Parse(domain.TimeLayout, wh.Start)
	end, err2 := time.Parse(domain.TimeLayout, wh.End)
	if err1 != nil || err2 != nil {
		return fmt.Errorf("%w: work hours must be HH:MM", domain.ErrValidation)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: work hours must end after they start", domain.ErrValidation)
	}
	return nil
}
