package ports

import (
	"context"

	"github.com/belleallure/salon-api/internal/core/domain"
)

// RegisterInput carries a new account's details.
type RegisterInput struct {
	Username    string
	Password    string
	Email       string
	Role        string
	FirstName   string
	LastName    string
	Specialties []string
	WorkDays    []int
	WorkHours   *domain.WorkHours
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	ListStylists(ctx context.Context) ([]*domain.User, error)
}
