package ports

import (
	"context"

	"github.com/belleallure/salon-api/internal/core/domain"
)

// AuthRepository defines the interface for account persistence.
type AuthRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	ListByRole(ctx context.Context, role string) ([]*domain.User, error)
}
