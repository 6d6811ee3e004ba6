package ports

import (
	"context"

	"github.com/sharebnb/sharebnb-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create inserts a user. Returns domain.ErrUsernameTaken on a duplicate.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByUsername returns the stored user including its password hash.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Exists(ctx context.Context, username string) (bool, error)
	List(ctx context.Context) ([]domain.User, error)
	// Detail returns the user plus owned listings and held bookings.
	Detail(ctx context.Context, username string) (*domain.UserDetail, error)
	Update(ctx context.Context, username string, patch domain.UserPatch) (*domain.User, error)
	// Delete removes the user; listings and bookings cascade in storage.
	Delete(ctx context.Context, username string) error
}
