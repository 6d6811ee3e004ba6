package ports

import (
	"context"

	"github.com/sharebnb/sharebnb-api/internal/core/domain"
)

// ListingRepository defines persistence operations for listings.
type ListingRepository interface {
	// Create inserts the listing. Returns domain.ErrUserNotFound when the
	// owner does not exist.
	Create(ctx context.Context, l *domain.Listing) (*domain.Listing, error)
	FindByID(ctx context.Context, id int64) (*domain.Listing, error)
	// FindAll returns listings matching filter, ordered by title.
	FindAll(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error)
	// Update applies only the whitelisted patch fields and returns the stored row.
	Update(ctx context.Context, id int64, patch domain.ListingPatch) (*domain.Listing, error)
	// Delete removes the listing; its bookings cascade in storage.
	Delete(ctx context.Context, id int64) error
	// FindByOwner returns every listing owned by username.
	FindByOwner(ctx context.Context, username string) ([]domain.Listing, error)
	// CountByPhotoURL returns how many listings reference url.
	CountByPhotoURL(ctx context.Context, url string) (int, error)
}
