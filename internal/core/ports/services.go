package ports

import (
	"context"

	"github.com/sharebnb/sharebnb-api/internal/core/domain"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
}

// AuthService registers users and issues tokens.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (token string, err error)
	Login(ctx context.Context, username, password string) (token string, err error)
}

// CreateListingInput carries a new listing. The owner always comes from the
// caller's identity, never from the request body.
type CreateListingInput struct {
	Title         string
	Type          string
	Price         int
	Description   string
	Location      string
	OwnerUsername string
	Photo         *domain.Photo
}

// ListingService covers the listing and booking use cases.
type ListingService interface {
	Create(ctx context.Context, in CreateListingInput) (*domain.Listing, error)
	Get(ctx context.Context, id int64) (*domain.Listing, error)
	FindAll(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error)
	// Update mutates a listing the caller has already been verified to own.
	// When photo is non-nil it replaces the stored photo.
	Update(ctx context.Context, current *domain.Listing, patch domain.ListingPatch, photo *domain.Photo) (*domain.Listing, error)
	// Delete removes a listing the caller has already been verified to own.
	Delete(ctx context.Context, current *domain.Listing) error
	Book(ctx context.Context, listingID int64, username string) (*domain.Booking, error)
	Unbook(ctx context.Context, listingID int64, username string) error
}

// UserService covers profile use cases.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, username string) (*domain.UserDetail, error)
	Update(ctx context.Context, username string, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, username string) error
}

// MessageService covers direct messaging use cases.
type MessageService interface {
	Send(ctx context.Context, sender, recipient, body string) (*domain.Message, error)
	// Get returns the message when reader is its sender or recipient.
	Get(ctx context.Context, id, reader string) (*domain.Message, error)
	Inbox(ctx context.Context, username string) ([]domain.Message, error)
	Sent(ctx context.Context, username string) ([]domain.Message, error)
}

// PhotoService streams stored listing photos.
type PhotoService interface {
	Open(ctx context.Context, id string) (*domain.StoredPhoto, error)
}
