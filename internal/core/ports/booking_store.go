package ports

import (
	"context"

	"github.com/sharebnb/sharebnb-api/internal/core/domain"
)

// BookingStore is the transactional storage behind the booking ledger.
type BookingStore interface {
	// WithinTx runs fn inside a single database transaction. The transaction
	// commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(tx BookingTx) error) error
	// Delete removes the (username, listingID) row and reports whether one existed.
	Delete(ctx context.Context, username string, listingID int64) (bool, error)
}

// BookingTx is the set of reads and writes available inside a booking transaction.
type BookingTx interface {
	UserExists(ctx context.Context, username string) (bool, error)
	BookingExists(ctx context.Context, username string, listingID int64) (bool, error)
	// Insert stores the booking. A uniqueness violation on (username, listing_id)
	// is reported as domain.ErrAlreadyBooked; a vanished user or listing as the
	// matching NotFound error.
	Insert(ctx context.Context, b domain.Booking) (*domain.Booking, error)
}
