package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sharebnb/sharebnb-api/internal/core/domain"
	"github.com/sharebnb/sharebnb-api/internal/core/ports"
)

const bookingsListingFK = "bookings_listing_id_fkey"

// BookingStore implements ports.BookingStore. The (username, listing_id)
// primary key is the authoritative uniqueness guard.
type BookingStore struct {
	pool *pgxpool.Pool
}

func NewBookingStore(pool *pgxpool.Pool) *BookingStore {
	return &BookingStore{pool: pool}
}

// WithinTx runs fn in a transaction, committing only when fn returns nil.
func (s *BookingStore) WithinTx(ctx context.Context, fn func(tx ports.BookingTx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin booking tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&bookingTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit booking tx: %w", err)
	}
	return nil
}

func (s *BookingStore) Delete(ctx context.Context, username string, listingID int64) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM bookings WHERE username = $1 AND listing_id = $2`, username, listingID)
	if err != nil {
		return false, fmt.Errorf("delete booking: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

type bookingTx struct {
	tx pgx.Tx
}

func (t *bookingTx) UserExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	return exists, err
}

func (t *bookingTx) BookingExists(ctx context.Context, username string, listingID int64) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE username = $1 AND listing_id = $2)`,
		username, listingID).Scan(&exists)
	return exists, err
}

func (t *bookingTx) Insert(ctx context.Context, b domain.Booking) (*domain.Booking, error) {
	var out domain.Booking
	err := t.tx.QueryRow(ctx,
		`INSERT INTO bookings (username, listing_id) VALUES ($1, $2) RETURNING username, listing_id`,
		b.Username, b.ListingID).Scan(&out.Username, &out.ListingID)
	if err != nil {
		return nil, bookingInsertErr(err)
	}
	return &out, nil
}

// bookingInsertErr translates a failed bookings insert. The primary key
// conflict is the authoritative "already booked" signal.
func bookingInsertErr(err error) error {
	if isUniqueViolation(err) {
		return domain.ErrAlreadyBooked
	}
	if constraint, ok := foreignKeyViolation(err); ok {
		if constraint == bookingsListingFK {
			return domain.ErrListingNotFound
		}
		return domain.ErrUserNotFound
	}
	return fmt.Errorf("insert booking: %w", err)
}
