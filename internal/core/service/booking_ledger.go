package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sharebnb/sharebnb-api/internal/api/metrics"
	"github.com/sharebnb/sharebnb-api/internal/core/domain"
	"github.com/sharebnb/sharebnb-api/internal/core/ports"
)

// BookingLedger moves a (username, listing) pair between unbooked and booked.
type BookingLedger struct {
	store ports.BookingStore
	log   zerolog.Logger
}

func NewBookingLedger(store ports.BookingStore, log zerolog.Logger) *BookingLedger {
	return &BookingLedger{store: store, log: log}
}

// Book claims listing for username. Checks run inside one transaction in
// this order: user exists, not the owner, not already booked. The storage
// primary key on (username, listing_id) is what actually guarantees
// uniqueness; a conflict on insert surfaces as domain.ErrAlreadyBooked too.
func (l *BookingLedger) Book(ctx context.Context, listing *domain.Listing, username string) (*domain.Booking, error) {
	var booking *domain.Booking

	err := l.store.WithinTx(ctx, func(tx ports.BookingTx) error {
		exists, err := tx.UserExists(ctx, username)
		if err != nil {
			return fmt.Errorf("book: check user: %w", err)
		}
		if !exists {
			return domain.ErrUserNotFound
		}

		if listing.OwnerUsername == username {
			return domain.ErrSelfBooking
		}

		booked, err := tx.BookingExists(ctx, username, listing.ID)
		if err != nil {
			return fmt.Errorf("book: check booking: %w", err)
		}
		if booked {
			return domain.ErrAlreadyBooked
		}

		booking, err = tx.Insert(ctx, domain.Booking{Username: username, ListingID: listing.ID})
		return err
	})
	metrics.BookingsTotal.WithLabelValues("book", bookingResult(err)).Inc()
	if err != nil {
		return nil, err
	}

	l.log.Info().Int64("listing_id", listing.ID).Str("username", username).Msg("listing booked")
	return booking, nil
}

// Unbook releases the claim username holds on listing.
func (l *BookingLedger) Unbook(ctx context.Context, listing *domain.Listing, username string) error {
	deleted, err := l.store.Delete(ctx, username, listing.ID)
	if err == nil && !deleted {
		err = domain.ErrBookingNotFound
	}
	metrics.BookingsTotal.WithLabelValues("unbook", bookingResult(err)).Inc()
	if err != nil {
		if domain.KindOf(err) != domain.KindInternal {
			return err
		}
		return fmt.Errorf("unbook: %w", err)
	}

	l.log.Info().Int64("listing_id", listing.ID).Str("username", username).Msg("booking cancelled")
	return nil
}

func bookingResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrSelfBooking):
		return "self_booking"
	case errors.Is(err, domain.ErrAlreadyBooked):
		return "already_booked"
	}
	return domain.KindOf(err).String()
}
