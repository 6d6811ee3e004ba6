package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sharebnb/sharebnb-api/internal/core/domain"
	"github.com/sharebnb/sharebnb-api/internal/core/ports"
)

// UserService implements profile reads, updates and account deletion.
type UserService struct {
	users    ports.UserRepository
	listings ports.ListingRepository
	messages ports.MessageRepository
	releaser ports.PhotoReleaser
	cache    ListingCache
	log      zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	listings ports.ListingRepository,
	messages ports.MessageRepository,
	releaser ports.PhotoReleaser,
	cache ListingCache,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		users:    users,
		listings: listings,
		messages: messages,
		releaser: releaser,
		cache:    cache,
		log:      log,
	}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, username string) (*domain.UserDetail, error) {
	return s.users.Detail(ctx, username)
}

// Update applies the profile whitelist. An empty patch returns the stored user.
func (s *UserService) Update(ctx context.Context, username string, patch domain.UserPatch) (*domain.User, error) {
	if patch.IsEmpty() {
		return s.users.FindByUsername(ctx, username)
	}
	return s.users.Update(ctx, username, patch)
}

// Delete removes the account. Listings and bookings cascade in Postgres;
// messages live in Mongo and photos in the blob store, so both are cleaned
// up here once the user row is gone.
func (s *UserService) Delete(ctx context.Context, username string) error {
	owned, err := s.listings.FindByOwner(ctx, username)
	if err != nil {
		return err
	}

	if err := s.users.Delete(ctx, username); err != nil {
		return err
	}

	n, err := s.messages.DeleteByUser(ctx, username)
	if err != nil {
		s.log.Error().Err(err).Str("username", username).Msg("failed to delete messages of removed user")
	}

	for _, l := range owned {
		if s.cache != nil {
			if err := s.cache.Invalidate(ctx, l.ID); err != nil {
				s.log.Warn().Err(err).Int64("listing_id", l.ID).Msg("listing cache invalidation failed")
			}
		}
		if l.PhotoURL != nil {
			releaseUnreferenced(ctx, s.listings, s.releaser, s.log, *l.PhotoURL)
		}
	}

	s.log.Info().
		Str("username", username).
		Int("listings", len(owned)).
		Int64("messages", n).
		Msg("user deleted")
	return nil
}
