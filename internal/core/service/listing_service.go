package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/sharebnb/sharebnb-api/internal/api/metrics"
	"github.com/sharebnb/sharebnb-api/internal/core/domain"
	"github.com/sharebnb/sharebnb-api/internal/core/ports"
)

// ListingCache abstracts the listing read cache (Redis). Get returns nil, nil
// on a miss.
type ListingCache interface {
	Get(ctx context.Context, id int64) (*domain.Listing, error)
	Set(ctx context.Context, l *domain.Listing) error
	Invalidate(ctx context.Context, id int64) error
}

// ListingService implements the listing and booking use cases.
type ListingService struct {
	repo     ports.ListingRepository
	ledger   *BookingLedger
	blobs    ports.BlobStore
	releaser ports.PhotoReleaser
	cache    ListingCache
	sf       singleflight.Group
	log      zerolog.Logger
}

// NewListingService wires the service. cache may be nil to disable caching.
func NewListingService(
	repo ports.ListingRepository,
	ledger *BookingLedger,
	blobs ports.BlobStore,
	releaser ports.PhotoReleaser,
	cache ListingCache,
	log zerolog.Logger,
) *ListingService {
	return &ListingService{
		repo:     repo,
		ledger:   ledger,
		blobs:    blobs,
		releaser: releaser,
		cache:    cache,
		log:      log,
	}
}

// Create stores the photo, then the listing. If the insert fails the photo
// is released again.
func (s *ListingService) Create(ctx context.Context, in ports.CreateListingInput) (*domain.Listing, error) {
	if in.Photo == nil || len(in.Photo.Data) == 0 {
		return nil, domain.ErrPhotoRequired
	}

	url, err := s.blobs.Put(ctx, *in.Photo)
	if err != nil {
		return nil, fmt.Errorf("create listing: store photo: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.Listing{
		Title:         in.Title,
		Type:          in.Type,
		PhotoURL:      &url,
		Price:         in.Price,
		Description:   in.Description,
		Location:      in.Location,
		OwnerUsername: in.OwnerUsername,
	})
	if err != nil {
		s.releaser.Release(url)
		return nil, err
	}

	metrics.ListingsCreatedTotal.Inc()
	s.log.Info().Int64("listing_id", created.ID).Str("owner", created.OwnerUsername).Msg("listing created")
	return created, nil
}

// Get returns a listing, reading through the cache when one is configured.
// Concurrent misses for the same id share a single database round trip.
func (s *ListingService) Get(ctx context.Context, id int64) (*domain.Listing, error) {
	if s.cache == nil {
		return s.repo.FindByID(ctx, id)
	}

	v, err, _ := s.sf.Do(strconv.FormatInt(id, 10), func() (any, error) {
		cached, err := s.cache.Get(ctx, id)
		switch {
		case err != nil:
			metrics.ListingCacheTotal.WithLabelValues("error").Inc()
			s.log.Warn().Err(err).Int64("listing_id", id).Msg("listing cache read failed, falling back to store")
		case cached != nil:
			metrics.ListingCacheTotal.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			metrics.ListingCacheTotal.WithLabelValues("miss").Inc()
		}

		l, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, l); err != nil {
			s.log.Warn().Err(err).Int64("listing_id", id).Msg("listing cache write failed")
		}
		return l, nil
	})
	if err != nil {
		return nil, err
	}

	l := *v.(*domain.Listing)
	return &l, nil
}

func (s *ListingService) FindAll(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	listings, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	if listings == nil {
		listings = []domain.Listing{}
	}
	return listings, nil
}

// Update applies patch to a listing whose ownership the caller already
// proved. A new photo replaces the old one, which is released only after the
// row stops referencing it.
func (s *ListingService) Update(ctx context.Context, current *domain.Listing, patch domain.ListingPatch, photo *domain.Photo) (*domain.Listing, error) {
	var uploaded string
	if photo != nil && len(photo.Data) > 0 {
		url, err := s.blobs.Put(ctx, *photo)
		if err != nil {
			return nil, fmt.Errorf("update listing: store photo: %w", err)
		}
		uploaded = url
		patch.PhotoURL = &uploaded
	}

	if patch.IsEmpty() {
		return current, nil
	}

	updated, err := s.repo.Update(ctx, current.ID, patch)
	if err != nil {
		if uploaded != "" {
			s.releaser.Release(uploaded)
		}
		return nil, err
	}

	s.invalidate(ctx, current.ID)
	if old := current.PhotoURL; old != nil && (updated.PhotoURL == nil || *updated.PhotoURL != *old) {
		releaseUnreferenced(ctx, s.repo, s.releaser, s.log, *old)
	}

	s.log.Info().Int64("listing_id", current.ID).Msg("listing updated")
	return updated, nil
}

// Delete removes a listing whose ownership the caller already proved. Its
// bookings go with it and its photo is released.
func (s *ListingService) Delete(ctx context.Context, current *domain.Listing) error {
	if err := s.repo.Delete(ctx, current.ID); err != nil {
		return err
	}

	s.invalidate(ctx, current.ID)
	if current.PhotoURL != nil {
		releaseUnreferenced(ctx, s.repo, s.releaser, s.log, *current.PhotoURL)
	}

	s.log.Info().Int64("listing_id", current.ID).Str("owner", current.OwnerUsername).Msg("listing deleted")
	return nil
}

// Book claims the listing for username.
func (s *ListingService) Book(ctx context.Context, listingID int64, username string) (*domain.Booking, error) {
	listing, err := s.repo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	return s.ledger.Book(ctx, listing, username)
}

// Unbook releases username's claim on the listing.
func (s *ListingService) Unbook(ctx context.Context, listingID int64, username string) error {
	listing, err := s.repo.FindByID(ctx, listingID)
	if err != nil {
		return err
	}
	return s.ledger.Unbook(ctx, listing, username)
}

func (s *ListingService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn().Err(err).Int64("listing_id", id).Msg("listing cache invalidation failed")
	}
}

// releaseUnreferenced queues url for deletion unless some listing row still
// points at it. photoUrl is client-writable, so a URL may be shared by
// listings of different owners. If the check fails the photo is kept.
func releaseUnreferenced(ctx context.Context, repo ports.ListingRepository, releaser ports.PhotoReleaser, log zerolog.Logger, url string) {
	n, err := repo.CountByPhotoURL(ctx, url)
	if err != nil {
		log.Warn().Err(err).Str("photo_url", url).Msg("photo reference check failed, keeping photo")
		return
	}
	if n > 0 {
		log.Debug().Str("photo_url", url).Int("references", n).Msg("photo still referenced, keeping")
		return
	}
	releaser.Release(url)
}
