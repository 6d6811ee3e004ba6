// Package authz holds the authorization checks applied to a resolved
// identity before any mutation runs.
package authz

import (
	"context"

	"github.com/sharebnb/sharebnb-api/internal/core/domain"
)

// ListingFinder is the lookup RequireResourceOwner needs.
type ListingFinder interface {
	FindByID(ctx context.Context, id int64) (*domain.Listing, error)
}

// RequireAuthenticated passes for any authenticated caller and returns its username.
func RequireAuthenticated(id domain.Identity) (string, error) {
	username, ok := id.Username()
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return username, nil
}

// RequireSubjectMatch passes when the caller is the user named by the route.
func RequireSubjectMatch(id domain.Identity, subject string) error {
	username, err := RequireAuthenticated(id)
	if err != nil {
		return err
	}
	if username != subject {
		return domain.ErrUnauthorized
	}
	return nil
}

// RequireResourceOwner passes when listingID exists and belongs to the
// caller. The caller is authenticated before the lookup so anonymous callers
// learn nothing about which listings exist. The fetched listing is returned
// for the mutation to reuse.
func RequireResourceOwner(ctx context.Context, id domain.Identity, listings ListingFinder, listingID int64) (*domain.Listing, error) {
	username, err := RequireAuthenticated(id)
	if err != nil {
		return nil, err
	}

	listing, err := listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !listing.IsOwnedBy(username) {
		return nil, domain.ErrNotOwner
	}
	return listing, nil
}
