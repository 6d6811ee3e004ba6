package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sharebnb/sharebnb-api/internal/api/metrics"
	"github.com/sharebnb/sharebnb-api/internal/core/authz"
	"github.com/sharebnb/sharebnb-api/internal/core/domain"
)

const listingKey = "listing"

// RequireAuthenticated rejects anonymous callers.
func RequireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := authz.RequireAuthenticated(IdentityFrom(c)); err != nil {
				return deny("authenticated", err)
			}
			return next(c)
		}
	}
}

// RequireSubjectMatch rejects callers other than the user named by the
// route parameter param.
func RequireSubjectMatch(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := authz.RequireSubjectMatch(IdentityFrom(c), c.Param(param)); err != nil {
				return deny("subject", err)
			}
			return next(c)
		}
	}
}

// RequireListingOwner loads the listing named by the route parameter param
// and rejects callers that do not own it. The listing is stored in the
// context for the handler; see ListingFrom.
func RequireListingOwner(listings authz.ListingFinder, param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := IdentityFrom(c)
			if !id.IsAuthenticated() {
				return deny("owner", domain.ErrUnauthorized)
			}

			listingID, err := ParseID(c.Param(param))
			if err != nil {
				return err
			}

			listing, err := authz.RequireResourceOwner(c.Request().Context(), id, listings, listingID)
			if err != nil {
				if domain.KindOf(err) == domain.KindUnauthorized {
					return deny("owner", err)
				}
				return err
			}

			c.Set(listingKey, listing)
			return next(c)
		}
	}
}

// ListingFrom returns the listing loaded by RequireListingOwner.
func ListingFrom(c echo.Context) (*domain.Listing, bool) {
	l, ok := c.Get(listingKey).(*domain.Listing)
	return l, ok && l != nil
}

// ParseID parses a positive numeric path id.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func deny(check string, err error) error {
	metrics.AuthzDeniedTotal.WithLabelValues(check).Inc()
	return err
}
