package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/sharebnb/sharebnb-api/internal/core/domain"
)

const identityKey = "identity"

// IdentityResolver turns an Authorization header value into an Identity.
type IdentityResolver interface {
	ResolveHeader(header string) domain.Identity
}

// Identify resolves the caller on every request and stores the Identity in
// the context. It never rejects a request; gates further down do that.
func Identify(resolver IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := resolver.ResolveHeader(c.Request().Header.Get(echo.HeaderAuthorization))
			c.Set(identityKey, id)
			return next(c)
		}
	}
}

// IdentityFrom returns the caller stored by Identify, or Anonymous.
func IdentityFrom(c echo.Context) domain.Identity {
	id, _ := c.Get(identityKey).(domain.Identity)
	return id
}
