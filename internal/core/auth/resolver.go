package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sharebnb/sharebnb-api/internal/core/domain"
)

// Resolver turns a bearer credential into an Identity. It never fails: any
// credential that does not verify resolves to Anonymous.
type Resolver struct {
	secret []byte
	now    func() time.Time
}

// NewResolver returns a Resolver verifying against secret with the wall clock.
func NewResolver(secret string) *Resolver {
	return NewResolverWithClock(secret, time.Now)
}

// NewResolverWithClock returns a Resolver that reads the time from now.
func NewResolverWithClock(secret string, now func() time.Time) *Resolver {
	return &Resolver{secret: []byte(secret), now: now}
}

// Resolve verifies token and returns the caller it names.
func (r *Resolver) Resolve(token string) domain.Identity {
	if token == "" {
		return domain.Anonymous()
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return r.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(r.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid || claims.Username == "" {
		return domain.Anonymous()
	}
	return domain.Authenticated(claims.Username)
}

// ResolveHeader extracts the credential from an Authorization header value
// and resolves it. Headers without a "Bearer " scheme resolve to Anonymous.
func (r *Resolver) ResolveHeader(header string) domain.Identity {
	return r.Resolve(BearerToken(header))
}

// BearerToken returns the token part of "Bearer <token>", or "" when header
// does not use the bearer scheme.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
