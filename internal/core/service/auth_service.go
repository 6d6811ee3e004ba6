package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sharebnb/sharebnb-api/internal/core/domain"
	"github.com/sharebnb/sharebnb-api/internal/core/ports"
)

// TokenIssuer signs a token naming username.
type TokenIssuer interface {
	Issue(username string) (string, error)
}

// AuthService implements registration and login.
type AuthService struct {
	repo       ports.UserRepository
	tokens     TokenIssuer
	bcryptCost int
	log        zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens TokenIssuer, bcryptCost int, log zerolog.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{repo: repo, tokens: tokens, bcryptCost: bcryptCost, log: log}
}

// Register creates the account and returns a token for it.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, error) {
	if in.Username == "" || in.Password == "" {
		return "", domain.BadRequest("username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("register: hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, &domain.User{
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return "", err
	}

	s.log.Info().Str("username", user.Username).Msg("user registered")
	return s.tokens.Issue(user.Username)
}

// Login verifies the password and returns a fresh token. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}

	return s.tokens.Issue(user.Username)
}
