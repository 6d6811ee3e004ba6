package ports

import (
	"context"

	"github.com/sharebnb/sharebnb-api/internal/core/domain"
)

// MessageRepository defines persistence operations for direct messages.
type MessageRepository interface {
	Create(ctx context.Context, m *domain.Message) (*domain.Message, error)
	FindByID(ctx context.Context, id string) (*domain.Message, error)
	// ListByRecipient returns messages received by username, newest first.
	ListByRecipient(ctx context.Context, username string) ([]domain.Message, error)
	// ListBySender returns messages sent by username, newest first.
	ListBySender(ctx context.Context, username string) ([]domain.Message, error)
	// DeleteByUser removes every message username sent or received.
	DeleteByUser(ctx context.Context, username string) (int64, error)
}
