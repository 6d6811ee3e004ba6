package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sharebnb/sharebnb-api/internal/core/domain"
	"github.com/sharebnb/sharebnb-api/internal/core/ports"
)

// MessageService implements direct messaging between users.
type MessageService struct {
	messages ports.MessageRepository
	users    ports.UserRepository
	now      func() time.Time
	log      zerolog.Logger
}

func NewMessageService(messages ports.MessageRepository, users ports.UserRepository, log zerolog.Logger) *MessageService {
	return &MessageService{messages: messages, users: users, now: time.Now, log: log}
}

// Send stores a message from sender to recipient. sentAt is assigned here.
func (s *MessageService) Send(ctx context.Context, sender, recipient, body string) (*domain.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, domain.BadRequest("message body is required")
	}

	exists, err := s.users.Exists(ctx, recipient)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrUnknownRecipient
	}

	msg, err := s.messages.Create(ctx, &domain.Message{
		Sender:    sender,
		Recipient: recipient,
		Body:      body,
		SentAt:    s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug().Str("message_id", msg.ID).Str("sender", sender).Str("recipient", recipient).Msg("message sent")
	return msg, nil
}

func (s *MessageService) Get(ctx context.Context, id, reader string) (*domain.Message, error) {
	msg, err := s.messages.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !msg.VisibleTo(reader) {
		return nil, domain.ErrMessageForbidden
	}
	return msg, nil
}

func (s *MessageService) Inbox(ctx context.Context, username string) ([]domain.Message, error) {
	if err := s.requireUser(ctx, username); err != nil {
		return nil, err
	}
	return nonNil(s.messages.ListByRecipient(ctx, username))
}

func (s *MessageService) Sent(ctx context.Context, username string) ([]domain.Message, error) {
	if err := s.requireUser(ctx, username); err != nil {
		return nil, err
	}
	return nonNil(s.messages.ListBySender(ctx, username))
}

func (s *MessageService) requireUser(ctx context.Context, username string) error {
	exists, err := s.users.Exists(ctx, username)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrUserNotFound
	}
	return nil
}

func nonNil(msgs []domain.Message, err error) ([]domain.Message, error) {
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	return msgs, nil
}
