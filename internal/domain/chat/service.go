package chat

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

const defaultPageSize = 50

// Service wraps support chat reads and writes with participant checks. Staff
// accounts may access any conversation.
type Service struct {
	repo Repository
}

// NewService creates a chat Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) authorize(ctx context.Context, conversationID, userID string, staff bool) (*Conversation, error) {
	c, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !staff && c.UserID != userID {
		return nil, ErrNotParticipant
	}
	return c, nil
}

// Start opens a new support conversation for the user.
func (s *Service) Start(ctx context.Context, userID, topic string) (*Conversation, error) {
	c := &Conversation{
		ID:     uuid.New().String(),
		UserID: userID,
		Topic:  topic,
	}
	if err := s.repo.CreateConversation(ctx, c); err != nil {
		return nil, errors.Wrap(err, "create conversation")
	}
	return c, nil
}

// ListConversations returns the user's support threads.
func (s *Service) ListConversations(ctx context.Context, userID string) ([]Conversation, error) {
	return s.repo.ListConversations(ctx, userID)
}

// Send appends a message to the conversation.
func (s *Service) Send(ctx context.Context, conversationID, senderID string, staff bool, body string) (*Message, error) {
	if body == "" {
		return nil, ErrEmptyMessage
	}
	if _, err := s.authorize(ctx, conversationID, senderID, staff); err != nil {
		return nil, err
	}

	m := &Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
	}
	if err := s.repo.CreateMessage(ctx, m); err != nil {
		return nil, errors.Wrap(err, "create message")
	}
	return m, nil
}

// Messages returns up to limit messages after the given ID, oldest first.
// A zero or negative limit falls back to the default page size.
func (s *Service) Messages(ctx context.Context, conversationID, userID string, staff bool, afterID int64, limit int) ([]Message, error) {
	if _, err := s.authorize(ctx, conversationID, userID, staff); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = defaultPageSize
	}
	return s.repo.ListMessages(ctx, conversationID, afterID, limit)
}
