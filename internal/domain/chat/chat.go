package chat

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

var (
	// ErrConversationNotFound is returned when a conversation does not exist.
	ErrConversationNotFound = errors.New("conversation not found")
	// ErrNotParticipant is returned when a user reads or writes a
	// conversation they do not belong to.
	ErrNotParticipant = errors.New("not a participant of this conversation")
	// ErrEmptyMessage is returned when sending a message without a body.
	ErrEmptyMessage = errors.New("message body required")
)

// Conversation is a support thread between one user and the support team.
type Conversation struct {
	ID        string
	UserID    string
	Topic     string
	CreatedAt time.Time
}

// Message is one chat message. IDs are monotonically increasing, which lets
// polling clients ask for "everything after the last ID I saw".
type Message struct {
	ID             int64
	ConversationID string
	SenderID       string
	Body           string
	CreatedAt      time.Time
}

// Repository defines persistence operations for support chat.
type Repository interface {
	CreateConversation(ctx context.Context, c *Conversation) error
	GetConversation(ctx context.Context, id string) (*Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]Conversation, error)
	CreateMessage(ctx context.Context, m *Message) error
	// ListMessages returns up to limit messages with ID > afterID, oldest first.
	ListMessages(ctx context.Context, conversationID string, afterID int64, limit int) ([]Message, error)
}
