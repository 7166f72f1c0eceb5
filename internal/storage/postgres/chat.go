package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petfolk/pawmart/internal/domain/chat"
)

var _ chat.Repository = (*ChatRepository)(nil)

// ChatRepository implements chat.Repository backed by PostgreSQL. Message
// IDs come from a BIGSERIAL column, which gives pollers a monotonic cursor.
type ChatRepository struct {
	pool *pgxpool.Pool
}

// NewChatRepository returns a ChatRepository that uses the given pool.
func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

func (r *ChatRepository) CreateConversation(ctx context.Context, c *chat.Conversation) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO conversations (id, user_id, topic) VALUES ($1, $2, $3)`,
		c.ID, c.UserID, c.Topic)
	return errors.Wrapf(err, "insert conversation for user %q", c.UserID)
}

func (r *ChatRepository) GetConversation(ctx context.Context, id string) (*chat.Conversation, error) {
	var c chat.Conversation
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, topic, created_at FROM conversations WHERE id = $1`, id).
		Scan(&c.ID, &c.UserID, &c.Topic, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, chat.ErrConversationNotFound
		}
		return nil, errors.Wrapf(err, "get conversation %q", id)
	}
	return &c, nil
}

func (r *ChatRepository) ListConversations(ctx context.Context, userID string) ([]chat.Conversation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, topic, created_at FROM conversations
		 WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list conversations")
	}
	defer rows.Close()

	var out []chat.Conversation
	for rows.Next() {
		var c chat.Conversation
		if err := rows.Scan(&c.ID, &c.UserID, &c.Topic, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateMessage inserts the message and fills in its generated ID and
// timestamp.
func (r *ChatRepository) CreateMessage(ctx context.Context, m *chat.Message) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO chat_messages (conversation_id, sender_id, body)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		m.ConversationID, m.SenderID, m.Body).Scan(&m.ID, &m.CreatedAt)
	return errors.Wrapf(err, "insert message in conversation %q", m.ConversationID)
}

func (r *ChatRepository) ListMessages(ctx context.Context, conversationID string, afterID int64, limit int) ([]chat.Message, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, conversation_id, sender_id, body, created_at
		 FROM chat_messages
		 WHERE conversation_id = $1 AND id > $2
		 ORDER BY id
		 LIMIT $3`, conversationID, afterID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list messages")
	}
	defer rows.Close()

	var out []chat.Message
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
