package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	conversations map[string]*Conversation
	messages      []Message
	nextID        int64

	lastAfterID int64
	lastLimit   int
}

func newMockRepo(convs ...*Conversation) *mockRepo {
	m := &mockRepo{conversations: make(map[string]*Conversation), nextID: 1}
	for _, c := range convs {
		m.conversations[c.ID] = c
	}
	return m
}

func (m *mockRepo) CreateConversation(_ context.Context, c *Conversation) error {
	m.conversations[c.ID] = c
	return nil
}

func (m *mockRepo) GetConversation(_ context.Context, id string) (*Conversation, error) {
	c, ok := m.conversations[id]
	if !ok {
		return nil, ErrConversationNotFound
	}
	return c, nil
}

func (m *mockRepo) ListConversations(_ context.Context, userID string) ([]Conversation, error) {
	var out []Conversation
	for _, c := range m.conversations {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockRepo) CreateMessage(_ context.Context, msg *Message) error {
	msg.ID = m.nextID
	m.nextID++
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *mockRepo) ListMessages(_ context.Context, conversationID string, afterID int64, limit int) ([]Message, error) {
	m.lastAfterID = afterID
	m.lastLimit = limit
	var out []Message
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID && msg.ID > afterID {
			out = append(out, msg)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func TestStart(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	c, err := svc.Start(context.Background(), "u1", "order never arrived")
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "u1", c.UserID)
	assert.Equal(t, "order never arrived", c.Topic)
}

func TestSend(t *testing.T) {
	repo := newMockRepo(&Conversation{ID: "c1", UserID: "u1"})
	svc := NewService(repo)

	m, err := svc.Send(context.Background(), "c1", "u1", false, "hello?")
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.ID)
	assert.Equal(t, "u1", m.SenderID)
}

func TestSend_EmptyBody(t *testing.T) {
	svc := NewService(newMockRepo(&Conversation{ID: "c1", UserID: "u1"}))

	_, err := svc.Send(context.Background(), "c1", "u1", false, "")
	require.ErrorIs(t, err, ErrEmptyMessage)
}

func TestSend_NotParticipant(t *testing.T) {
	svc := NewService(newMockRepo(&Conversation{ID: "c1", UserID: "u1"}))

	_, err := svc.Send(context.Background(), "c1", "intruder", false, "hi")
	require.ErrorIs(t, err, ErrNotParticipant)
}

func TestSend_StaffMayJoin(t *testing.T) {
	svc := NewService(newMockRepo(&Conversation{ID: "c1", UserID: "u1"}))

	m, err := svc.Send(context.Background(), "c1", "staff1", true, "how can we help")
	require.NoError(t, err)
	assert.Equal(t, "staff1", m.SenderID)
}

func TestSend_UnknownConversation(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Send(context.Background(), "missing", "u1", false, "hi")
	require.ErrorIs(t, err, ErrConversationNotFound)
}

func TestMessages_AfterID(t *testing.T) {
	repo := newMockRepo(&Conversation{ID: "c1", UserID: "u1"})
	svc := NewService(repo)

	for _, body := range []string{"one", "two", "three"} {
		_, err := svc.Send(context.Background(), "c1", "u1", false, body)
		require.NoError(t, err)
	}

	msgs, err := svc.Messages(context.Background(), "c1", "u1", false, 1, 50)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "two", msgs[0].Body)
	assert.Equal(t, "three", msgs[1].Body)
}

func TestMessages_LimitClamped(t *testing.T) {
	repo := newMockRepo(&Conversation{ID: "c1", UserID: "u1"})
	svc := NewService(repo)

	_, err := svc.Messages(context.Background(), "c1", "u1", false, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, defaultPageSize, repo.lastLimit)

	_, err = svc.Messages(context.Background(), "c1", "u1", false, 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, defaultPageSize, repo.lastLimit)
}

func TestMessages_NotParticipant(t *testing.T) {
	svc := NewService(newMockRepo(&Conversation{ID: "c1", UserID: "u1"}))

	_, err := svc.Messages(context.Background(), "c1", "intruder", false, 0, 50)
	require.ErrorIs(t, err, ErrNotParticipant)
}

func TestListConversations(t *testing.T) {
	repo := newMockRepo(
		&Conversation{ID: "c1", UserID: "u1"},
		&Conversation{ID: "c2", UserID: "u2"},
	)
	svc := NewService(repo)

	convs, err := svc.ListConversations(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, "c1", convs[0].ID)
}
