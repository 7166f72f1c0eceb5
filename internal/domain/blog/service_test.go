package blog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	byID    map[string]*Post
	bySlug  map[string]*Post
	updates []*Post
	deleted []string
}

func newMockRepo(posts ...*Post) *mockRepo {
	m := &mockRepo{byID: make(map[string]*Post), bySlug: make(map[string]*Post)}
	for _, p := range posts {
		m.byID[p.ID] = p
		m.bySlug[p.Slug] = p
	}
	return m
}

func (m *mockRepo) Create(_ context.Context, p *Post) error {
	if _, ok := m.bySlug[p.Slug]; ok {
		return ErrSlugTaken
	}
	m.byID[p.ID] = p
	m.bySlug[p.Slug] = p
	return nil
}

func (m *mockRepo) GetBySlug(_ context.Context, slug string) (*Post, error) {
	p, ok := m.bySlug[slug]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Post, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) List(_ context.Context, onlyPublished bool) ([]Post, error) {
	var out []Post
	for _, p := range m.byID {
		if onlyPublished && !p.Published {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockRepo) Update(_ context.Context, p *Post) error {
	if _, ok := m.byID[p.ID]; !ok {
		return ErrNotFound
	}
	cp := *p
	m.byID[p.ID] = &cp
	m.updates = append(m.updates, &cp)
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":                "hello-world",
		"  Grooming 101: The Basics": "grooming-101-the-basics",
		"Chó & Mèo":                  "chó-mèo",
		"---":                        "",
		"Already-Slugged":            "already-slugged",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestCreate(t *testing.T) {
	svc := NewService(newMockRepo())

	p, err := svc.Create(context.Background(), "staff1", "Caring For Senior Dogs", "body text")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "staff1", p.AuthorID)
	assert.Equal(t, "caring-for-senior-dogs", p.Slug)
	assert.False(t, p.Published)
}

func TestCreate_EmptyTitle(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Create(context.Background(), "staff1", "", "body")
	require.ErrorIs(t, err, ErrEmptyTitle)
}

func TestCreate_SlugTaken(t *testing.T) {
	svc := NewService(newMockRepo(&Post{ID: "p1", Slug: "caring-for-senior-dogs"}))

	_, err := svc.Create(context.Background(), "staff1", "Caring for Senior DOGS", "body")
	require.ErrorIs(t, err, ErrSlugTaken)
}

func TestUpdate_SlugStable(t *testing.T) {
	repo := newMockRepo(&Post{ID: "p1", Title: "Old Title", Slug: "old-title", Body: "old"})
	svc := NewService(repo)

	p, err := svc.Update(context.Background(), "p1", "Brand New Title", "new body")
	require.NoError(t, err)
	assert.Equal(t, "Brand New Title", p.Title)
	assert.Equal(t, "new body", p.Body)
	assert.Equal(t, "old-title", p.Slug)
}

func TestUpdate_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Update(context.Background(), "missing", "Title", "body")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSetPublished(t *testing.T) {
	repo := newMockRepo(&Post{ID: "p1", Slug: "draft-post"})
	svc := NewService(repo)

	p, err := svc.SetPublished(context.Background(), "p1", true)
	require.NoError(t, err)
	assert.True(t, p.Published)

	p, err = svc.SetPublished(context.Background(), "p1", false)
	require.NoError(t, err)
	assert.False(t, p.Published)
}

func TestGetBySlug_DraftHidden(t *testing.T) {
	svc := NewService(newMockRepo(&Post{ID: "p1", Slug: "draft-post", Published: false}))

	_, err := svc.GetBySlug(context.Background(), "draft-post", false)
	require.ErrorIs(t, err, ErrNotFound)

	p, err := svc.GetBySlug(context.Background(), "draft-post", true)
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
}

func TestListPublished(t *testing.T) {
	repo := newMockRepo(
		&Post{ID: "p1", Slug: "one", Published: true},
		&Post{ID: "p2", Slug: "two", Published: false},
	)
	svc := NewService(repo)

	published, err := svc.ListPublished(context.Background())
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "p1", published[0].ID)

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDelete(t *testing.T) {
	repo := newMockRepo(&Post{ID: "p1", Slug: "one"})
	svc := NewService(repo)

	require.NoError(t, svc.Delete(context.Background(), "p1"))
	assert.Equal(t, []string{"p1"}, repo.deleted)
}
