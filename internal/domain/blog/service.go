package blog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// Service encapsulates blog post management.
type Service struct {
	repo Repository
}

// NewService creates a blog Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create persists a new draft post. The slug is derived from the title and
// must be unique.
func (s *Service) Create(ctx context.Context, authorID, title, body string) (*Post, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	slug := Slugify(title)
	if _, err := s.repo.GetBySlug(ctx, slug); err == nil {
		return nil, ErrSlugTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, errors.Wrap(err, "check slug")
	}

	p := &Post{
		ID:       uuid.New().String(),
		AuthorID: authorID,
		Title:    title,
		Slug:     slug,
		Body:     body,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, errors.Wrap(err, "create post")
	}
	return p, nil
}

// Update changes a post's title and body. The slug stays stable so
// published links keep working.
func (s *Service) Update(ctx context.Context, id, title, body string) (*Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if title == "" {
		return nil, ErrEmptyTitle
	}
	p.Title = title
	p.Body = body
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, errors.Wrap(err, "update post")
	}
	return p, nil
}

// SetPublished toggles a post's visibility.
func (s *Service) SetPublished(ctx context.Context, id string, published bool) (*Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Published = published
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, errors.Wrap(err, "update post")
	}
	return p, nil
}

// Delete removes a post.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ListPublished returns published posts, newest first.
func (s *Service) ListPublished(ctx context.Context) ([]Post, error) {
	return s.repo.List(ctx, true)
}

// ListAll returns every post including drafts.
func (s *Service) ListAll(ctx context.Context) ([]Post, error) {
	return s.repo.List(ctx, false)
}

// GetBySlug returns a post by its slug. Unpublished posts are hidden unless
// includeDrafts is set.
func (s *Service) GetBySlug(ctx context.Context, slug string, includeDrafts bool) (*Post, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !p.Published && !includeDrafts {
		return nil, ErrNotFound
	}
	return p, nil
}
