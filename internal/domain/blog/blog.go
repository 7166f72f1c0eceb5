package blog

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/go-faster/errors"
)

var (
	// ErrNotFound is returned when a requested post does not exist.
	ErrNotFound = errors.New("post not found")
	// ErrSlugTaken is returned when a post's slug collides with an existing one.
	ErrSlugTaken = errors.New("slug already in use")
	// ErrEmptyTitle is returned when creating a post without a title.
	ErrEmptyTitle = errors.New("post title required")
)

// Post is a blog article. Unpublished posts are only visible to staff.
type Post struct {
	ID        string
	AuthorID  string
	Title     string
	Slug      string
	Body      string
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository defines persistence operations for blog posts.
type Repository interface {
	Create(ctx context.Context, p *Post) error
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	GetByID(ctx context.Context, id string) (*Post, error)
	List(ctx context.Context, onlyPublished bool) ([]Post, error)
	Update(ctx context.Context, p *Post) error
	Delete(ctx context.Context, id string) error
}

// Slugify lowercases the title and replaces every non-alphanumeric run with
// a single hyphen.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}
