package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petfolk/pawmart/internal/domain/blog"
)

var _ blog.Repository = (*BlogRepository)(nil)

// BlogRepository implements blog.Repository backed by PostgreSQL.
type BlogRepository struct {
	pool *pgxpool.Pool
}

// NewBlogRepository returns a BlogRepository that uses the given pool.
func NewBlogRepository(pool *pgxpool.Pool) *BlogRepository {
	return &BlogRepository{pool: pool}
}

const postColumns = `id, author_id, title, slug, body, published, created_at, updated_at`

func scanPost(row pgx.Row) (blog.Post, error) {
	var p blog.Post
	err := row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Slug, &p.Body, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Create inserts the post. A slug collision maps to blog.ErrSlugTaken.
func (r *BlogRepository) Create(ctx context.Context, p *blog.Post) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO blog_posts (id, author_id, title, slug, body, published)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.AuthorID, p.Title, p.Slug, p.Body, p.Published)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return blog.ErrSlugTaken
		}
		return errors.Wrapf(err, "insert post %q", p.Slug)
	}
	return nil
}

func (r *BlogRepository) GetBySlug(ctx context.Context, slug string) (*blog.Post, error) {
	p, err := scanPost(r.pool.QueryRow(ctx,
		`SELECT `+postColumns+` FROM blog_posts WHERE slug = $1`, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, blog.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get post by slug %q", slug)
	}
	return &p, nil
}

func (r *BlogRepository) GetByID(ctx context.Context, id string) (*blog.Post, error) {
	p, err := scanPost(r.pool.QueryRow(ctx,
		`SELECT `+postColumns+` FROM blog_posts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, blog.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get post %q", id)
	}
	return &p, nil
}

func (r *BlogRepository) List(ctx context.Context, onlyPublished bool) ([]blog.Post, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts ORDER BY created_at DESC`
	if onlyPublished {
		query = `SELECT ` + postColumns + ` FROM blog_posts WHERE published ORDER BY created_at DESC`
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "list posts")
	}
	defer rows.Close()

	var out []blog.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *BlogRepository) Update(ctx context.Context, p *blog.Post) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE blog_posts SET title = $2, slug = $3, body = $4, published = $5, updated_at = now()
		 WHERE id = $1`,
		p.ID, p.Title, p.Slug, p.Body, p.Published)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return blog.ErrSlugTaken
		}
		return errors.Wrapf(err, "update post %q", p.ID)
	}
	if tag.RowsAffected() == 0 {
		return blog.ErrNotFound
	}
	return nil
}

func (r *BlogRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "delete post %q", id)
	}
	if tag.RowsAffected() == 0 {
		return blog.ErrNotFound
	}
	return nil
}
