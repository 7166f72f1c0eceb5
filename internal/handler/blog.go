package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/petfolk/pawmart/internal/domain/blog"
)

type postResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Body      string    `json:"body,omitempty"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toPostResponse(p *blog.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		Title:     p.Title,
		Slug:      p.Slug,
		Body:      p.Body,
		Published: p.Published,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPostList(posts []blog.Post) []postResponse {
	out := make([]postResponse, len(posts))
	for i := range posts {
		out[i] = toPostResponse(&posts[i])
		out[i].Body = "" // list views carry metadata only
	}
	return out
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blog.ListPublished(r.Context())
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondData(w, http.StatusOK, toPostList(posts))
}

func (h *Handler) getPost(w http.ResponseWriter, r *http.Request) {
	// Staff can preview drafts by slug with a bearer token.
	includeDrafts := false
	if token, ok := cutBearer(r); ok {
		if c, err := h.issuer.Parse(token); err == nil && c.Staff() {
			includeDrafts = true
		}
	}

	p, err := h.blog.GetBySlug(r.Context(), chi.URLParam(r, "slug"), includeDrafts)
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondData(w, http.StatusOK, toPostResponse(p))
}

func (h *Handler) listAllPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blog.ListAll(r.Context())
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondData(w, http.StatusOK, toPostList(posts))
}

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	claims := claimsFrom(r.Context())
	p, err := h.blog.Create(r.Context(), claims.UserID, req.Title, req.Body)
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondData(w, http.StatusCreated, toPostResponse(p))
}

func (h *Handler) updatePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.blog.Update(r.Context(), chi.URLParam(r, "id"), req.Title, req.Body)
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondData(w, http.StatusOK, toPostResponse(p))
}

func (h *Handler) setPostPublished(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Published bool `json:"published"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.blog.SetPublished(r.Context(), chi.URLParam(r, "id"), req.Published)
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondData(w, http.StatusOK, toPostResponse(p))
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.blog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondMessage(w, http.StatusOK, "post deleted")
}
