package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

type conversationResponse struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	CreatedAt time.Time `json:"created_at"`
}

type messageResponse struct {
	ID        int64     `json:"id"`
	SenderID  string    `json:"sender_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handler) listConversations(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	convs, err := h.chat.ListConversations(r.Context(), claims.UserID)
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	out := make([]conversationResponse, len(convs))
	for i, c := range convs {
		out[i] = conversationResponse{ID: c.ID, Topic: c.Topic, CreatedAt: c.CreatedAt}
	}
	respondData(w, http.StatusOK, out)
}

func (h *Handler) startConversation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic string `json:"topic"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	claims := claimsFrom(r.Context())
	c, err := h.chat.Start(r.Context(), claims.UserID, req.Topic)
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondData(w, http.StatusCreated, conversationResponse{ID: c.ID, Topic: c.Topic, CreatedAt: c.CreatedAt})
}

// listMessages serves the polling read path: clients pass after_id to fetch
// only messages they have not seen.
func (h *Handler) listMessages(w http.ResponseWriter, r *http.Request) {
	afterID, _ := strconv.ParseInt(r.URL.Query().Get("after_id"), 10, 64)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	claims := claimsFrom(r.Context())
	msgs, err := h.chat.Messages(r.Context(), chi.URLParam(r, "id"), claims.UserID, claims.Staff(), afterID, limit)
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	out := make([]messageResponse, len(msgs))
	for i, m := range msgs {
		out[i] = messageResponse{ID: m.ID, SenderID: m.SenderID, Body: m.Body, CreatedAt: m.CreatedAt}
	}
	respondData(w, http.StatusOK, out)
}

func (h *Handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Body string `json:"body"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	claims := claimsFrom(r.Context())
	m, err := h.chat.Send(r.Context(), chi.URLParam(r, "id"), claims.UserID, claims.Staff(), req.Body)
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondData(w, http.StatusCreated, messageResponse{ID: m.ID, SenderID: m.SenderID, Body: m.Body, CreatedAt: m.CreatedAt})
}
