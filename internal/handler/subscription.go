package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/petfolk/pawmart/internal/domain/subscription"
)

type planResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	PeriodDays  int             `json:"period_days"`
}

type subscriptionResponse struct {
	ID      string              `json:"id"`
	PlanID  string              `json:"plan_id"`
	Status  subscription.Status `json:"status"`
	StartAt time.Time           `json:"start_at"`
	EndAt   time.Time           `json:"end_at"`
}

func toSubscriptionResponse(s *subscription.Subscription) subscriptionResponse {
	return subscriptionResponse{
		ID:      s.ID,
		PlanID:  s.PlanID,
		Status:  s.Status,
		StartAt: s.StartAt,
		EndAt:   s.EndAt,
	}
}

func (h *Handler) listPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.subscriptions.ListPlans(r.Context())
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	out := make([]planResponse, len(plans))
	for i, p := range plans {
		out[i] = planResponse{ID: p.ID, Name: p.Name, Description: p.Description, Price: p.Price, PeriodDays: p.PeriodDays}
	}
	respondData(w, http.StatusOK, out)
}

func (h *Handler) listSubscriptions(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	subs, err := h.subscriptions.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	out := make([]subscriptionResponse, len(subs))
	for i := range subs {
		out[i] = toSubscriptionResponse(&subs[i])
	}
	respondData(w, http.StatusOK, out)
}

func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlanID string `json:"plan_id"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	claims := claimsFrom(r.Context())
	sub, err := h.subscriptions.Subscribe(r.Context(), claims.UserID, req.PlanID)
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondData(w, http.StatusCreated, toSubscriptionResponse(sub))
}

func (h *Handler) ownSubscription(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	claims := claimsFrom(r.Context())

	subs, err := h.subscriptions.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		respondDomainError(r, w, err)
		return "", false
	}
	for _, s := range subs {
		if s.ID == id {
			return id, true
		}
	}
	respondError(w, http.StatusNotFound, subscription.ErrNotFound.Error())
	return "", false
}

func (h *Handler) renewSubscription(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ownSubscription(w, r)
	if !ok {
		return
	}
	sub, err := h.subscriptions.Renew(r.Context(), id)
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondData(w, http.StatusOK, toSubscriptionResponse(sub))
}

func (h *Handler) cancelSubscription(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ownSubscription(w, r)
	if !ok {
		return
	}
	if err := h.subscriptions.Cancel(r.Context(), id); err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondMessage(w, http.StatusOK, "subscription cancelled")
}

func (h *Handler) createPlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Price       decimal.Decimal `json:"price"`
		PeriodDays  int             `json:"period_days"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" || req.PeriodDays <= 0 {
		respondError(w, http.StatusBadRequest, "name and positive period_days required")
		return
	}

	p := &subscription.Plan{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		PeriodDays:  req.PeriodDays,
		Active:      true,
	}
	if err := h.subscriptions.CreatePlan(r.Context(), p); err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondData(w, http.StatusCreated, planResponse{ID: p.ID, Name: p.Name, Description: p.Description, Price: p.Price, PeriodDays: p.PeriodDays})
}
