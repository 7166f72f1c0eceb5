package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/petfolk/pawmart/internal/domain/pet"
)

type petResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Species   string           `json:"species"`
	Breed     string           `json:"breed,omitempty"`
	BirthDate *time.Time       `json:"birth_date,omitempty"`
	WeightKg  *decimal.Decimal `json:"weight_kg,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

func toPetResponse(p *pet.Pet) petResponse {
	return petResponse{
		ID:        p.ID,
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		BirthDate: p.BirthDate,
		WeightKg:  p.WeightKg,
		CreatedAt: p.CreatedAt,
	}
}

type petRequest struct {
	Name      string           `json:"name"`
	Species   string           `json:"species"`
	Breed     string           `json:"breed"`
	BirthDate *time.Time       `json:"birth_date"`
	WeightKg  *decimal.Decimal `json:"weight_kg"`
}

func actorFrom(r *http.Request) pet.Actor {
	claims := claimsFrom(r.Context())
	return pet.Actor{UserID: claims.UserID, Staff: claims.Staff()}
}

func (h *Handler) listPets(w http.ResponseWriter, r *http.Request) {
	pets, err := h.pets.ListOwn(r.Context(), actorFrom(r))
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	out := make([]petResponse, len(pets))
	for i := range pets {
		out[i] = toPetResponse(&pets[i])
	}
	respondData(w, http.StatusOK, out)
}

func (h *Handler) createPet(w http.ResponseWriter, r *http.Request) {
	var req petRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	p := &pet.Pet{
		Name:      req.Name,
		Species:   req.Species,
		Breed:     req.Breed,
		BirthDate: req.BirthDate,
		WeightKg:  req.WeightKg,
	}
	if err := h.pets.Create(r.Context(), actorFrom(r), p); err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondData(w, http.StatusCreated, toPetResponse(p))
}

func (h *Handler) getPet(w http.ResponseWriter, r *http.Request) {
	p, err := h.pets.Get(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondData(w, http.StatusOK, toPetResponse(p))
}

func (h *Handler) updatePet(w http.ResponseWriter, r *http.Request) {
	var req petRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	p := &pet.Pet{
		ID:        chi.URLParam(r, "id"),
		Name:      req.Name,
		Species:   req.Species,
		Breed:     req.Breed,
		BirthDate: req.BirthDate,
		WeightKg:  req.WeightKg,
	}
	if err := h.pets.Update(r.Context(), actorFrom(r), p); err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondData(w, http.StatusOK, toPetResponse(p))
}

func (h *Handler) deletePet(w http.ResponseWriter, r *http.Request) {
	if err := h.pets.Delete(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondMessage(w, http.StatusOK, "pet deleted")
}

type healthRecordResponse struct {
	ID         string    `json:"id"`
	RecordType string    `json:"record_type"`
	Title      string    `json:"title"`
	Notes      string    `json:"notes,omitempty"`
	VetName    string    `json:"vet_name,omitempty"`
	RecordDate time.Time `json:"record_date"`
	CreatedAt  time.Time `json:"created_at"`
}

func toHealthRecordResponse(rec *pet.HealthRecord) healthRecordResponse {
	return healthRecordResponse{
		ID:         rec.ID,
		RecordType: rec.RecordType,
		Title:      rec.Title,
		Notes:      rec.Notes,
		VetName:    rec.VetName,
		RecordDate: rec.RecordDate,
		CreatedAt:  rec.CreatedAt,
	}
}

func (h *Handler) listHealthRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.pets.ListRecords(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	out := make([]healthRecordResponse, len(records))
	for i := range records {
		out[i] = toHealthRecordResponse(&records[i])
	}
	respondData(w, http.StatusOK, out)
}

func (h *Handler) addHealthRecord(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RecordType string    `json:"record_type"`
		Title      string    `json:"title"`
		Notes      string    `json:"notes"`
		VetName    string    `json:"vet_name"`
		RecordDate time.Time `json:"record_date"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec := &pet.HealthRecord{
		PetID:      chi.URLParam(r, "id"),
		RecordType: req.RecordType,
		Title:      req.Title,
		Notes:      req.Notes,
		VetName:    req.VetName,
		RecordDate: req.RecordDate,
	}
	if err := h.pets.AddRecord(r.Context(), actorFrom(r), rec); err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondData(w, http.StatusCreated, toHealthRecordResponse(rec))
}

func (h *Handler) deleteHealthRecord(w http.ResponseWriter, r *http.Request) {
	if err := h.pets.DeleteRecord(r.Context(), actorFrom(r), chi.URLParam(r, "recordID")); err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondMessage(w, http.StatusOK, "record deleted")
}
