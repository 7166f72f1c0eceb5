package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/petfolk/pawmart/internal/domain/appointment"
	"github.com/petfolk/pawmart/pkg/metrics"
)

type branchResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

type appointmentResponse struct {
	ID          string             `json:"id"`
	BranchID    string             `json:"branch_id"`
	PetID       string             `json:"pet_id"`
	ServiceName string             `json:"service_name"`
	Date        string             `json:"date"`
	Start       string             `json:"start"`
	End         string             `json:"end"`
	Status      appointment.Status `json:"status"`
	Note        string             `json:"note,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

func toAppointmentResponse(a *appointment.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:          a.ID,
		BranchID:    a.BranchID,
		PetID:       a.PetID,
		ServiceName: a.ServiceName,
		Date:        a.Date.Format("2006-01-02"),
		Start:       a.Start,
		End:         a.End,
		Status:      a.Status,
		Note:        a.Note,
		CreatedAt:   a.CreatedAt,
	}
}

func (h *Handler) listBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.appointments.ListBranches(r.Context())
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	out := make([]branchResponse, len(branches))
	for i, b := range branches {
		out[i] = branchResponse{ID: b.ID, Name: b.Name, Address: b.Address, OpenTime: b.OpenTime, CloseTime: b.CloseTime}
	}
	respondData(w, http.StatusOK, out)
}

func (h *Handler) listAppointments(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	appts, err := h.appointments.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	out := make([]appointmentResponse, len(appts))
	for i := range appts {
		out[i] = toAppointmentResponse(&appts[i])
	}
	respondData(w, http.StatusOK, out)
}

func (h *Handler) bookAppointment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BranchID    string `json:"branch_id"`
		PetID       string `json:"pet_id"`
		ServiceName string `json:"service_name"`
		Date        string `json:"date"`
		Start       string `json:"start"`
		End         string `json:"end"`
		Note        string `json:"note"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	claims := claimsFrom(r.Context())
	a, err := h.appointments.Book(r.Context(), appointment.BookRequest{
		BranchID:    req.BranchID,
		UserID:      claims.UserID,
		PetID:       req.PetID,
		ServiceName: req.ServiceName,
		Date:        date,
		Start:       req.Start,
		End:         req.End,
		Note:        req.Note,
	})
	if err != nil {
		respondDomainError(r, w, err)
		return
	}

	metrics.AppointmentsBooked.Inc()
	respondData(w, http.StatusCreated, toAppointmentResponse(a))
}

func (h *Handler) getAppointment(w http.ResponseWriter, r *http.Request) {
	a, err := h.appointments.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(r, w, err)
		return
	}

	claims := claimsFrom(r.Context())
	if a.UserID != claims.UserID && !claims.Staff() {
		respondError(w, http.StatusNotFound, appointment.ErrNotFound.Error())
		return
	}
	respondData(w, http.StatusOK, toAppointmentResponse(a))
}

func (h *Handler) cancelAppointment(w http.ResponseWriter, r *http.Request) {
	a, err := h.appointments.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(r, w, err)
		return
	}

	claims := claimsFrom(r.Context())
	if a.UserID != claims.UserID && !claims.Staff() {
		respondError(w, http.StatusNotFound, appointment.ErrNotFound.Error())
		return
	}

	if err := h.appointments.Cancel(r.Context(), a.ID); err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondMessage(w, http.StatusOK, "appointment cancelled")
}

// listBranchSchedule returns a branch's appointments for one date, for the
// staff schedule view.
func (h *Handler) listBranchSchedule(w http.ResponseWriter, r *http.Request) {
	branchID := r.URL.Query().Get("branch_id")
	date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if branchID == "" || err != nil {
		respondError(w, http.StatusBadRequest, "branch_id and date=YYYY-MM-DD required")
		return
	}

	appts, err := h.appointments.ListByBranchDate(r.Context(), branchID, date)
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	out := make([]appointmentResponse, len(appts))
	for i := range appts {
		out[i] = toAppointmentResponse(&appts[i])
	}
	respondData(w, http.StatusOK, out)
}

func (h *Handler) updateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status appointment.Status `json:"status"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch req.Status {
	case appointment.StatusPending, appointment.StatusConfirmed,
		appointment.StatusCompleted, appointment.StatusCancelled:
	default:
		respondError(w, http.StatusBadRequest, "unknown status")
		return
	}

	if err := h.appointments.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondMessage(w, http.StatusOK, "status updated")
}
