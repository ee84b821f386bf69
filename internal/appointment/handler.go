package appointment

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mediassist/internal/httpx"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type bookRequest struct {
	UserID        string `json:"userId"`
	SymptomID     string `json:"symptomId"`
	PreferredDate string `json:"preferredDate"`
	PreferredTime string `json:"preferredTime"`
	Urgency       string `json:"urgency"`
	Notes         string `json:"notes"`
}

func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.UserID == "" || req.SymptomID == "" {
		httpx.Error(w, http.StatusBadRequest, "User ID and Symptom ID required")
		return
	}

	appt, err := h.svc.Book(r.Context(), BookInput{
		UserID:        req.UserID,
		SymptomID:     req.SymptomID,
		PreferredDate: req.PreferredDate,
		PreferredTime: req.PreferredTime,
		Urgency:       req.Urgency,
		Notes:         req.Notes,
	})
	if err != nil {
		httpx.Error(w, httpx.StatusFor(err), err.Error())
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"message":         "Appointment booked successfully",
		"appointmentId":   appt.ID,
		"appointmentData": appt,
	})
}

func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		httpx.Error(w, http.StatusBadRequest, "User ID required")
		return
	}

	appts, err := h.svc.ListByUser(r.Context(), userID)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if appts == nil {
		appts = []Appointment{}
	}

	httpx.JSON(w, http.StatusOK, map[string]interface{}{"appointments": appts})
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/book-appointment", h.Book)
	r.Get("/appointments/{userId}", h.ListByUser)
}
