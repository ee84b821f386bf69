package report

import (
	"encoding/json"
	"fmt"
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

type generateRequest struct {
	UserID    string `json:"userId"`
	SymptomID string `json:"symptomId"`
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.UserID == "" || req.SymptomID == "" {
		httpx.Error(w, http.StatusBadRequest, "User ID and Symptom ID required")
		return
	}

	rpt, existing, err := h.svc.Generate(r.Context(), req.UserID, req.SymptomID)
	if err != nil {
		httpx.Error(w, httpx.StatusFor(err), err.Error())
		return
	}

	message := "Health report generated successfully"
	if existing {
		message = "Health report already exists"
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"message":      message,
		"reportId":     rpt.SymptomID,
		"existing":     existing,
		"healthReport": rpt,
	})
}

func (h *Handler) GetDetailed(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportId")
	if reportID == "" {
		httpx.Error(w, http.StatusBadRequest, "Report ID required")
		return
	}

	rpt, err := h.svc.Get(r.Context(), reportID)
	if err != nil {
		httpx.Error(w, httpx.StatusFor(err), err.Error())
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]interface{}{"healthReport": rpt})
}

func (h *Handler) GetPDF(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportId")
	if reportID == "" {
		httpx.Error(w, http.StatusBadRequest, "Report ID required")
		return
	}

	rpt, err := h.svc.Get(r.Context(), reportID)
	if err != nil {
		httpx.Error(w, httpx.StatusFor(err), err.Error())
		return
	}

	pdfData, err := RenderPDF(rpt)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=report_%s.pdf", rpt.SymptomID))
	w.Write(pdfData)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/generate-health-report", h.Generate)
	r.Get("/health-reports/detailed/{reportId}", h.GetDetailed)
	r.Get("/health-reports/detailed/{reportId}/pdf", h.GetPDF)
}
