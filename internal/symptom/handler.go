package symptom

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"mediassist/internal/httpx"
	"mediassist/internal/transcribe"
)

type Handler struct {
	svc Service
	stt transcribe.Client
}

func NewHandler(svc Service, stt transcribe.Client) *Handler {
	return &Handler{svc: svc, stt: stt}
}

type transcribeRequest struct {
	AudioChunks []string `json:"audio_chunks"`
}

// Transcribe accepts base64 data-URL audio chunks and returns the transcript
// of the first one. Batches are not supported; extra chunks are ignored.
func (h *Handler) Transcribe(w http.ResponseWriter, r *http.Request) {
	var req transcribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.AudioChunks) == 0 {
		httpx.Error(w, http.StatusBadRequest, "No audio data provided")
		return
	}

	audioData, err := decodeAudioChunk(req.AudioChunks[0])
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid audio data")
		return
	}

	text, err := h.stt.Transcribe(r.Context(), audioData)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]string{"text": text})
}

func decodeAudioChunk(chunk string) ([]byte, error) {
	// Browser recordings arrive as data URLs; strip the media-type prefix.
	if i := strings.IndexByte(chunk, ','); i >= 0 {
		chunk = chunk[i+1:]
	}
	return base64.StdEncoding.DecodeString(chunk)
}

type analyzeRequest struct {
	Transcript string `json:"transcript"`
}

func (h *Handler) AnalyzeSymptoms(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Transcript == "" {
		httpx.Error(w, http.StatusBadRequest, "No transcript provided")
		return
	}

	symptoms := h.svc.ExtractSymptoms(r.Context(), req.Transcript)
	httpx.JSON(w, http.StatusOK, map[string]interface{}{"symptoms": symptoms})
}

type saveRequest struct {
	UserID     string   `json:"userId"`
	Transcript string   `json:"transcript"`
	Symptoms   []string `json:"symptoms"`
	AudioURL   string   `json:"audioUrl"`
}

func (h *Handler) SaveSymptoms(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.UserID == "" {
		httpx.Error(w, http.StatusBadRequest, "User ID required")
		return
	}

	id, err := h.svc.SaveRecord(r.Context(), SaveInput{
		UserID:     req.UserID,
		Transcript: req.Transcript,
		Symptoms:   req.Symptoms,
		AudioURL:   req.AudioURL,
	})
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]string{
		"message":   "Symptoms saved successfully",
		"symptomId": id,
	})
}

type predictRequest struct {
	UserID    string   `json:"userId"`
	Symptoms  []string `json:"symptoms"`
	SymptomID string   `json:"symptomId"`
}

func (h *Handler) PredictAilment(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.UserID == "" || len(req.Symptoms) == 0 {
		httpx.Error(w, http.StatusBadRequest, "User ID and symptoms required")
		return
	}

	prediction, err := h.svc.PredictAilment(r.Context(), req.UserID, req.Symptoms, req.SymptomID)
	if err != nil {
		httpx.Error(w, httpx.StatusFor(err), err.Error())
		return
	}

	httpx.JSON(w, http.StatusOK, prediction)
}

func (h *Handler) HealthHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		httpx.Error(w, http.StatusBadRequest, "User ID required")
		return
	}

	entries, err := h.svc.History(r.Context(), userID)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]interface{}{"healthReports": entries})
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/transcribe", h.Transcribe)
	r.Post("/analyze-symptoms", h.AnalyzeSymptoms)
	r.Post("/save-symptoms", h.SaveSymptoms)
	r.Post("/predict-ailment", h.PredictAilment)
	r.Get("/health-reports/{userId}", h.HealthHistory)
}
