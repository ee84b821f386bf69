package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"mediassist/internal/httpx"
	"mediassist/internal/logger"
)

// Handler exposes the email/password login pass-through. The identity
// provider owns credentials; this endpoint only relays them.
type Handler struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

func NewHandler(apiKey string, log *logger.Logger) *Handler {
	return &Handler{
		apiKey:  apiKey,
		baseURL: identityToolkitURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	IDToken string `json:"idToken"`
	LocalID string `json:"localId"`
	Error   struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request")
		return
	}

	url := fmt.Sprintf("%s/accounts:signInWithPassword?key=%s", h.baseURL, h.apiKey)
	jsonBody, err := json.Marshal(signInRequest{
		Email:             req.Email,
		Password:          req.Password,
		ReturnSecureToken: true,
	})
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	resp, err := h.httpClient.Post(url, "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		h.log.Error(fmt.Sprintf("login call failed: %v", err))
		httpx.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	defer resp.Body.Close()

	var result signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if result.IDToken == "" {
		msg := result.Error.Message
		if msg == "" {
			msg = "Login failed"
		}
		httpx.JSON(w, http.StatusUnauthorized, map[string]string{"message": msg})
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]string{
		"message": "Login successful",
		"token":   result.IDToken,
		"uid":     result.LocalID,
	})
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/auth/login", h.Login)
}
