package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-orders-api/internal/application/auth"
	"github.com/go-orders-api/internal/domain"
	"github.com/go-orders-api/internal/pkg/validate"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	svc       auth.Service
	expiresIn string
}

func NewAuthHandler(svc auth.Service, tokenExpiry time.Duration) *AuthHandler {
	return &AuthHandler{svc: svc, expiresIn: expiryLabel(tokenExpiry)}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, AuthEnvelope{
		Success: true,
		Message: "User registered successfully",
		User:    u,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	token, _, err := h.svc.Login(r.Context(), req)
	if err != nil {
		// Credential failures always read the same to the client.
		writeError(w, http.StatusUnauthorized, "Invalid Credentials")
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{
		Success:   true,
		Message:   "Login successful",
		Token:     token,
		ExpiresIn: h.expiresIn,
	})
}

func expiryLabel(d time.Duration) string {
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
