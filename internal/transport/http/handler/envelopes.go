package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-orders-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AuthEnvelope wraps register/login responses. Field names are part of the
// client contract: success, message, token, expiresIn.
type AuthEnvelope struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message,omitempty"`
	Token     string       `json:"token,omitempty"`
	ExpiresIn string       `json:"expiresIn,omitempty"`
	User      *domain.User `json:"user,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// OrderListEnvelope wraps order-listing responses; source reports whether the
// snapshot came from the cache or the database.
type OrderListEnvelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Source  string         `json:"source"`
	Orders  []domain.Order `json:"orders"`
}

// PaymentEnvelope wraps payment-confirmation responses.
type PaymentEnvelope struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Order   *domain.Order `json:"order,omitempty"`
	Error   string        `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// errorStatus maps domain sentinels to HTTP status codes.
// Unmapped errors are infrastructure failures and become 500s.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidOrExpiredCode):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrOrderNotPending):
		return http.StatusConflict
	case errors.Is(err, domain.ErrDeliveryFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
