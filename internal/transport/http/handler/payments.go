package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-orders-api/internal/application/payment"
	"github.com/go-orders-api/internal/pkg/validate"
	"github.com/go-orders-api/internal/transport/http/middleware"
)

// PaymentHandler handles OTP issuance and payment confirmation.
type PaymentHandler struct {
	svc payment.Service
}

func NewPaymentHandler(svc payment.Service) *PaymentHandler { return &PaymentHandler{svc: svc} }

// RequestOTP issues a one-time code to the authenticated caller.
// The body is optional; an empty body defaults to the email channel.
func (h *PaymentHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req payment.RequestCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.RequestCode(r.Context(), claims.UserID, req.Channel); err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "OTP sent successfully"})
}

func (h *PaymentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req payment.ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	o, err := h.svc.Confirm(r.Context(), claims.UserID, req.OrderID, req.OTP)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, PaymentEnvelope{
		Success: true,
		Message: "Payment processed",
		Order:   o,
	})
}
