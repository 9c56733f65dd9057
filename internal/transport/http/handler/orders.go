package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-orders-api/internal/application/order"
	"github.com/go-orders-api/internal/domain"
	"github.com/go-orders-api/internal/pkg/validate"
	"github.com/go-orders-api/internal/transport/http/middleware"
)

// OrderHandler handles order creation and listing.
type OrderHandler struct {
	svc order.Service
}

func NewOrderHandler(svc order.Service) *OrderHandler { return &OrderHandler{svc: svc} }

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	o, err := h.svc.Create(r.Context(), claims.UserID, req.Amount)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

// ListMine serves the caller's orders through the cache-backed read path.
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	orders, source, err := h.svc.List(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, OrderListEnvelope{
		Success: true,
		Source:  source,
		Orders:  orders,
	})
}
