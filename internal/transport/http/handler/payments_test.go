package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-orders-api/internal/application/payment"
	"github.com/go-orders-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockPaymentSvc struct{ mock.Mock }

func (m *mockPaymentSvc) RequestCode(ctx context.Context, callerID, channel string) error {
	return m.Called(ctx, callerID, channel).Error(0)
}

func (m *mockPaymentSvc) Confirm(ctx context.Context, callerID, orderID, code string) (*domain.Order, error) {
	args := m.Called(ctx, callerID, orderID, code)
	if o, _ := args.Get(0).(*domain.Order); o != nil {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- RequestOTP tests ---

func TestRequestOTP_MissingClaims(t *testing.T) {
	h := NewPaymentHandler(&mockPaymentSvc{})
	r := httptest.NewRequest(http.MethodPost, "/v1/payments/otp", nil)
	rr := httptest.NewRecorder()
	h.RequestOTP(rr, r)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequestOTP_EmptyBodyDefaultsToEmail(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockPaymentSvc{}
	svc.On("RequestCode", mock.Anything, "u1", "").Return(nil)
	h := NewPaymentHandler(svc)

	r := bearerReq(t, p, http.MethodPost, "/v1/payments/otp", "u1", nil)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.RequestOTP), rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp MessageEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "OTP sent successfully", resp.Message)
	svc.AssertExpectations(t)
}

func TestRequestOTP_ExplicitChannel(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockPaymentSvc{}
	svc.On("RequestCode", mock.Anything, "u1", "sms").Return(nil)
	h := NewPaymentHandler(svc)

	body, _ := json.Marshal(payment.RequestCodeRequest{Channel: "sms"})
	r := bearerReq(t, p, http.MethodPost, "/v1/payments/otp", "u1", body)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.RequestOTP), rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestRequestOTP_DeliveryFailure(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockPaymentSvc{}
	svc.On("RequestCode", mock.Anything, "u1", "").Return(domain.ErrDeliveryFailed)
	h := NewPaymentHandler(svc)

	r := bearerReq(t, p, http.MethodPost, "/v1/payments/otp", "u1", nil)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.RequestOTP), rr, r)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

// --- Confirm tests ---

func confirmBody(t *testing.T, orderID, otp string) []byte {
	t.Helper()
	b, err := json.Marshal(payment.ConfirmRequest{OrderID: orderID, OTP: otp})
	require.NoError(t, err)
	return b
}

func TestConfirm_MissingClaims(t *testing.T) {
	h := NewPaymentHandler(&mockPaymentSvc{})
	r := httptest.NewRequest(http.MethodPost, "/v1/payments/confirm", nil)
	rr := httptest.NewRecorder()
	h.Confirm(rr, r)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestConfirm_ValidationFailure(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockPaymentSvc{}
	h := NewPaymentHandler(svc)

	// otp must be numeric
	r := bearerReq(t, p, http.MethodPost, "/v1/payments/confirm", "u1", confirmBody(t, "o1", "abc123"))
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Confirm), rr, r)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirm_HappyPath(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockPaymentSvc{}
	paid := &domain.Order{OrderID: "o1", UserID: "u1", Amount: 100, Status: domain.OrderStatusPaid}
	svc.On("Confirm", mock.Anything, "u1", "o1", "482913").Return(paid, nil)
	h := NewPaymentHandler(svc)

	r := bearerReq(t, p, http.MethodPost, "/v1/payments/confirm", "u1", confirmBody(t, "o1", "482913"))
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Confirm), rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp PaymentEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Payment processed", resp.Message)
	require.NotNil(t, resp.Order)
	assert.Equal(t, domain.OrderStatusPaid, resp.Order.Status)
	svc.AssertExpectations(t)
}

func TestConfirm_ErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid or expired code", domain.ErrInvalidOrExpiredCode, http.StatusUnauthorized},
		{"foreign order", domain.ErrUnauthorized, http.StatusForbidden},
		{"unknown order", domain.ErrNotFound, http.StatusNotFound},
		{"order already settled", domain.ErrOrderNotPending, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := newTestJWTProvider(t)
			svc := &mockPaymentSvc{}
			svc.On("Confirm", mock.Anything, "u1", "o1", "482913").Return(nil, tc.err)
			h := NewPaymentHandler(svc)

			r := bearerReq(t, p, http.MethodPost, "/v1/payments/confirm", "u1", confirmBody(t, "o1", "482913"))
			rr := httptest.NewRecorder()
			serveAuthed(p, http.HandlerFunc(h.Confirm), rr, r)

			assert.Equal(t, tc.want, rr.Code)
		})
	}
}
