package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-orders-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuthSvc struct{ mock.Mock }

func (m *mockAuthSvc) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) Login(ctx context.Context, req domain.LoginRequest) (string, *domain.User, error) {
	args := m.Called(ctx, req)
	if u, _ := args.Get(1).(*domain.User); u != nil {
		return args.String(0), u, args.Error(2)
	}
	return args.String(0), nil, args.Error(2)
}

func TestRegister_InvalidBody(t *testing.T) {
	h := NewAuthHandler(&mockAuthSvc{}, time.Hour)
	r := httptest.NewRequest(http.MethodPost, "/v1/auth/register", bytes.NewBufferString("not-json"))
	rr := httptest.NewRecorder()
	h.Register(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegister_ValidationFailure(t *testing.T) {
	svc := &mockAuthSvc{}
	h := NewAuthHandler(svc, time.Hour)
	body, _ := json.Marshal(domain.RegisterRequest{Email: "a@x.com", Password: "short"})
	r := httptest.NewRequest(http.MethodPost, "/v1/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Register(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegister_Conflict(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Register", mock.Anything, mock.Anything).Return(nil, domain.ErrConflict)
	h := NewAuthHandler(svc, time.Hour)
	body, _ := json.Marshal(domain.RegisterRequest{Email: "taken@x.com", Password: "hunter22"})
	r := httptest.NewRequest(http.MethodPost, "/v1/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Register(rr, r)
	assert.Equal(t, http.StatusConflict, rr.Code)
	svc.AssertExpectations(t)
}

func TestRegister_HandlerHappyPath(t *testing.T) {
	svc := &mockAuthSvc{}
	u := &domain.User{UserID: "u1", Email: "new@x.com"}
	svc.On("Register", mock.Anything, mock.Anything).Return(u, nil)
	h := NewAuthHandler(svc, time.Hour)
	body, _ := json.Marshal(domain.RegisterRequest{Email: "new@x.com", Password: "hunter22"})
	r := httptest.NewRequest(http.MethodPost, "/v1/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Register(rr, r)

	assert.Equal(t, http.StatusCreated, rr.Code)
	var resp AuthEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "User registered successfully", resp.Message)
	require.NotNil(t, resp.User)
	assert.Equal(t, "new@x.com", resp.User.Email)
	svc.AssertExpectations(t)
}

func TestLogin_HandlerHappyPath(t *testing.T) {
	svc := &mockAuthSvc{}
	u := &domain.User{UserID: "u1", Email: "a@x.com"}
	svc.On("Login", mock.Anything, mock.Anything).Return("signed-token", u, nil)
	h := NewAuthHandler(svc, time.Hour)
	body, _ := json.Marshal(domain.LoginRequest{Email: "a@x.com", Password: "hunter22"})
	r := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Login(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp AuthEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "signed-token", resp.Token)
	assert.Equal(t, "1 hour", resp.ExpiresIn)
	svc.AssertExpectations(t)
}

func TestLogin_BadCredentials_UniformMessage(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Login", mock.Anything, mock.Anything).Return("", nil, domain.ErrUnauthorized)
	h := NewAuthHandler(svc, time.Hour)
	body, _ := json.Marshal(domain.LoginRequest{Email: "a@x.com", Password: "wrong"})
	r := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Login(rr, r)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	var resp MessageEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Invalid Credentials", resp.Error)
}

func TestExpiryLabel(t *testing.T) {
	assert.Equal(t, "1 hour", expiryLabel(time.Hour))
	assert.Equal(t, "24 hours", expiryLabel(24*time.Hour))
}
