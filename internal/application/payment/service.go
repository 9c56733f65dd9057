package payment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-orders-api/internal/domain"
)

type UserRepository interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type OrderRepository interface {
	Get(ctx context.Context, orderID string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) error
}

// OTPManager issues and verifies one-time codes.
type OTPManager interface {
	Issue(ctx context.Context, user *domain.User, channel string) (string, error)
	Verify(ctx context.Context, email, code string) (bool, error)
}

// CacheInvalidator drops a user's cached order list after a state change.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// ReceiptArchiver stores an audit receipt per confirmed payment. Optional.
type ReceiptArchiver interface {
	Archive(ctx context.Context, o *domain.Order) error
}

type ConfirmRequest struct {
	OrderID string `json:"order_id" validate:"required"`
	OTP     string `json:"otp" validate:"required,numeric"`
}

type RequestCodeRequest struct {
	Channel string `json:"channel"` // "email" (default) or "sms"
}

type Service interface {
	RequestCode(ctx context.Context, callerID, channel string) error
	Confirm(ctx context.Context, callerID, orderID, code string) (*domain.Order, error)
}

type service struct {
	users         UserRepository
	orders        OrderRepository
	otp           OTPManager
	cache         CacheInvalidator
	receipts      ReceiptArchiver
	approvalLimit int64
}

func NewService(
	users UserRepository,
	orders OrderRepository,
	otp OTPManager,
	cache CacheInvalidator,
	receipts ReceiptArchiver,
	approvalLimit int64,
) Service {
	return &service{
		users:         users,
		orders:        orders,
		otp:           otp,
		cache:         cache,
		receipts:      receipts,
		approvalLimit: approvalLimit,
	}
}

// RequestCode issues a fresh code addressed to the caller's own email (or
// phone when the sms channel is requested).
func (s *service) RequestCode(ctx context.Context, callerID, channel string) error {
	u, err := s.users.Get(ctx, callerID)
	if err != nil {
		return fmt.Errorf("caller lookup: %w", err)
	}
	_, err = s.otp.Issue(ctx, u, channel)
	return err
}

// Confirm drives the PENDING -> {PAID|FAILED} transition, gated on a valid
// one-time code. Ownership and status are checked before the code is
// verified, so a request that could never succeed does not consume the
// caller's code.
func (s *service) Confirm(ctx context.Context, callerID, orderID, code string) (*domain.Order, error) {
	u, err := s.users.Get(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("caller lookup: %w", err)
	}
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order lookup: %w", err)
	}
	if o.UserID != callerID {
		return nil, fmt.Errorf("order %s belongs to another user: %w", o.OrderID, domain.ErrUnauthorized)
	}
	if o.Terminal() {
		return nil, fmt.Errorf("order %s is already %s: %w", o.OrderID, o.Status, domain.ErrOrderNotPending)
	}

	ok, err := s.otp.Verify(ctx, u.Email, code)
	if err != nil {
		return nil, fmt.Errorf("verify otp: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidOrExpiredCode
	}

	status := domain.OrderStatusPaid
	if o.Amount > s.approvalLimit {
		status = domain.OrderStatusFailed
	}
	if err := s.orders.UpdateStatus(ctx, o.OrderID, status); err != nil {
		// The code is already spent; the caller has to request a new one.
		return nil, fmt.Errorf("persist order status: %w", err)
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()

	// Invalidate strictly after the durable write committed, otherwise a
	// concurrent reader could repopulate the cache with the old snapshot.
	if err := s.cache.Invalidate(ctx, o.UserID); err != nil {
		slog.Warn("order cache invalidation failed", "user_id", o.UserID, "err", err)
	}
	if s.receipts != nil {
		if err := s.receipts.Archive(ctx, o); err != nil {
			slog.Warn("receipt archive failed", "order_id", o.OrderID, "err", err)
		}
	}
	return o, nil
}
