package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/go-orders-api/internal/domain"
)

// Delivery channels for issued codes.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// CodeStore is the ephemeral key-value store holding in-flight codes.
// Expiry is enforced entirely by the store.
type CodeStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	CompareAndDelete(ctx context.Context, key, expected string) (bool, error)
}

type Mailer interface {
	SendEmail(to, subject, textBody, htmlBody string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type Service interface {
	Issue(ctx context.Context, user *domain.User, channel string) (string, error)
	Verify(ctx context.Context, email, code string) (bool, error)
}

type service struct {
	store     CodeStore
	mailer    Mailer
	smsSender SMSSender
	ttl       time.Duration
	digits    int
}

func NewService(store CodeStore, mailer Mailer, smsSender SMSSender, ttl time.Duration, digits int) Service {
	return &service{
		store:     store,
		mailer:    mailer,
		smsSender: smsSender,
		ttl:       ttl,
		digits:    digits,
	}
}

// codeKey derives the store key for a user's live code. One live code per
// email: issuing again overwrites the previous one.
func codeKey(email string) string {
	return "otp:" + email
}

// Issue generates a fresh code, persists it with the configured TTL, then
// delivers it over the requested channel. The store write comes first: a code
// that failed to persist is never sent.
func (s *service) Issue(ctx context.Context, user *domain.User, channel string) (string, error) {
	code, err := generateCode(s.digits)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	if err := s.store.Set(ctx, codeKey(user.Email), code, s.ttl); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}

	minutes := int(s.ttl.Minutes())
	text := fmt.Sprintf("Your OTP code is %s. It expires in %d minutes.", code, minutes)

	switch channel {
	case ChannelSMS:
		if user.Phone == nil {
			return "", fmt.Errorf("no phone number on account: %w", domain.ErrBadRequest)
		}
		if err := s.smsSender.SendSMS(ctx, *user.Phone, text); err != nil {
			return "", fmt.Errorf("send otp sms (%v): %w", err, domain.ErrDeliveryFailed)
		}
	case ChannelEmail, "":
		html := fmt.Sprintf("<p>Your OTP code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p>", code, minutes)
		if err := s.mailer.SendEmail(user.Email, "Your OTP Code", text, html); err != nil {
			return "", fmt.Errorf("send otp email (%v): %w", err, domain.ErrDeliveryFailed)
		}
	default:
		return "", fmt.Errorf("unsupported channel %q: %w", channel, domain.ErrBadRequest)
	}
	return code, nil
}

// Verify checks the supplied code against the stored one and consumes it on
// the first match. A missing key means expired or never issued. A mismatch
// leaves the stored code in place until it expires.
func (s *service) Verify(ctx context.Context, email, code string) (bool, error) {
	stored, ok, err := s.store.Get(ctx, codeKey(email))
	if err != nil {
		return false, fmt.Errorf("read otp: %w", err)
	}
	if !ok {
		return false, nil
	}
	if stored != code {
		return false, nil
	}
	// The atomic delete decides the winner between concurrent verifications:
	// only the caller whose delete removed the key succeeds.
	won, err := s.store.CompareAndDelete(ctx, codeKey(email), code)
	if err != nil {
		return false, fmt.Errorf("consume otp: %w", err)
	}
	return won, nil
}

// generateCode returns a fixed-width numeric code drawn uniformly from
// [10^(digits-1), 10^digits), e.g. 100000-999999 for six digits.
func generateCode(digits int) (string, error) {
	low := int64(1)
	for i := 1; i < digits; i++ {
		low *= 10
	}
	n, err := rand.Int(rand.Reader, big.NewInt(9*low))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", low+n.Int64()), nil
}
