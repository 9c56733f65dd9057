package order

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-orders-api/internal/domain"
	"github.com/go-orders-api/internal/pkg/id"
)

// Source tags for List results: where the snapshot came from.
const (
	SourceCache    = "cache"
	SourceDatabase = "database"
)

// Cache is the ephemeral store holding serialized order-list snapshots.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) (bool, error)
}

type OrderRepository interface {
	Put(ctx context.Context, o *domain.Order) error
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

type Service interface {
	Create(ctx context.Context, userID string, amount int64) (*domain.Order, error)
	List(ctx context.Context, userID string) ([]domain.Order, string, error)
	Invalidate(ctx context.Context, userID string) error
}

type service struct {
	repo  OrderRepository
	cache Cache
	ttl   time.Duration
}

func NewService(repo OrderRepository, cache Cache, ttl time.Duration) Service {
	return &service{repo: repo, cache: cache, ttl: ttl}
}

// cacheKey derives the order-list cache key for a user.
func cacheKey(userID string) string {
	return "orders:" + userID
}

func (s *service) Create(ctx context.Context, userID string, amount int64) (*domain.Order, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", domain.ErrBadRequest)
	}
	now := time.Now().UTC()
	o := &domain.Order{
		OrderID:   id.New(),
		UserID:    userID,
		Amount:    amount,
		Status:    domain.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Put(ctx, o); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}
	// The cached list no longer matches the database; drop it after the
	// write committed so a concurrent reader cannot repopulate the old view.
	if err := s.Invalidate(ctx, userID); err != nil {
		slog.Warn("order cache invalidation failed", "user_id", userID, "err", err)
	}
	return o, nil
}

// List is the cache-through read path. On a hit the cached snapshot is
// returned tagged SourceCache; on a miss the database result is cached with
// the configured TTL and tagged SourceDatabase. An empty order list is a
// valid, cacheable result, not an error.
func (s *service) List(ctx context.Context, userID string) ([]domain.Order, string, error) {
	raw, ok, err := s.cache.Get(ctx, cacheKey(userID))
	if err != nil {
		return nil, "", fmt.Errorf("read order cache: %w", err)
	}
	if ok {
		var orders []domain.Order
		if err := json.Unmarshal([]byte(raw), &orders); err != nil {
			return nil, "", fmt.Errorf("decode cached orders: %w", err)
		}
		return orders, SourceCache, nil
	}

	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	buf, err := json.Marshal(orders)
	if err != nil {
		return nil, "", fmt.Errorf("encode orders for cache: %w", err)
	}
	// Two concurrent misses may both write here; last write wins, and both
	// snapshots answer the same query, so the race is benign.
	if err := s.cache.Set(ctx, cacheKey(userID), string(buf), s.ttl); err != nil {
		slog.Warn("order cache write failed", "user_id", userID, "err", err)
	}
	return orders, SourceDatabase, nil
}

// Invalidate drops the user's cached order list. Idempotent: a missing
// entry is a no-op.
func (s *service) Invalidate(ctx context.Context, userID string) error {
	if _, err := s.cache.Delete(ctx, cacheKey(userID)); err != nil {
		return fmt.Errorf("invalidate order cache: %w", err)
	}
	return nil
}
