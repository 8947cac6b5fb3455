package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jcmexdev/ecommerce-gateway/internal/order-service/domain"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/apperr"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/cache"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/docstore"
)

const (
	// IdempotencyTTL is how long a create keyed by x-idempotency-key is replayed.
	IdempotencyTTL = 24 * time.Hour
	// PendingTTL bounds how long a crashed create can hold its key.
	PendingTTL = time.Minute

	pendingMarker = "pending"
)

type Service struct {
	orders  docstore.Collection[domain.Order]
	clients Clients
	cache   cache.Cache

	pendingWait  time.Duration
	pollInterval time.Duration
}

// NewService wires the order service. cache may be nil, which disables
// idempotent replays.
func NewService(orders docstore.Collection[domain.Order], clients Clients, c cache.Cache) *Service {
	return &Service{
		orders:       orders,
		clients:      clients,
		cache:        c,
		pendingWait:  10 * time.Second,
		pollInterval: 25 * time.Millisecond,
	}
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	return o, nil
}

// Update sets the status and/or the shipping address.
func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Order, error) {
	if req.Status != "" && !req.Status.Valid() {
		return nil, apperr.InvalidArgument("unknown status %q", req.Status)
	}
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != "" {
		o.Status = req.Status
	}
	if req.ShippingAddress != "" {
		o.ShippingAddress = req.ShippingAddress
	}
	if err := s.orders.Update(ctx, id, o); err != nil {
		return nil, storeError(err)
	}
	slog.InfoContext(ctx, "updated order", "order_id", id, "status", o.Status)
	return o, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		return storeError(err)
	}
	slog.InfoContext(ctx, "deleted order", "order_id", id)
	return nil
}

func (s *Service) List(ctx context.Context, f domain.ListFilter) ([]domain.Order, int64, error) {
	q := docstore.Query{Page: f.Page, Limit: f.Limit}
	if f.UserID != "" {
		q.Filter = docstore.Filter{"user_id": f.UserID}
	}
	orders, total, err := s.orders.Find(ctx, q)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return orders, total, nil
}

// claim is an idempotency key reserved by one in-flight create.
type claim struct {
	cache cache.Cache
	key   string
}

// commit points the key at the created order.
func (c *claim) commit(ctx context.Context, orderID string) {
	if c == nil {
		return
	}
	if err := c.cache.Set(ctx, c.key, orderID, IdempotencyTTL); err != nil {
		slog.WarnContext(ctx, "idempotency store failed", "order_id", orderID, "error", err)
	}
}

// abandon releases the key so a retry can create the order.
func (c *claim) abandon(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.cache.Delete(ctx, c.key); err != nil {
		slog.WarnContext(ctx, "idempotency release failed", "error", err)
	}
}

// reserve atomically claims key for this create. When another create already
// holds it, reserve waits for that one to finish and returns its order.
// Cache errors only disable idempotency.
func (s *Service) reserve(ctx context.Context, key string) (*claim, *domain.Order, error) {
	if key == "" || s.cache == nil {
		return nil, nil, nil
	}
	ck := s.cache.GenerateKey("create", key)
	deadline := time.Now().Add(s.pendingWait)

	for {
		ok, err := s.cache.SetNX(ctx, ck, pendingMarker, PendingTTL)
		if err != nil {
			slog.WarnContext(ctx, "idempotency reserve failed", "error", err)
			return nil, nil, nil
		}
		if ok {
			return &claim{cache: s.cache, key: ck}, nil, nil
		}

		id, err := s.cache.Get(ctx, ck)
		if err != nil {
			slog.WarnContext(ctx, "idempotency lookup failed", "error", err)
			return nil, nil, nil
		}
		switch id {
		case "":
			// released or expired between SetNX and Get
			continue
		case pendingMarker:
			if time.Now().After(deadline) {
				return nil, nil, apperr.New(apperr.KindConflict,
					"a request with idempotency key %s is still in progress", key)
			}
			select {
			case <-ctx.Done():
				return nil, nil, apperr.Wrap(ctx.Err(), apperr.KindUnavailable, "request cancelled")
			case <-time.After(s.pollInterval):
			}
		default:
			o, err := s.orders.Get(ctx, id)
			if err != nil {
				// the order is gone, let this request recreate it
				_ = s.cache.Delete(ctx, ck)
				continue
			}
			slog.InfoContext(ctx, "replaying order for idempotency key", "order_id", id)
			return nil, o, nil
		}
	}
}

func storeError(err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return apperr.NotFound("Order not found")
	}
	return apperr.Internal(err)
}
