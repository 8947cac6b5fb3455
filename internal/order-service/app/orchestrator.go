package app

import (
	"context"
	"log/slog"

	"github.com/jcmexdev/ecommerce-gateway/internal/order-service/domain"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/apperr"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/interceptors"
)

// Create validates the user and then every item, in the order given, against
// the sibling services and persists the order only if all of them pass. No
// remote state is written, so a failed validation leaves nothing behind.
func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Order, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	held, replayed, err := s.reserve(ctx, interceptors.IdempotencyKey(ctx))
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		return replayed, nil
	}

	order, err := s.create(ctx, req)
	if err != nil {
		held.abandon(ctx)
		return nil, err
	}
	held.commit(ctx, order.ID)
	return order, nil
}

func (s *Service) create(ctx context.Context, req domain.CreateRequest) (*domain.Order, error) {
	if err := s.validateUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	items, err := s.validateItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		UserID:          req.UserID,
		Items:           items,
		TotalAmount:     domain.Total(items).InexactFloat64(),
		Status:          domain.StatusPending,
		ShippingAddress: req.ShippingAddress,
	}
	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, apperr.Internal(err)
	}

	slog.InfoContext(ctx, "created order",
		"order_id", order.ID,
		"user_id", order.UserID,
		"items", len(order.Items),
		"total_amount", order.TotalAmount,
	)
	return order, nil
}

func validateRequest(req domain.CreateRequest) error {
	if req.UserID == "" {
		return apperr.InvalidArgument("user_id is required")
	}
	if len(req.Items) == 0 {
		return apperr.InvalidArgument("an order needs at least one item")
	}
	for i, it := range req.Items {
		if it.ProductID == "" {
			return apperr.InvalidArgument("item %d: product_id is required", i)
		}
		if it.Quantity <= 0 {
			return apperr.InvalidArgument("item %d: quantity must be positive", i)
		}
	}
	return nil
}

func (s *Service) validateUser(ctx context.Context, userID string) error {
	users, closeFn, err := s.clients.Users(ctx)
	if err != nil {
		return apperr.Wrap(err, apperr.KindInternal, "user service unreachable")
	}
	defer closeFn()

	if _, err := users.Get(ctx, userID); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return apperr.NotFound("User %s not found", userID)
		}
		return apperr.Wrap(err, apperr.KindInternal, "user validation failed")
	}
	return nil
}

// validateItems checks each item sequentially and snapshots its price.
func (s *Service) validateItems(ctx context.Context, reqs []domain.ItemRequest) ([]domain.OrderItem, error) {
	products, closeFn, err := s.clients.Products(ctx)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindInternal, "product service unreachable")
	}
	defer closeFn()

	items := make([]domain.OrderItem, 0, len(reqs))
	for _, it := range reqs {
		p, err := products.Get(ctx, it.ProductID)
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return nil, apperr.NotFound("Product %s not found", it.ProductID)
			}
			return nil, apperr.Wrap(err, apperr.KindInternal, "product validation failed")
		}
		if p.Stock < it.Quantity {
			return nil, apperr.New(apperr.KindInsufficientStock,
				"Not enough stock for product %s: requested %d, available %d", p.Name, it.Quantity, p.Stock)
		}
		items = append(items, domain.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     p.Price,
		})
	}
	return items, nil
}
