package mappers

import (
	"github.com/jcmexdev/ecommerce-gateway/internal/order-service/domain"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/rpc"
)

// CreateRequestFromRPC keeps only product ids and quantities; prices are
// always read from the product service.
func CreateRequestFromRPC(f *rpc.OrderFields) domain.CreateRequest {
	if f == nil {
		return domain.CreateRequest{}
	}
	return domain.CreateRequest{
		UserID:          f.UserID,
		Items:           mapItemsFromRPC(f.Items),
		ShippingAddress: f.ShippingAddress,
	}
}

func UpdateRequestFromRPC(f *rpc.OrderFields) domain.UpdateRequest {
	if f == nil {
		return domain.UpdateRequest{}
	}
	return domain.UpdateRequest{
		Status:          domain.OrderStatus(f.Status),
		ShippingAddress: f.ShippingAddress,
	}
}

func OrderToRPC(o *domain.Order) *rpc.Order {
	if o == nil {
		return nil
	}
	return &rpc.Order{
		ID:              o.ID,
		UserID:          o.UserID,
		Items:           mapItemsToRPC(o.Items),
		TotalAmount:     o.TotalAmount,
		Status:          string(o.Status),
		ShippingAddress: o.ShippingAddress,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func OrdersToRPC(orders []domain.Order) []rpc.Order {
	out := make([]rpc.Order, len(orders))
	for i := range orders {
		out[i] = *OrderToRPC(&orders[i])
	}
	return out
}

func mapItemsFromRPC(items []rpc.OrderItem) []domain.ItemRequest {
	out := make([]domain.ItemRequest, len(items))
	for i, it := range items {
		out[i] = domain.ItemRequest{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return out
}

func mapItemsToRPC(items []domain.OrderItem) []rpc.OrderItem {
	out := make([]rpc.OrderItem, len(items))
	for i, it := range items {
		out[i] = rpc.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price}
	}
	return out
}
