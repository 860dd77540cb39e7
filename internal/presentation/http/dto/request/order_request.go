package request

import (
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
)

// OrderItemRequest is a single cart line on a draft order
type OrderItemRequest struct {
	ProductID string        `json:"product_id" binding:"required,uuid"`
	Quantity  int           `json:"quantity" binding:"required,gt=0"`
	UnitKind  enum.UnitKind `json:"unit_kind"`
}

// CreateOrderRequest represents a draft order creation request
type CreateOrderRequest struct {
	CustomerID *string            `json:"customer_id" binding:"omitempty,uuid"`
	Channel    enum.OrderChannel  `json:"channel"`
	Note       string             `json:"note" binding:"max=500"`
	Items      []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// AmendOrderRequest replaces the line items of an unpaid order
type AmendOrderRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// OrderFilterRequest represents order list filters
type OrderFilterRequest struct {
	Status     string `form:"status"`
	Channel    string `form:"channel"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	Search     string `form:"search"`
	Page       int    `form:"page,default=1" binding:"min=1"`
	Limit      int    `form:"limit,default=20" binding:"min=1,max=100"`
}
