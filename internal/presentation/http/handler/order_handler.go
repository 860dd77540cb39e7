package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/application/service"
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
	"github.com/sangkips/tindahan-pos/internal/domain/repository"
	"github.com/sangkips/tindahan-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/tindahan-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/tindahan-pos/pkg/pagination"
)

// OrderHandler handles order lifecycle HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create handles creating a draft order
func (h *OrderHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.CreateOrderInput{
		ActorID: *userID,
		Channel: req.Channel,
		Items:   toItemInputs(req.Items),
	}
	if req.CustomerID != nil {
		if id, err := uuid.Parse(*req.CustomerID); err == nil {
			input.CustomerID = &id
		}
	}

	order, err := h.orderService.CreateDraft(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created successfully", order)
}

// Amend replaces the line items of an unpaid order
func (h *OrderHandler) Amend(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.AmendOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orderService.AmendItems(c.Request.Context(), orderID, *userID, toItemInputs(req.Items))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order amended successfully", order)
}

// Cancel voids an unpaid order
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.orderService.Cancel(c.Request.Context(), orderID, *userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order cancelled", nil)
}

// Get handles getting a single order with its lines and payments
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// List handles listing orders
func (h *OrderHandler) List(c *gin.Context) {
	var req request.OrderFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.OrderFilterParams{
		Pagination: &pagination.PaginationParams{Page: req.Page, PerPage: req.Limit},
		Search:     req.Search,
		Status:     parseOrderStatus(req.Status),
		Channel:    parseOrderChannel(req.Channel),
	}
	if req.CustomerID != "" {
		if id, err := uuid.Parse(req.CustomerID); err == nil {
			params.CustomerID = &id
		}
	}

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(orders,
		pagination.NewPagination(req.Page, req.Limit, total))
	response.SuccessWithPagination(c, 200, "Orders retrieved successfully", result)
}

func toItemInputs(items []request.OrderItemRequest) []service.OrderItemInput {
	inputs := make([]service.OrderItemInput, 0, len(items))
	for _, item := range items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			continue
		}
		inputs = append(inputs, service.OrderItemInput{
			ProductID: productID,
			Quantity:  item.Quantity,
			UnitKind:  item.UnitKind,
		})
	}
	return inputs
}

func parseOrderStatus(s string) *enum.OrderStatus {
	var v enum.OrderStatus
	switch s {
	case "Unpaid":
		v = enum.OrderStatusUnpaid
	case "PartiallyPaid":
		v = enum.OrderStatusPartiallyPaid
	case "Paid":
		v = enum.OrderStatusPaid
	case "Cancelled":
		v = enum.OrderStatusCancelled
	default:
		return nil
	}
	return &v
}

func parseOrderChannel(s string) *enum.OrderChannel {
	var v enum.OrderChannel
	switch s {
	case "Counter":
		v = enum.OrderChannelCounter
	case "Delivery":
		v = enum.OrderChannelDelivery
	default:
		return nil
	}
	return &v
}
