package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/application/service"
	"github.com/sangkips/tindahan-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/tindahan-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/tindahan-pos/pkg/money"
)

// SettlementHandler handles the settlement endpoints. All money flows through
// these two routes: counter cash and rider delivery reconciliation.
type SettlementHandler struct {
	settlementService *service.SettlementService
	riderService      *service.RiderService
}

// NewSettlementHandler creates a new settlement handler
func NewSettlementHandler(settlementService *service.SettlementService, riderService *service.RiderService) *SettlementHandler {
	return &SettlementHandler{
		settlementService: settlementService,
		riderService:      riderService,
	}
}

// SettleCash applies a cash payment to an order at the counter
func (h *SettlementHandler) SettleCash(c *gin.Context) {
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

	var req request.SettleCashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.SettleCashInput{
		OrderID:        orderID,
		ActorID:        *userID,
		Tendered:       money.FromFloat(req.Tendered),
		ReleaseGoods:   req.ReleaseGoods,
		PrintRequested: req.Print,
	}
	if req.CustomerID != nil {
		if id, err := uuid.Parse(*req.CustomerID); err == nil {
			input.CustomerID = &id
		}
	}
	if req.ApprovedBy != nil {
		if id, err := uuid.Parse(*req.ApprovedBy); err == nil {
			input.ApprovedBy = &id
		}
	}

	outcome, err := h.settlementService.SettleCash(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order settled", outcome)
}

// SettleDelivery reconciles a delivery order against its run receipt
func (h *SettlementHandler) SettleDelivery(c *gin.Context) {
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

	var req request.SettleDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	outcome, err := h.riderService.SettleDelivery(c.Request.Context(), &service.SettleDeliveryInput{
		OrderID:        orderID,
		ActorID:        *userID,
		Collected:      money.FromFloat(req.Collected),
		PrintRequested: req.Print,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Delivery settled", outcome)
}
