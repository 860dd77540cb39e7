package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/application/service"
	"github.com/sangkips/tindahan-pos/internal/domain/entity"
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
	"github.com/sangkips/tindahan-pos/internal/domain/repository"
	"github.com/sangkips/tindahan-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/tindahan-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/tindahan-pos/pkg/money"
	"github.com/sangkips/tindahan-pos/pkg/pagination"
	"github.com/shopspring/decimal"
)

// RiderHandler handles run receipts, variances and rider charges
type RiderHandler struct {
	riderService *service.RiderService
}

// NewRiderHandler creates a new rider handler
func NewRiderHandler(riderService *service.RiderService) *RiderHandler {
	return &RiderHandler{riderService: riderService}
}

// CaptureReceipt freezes a rider's run receipt for an order. Receipts are
// write-once; a second capture is rejected with a conflict.
func (h *RiderHandler) CaptureReceipt(c *gin.Context) {
	var req request.CaptureReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}
	riderID, err := uuid.Parse(req.RiderID)
	if err != nil {
		response.BadRequest(c, "Invalid rider ID")
		return
	}

	receipt := &entity.RunReceipt{
		OrderID:       orderID,
		RiderID:       riderID,
		RunCode:       req.RunCode,
		CashCollected: money.FromFloat(req.CashCollected),
	}
	for _, line := range req.Lines {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			continue
		}
		unitPrice := money.FromFloat(line.UnitPrice)
		receipt.Lines = append(receipt.Lines, entity.RunReceiptLine{
			ProductID: productID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
			LineTotal: money.Round2(unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))),
		})
	}

	created, err := h.riderService.CaptureRunReceipt(c.Request.Context(), receipt)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Run receipt captured", created)
}

// ListVariances returns the variance review queue
func (h *RiderHandler) ListVariances(c *gin.Context) {
	var req request.VarianceFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.VarianceFilterParams{
		Pagination: &pagination.PaginationParams{Page: req.Page, PerPage: req.Limit},
		Status:     parseVarianceStatus(req.Status),
	}
	if req.RiderID != "" {
		if id, err := uuid.Parse(req.RiderID); err == nil {
			params.RiderID = &id
		}
	}

	variances, total, err := h.riderService.ListVariances(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(variances,
		pagination.NewPagination(req.Page, req.Limit, total))
	response.SuccessWithPagination(c, 200, "Variances retrieved successfully", result)
}

// DecideVariance applies a manager resolution to an open variance
func (h *RiderHandler) DecideVariance(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	varianceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid variance ID")
		return
	}

	var req request.DecideVarianceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	variance, err := h.riderService.DecideVariance(c.Request.Context(), &service.DecideVarianceInput{
		VarianceID: varianceID,
		ManagerID:  *userID,
		Resolution: req.Resolution,
		Note:       req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Variance decided", variance)
}

// AcceptCharge records the rider's acknowledgment of a charge decision
func (h *RiderHandler) AcceptCharge(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	varianceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid variance ID")
		return
	}

	if err := h.riderService.AcceptCharge(c.Request.Context(), varianceID, *userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Charge accepted", nil)
}

// ListCharges returns the authenticated rider's charge ledger
func (h *RiderHandler) ListCharges(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	charges, err := h.riderService.ListRiderCharges(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Charges retrieved successfully", charges)
}

func parseVarianceStatus(s string) *enum.VarianceStatus {
	var v enum.VarianceStatus
	switch s {
	case "Open":
		v = enum.VarianceStatusOpen
	case "ManagerApproved":
		v = enum.VarianceStatusManagerApproved
	case "Waived":
		v = enum.VarianceStatusWaived
	case "RiderAccepted":
		v = enum.VarianceStatusRiderAccepted
	case "Closed":
		v = enum.VarianceStatusClosed
	default:
		return nil
	}
	return &v
}
