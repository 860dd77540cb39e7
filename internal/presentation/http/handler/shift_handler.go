package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/application/service"
	"github.com/sangkips/tindahan-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/tindahan-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/tindahan-pos/pkg/money"
)

// ShiftHandler handles cashier shift and drawer HTTP requests
type ShiftHandler struct {
	shiftService *service.ShiftService
}

// NewShiftHandler creates a new shift handler
func NewShiftHandler(shiftService *service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftService: shiftService}
}

// Open opens a shift for a cashier with a manager-counted float
func (h *ShiftHandler) Open(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.OpenShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cashierID, err := uuid.Parse(req.CashierID)
	if err != nil {
		response.BadRequest(c, "Invalid cashier ID")
		return
	}

	shift, err := h.shiftService.OpenShift(c.Request.Context(), *userID, cashierID, money.FromFloat(req.OpeningFloat))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Shift opened", shift)
}

// AcceptOpening records the cashier's confirmation of the opening float
func (h *ShiftHandler) AcceptOpening(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid shift ID")
		return
	}

	var req request.AcceptOpeningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	shift, err := h.shiftService.AcceptOpening(c.Request.Context(), shiftID, *userID, money.FromFloat(req.Counted))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Opening accepted", shift)
}

// DisputeOpening records the cashier's rejection of the opening float
func (h *ShiftHandler) DisputeOpening(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid shift ID")
		return
	}

	var req request.DisputeOpeningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	shift, err := h.shiftService.DisputeOpening(c.Request.Context(), shiftID, *userID, money.FromFloat(req.Counted), req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Opening disputed", shift)
}

// CorrectOpening records a manager's recount after a dispute
func (h *ShiftHandler) CorrectOpening(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid shift ID")
		return
	}

	var req request.CorrectOpeningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	shift, err := h.shiftService.CorrectOpening(c.Request.Context(), shiftID, *userID, money.FromFloat(req.OpeningFloat))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Opening corrected", shift)
}

// SubmitClosing records the cashier's end-of-shift count and returns the
// expected-vs-counted report
func (h *ShiftHandler) SubmitClosing(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid shift ID")
		return
	}

	var req request.SubmitClosingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	report, err := h.shiftService.SubmitClosing(c.Request.Context(), shiftID, *userID, money.FromFloat(req.Total), req.Breakdown, req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Closing submitted", report)
}

// FinalClose lets a manager finalize a submitted closing
func (h *ShiftHandler) FinalClose(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid shift ID")
		return
	}

	shift, err := h.shiftService.FinalClose(c.Request.Context(), shiftID, *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Shift closed", shift)
}

// PostDrawerTxn records a cash movement against the open drawer
func (h *ShiftHandler) PostDrawerTxn(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid shift ID")
		return
	}

	var req request.DrawerTxnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	txn, err := h.shiftService.PostDrawerTxn(c.Request.Context(), shiftID, *userID, req.Type, money.FromFloat(req.Amount), req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Drawer transaction recorded", txn)
}

// DrawerStatus returns the shift with its drawer math
func (h *ShiftHandler) DrawerStatus(c *gin.Context) {
	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid shift ID")
		return
	}

	status, err := h.shiftService.DrawerStatus(c.Request.Context(), shiftID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Drawer status retrieved", status)
}

// Current returns the authenticated cashier's active shift, if any
func (h *ShiftHandler) Current(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	shift, err := h.shiftService.CurrentShift(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Current shift retrieved", shift)
}

// ReceiveARPayment records a standalone cash payment on a customer balance
func (h *ShiftHandler) ReceiveARPayment(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.ARPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	payment, err := h.shiftService.ReceiveARPayment(c.Request.Context(), *userID, customerID, money.FromFloat(req.Amount))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment recorded", payment)
}
