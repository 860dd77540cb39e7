package request

import (
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
)

// ReceiptLineRequest is one sold line on a rider's run receipt
type ReceiptLineRequest struct {
	ProductID string  `json:"product_id" binding:"required,uuid"`
	Name      string  `json:"name" binding:"required,max=255"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" binding:"gte=0"`
}

// CaptureReceiptRequest freezes a rider's run receipt for an order
type CaptureReceiptRequest struct {
	OrderID       string               `json:"order_id" binding:"required,uuid"`
	RiderID       string               `json:"rider_id" binding:"required,uuid"`
	RunCode       string               `json:"run_code" binding:"max=100"`
	CashCollected float64              `json:"cash_collected" binding:"gte=0"`
	Lines         []ReceiptLineRequest `json:"lines" binding:"omitempty,dive"`
}

// DecideVarianceRequest is a manager's resolution of an open variance
type DecideVarianceRequest struct {
	Resolution enum.VarianceResolution `json:"resolution"`
	Note       string                  `json:"note" binding:"max=500"`
}

// VarianceFilterRequest represents variance list filters
type VarianceFilterRequest struct {
	Status  string `form:"status"`
	RiderID string `form:"rider_id" binding:"omitempty,uuid"`
	Page    int    `form:"page,default=1" binding:"min=1"`
	Limit   int    `form:"limit,default=20" binding:"min=1,max=100"`
}
