package request

import (
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
)

// OpenShiftRequest opens a shift for a cashier with a manager-counted float
type OpenShiftRequest struct {
	CashierID    string  `json:"cashier_id" binding:"required,uuid"`
	OpeningFloat float64 `json:"opening_float" binding:"gte=0"`
}

// AcceptOpeningRequest is the cashier's confirmation of the opening float
type AcceptOpeningRequest struct {
	Counted float64 `json:"counted" binding:"gte=0"`
}

// DisputeOpeningRequest is the cashier's rejection of the opening float
type DisputeOpeningRequest struct {
	Counted float64 `json:"counted" binding:"gte=0"`
	Note    string  `json:"note" binding:"required,max=500"`
}

// CorrectOpeningRequest is a manager's recount after a dispute
type CorrectOpeningRequest struct {
	OpeningFloat float64 `json:"opening_float" binding:"gte=0"`
}

// SubmitClosingRequest is the cashier's end-of-shift count
type SubmitClosingRequest struct {
	Total     float64 `json:"total" binding:"gte=0"`
	Breakdown string  `json:"breakdown" binding:"max=2000"`
	Note      string  `json:"note" binding:"max=500"`
}

// DrawerTxnRequest records a cash movement against the open drawer
type DrawerTxnRequest struct {
	Type   enum.DrawerTxnType `json:"type"`
	Amount float64            `json:"amount" binding:"required,gt=0"`
	Note   string             `json:"note" binding:"max=500"`
}

// ARPaymentRequest records a standalone cash payment on a customer balance
type ARPaymentRequest struct {
	CustomerID string  `json:"customer_id" binding:"required,uuid"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
}
