package entity

import "github.com/shopspring/decimal"

// ReceiptView is a value object handed to the presentation layer when the
// settlement routing decision selects a receipt or acknowledgment view.
// It is NOT a database entity — it is composed from the frozen order at
// settlement time. Rendering/printing is outside this engine.
type ReceiptView struct {
	OrderCode string            `json:"order_code"`
	ReceiptNo *int64            `json:"receipt_no,omitempty"`
	Date      string            `json:"date"`
	Cashier   string            `json:"cashier,omitempty"`
	Customer  string            `json:"customer,omitempty"`
	Items     []ReceiptViewItem `json:"items"`
	Subtotal  decimal.Decimal   `json:"subtotal"`
	Discount  decimal.Decimal   `json:"discount"`
	Total     decimal.Decimal   `json:"total"`
	Paid      decimal.Decimal   `json:"paid"`
	Balance   decimal.Decimal   `json:"balance"`
}

// ReceiptViewItem is one printed line, taken verbatim from the frozen
// order item.
type ReceiptViewItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}
