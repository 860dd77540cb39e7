package request

// SettleCashRequest settles an order with cash at the counter
type SettleCashRequest struct {
	Tendered     float64 `json:"tendered" binding:"required,gt=0"`
	CustomerID   *string `json:"customer_id" binding:"omitempty,uuid"`
	ApprovedBy   *string `json:"approved_by" binding:"omitempty,uuid"`
	ReleaseGoods bool    `json:"release_goods"`
	Print        bool    `json:"print"`
}

// SettleDeliveryRequest settles a delivery order against a captured run receipt
type SettleDeliveryRequest struct {
	Collected float64 `json:"collected" binding:"gte=0"`
	Print     bool    `json:"print"`
}
