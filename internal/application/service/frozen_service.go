package service

import (
	"github.com/sangkips/tindahan-pos/internal/domain/entity"
	"github.com/sangkips/tindahan-pos/pkg/money"
	"github.com/shopspring/decimal"
)

// FrozenFieldDiff reports one header field that disagrees with the line-level
// recomputation.
type FrozenFieldDiff struct {
	Field      string          `json:"field"`
	Header     decimal.Decimal `json:"header"`
	Recomputed decimal.Decimal `json:"recomputed"`
}

// FrozenCheck is the outcome of validating an order's cached header totals
// against its frozen lines. MissingLineTotals means at least one line has no
// frozen total; consumers must refuse to print or settle such an order.
type FrozenCheck struct {
	Subtotal            decimal.Decimal   `json:"subtotal"`
	TotalBeforeDiscount decimal.Decimal   `json:"total_before_discount"`
	DiscountTotal       decimal.Decimal   `json:"discount_total"`
	Mismatch            bool              `json:"mismatch"`
	Diffs               []FrozenFieldDiff `json:"diffs,omitempty"`
	MissingLineTotals   bool              `json:"missing_line_totals"`
}

// ValidateFrozenTotals recomputes the order's totals strictly from the frozen
// line snapshots and compares them against the cached header values with a
// one-cent tolerance. It never mutates anything; it exists to detect drift
// between the header cache and the line-level truth.
func ValidateFrozenTotals(order *entity.Order) *FrozenCheck {
	check := &FrozenCheck{
		Subtotal:            decimal.Zero,
		TotalBeforeDiscount: decimal.Zero,
		DiscountTotal:       decimal.Zero,
	}

	for i := range order.Items {
		item := &order.Items[i]
		qty := decimal.NewFromInt(int64(item.Quantity))

		if item.LineTotal == nil {
			check.MissingLineTotals = true
		} else {
			check.Subtotal = check.Subtotal.Add(*item.LineTotal)
		}
		if item.BaseUnitPrice != nil {
			check.TotalBeforeDiscount = check.TotalBeforeDiscount.Add(money.Round2(item.BaseUnitPrice.Mul(qty)))
		}
		if item.DiscountAmount != nil {
			check.DiscountTotal = check.DiscountTotal.Add(money.Round2(item.DiscountAmount.Mul(qty)))
		}
	}

	if !money.Equal(check.Subtotal, order.Subtotal) {
		check.Mismatch = true
		check.Diffs = append(check.Diffs, FrozenFieldDiff{
			Field:      "subtotal",
			Header:     order.Subtotal,
			Recomputed: check.Subtotal,
		})
	}
	if !money.Equal(check.TotalBeforeDiscount, order.TotalBeforeDiscount) {
		check.Mismatch = true
		check.Diffs = append(check.Diffs, FrozenFieldDiff{
			Field:      "total_before_discount",
			Header:     order.TotalBeforeDiscount,
			Recomputed: check.TotalBeforeDiscount,
		})
	}
	return check
}
