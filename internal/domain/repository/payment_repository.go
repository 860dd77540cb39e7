package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PaymentRepository defines the interface for payment data operations.
// Payments are append-only; there are no update or delete operations.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]entity.Payment, error)
	ListByShift(ctx context.Context, shiftID uuid.UUID) ([]entity.Payment, error)

	// SumByOrder is the order's "already paid" across all methods.
	SumByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)
	// SumCashByOrder sums only CASH payments.
	SumCashByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)
	// SumBridgedByOrder sums prior non-cash bridge payments, matched by the
	// reserved reference-tag prefix.
	SumBridgedByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)
	// HasBridgeForReceipt reports whether a bridge payment already exists for
	// the given run receipt.
	HasBridgeForReceipt(ctx context.Context, receiptID uuid.UUID) (bool, error)
}
