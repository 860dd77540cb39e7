package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/domain/entity"
)

// RunReceiptRepository defines the interface for delivery run receipts.
// Receipts are frozen at capture time; there is no update operation.
type RunReceiptRepository interface {
	// Create persists the receipt and its frozen lines.
	Create(ctx context.Context, receipt *entity.RunReceipt) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.RunReceipt, error)
	// GetByOrderID loads the receipt (with lines) for an order, or nil.
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.RunReceipt, error)
}
