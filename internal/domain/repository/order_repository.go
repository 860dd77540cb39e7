package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/domain/entity"
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
	"github.com/sangkips/tindahan-pos/pkg/pagination"
	"github.com/shopspring/decimal"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	// Create persists a draft order together with its frozen items.
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	// GetWithDetails loads the order with items, payments and customer.
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, int64, error)

	// ReplaceItems swaps the frozen lines of an UNPAID order and rewrites the
	// header totals in one transaction. Returns false when the order is no
	// longer UNPAID.
	ReplaceItems(ctx context.Context, orderID uuid.UUID, items []entity.OrderItem, totals HeaderTotals) (bool, error)

	// ClaimLock performs the atomic TTL lock claim: it succeeds iff the order
	// is unlocked or the existing lock is older than ttl. A false result means
	// the caller lost the race.
	ClaimLock(ctx context.Context, orderID, actorID uuid.UUID, ttl time.Duration) (bool, error)
	// ReleaseLock clears the lock if held by actor.
	ReleaseLock(ctx context.Context, orderID, actorID uuid.UUID) error

	// Cancel transitions an UNPAID order to CANCELLED and clears the lock.
	// Returns false when the order was not UNPAID.
	Cancel(ctx context.Context, orderID, actorID uuid.UUID) (bool, error)
	// Delete removes an UNPAID draft and cascades to its items and payments.
	// Returns false when the order was not UNPAID.
	Delete(ctx context.Context, orderID uuid.UUID) (bool, error)
}

// HeaderTotals are the frozen header caches written alongside the lines.
type HeaderTotals struct {
	Subtotal            decimal.Decimal
	TotalBeforeDiscount decimal.Decimal
	DiscountTotal       decimal.Decimal
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.OrderStatus
	Channel    *enum.OrderChannel
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}
