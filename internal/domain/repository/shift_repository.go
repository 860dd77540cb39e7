package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ErrShiftNotWritable is returned when a drawer write targets a shift that is
// not Open.
var ErrShiftNotWritable = errors.New("shift is not open for drawer writes")

// DrawerSums are the aggregates feeding the expected drawer balance:
// expected = openingFloat + CashSales + ARCash + CashIn - CashOut - Drops.
type DrawerSums struct {
	// CashSales is sum(tendered) - sum(change) over CASH order payments.
	CashSales decimal.Decimal
	// ARCash is cash received against customer balances with no order.
	ARCash  decimal.Decimal
	CashIn  decimal.Decimal
	CashOut decimal.Decimal
	Drops   decimal.Decimal
}

// ShiftRepository defines the interface for cashier shift data operations.
// All state transitions are conditional updates: a false result means the
// shift was not in the required state and nothing was written.
type ShiftRepository interface {
	Create(ctx context.Context, shift *entity.CashierShift) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CashierShift, error)
	GetWithTxns(ctx context.Context, id uuid.UUID) (*entity.CashierShift, error)
	// GetCurrentByCashier returns the cashier's non-final shift, or nil.
	GetCurrentByCashier(ctx context.Context, cashierID uuid.UUID) (*entity.CashierShift, error)

	// PENDING_ACCEPT -> OPEN with the cashier's recount.
	AcceptOpening(ctx context.Context, shiftID uuid.UUID, counted decimal.Decimal, at time.Time) (bool, error)
	// PENDING_ACCEPT -> OPENING_DISPUTED with the recount and mandatory note.
	DisputeOpening(ctx context.Context, shiftID uuid.UUID, counted decimal.Decimal, note string) (bool, error)
	// OPENING_DISPUTED -> PENDING_ACCEPT with a corrected float.
	CorrectOpening(ctx context.Context, shiftID uuid.UUID, newFloat decimal.Decimal) (bool, error)
	// OPEN -> SUBMITTED with the closing count; locks the drawer instantly.
	SubmitClosing(ctx context.Context, shiftID uuid.UUID, total decimal.Decimal, breakdown, note string, at time.Time) (bool, error)
	// SUBMITTED -> FINAL_CLOSED.
	FinalClose(ctx context.Context, shiftID uuid.UUID, at time.Time) (bool, error)

	// PostDrawerTxn appends a drawer transaction. For outflows it recomputes
	// the expected balance inside a serializable transaction and refuses to
	// overdraw; ok=false with nil error means the guard rejected the post.
	PostDrawerTxn(ctx context.Context, txn *entity.CashDrawerTxn) (bool, error)

	DrawerSums(ctx context.Context, shiftID uuid.UUID) (*DrawerSums, error)
	ListTxns(ctx context.Context, shiftID uuid.UUID) ([]entity.CashDrawerTxn, error)
}
