package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/domain/entity"
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/tindahan-pos/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type shiftRepository struct {
	db *gorm.DB
}

// NewShiftRepository creates a new shift repository
func NewShiftRepository(db *gorm.DB) domainRepo.ShiftRepository {
	return &shiftRepository{db: db}
}

func (r *shiftRepository) Create(ctx context.Context, shift *entity.CashierShift) error {
	return r.db.WithContext(ctx).Create(shift).Error
}

func (r *shiftRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CashierShift, error) {
	var shift entity.CashierShift
	err := r.db.WithContext(ctx).First(&shift, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &shift, err
}

func (r *shiftRepository) GetWithTxns(ctx context.Context, id uuid.UUID) (*entity.CashierShift, error) {
	var shift entity.CashierShift
	err := r.db.WithContext(ctx).
		Preload("Txns", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&shift, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &shift, err
}

func (r *shiftRepository) GetCurrentByCashier(ctx context.Context, cashierID uuid.UUID) (*entity.CashierShift, error) {
	var shift entity.CashierShift
	err := r.db.WithContext(ctx).
		Where("cashier_id = ? AND status <> ?", cashierID, enum.ShiftStatusFinalClosed).
		Order("created_at DESC").
		First(&shift).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &shift, err
}

func (r *shiftRepository) AcceptOpening(ctx context.Context, shiftID uuid.UUID, counted decimal.Decimal, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entity.CashierShift{}).
		Where("id = ? AND status = ?", shiftID, enum.ShiftStatusPendingAccept).
		Updates(map[string]interface{}{
			"status":          enum.ShiftStatusOpen,
			"opening_counted": counted,
			"accepted_at":     at,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *shiftRepository) DisputeOpening(ctx context.Context, shiftID uuid.UUID, counted decimal.Decimal, note string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entity.CashierShift{}).
		Where("id = ? AND status = ?", shiftID, enum.ShiftStatusPendingAccept).
		Updates(map[string]interface{}{
			"status":          enum.ShiftStatusOpeningDisputed,
			"opening_counted": counted,
			"opening_note":    note,
		})
	return res.RowsAffected > 0, res.Error
}

// CorrectOpening resets a disputed shift back to PendingAccept with the
// manager's corrected float. The cashier recounts from scratch.
func (r *shiftRepository) CorrectOpening(ctx context.Context, shiftID uuid.UUID, newFloat decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entity.CashierShift{}).
		Where("id = ? AND status = ?", shiftID, enum.ShiftStatusOpeningDisputed).
		Updates(map[string]interface{}{
			"status":          enum.ShiftStatusPendingAccept,
			"opening_float":   newFloat,
			"opening_counted": nil,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *shiftRepository) SubmitClosing(ctx context.Context, shiftID uuid.UUID, total decimal.Decimal, breakdown, note string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entity.CashierShift{}).
		Where("id = ? AND status = ?", shiftID, enum.ShiftStatusOpen).
		Updates(map[string]interface{}{
			"status":            enum.ShiftStatusSubmitted,
			"closing_total":     total,
			"closing_breakdown": breakdown,
			"closing_note":      note,
			"submitted_at":      at,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *shiftRepository) FinalClose(ctx context.Context, shiftID uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entity.CashierShift{}).
		Where("id = ? AND status = ?", shiftID, enum.ShiftStatusSubmitted).
		Updates(map[string]interface{}{
			"status":    enum.ShiftStatusFinalClosed,
			"closed_at": at,
		})
	return res.RowsAffected > 0, res.Error
}

// PostDrawerTxn appends a drawer movement. Outflows recompute the expected
// drawer balance inside the same serializable transaction, so two concurrent
// CashOuts cannot both pass the overdraw check.
func (r *shiftRepository) PostDrawerTxn(ctx context.Context, txn *entity.CashDrawerTxn) (bool, error) {
	posted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var shift entity.CashierShift
		if err := tx.First(&shift, "id = ?", txn.ShiftID).Error; err != nil {
			return err
		}
		if !shift.Status.Writable() {
			return domainRepo.ErrShiftNotWritable
		}

		if txn.Type.Outflow() {
			sums, err := drawerSumsIn(tx, txn.ShiftID)
			if err != nil {
				return err
			}
			expected := shift.OpeningFloat.
				Add(sums.CashSales).
				Add(sums.ARCash).
				Add(sums.CashIn).
				Sub(sums.CashOut).
				Sub(sums.Drops)
			if txn.Amount.GreaterThan(expected) {
				return errAborted
			}
		}

		if err := tx.Create(txn).Error; err != nil {
			return err
		}
		posted = true
		return nil
	}, serializableOpts)

	if errors.Is(err, errAborted) {
		return false, nil
	}
	return posted, err
}

func (r *shiftRepository) DrawerSums(ctx context.Context, shiftID uuid.UUID) (*domainRepo.DrawerSums, error) {
	return drawerSumsIn(r.db.WithContext(ctx), shiftID)
}

func (r *shiftRepository) ListTxns(ctx context.Context, shiftID uuid.UUID) ([]entity.CashDrawerTxn, error) {
	var txns []entity.CashDrawerTxn
	err := r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Order("created_at ASC").
		Find(&txns).Error
	return txns, err
}

// drawerSumsIn aggregates drawer inputs on whatever handle it is given, so
// PostDrawerTxn can run it against an open transaction.
func drawerSumsIn(db *gorm.DB, shiftID uuid.UUID) (*domainRepo.DrawerSums, error) {
	sums := &domainRepo.DrawerSums{}

	// Cash payments count net of change: tendered - change is what stays in
	// the drawer. Amount is the fallback when tendered was not recorded.
	row := db.Model(&entity.Payment{}).
		Select("COALESCE(SUM(COALESCE(tendered, amount) - COALESCE(change, 0)), 0)").
		Where("shift_id = ? AND method = ? AND order_id IS NOT NULL", shiftID, enum.PaymentMethodCash).
		Row()
	if err := row.Scan(&sums.CashSales); err != nil {
		return nil, err
	}

	row = db.Model(&entity.Payment{}).
		Select("COALESCE(SUM(COALESCE(tendered, amount) - COALESCE(change, 0)), 0)").
		Where("shift_id = ? AND method = ? AND order_id IS NULL", shiftID, enum.PaymentMethodCash).
		Row()
	if err := row.Scan(&sums.ARCash); err != nil {
		return nil, err
	}

	for _, agg := range []struct {
		txnType enum.DrawerTxnType
		dest    *decimal.Decimal
	}{
		{enum.DrawerTxnCashIn, &sums.CashIn},
		{enum.DrawerTxnCashOut, &sums.CashOut},
		{enum.DrawerTxnDrop, &sums.Drops},
	} {
		row = db.Model(&entity.CashDrawerTxn{}).
			Select("COALESCE(SUM(amount), 0)").
			Where("shift_id = ? AND type = ?", shiftID, agg.txnType).
			Row()
		if err := row.Scan(agg.dest); err != nil {
			return nil, err
		}
	}

	return sums, nil
}
