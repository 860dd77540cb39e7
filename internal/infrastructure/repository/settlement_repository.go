package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/domain/entity"
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/tindahan-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type settlementRepository struct {
	db *gorm.DB
}

// NewSettlementRepository creates a new settlement repository
func NewSettlementRepository(db *gorm.DB) domainRepo.SettlementRepository {
	return &settlementRepository{db: db}
}

// ApplyCashSettlement commits a counter settlement plan. Payment, stock
// deductions, price audits, status transition and receipt numbering succeed
// or fail together; guard failures surface on the result, not as errors.
func (r *settlementRepository) ApplyCashSettlement(ctx context.Context, plan *domainRepo.CashSettlementPlan) (*domainRepo.CashSettlementResult, error) {
	result := &domainRepo.CashSettlementResult{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order entity.Order
		if err := tx.First(&order, "id = ?", plan.OrderID).Error; err != nil {
			return err
		}
		if !order.Status.Settleable() || order.LockedBy == nil || *order.LockedBy != plan.ActorID {
			result.Conflict = true
			return errAborted
		}

		payment := plan.Payment
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		short, err := deductStock(tx, plan.StockDeltas)
		if err != nil {
			return err
		}
		if len(short) > 0 {
			result.InsufficientStock = short
			return errAborted
		}

		for _, audit := range plan.PriceAudits {
			updates := map[string]interface{}{
				"allowed_unit_price": audit.AllowedUnitPrice,
				"price_policy":       audit.Policy,
			}
			if audit.ApprovedBy != nil {
				updates["discount_approved_by"] = audit.ApprovedBy
			}
			if err := tx.Model(&entity.OrderItem{}).
				Where("id = ?", audit.ItemID).
				Updates(updates).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		if plan.MarkPaid {
			no, err := nextReceiptNo(tx)
			if err != nil {
				return err
			}
			if err := tx.Model(&order).Updates(map[string]interface{}{
				"status":     enum.OrderStatusPaid,
				"receipt_no": no,
				"paid_at":    now,
				"locked_at":  nil,
				"locked_by":  nil,
			}).Error; err != nil {
				return err
			}
			result.ReceiptNo = &no
			result.Status = enum.OrderStatusPaid
			return nil
		}

		updates := map[string]interface{}{
			"status":    enum.OrderStatusPartiallyPaid,
			"on_credit": true,
			"locked_at": nil,
			"locked_by": nil,
		}
		if plan.ReleasedWithBalance {
			updates["released_with_balance"] = true
			updates["release_approved_by"] = plan.ReleaseApprovedBy
		}
		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return err
		}
		result.Status = enum.OrderStatusPartiallyPaid
		return nil
	}, serializableOpts)

	if errors.Is(err, errAborted) {
		return result, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ApplyDeliverySettlement commits a rider-cash reconciliation. The bridge
// payment and its variance are created at most once per receipt; a repeat
// call reports BridgeAlreadyPosted and writes nothing new for the bridge.
func (r *settlementRepository) ApplyDeliverySettlement(ctx context.Context, plan *domainRepo.DeliverySettlementPlan) (*domainRepo.DeliverySettlementResult, error) {
	result := &domainRepo.DeliverySettlementResult{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order entity.Order
		if err := tx.First(&order, "id = ?", plan.OrderID).Error; err != nil {
			return err
		}
		if !order.Status.Settleable() || order.LockedBy == nil || *order.LockedBy != plan.ActorID {
			result.Conflict = true
			return errAborted
		}

		if plan.CashPayment != nil {
			cash := *plan.CashPayment
			if err := tx.Create(&cash).Error; err != nil {
				return err
			}
		}

		short, err := deductStock(tx, plan.StockDeltas)
		if err != nil {
			return err
		}
		if len(short) > 0 {
			result.InsufficientStock = short
			return errAborted
		}

		if plan.BridgePayment != nil {
			refNo := entity.BridgeRefNo(plan.ReceiptID)
			var existing int64
			if err := tx.Model(&entity.Payment{}).
				Where("ref_no = ?", refNo).
				Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				result.BridgeAlreadyPosted = true
			} else {
				bridge := *plan.BridgePayment
				if err := tx.Create(&bridge).Error; err != nil {
					return err
				}
				variance := *plan.Variance
				if err := tx.Where("receipt_id = ?", variance.ReceiptID).
					FirstOrCreate(&variance).Error; err != nil {
					return err
				}
			}
		}

		now := time.Now()
		if plan.MarkPaid {
			no, err := nextReceiptNo(tx)
			if err != nil {
				return err
			}
			if err := tx.Model(&order).Updates(map[string]interface{}{
				"status":     enum.OrderStatusPaid,
				"receipt_no": no,
				"paid_at":    now,
				"locked_at":  nil,
				"locked_by":  nil,
			}).Error; err != nil {
				return err
			}
			result.ReceiptNo = &no
			result.Status = enum.OrderStatusPaid
			return nil
		}

		if err := tx.Model(&order).Updates(map[string]interface{}{
			"status":    enum.OrderStatusPartiallyPaid,
			"on_credit": true,
			"locked_at": nil,
			"locked_by": nil,
		}).Error; err != nil {
			return err
		}
		result.Status = enum.OrderStatusPartiallyPaid
		return nil
	}, serializableOpts)

	if errors.Is(err, errAborted) {
		return result, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// deductStock applies the per-product deductions with a guarded conditional
// UPDATE; a zero-rows-affected delta means the pool is short. Returns the
// products that could not be deducted.
func deductStock(tx *gorm.DB, deltas []domainRepo.StockDelta) ([]uuid.UUID, error) {
	var short []uuid.UUID
	for _, delta := range deltas {
		res := tx.Model(&entity.Product{}).
			Where("id = ? AND retail_stock >= ? AND pack_stock >= ?",
				delta.ProductID, delta.RetailUnits, delta.Packs).
			Updates(map[string]interface{}{
				"retail_stock": gorm.Expr("retail_stock - ?", delta.RetailUnits),
				"pack_stock":   gorm.Expr("pack_stock - ?", delta.Packs),
			})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			short = append(short, delta.ProductID)
		}
	}
	return short, nil
}

// nextReceiptNo allocates the next official receipt number inside tx. The
// increment is a single UPDATE so concurrent settlements serialize on the
// one sequence row; the first allocation seeds the row at 1.
func nextReceiptNo(tx *gorm.DB) (int64, error) {
	res := tx.Model(&entity.ReceiptSequence{}).
		Where("id = ?", 1).
		Update("next_no", gorm.Expr("next_no + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		seq := entity.ReceiptSequence{ID: 1, NextNo: 1}
		if err := tx.Create(&seq).Error; err != nil {
			return 0, err
		}
		return 1, nil
	}

	var seq entity.ReceiptSequence
	if err := tx.First(&seq, "id = ?", 1).Error; err != nil {
		return 0, err
	}
	return seq.NextNo, nil
}
