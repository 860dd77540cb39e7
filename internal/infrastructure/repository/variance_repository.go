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

type varianceRepository struct {
	db *gorm.DB
}

// NewVarianceRepository creates a new variance repository
func NewVarianceRepository(db *gorm.DB) domainRepo.VarianceRepository {
	return &varianceRepository{db: db}
}

func (r *varianceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.RiderRunVariance, error) {
	var v entity.RiderRunVariance
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &v, err
}

func (r *varianceRepository) GetByReceiptID(ctx context.Context, receiptID uuid.UUID) (*entity.RiderRunVariance, error) {
	var v entity.RiderRunVariance
	err := r.db.WithContext(ctx).First(&v, "receipt_id = ?", receiptID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &v, err
}

func (r *varianceRepository) List(ctx context.Context, params *domainRepo.VarianceFilterParams) ([]entity.RiderRunVariance, int64, error) {
	var variances []entity.RiderRunVariance
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.RiderRunVariance{})
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.RiderID != nil {
		query = query.Where("rider_id = ?", *params.RiderID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("created_at DESC").
		Find(&variances).Error

	return variances, total, err
}

// ApplyDecision applies a manager disposition. The variance transition and
// the charge upsert/waive commit together; the charge is keyed by variance
// id, so deciding twice can never produce two charges.
func (r *varianceRepository) ApplyDecision(ctx context.Context, decision domainRepo.VarianceDecision) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var v entity.RiderRunVariance
		if err := tx.First(&v, "id = ?", decision.VarianceID).Error; err != nil {
			return err
		}
		if !v.Status.Decidable() {
			return errAborted
		}

		now := time.Now()
		nextStatus := enum.VarianceStatusManagerApproved

		switch decision.Resolution {
		case enum.ResolutionChargeRider:
			shortage := v.Shortage()
			if shortage.IsPositive() {
				if err := upsertCharge(tx, &v, shortage); err != nil {
					return err
				}
			} else {
				// An overage never creates a charge; a stale charge from an
				// earlier decision is waived rather than left dangling.
				if err := waiveOutstandingCharge(tx, v.ID); err != nil {
					return err
				}
			}
		case enum.ResolutionWaive:
			nextStatus = enum.VarianceStatusWaived
			if err := waiveOutstandingCharge(tx, v.ID); err != nil {
				return err
			}
		case enum.ResolutionInfoOnly:
			// Clears the item for cashier finalization, nothing rider-facing.
		}

		updates := map[string]interface{}{
			"status":     nextStatus,
			"resolution": decision.Resolution,
			"decided_by": decision.ManagerID,
			"decided_at": now,
		}
		if decision.Note != "" {
			updates["note"] = decision.Note
		}
		if err := tx.Model(&v).Updates(updates).Error; err != nil {
			return err
		}
		applied = true
		return nil
	}, serializableOpts)

	if errors.Is(err, errAborted) {
		return false, nil
	}
	return applied, err
}

func upsertCharge(tx *gorm.DB, v *entity.RiderRunVariance, amount decimal.Decimal) error {
	var charge entity.RiderCharge
	err := tx.First(&charge, "variance_id = ?", v.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		charge = entity.RiderCharge{
			VarianceID: v.ID,
			RiderID:    v.RiderID,
			Amount:     amount,
			Status:     enum.ChargeStatusOpen,
		}
		return tx.Create(&charge).Error
	}
	if err != nil {
		return err
	}
	// Re-decision: refresh the amount, reopen a previously waived charge.
	updates := map[string]interface{}{"amount": amount}
	if charge.Status == enum.ChargeStatusWaived {
		updates["status"] = enum.ChargeStatusOpen
	}
	return tx.Model(&charge).Updates(updates).Error
}

func waiveOutstandingCharge(tx *gorm.DB, varianceID uuid.UUID) error {
	return tx.Model(&entity.RiderCharge{}).
		Where("variance_id = ? AND status IN ?", varianceID,
			[]enum.ChargeStatus{enum.ChargeStatusOpen, enum.ChargeStatusPartiallySettled}).
		Update("status", enum.ChargeStatusWaived).Error
}

// MarkRiderAccepted acknowledges a charge decision. The conditional update
// keeps it single-statement: wrong rider, wrong status or wrong resolution
// all surface as a lost update.
func (r *varianceRepository) MarkRiderAccepted(ctx context.Context, varianceID, riderID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entity.RiderRunVariance{}).
		Where("id = ? AND rider_id = ? AND status = ? AND resolution = ?",
			varianceID, riderID, enum.VarianceStatusManagerApproved, enum.ResolutionChargeRider).
		Update("status", enum.VarianceStatusRiderAccepted)
	return res.RowsAffected > 0, res.Error
}

type riderChargeRepository struct {
	db *gorm.DB
}

// NewRiderChargeRepository creates a new rider charge repository
func NewRiderChargeRepository(db *gorm.DB) domainRepo.RiderChargeRepository {
	return &riderChargeRepository{db: db}
}

func (r *riderChargeRepository) GetByVarianceID(ctx context.Context, varianceID uuid.UUID) (*entity.RiderCharge, error) {
	var charge entity.RiderCharge
	err := r.db.WithContext(ctx).First(&charge, "variance_id = ?", varianceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &charge, err
}

func (r *riderChargeRepository) ListByRider(ctx context.Context, riderID uuid.UUID) ([]entity.RiderCharge, error) {
	var charges []entity.RiderCharge
	err := r.db.WithContext(ctx).
		Where("rider_id = ?", riderID).
		Order("created_at DESC").
		Find(&charges).Error
	return charges, err
}
