package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/domain/entity"
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/tindahan-pos/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) ListByShift(ctx context.Context, shiftID uuid.UUID) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Order("created_at ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) SumByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	return r.sum(ctx, r.db.WithContext(ctx).Model(&entity.Payment{}).
		Where("order_id = ?", orderID))
}

func (r *paymentRepository) SumCashByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	return r.sum(ctx, r.db.WithContext(ctx).Model(&entity.Payment{}).
		Where("order_id = ? AND method = ?", orderID, enum.PaymentMethodCash))
}

func (r *paymentRepository) SumBridgedByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	return r.sum(ctx, r.db.WithContext(ctx).Model(&entity.Payment{}).
		Where("order_id = ? AND ref_no LIKE ?", orderID, entity.BridgeRefPrefix+"%"))
}

func (r *paymentRepository) HasBridgeForReceipt(ctx context.Context, receiptID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Payment{}).
		Where("ref_no = ?", entity.BridgeRefNo(receiptID)).
		Count(&count).Error
	return count > 0, err
}

func (r *paymentRepository) sum(ctx context.Context, query *gorm.DB) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := query.Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
