package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/tindahan-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type runReceiptRepository struct {
	db *gorm.DB
}

// NewRunReceiptRepository creates a new run receipt repository
func NewRunReceiptRepository(db *gorm.DB) domainRepo.RunReceiptRepository {
	return &runReceiptRepository{db: db}
}

func (r *runReceiptRepository) Create(ctx context.Context, receipt *entity.RunReceipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

func (r *runReceiptRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.RunReceipt, error) {
	var receipt entity.RunReceipt
	err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *runReceiptRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.RunReceipt, error) {
	var receipt entity.RunReceipt
	err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&receipt, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}
