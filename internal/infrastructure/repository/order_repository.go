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

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items").
		Preload("Payments").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) List(ctx context.Context, params *domainRepo.OrderFilterParams) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Order{})

	if params.Search != "" {
		query = query.Where("code LIKE ?", "%"+params.Search+"%")
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Channel != nil {
		query = query.Where("channel = ?", *params.Channel)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order(sortBy + " " + sortOrder).
		Find(&orders).Error

	return orders, total, err
}

func (r *orderRepository) ReplaceItems(ctx context.Context, orderID uuid.UUID, items []entity.OrderItem, totals domainRepo.HeaderTotals) (bool, error) {
	replaced := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Order{}).
			Where("id = ? AND status = ?", orderID, enum.OrderStatusUnpaid).
			Updates(map[string]interface{}{
				"subtotal":              totals.Subtotal,
				"total_before_discount": totals.TotalBeforeDiscount,
				"discount_total":        totals.DiscountTotal,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errAborted
		}
		if err := tx.Unscoped().Delete(&entity.OrderItem{}, "order_id = ?", orderID).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = orderID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		replaced = true
		return nil
	}, serializableOpts)

	if errors.Is(err, errAborted) {
		return false, nil
	}
	return replaced, err
}

// ClaimLock performs the conditional TTL claim in a single statement so two
// cashiers can never both win. RowsAffected == 0 means the claim lost.
func (r *orderRepository) ClaimLock(ctx context.Context, orderID, actorID uuid.UUID, ttl time.Duration) (bool, error) {
	now := time.Now()
	cutoff := now.Add(-ttl)
	res := r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("id = ?", orderID).
		Where("locked_at IS NULL OR locked_at < ? OR locked_by = ?", cutoff, actorID).
		Updates(map[string]interface{}{
			"locked_at": now,
			"locked_by": actorID,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *orderRepository) ReleaseLock(ctx context.Context, orderID, actorID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("id = ? AND locked_by = ?", orderID, actorID).
		Updates(map[string]interface{}{
			"locked_at": nil,
			"locked_by": nil,
		}).Error
}

func (r *orderRepository) Cancel(ctx context.Context, orderID, actorID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("id = ? AND status = ?", orderID, enum.OrderStatusUnpaid).
		Updates(map[string]interface{}{
			"status":    enum.OrderStatusCancelled,
			"locked_at": nil,
			"locked_by": nil,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *orderRepository) Delete(ctx context.Context, orderID uuid.UUID) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND status = ?", orderID, enum.OrderStatusUnpaid).
			Delete(&entity.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errAborted
		}
		if err := tx.Delete(&entity.OrderItem{}, "order_id = ?", orderID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entity.Payment{}, "order_id = ?", orderID).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	}, serializableOpts)

	if errors.Is(err, errAborted) {
		return false, nil
	}
	return deleted, err
}
