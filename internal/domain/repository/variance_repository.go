package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/domain/entity"
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
	"github.com/sangkips/tindahan-pos/pkg/pagination"
)

// VarianceDecision is a manager's disposition of an open variance.
type VarianceDecision struct {
	VarianceID uuid.UUID
	Resolution enum.VarianceResolution
	ManagerID  uuid.UUID
	Note       string
}

// VarianceRepository defines the interface for rider run variances and the
// charges derived from them. Decision application is transactional: status
// transition and charge upsert commit or roll back together.
type VarianceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.RiderRunVariance, error)
	GetByReceiptID(ctx context.Context, receiptID uuid.UUID) (*entity.RiderRunVariance, error)
	List(ctx context.Context, params *VarianceFilterParams) ([]entity.RiderRunVariance, int64, error)

	// ApplyDecision transitions the variance per the resolution and upserts
	// (or waives) the associated charge, keyed by variance id so re-deciding
	// never duplicates. Returns false when the variance is not decidable.
	ApplyDecision(ctx context.Context, decision VarianceDecision) (bool, error)

	// MarkRiderAccepted moves a CHARGE_RIDER-decided variance to
	// RIDER_ACCEPTED. Returns false when the variance is not in
	// MANAGER_APPROVED with a charge resolution, or belongs to another rider.
	MarkRiderAccepted(ctx context.Context, varianceID, riderID uuid.UUID) (bool, error)
}

// VarianceFilterParams contains filtering parameters for variance queries
type VarianceFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.VarianceStatus
	RiderID    *uuid.UUID
}

// RiderChargeRepository defines read access to rider charges. Charges are
// written only through VarianceRepository.ApplyDecision.
type RiderChargeRepository interface {
	GetByVarianceID(ctx context.Context, varianceID uuid.UUID) (*entity.RiderCharge, error)
	ListByRider(ctx context.Context, riderID uuid.UUID) ([]entity.RiderCharge, error)
}
