package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/domain/entity"
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
	"github.com/sangkips/tindahan-pos/internal/domain/repository"
	"github.com/sangkips/tindahan-pos/pkg/money"
	"github.com/shopspring/decimal"
)

// PriceService resolves the allowed unit price for a (customer, product,
// unit-kind) triple
type PriceService struct {
	customerPriceRepo repository.CustomerPriceRepository
}

// NewPriceService creates a new price service
func NewPriceService(customerPriceRepo repository.CustomerPriceRepository) *PriceService {
	return &PriceService{customerPriceRepo: customerPriceRepo}
}

// AllowedPrice is the resolved price plus which policy produced it.
type AllowedPrice struct {
	UnitPrice decimal.Decimal
	Policy    enum.PricePolicy
}

// AllowedUnitPrice resolves the price a line is allowed to sell at. Walk-ins
// (nil customer) always get the base price. A customer-specific rule, when
// one covers now, adjusts the base per its mode; results are clamped to zero
// and rounded to two decimals.
func (s *PriceService) AllowedUnitPrice(ctx context.Context, customerID *uuid.UUID, productID uuid.UUID, kind enum.UnitKind, basePrice decimal.Decimal, now time.Time) (*AllowedPrice, error) {
	base := &AllowedPrice{UnitPrice: money.Round2(basePrice), Policy: enum.PricePolicyBase}
	if customerID == nil {
		return base, nil
	}

	rule, err := s.customerPriceRepo.FindActive(ctx, *customerID, productID, kind, now)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return base, nil
	}

	return &AllowedPrice{
		UnitPrice: ApplyPriceMode(basePrice, rule),
		Policy:    enum.PricePolicyPerItem,
	}, nil
}

// ApplyPriceMode computes the customer price from a base price and a rule.
// Pure; negative results clamp to zero.
func ApplyPriceMode(basePrice decimal.Decimal, rule *entity.CustomerPrice) decimal.Decimal {
	var price decimal.Decimal
	switch rule.Mode {
	case enum.PriceModeFixedPrice:
		price = rule.Value
	case enum.PriceModeFixedDiscount:
		price = basePrice.Sub(rule.Value)
	case enum.PriceModePercentDiscount:
		price = basePrice.Sub(money.Percent(basePrice, rule.Value))
	default:
		price = basePrice
	}
	return money.Round2(money.NonNegative(price))
}
