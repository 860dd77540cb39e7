package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/domain/entity"
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
	"github.com/sangkips/tindahan-pos/internal/domain/repository"
	"github.com/sangkips/tindahan-pos/pkg/apperror"
	"github.com/sangkips/tindahan-pos/pkg/money"
	"github.com/shopspring/decimal"
)

// OrderService handles the draft order lifecycle: line freezing, amendment
// and cancellation. Settlement itself lives in SettlementService.
type OrderService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	ruleRepo     repository.PricingRuleRepository
	priceService *PriceService

	editLockTTL time.Duration
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	ruleRepo repository.PricingRuleRepository,
	priceService *PriceService,
	editLockTTL time.Duration,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		ruleRepo:     ruleRepo,
		priceService: priceService,
		editLockTTL:  editLockTTL,
	}
}

// OrderItemInput is one requested line on a draft order.
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	// UnitKind selects the stock pool and base price the line sells from.
	UnitKind enum.UnitKind
}

// CreateOrderInput is a draft order request.
type CreateOrderInput struct {
	ActorID    uuid.UUID
	CustomerID *uuid.UUID
	Channel    enum.OrderChannel
	Items      []OrderItemInput
}

// CreateDraft builds a draft order with frozen lines. Pricing is resolved
// once, here: customer price lookup per line, then the discount rule set over
// the cart. The resulting line totals are the settlement source of truth and
// are never recomputed afterwards.
func (s *OrderService) CreateDraft(ctx context.Context, input *CreateOrderInput) (*entity.Order, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "items", Message: "order needs at least one item"},
		})
	}
	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}

	items, totals, err := s.freezeLines(ctx, input.CustomerID, input.Items)
	if err != nil {
		return nil, err
	}

	order := &entity.Order{
		Code:                newOrderCode(),
		Channel:             input.Channel,
		Status:              enum.OrderStatusUnpaid,
		CustomerID:          input.CustomerID,
		Subtotal:            totals.Subtotal,
		TotalBeforeDiscount: totals.TotalBeforeDiscount,
		DiscountTotal:       totals.DiscountTotal,
		CreatedBy:           input.ActorID,
		Items:               items,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// AmendItems replaces the frozen lines of an UNPAID draft. The amendment
// runs under the longer editing lock; the swap itself is transactional.
func (s *OrderService) AmendItems(ctx context.Context, orderID, actorID uuid.UUID, inputs []OrderItemInput) (*entity.Order, error) {
	if len(inputs) == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "items", Message: "order needs at least one item"},
		})
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if order.Status != enum.OrderStatusUnpaid {
		return nil, apperror.NewConflictError("only unpaid orders can be amended")
	}

	claimed, err := s.orderRepo.ClaimLock(ctx, order.ID, actorID, s.editLockTTL)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, apperror.NewLockedError("order is locked by another cashier")
	}
	defer func() {
		_ = s.orderRepo.ReleaseLock(ctx, order.ID, actorID)
	}()

	items, totals, err := s.freezeLines(ctx, order.CustomerID, inputs)
	if err != nil {
		return nil, err
	}

	ok, err := s.orderRepo.ReplaceItems(ctx, order.ID, items, totals)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewConflictError("order is no longer unpaid")
	}
	return s.orderRepo.GetWithDetails(ctx, order.ID)
}

// Cancel voids an UNPAID draft. Terminal; the lock clears with it.
func (s *OrderService) Cancel(ctx context.Context, orderID, actorID uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}
	if !order.Status.CanTransitionTo(enum.OrderStatusCancelled) {
		return apperror.NewConflictError("only unpaid orders can be cancelled")
	}

	claimed, err := s.orderRepo.ClaimLock(ctx, orderID, actorID, s.editLockTTL)
	if err != nil {
		return err
	}
	if !claimed {
		return apperror.NewLockedError("order is locked by another cashier")
	}

	ok, err := s.orderRepo.Cancel(ctx, orderID, actorID)
	if err != nil {
		return err
	}
	if !ok {
		_ = s.orderRepo.ReleaseLock(ctx, orderID, actorID)
		return apperror.NewConflictError("only unpaid orders can be cancelled")
	}
	return nil
}

// GetOrder loads an order with items, payments and customer.
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders is the work queue read.
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	return s.orderRepo.List(ctx, params)
}

// freezeLines turns requested items into frozen order lines: resolve the
// base and allowed price per line, run the rule set, and persist the
// evaluator's effective prices verbatim.
func (s *OrderService) freezeLines(ctx context.Context, customerID *uuid.UUID, inputs []OrderItemInput) ([]entity.OrderItem, repository.HeaderTotals, error) {
	var totals repository.HeaderTotals

	productIDs := make([]uuid.UUID, len(inputs))
	for i, in := range inputs {
		if in.Quantity <= 0 {
			return nil, totals, apperror.NewValidationError([]apperror.FieldError{
				{Field: "items", Message: "quantity must be positive"},
			})
		}
		productIDs[i] = in.ProductID
	}
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, totals, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	now := time.Now()
	cart := make([]CartLine, 0, len(inputs))
	basePrices := make([]decimal.Decimal, 0, len(inputs))
	for _, in := range inputs {
		product, ok := productMap[in.ProductID]
		if !ok {
			return nil, totals, apperror.NewNotFoundError(fmt.Sprintf("Product %s", in.ProductID))
		}

		basePrice := product.RetailPrice
		if in.UnitKind == enum.UnitKindPack {
			basePrice = product.PackPrice
		}
		allowed, err := s.priceService.AllowedUnitPrice(ctx, customerID, product.ID, in.UnitKind, basePrice, now)
		if err != nil {
			return nil, totals, err
		}

		cart = append(cart, CartLine{
			ProductID:  product.ID,
			CategoryID: product.CategoryID,
			BrandID:    product.BrandID,
			SKU:        product.SKU,
			Name:       product.Name,
			Quantity:   in.Quantity,
			UnitPrice:  allowed.UnitPrice,
		})
		basePrices = append(basePrices, money.Round2(basePrice))
	}

	rules, err := s.ruleRepo.ListEnabled(ctx)
	if err != nil {
		return nil, totals, err
	}
	var custCtx *CustomerContext
	if customerID != nil {
		custCtx = &CustomerContext{CustomerID: customerID}
	}
	eval := EvaluateRules(cart, rules, custCtx, now)

	items := make([]entity.OrderItem, 0, len(eval.Items)+len(eval.FreeLines))
	for i := range eval.Items {
		ev := &eval.Items[i]
		qty := decimal.NewFromInt(int64(ev.Line.Quantity))
		lineTotal := money.Round2(ev.Line.Amount().Sub(ev.DiscountAmount))
		basePrice := basePrices[i]
		perUnitDiscount := money.Round2(basePrice.Sub(ev.EffectiveUnitPrice))

		totals.Subtotal = totals.Subtotal.Add(lineTotal)
		totals.TotalBeforeDiscount = totals.TotalBeforeDiscount.Add(money.Round2(basePrice.Mul(qty)))

		items = append(items, entity.OrderItem{
			ProductID:      ev.Line.ProductID,
			Name:           ev.Line.Name,
			Quantity:       ev.Line.Quantity,
			UnitPrice:      ev.EffectiveUnitPrice,
			LineTotal:      &lineTotal,
			BaseUnitPrice:  &basePrice,
			DiscountAmount: &perUnitDiscount,
		})
	}
	for i := range eval.FreeLines {
		free := &eval.FreeLines[i]
		lineTotal := free.Amount()
		unitPrice := money.Round2(free.UnitPrice)
		zero := decimal.Zero

		totals.Subtotal = totals.Subtotal.Add(lineTotal)
		totals.TotalBeforeDiscount = totals.TotalBeforeDiscount.Add(lineTotal)

		items = append(items, entity.OrderItem{
			ProductID:      free.ProductID,
			Name:           free.Name,
			Quantity:       free.Quantity,
			UnitPrice:      unitPrice,
			LineTotal:      &lineTotal,
			BaseUnitPrice:  &unitPrice,
			DiscountAmount: &zero,
		})
	}

	totals.Subtotal = money.Round2(totals.Subtotal)
	totals.TotalBeforeDiscount = money.Round2(totals.TotalBeforeDiscount)
	totals.DiscountTotal = money.Round2(totals.TotalBeforeDiscount.Sub(totals.Subtotal))
	return items, totals, nil
}

func newOrderCode() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:6]
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), suffix)
}
