package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/domain/entity"
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
	"github.com/sangkips/tindahan-pos/internal/domain/repository"
	"github.com/sangkips/tindahan-pos/pkg/apperror"
	"github.com/sangkips/tindahan-pos/pkg/logger"
	"github.com/sangkips/tindahan-pos/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// SettlementRoute is the post-settlement routing decision. View rendering is
// the caller's concern; only the decision is computed here.
type SettlementRoute string

const (
	RouteOfficialReceipt SettlementRoute = "official_receipt"
	RouteAcknowledgment  SettlementRoute = "acknowledgment"
	RouteWorkQueue       SettlementRoute = "work_queue"
)

// RouteAfterSettlement decides the follow-up view from the settlement
// outcome. Pure.
func RouteAfterSettlement(remaining decimal.Decimal, printRequested bool) SettlementRoute {
	if !printRequested {
		return RouteWorkQueue
	}
	if money.IsZero(remaining) {
		return RouteOfficialReceipt
	}
	return RouteAcknowledgment
}

// ClassifyLinePricing infers whether a frozen line was sold at retail or pack
// pricing by approximate-matching its base price against the product's
// current base prices. The heuristic is deliberately isolated here so the
// orchestration never inspects prices directly; ok=false means the price
// matches neither pool.
func ClassifyLinePricing(item *entity.OrderItem, product *entity.Product) (enum.UnitKind, bool) {
	ref := item.UnitPrice
	if item.BaseUnitPrice != nil {
		ref = *item.BaseUnitPrice
	}
	if money.Equal(ref, product.RetailPrice) {
		return enum.UnitKindRetail, true
	}
	if money.Equal(ref, product.PackPrice) {
		return enum.UnitKindPack, true
	}
	return enum.UnitKindRetail, false
}

// SettlementService drives the order settlement state machine: lock claim,
// frozen-total validation, price guard, inventory classification, and the
// atomic settlement commit.
type SettlementService struct {
	orderRepo      repository.OrderRepository
	paymentRepo    repository.PaymentRepository
	productRepo    repository.ProductRepository
	customerRepo   repository.CustomerRepository
	userRepo       repository.UserRepository
	shiftRepo      repository.ShiftRepository
	settlementRepo repository.SettlementRepository
	priceService   *PriceService

	lockTTL time.Duration
	log     *logrus.Entry
}

// NewSettlementService creates a new settlement service
func NewSettlementService(
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	userRepo repository.UserRepository,
	shiftRepo repository.ShiftRepository,
	settlementRepo repository.SettlementRepository,
	priceService *PriceService,
	lockTTL time.Duration,
) *SettlementService {
	return &SettlementService{
		orderRepo:      orderRepo,
		paymentRepo:    paymentRepo,
		productRepo:    productRepo,
		customerRepo:   customerRepo,
		userRepo:       userRepo,
		shiftRepo:      shiftRepo,
		settlementRepo: settlementRepo,
		priceService:   priceService,
		lockTTL:        lockTTL,
		log:            logger.WithComponent("settlement"),
	}
}

// SettleCashInput is a cashier's counter settlement request.
type SettleCashInput struct {
	OrderID  uuid.UUID
	ActorID  uuid.UUID
	Tendered decimal.Decimal
	// CustomerID attaches/overwrites the order's customer link. Required
	// whenever the settlement leaves a balance.
	CustomerID *uuid.UUID
	// ApprovedBy is the manager-approval token: a manager's user id. Needed
	// for price violations and for releasing goods against a balance.
	ApprovedBy *uuid.UUID
	// ReleaseGoods deducts stock now even though a balance remains.
	ReleaseGoods   bool
	PrintRequested bool
}

// SettlementOutcome reports what the settlement did.
type SettlementOutcome struct {
	Status    enum.OrderStatus    `json:"status"`
	ReceiptNo *int64              `json:"receipt_no,omitempty"`
	Applied   decimal.Decimal     `json:"applied"`
	Change    decimal.Decimal     `json:"change"`
	Remaining decimal.Decimal     `json:"remaining"`
	Route     SettlementRoute     `json:"route"`
	Receipt   *entity.ReceiptView `json:"receipt,omitempty"`
}

// BuildReceiptView composes the printable view from the frozen order. Every
// figure comes from frozen data; nothing is recomputed from the catalog.
func BuildReceiptView(order *entity.Order, receiptNo *int64, paid, balance decimal.Decimal, now time.Time) *entity.ReceiptView {
	view := &entity.ReceiptView{
		OrderCode: order.Code,
		ReceiptNo: receiptNo,
		Date:      now.Format("2006-01-02 15:04"),
		Subtotal:  order.TotalBeforeDiscount,
		Discount:  order.DiscountTotal,
		Total:     order.Subtotal,
		Paid:      paid,
		Balance:   balance,
	}
	if order.Customer != nil {
		view.Customer = order.Customer.Name
	}
	for i := range order.Items {
		item := &order.Items[i]
		line := entity.ReceiptViewItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
		if item.LineTotal != nil {
			line.LineTotal = *item.LineTotal
		}
		view.Items = append(view.Items, line)
	}
	return view
}

// SettleCash settles a counter order with cash. The guard sequence is: open
// shift, positive tender, settleable status, lock claim, frozen-total check,
// customer/approval requirements, price guard, stock classification; then
// the whole write set commits atomically.
func (s *SettlementService) SettleCash(ctx context.Context, input *SettleCashInput) (*SettlementOutcome, error) {
	shift, err := s.requireOpenShift(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}

	if !input.Tendered.IsPositive() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "tendered", Message: "cash tendered must be positive"},
		})
	}

	order, err := s.orderRepo.GetWithDetails(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if !order.Status.Settleable() {
		return nil, apperror.NewConflictError("order is already settled or cancelled")
	}

	claimed, err := s.orderRepo.ClaimLock(ctx, order.ID, input.ActorID, s.lockTTL)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, apperror.NewLockedError("order is locked by another cashier")
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.orderRepo.ReleaseLock(ctx, order.ID, input.ActorID)
		}
	}()

	check := ValidateFrozenTotals(order)
	if check.MissingLineTotals {
		return nil, apperror.NewConflictError("order has lines without frozen totals")
	}
	if check.Mismatch {
		return nil, apperror.NewConflictError("order header totals disagree with frozen lines")
	}

	alreadyPaid, err := s.paymentRepo.SumByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	due := money.NonNegative(order.Subtotal.Sub(alreadyPaid))
	applied := money.Min(input.Tendered, due)
	change := money.Round2(input.Tendered.Sub(applied))
	remaining := money.Round2(due.Sub(applied))

	customerID := order.CustomerID
	if input.CustomerID != nil {
		customerID = input.CustomerID
	}
	if !money.IsZero(remaining) {
		if customerID == nil {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "customer_id", Message: "customer required for partial payment"},
			})
		}
		customer, err := s.customerRepo.GetByID(ctx, *customerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}

	approver, err := s.resolveApprover(ctx, input.ApprovedBy)
	if err != nil {
		return nil, err
	}
	if input.ReleaseGoods && !money.IsZero(remaining) && approver == nil {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "approved_by", Message: "manager approval required to release goods with a balance"},
		})
	}

	guard, err := s.runPriceGuard(ctx, order, customerID, approver)
	if err != nil {
		return nil, err
	}

	markPaid := money.IsZero(remaining)
	target := enum.OrderStatusPartiallyPaid
	if markPaid {
		target = enum.OrderStatusPaid
	}
	if !order.Status.CanTransitionTo(target) {
		return nil, apperror.NewConflictError("order cannot transition to " + target.String())
	}

	plan := &repository.CashSettlementPlan{
		OrderID:    order.ID,
		ActorID:    input.ActorID,
		CustomerID: customerID,
		Payment: entity.Payment{
			OrderID:    &order.ID,
			CustomerID: customerID,
			Method:     enum.PaymentMethodCash,
			Amount:     applied,
			Tendered:   &input.Tendered,
			Change:     &change,
			ShiftID:    &shift.ID,
			CashierID:  &input.ActorID,
		},
		PriceAudits: guard.audits,
		MarkPaid:    markPaid,
	}
	// Stock leaves the building only on full payment or an explicit release.
	if markPaid || input.ReleaseGoods {
		plan.StockDeltas = guard.deltas
	}
	if input.ReleaseGoods && !markPaid {
		plan.ReleasedWithBalance = true
		plan.ReleaseApprovedBy = input.ApprovedBy
	}

	result, err := s.settlementRepo.ApplyCashSettlement(ctx, plan)
	if err != nil {
		return nil, err
	}
	if result.Conflict {
		return nil, apperror.NewLockedError("order changed underneath the settlement")
	}
	if len(result.InsufficientStock) > 0 {
		return nil, apperror.NewIntegrityError("insufficient stock", stockIssueReport(ctx, s.productRepo, result.InsufficientStock))
	}
	committed = true

	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"status":   result.Status.String(),
		"applied":  applied.String(),
	}).Info("cash settlement committed")

	outcome := &SettlementOutcome{
		Status:    result.Status,
		ReceiptNo: result.ReceiptNo,
		Applied:   applied,
		Change:    change,
		Remaining: remaining,
		Route:     RouteAfterSettlement(remaining, input.PrintRequested),
	}
	if outcome.Route != RouteWorkQueue {
		outcome.Receipt = BuildReceiptView(order, result.ReceiptNo, alreadyPaid.Add(applied), remaining, time.Now())
	}
	return outcome, nil
}

type priceGuardResult struct {
	deltas []repository.StockDelta
	audits []repository.PriceAudit
}

// runPriceGuard classifies every line against the catalog, checks the
// charged price against the allowed price, and aggregates stock deltas.
// Violations without a manager token, and unclassifiable lines, reject the
// settlement with an itemized report.
func (s *SettlementService) runPriceGuard(ctx context.Context, order *entity.Order, customerID *uuid.UUID, approver *entity.User) (*priceGuardResult, error) {
	productIDs := make([]uuid.UUID, 0, len(order.Items))
	for i := range order.Items {
		productIDs = append(productIDs, order.Items[i].ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	now := time.Now()
	var issues []apperror.ItemIssue
	var violations []apperror.ItemIssue
	deltaByProduct := make(map[uuid.UUID]*repository.StockDelta)
	var deltaOrder []uuid.UUID
	result := &priceGuardResult{}

	for i := range order.Items {
		item := &order.Items[i]
		product, ok := productMap[item.ProductID]
		if !ok {
			issues = append(issues, apperror.ItemIssue{
				ItemID:    item.ID.String(),
				ProductID: item.ProductID.String(),
				Name:      item.Name,
				Reason:    "product no longer exists",
			})
			continue
		}

		kind, classified := ClassifyLinePricing(item, product)
		if !classified {
			issues = append(issues, apperror.ItemIssue{
				ItemID:    item.ID.String(),
				ProductID: item.ProductID.String(),
				Name:      item.Name,
				Reason:    "line price matches neither retail nor pack price",
				Actual:    item.UnitPrice.String(),
			})
			continue
		}

		basePrice := product.RetailPrice
		if kind == enum.UnitKindPack {
			basePrice = product.PackPrice
		}
		allowed, err := s.priceService.AllowedUnitPrice(ctx, customerID, product.ID, kind, basePrice, now)
		if err != nil {
			return nil, err
		}

		if money.LessThan(item.UnitPrice, allowed.UnitPrice) {
			violations = append(violations, apperror.ItemIssue{
				ItemID:    item.ID.String(),
				ProductID: item.ProductID.String(),
				Name:      item.Name,
				Reason:    "charged below allowed price",
				Allowed:   allowed.UnitPrice.String(),
				Actual:    item.UnitPrice.String(),
			})
		}

		audit := repository.PriceAudit{
			ItemID:           item.ID,
			AllowedUnitPrice: allowed.UnitPrice,
			Policy:           allowed.Policy,
		}
		if approver != nil {
			audit.ApprovedBy = &approver.ID
		}
		result.audits = append(result.audits, audit)

		delta, seen := deltaByProduct[product.ID]
		if !seen {
			delta = &repository.StockDelta{ProductID: product.ID}
			deltaByProduct[product.ID] = delta
			deltaOrder = append(deltaOrder, product.ID)
		}
		if kind == enum.UnitKindRetail {
			delta.RetailUnits += item.Quantity
		} else {
			delta.Packs += item.Quantity
		}
	}

	if len(issues) > 0 {
		return nil, apperror.NewIntegrityError("unclassifiable order lines", issues)
	}
	if len(violations) > 0 && approver == nil {
		return nil, apperror.NewIntegrityError("price below allowed without manager approval", violations)
	}

	for _, id := range deltaOrder {
		result.deltas = append(result.deltas, *deltaByProduct[id])
	}
	return result, nil
}

// requireOpenShift gates every settlement action on the cashier having an
// Open shift.
func (s *SettlementService) requireOpenShift(ctx context.Context, cashierID uuid.UUID) (*entity.CashierShift, error) {
	shift, err := s.shiftRepo.GetCurrentByCashier(ctx, cashierID)
	if err != nil {
		return nil, err
	}
	if shift == nil || !shift.Status.Writable() {
		return nil, apperror.NewConflictError("no open shift for this cashier")
	}
	return shift, nil
}

// resolveApprover validates a manager-approval token. A nil token is fine;
// a token that is not a manager is rejected.
func (s *SettlementService) resolveApprover(ctx context.Context, approvedBy *uuid.UUID) (*entity.User, error) {
	if approvedBy == nil {
		return nil, nil
	}
	user, err := s.userRepo.GetByID(ctx, *approvedBy)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsManager() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "approved_by", Message: "approval token is not a manager"},
		})
	}
	return user, nil
}

// stockIssueReport names the products a settlement could not deduct.
func stockIssueReport(ctx context.Context, productRepo repository.ProductRepository, productIDs []uuid.UUID) []apperror.ItemIssue {
	issues := make([]apperror.ItemIssue, 0, len(productIDs))
	products, err := productRepo.GetByIDs(ctx, productIDs)
	names := make(map[uuid.UUID]string)
	if err == nil {
		for i := range products {
			names[products[i].ID] = products[i].Name
		}
	}
	for _, id := range productIDs {
		issues = append(issues, apperror.ItemIssue{
			ProductID: id.String(),
			Name:      names[id],
			Reason:    "insufficient stock",
		})
	}
	return issues
}
