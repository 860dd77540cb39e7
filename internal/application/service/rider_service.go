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

// BridgeComputation is the arithmetic of one rider-cash reconciliation.
// Conservation holds by construction after every computation:
//
//	AlreadyPaidCash + AlreadyBridged + Applied + Shortage + Remaining == FinalTotal
//
// The customer is credited the full cash they handed the rider: the shortage
// counts toward their settled amount whether or not a bridge entry fires.
type BridgeComputation struct {
	FinalTotal      decimal.Decimal `json:"final_total"`
	RiderCash       decimal.Decimal `json:"rider_cash"`
	AlreadyPaidCash decimal.Decimal `json:"already_paid_cash"`
	AlreadyBridged  decimal.Decimal `json:"already_bridged"`
	// SettledForRunBefore counts prior cash and prior bridge entries toward
	// the run, so a rerun after a posted bridge is an exact no-op.
	SettledForRunBefore decimal.Decimal `json:"settled_for_run_before"`
	DueBeforeRun        decimal.Decimal `json:"due_before_run"`
	// Applied is the cash credited to the order from the cashier's input,
	// never more than what this rider run actually owes.
	Applied  decimal.Decimal `json:"applied"`
	Shortage decimal.Decimal `json:"shortage"`
	// BridgeDue: the customer is fully paid by rider truth and a shortage
	// remains, so a non-cash bridge entry should make the receipt settle.
	BridgeDue bool            `json:"bridge_due"`
	Remaining decimal.Decimal `json:"remaining"`
}

// ComputeBridge reconciles the three cash figures of a delivery settlement:
// what the customer owes (finalTotal), what the rider physically collected
// (riderCash, the frozen truth), and what the cashier reports receiving
// (cashierInput). Pure.
func ComputeBridge(finalTotal, riderCash, alreadyPaidCash, alreadyBridged, cashierInput decimal.Decimal) *BridgeComputation {
	c := &BridgeComputation{
		FinalTotal:      finalTotal,
		AlreadyPaidCash: alreadyPaidCash,
		AlreadyBridged:  alreadyBridged,
	}

	c.RiderCash = money.Clamp(riderCash, decimal.Zero, finalTotal)
	settledBefore := alreadyPaidCash.Add(alreadyBridged)
	c.SettledForRunBefore = money.Min(settledBefore, c.RiderCash)
	c.DueBeforeRun = money.NonNegative(c.RiderCash.Sub(c.SettledForRunBefore))
	c.Applied = money.Min(money.NonNegative(cashierInput), c.DueBeforeRun)
	c.Shortage = money.NonNegative(c.DueBeforeRun.Sub(c.Applied))
	c.BridgeDue = money.Equal(c.RiderCash, finalTotal) && c.Shortage.GreaterThan(money.Epsilon)

	settled := settledBefore.Add(c.Applied).Add(c.Shortage)
	c.Remaining = money.NonNegative(money.Round2(finalTotal.Sub(settled)))
	return c
}

// RiderService reconciles delivery cash and runs the variance review
// workflow.
type RiderService struct {
	orderRepo      repository.OrderRepository
	paymentRepo    repository.PaymentRepository
	productRepo    repository.ProductRepository
	receiptRepo    repository.RunReceiptRepository
	varianceRepo   repository.VarianceRepository
	chargeRepo     repository.RiderChargeRepository
	userRepo       repository.UserRepository
	shiftRepo      repository.ShiftRepository
	settlementRepo repository.SettlementRepository

	lockTTL time.Duration
	log     *logrus.Entry
}

// NewRiderService creates a new rider service
func NewRiderService(
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	productRepo repository.ProductRepository,
	receiptRepo repository.RunReceiptRepository,
	varianceRepo repository.VarianceRepository,
	chargeRepo repository.RiderChargeRepository,
	userRepo repository.UserRepository,
	shiftRepo repository.ShiftRepository,
	settlementRepo repository.SettlementRepository,
	lockTTL time.Duration,
) *RiderService {
	return &RiderService{
		orderRepo:      orderRepo,
		paymentRepo:    paymentRepo,
		productRepo:    productRepo,
		receiptRepo:    receiptRepo,
		varianceRepo:   varianceRepo,
		chargeRepo:     chargeRepo,
		userRepo:       userRepo,
		shiftRepo:      shiftRepo,
		settlementRepo: settlementRepo,
		lockTTL:        lockTTL,
		log:            logger.WithComponent("rider"),
	}
}

// SettleDeliveryInput is the cashier's delivery reconciliation request.
type SettleDeliveryInput struct {
	OrderID uuid.UUID
	ActorID uuid.UUID
	// Collected is the cash the cashier reports receiving from the rider.
	Collected      decimal.Decimal
	PrintRequested bool
}

// DeliveryOutcome reports the reconciliation result.
type DeliveryOutcome struct {
	Status        enum.OrderStatus    `json:"status"`
	ReceiptNo     *int64              `json:"receipt_no,omitempty"`
	Computation   *BridgeComputation  `json:"computation"`
	BridgePosted  bool                `json:"bridge_posted"`
	BridgeSkipped bool                `json:"bridge_skipped"`
	Route         SettlementRoute     `json:"route"`
	Receipt       *entity.ReceiptView `json:"receipt,omitempty"`
}

// SettleDelivery reconciles a delivery order against its frozen run receipt.
// The run receipt's cashCollected is the only trusted rider cash figure; a
// shortage between it and the drawer becomes a non-cash bridge entry plus an
// open variance for manager review. Repeats are idempotent per receipt.
func (s *RiderService) SettleDelivery(ctx context.Context, input *SettleDeliveryInput) (*DeliveryOutcome, error) {
	shift, err := s.requireOpenShift(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}

	if input.Collected.IsNegative() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "collected", Message: "collected cash cannot be negative"},
		})
	}

	order, err := s.orderRepo.GetWithDetails(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if order.Channel != enum.OrderChannelDelivery {
		return nil, apperror.NewBadRequestError("order is not a delivery order")
	}
	if !order.Status.Settleable() {
		return nil, apperror.NewConflictError("order is already settled or cancelled")
	}

	receipt, err := s.receiptRepo.GetByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewConflictError("no run receipt captured for this order")
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

	finalTotal, err := deliveryFinalTotal(order, receipt)
	if err != nil {
		return nil, err
	}

	alreadyPaidCash, err := s.paymentRepo.SumCashByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	alreadyBridged, err := s.paymentRepo.SumBridgedByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	hasBridge, err := s.paymentRepo.HasBridgeForReceipt(ctx, receipt.ID)
	if err != nil {
		return nil, err
	}

	comp := ComputeBridge(finalTotal, receipt.CashCollected, alreadyPaidCash, alreadyBridged, input.Collected)

	markPaid := money.IsZero(comp.Remaining)
	target := enum.OrderStatusPartiallyPaid
	if markPaid {
		target = enum.OrderStatusPaid
	}
	if !order.Status.CanTransitionTo(target) {
		return nil, apperror.NewConflictError("order cannot transition to " + target.String())
	}

	// The goods left with the rider; the catalog count catches up when the
	// order fully settles, exactly once.
	var deltas []repository.StockDelta
	if markPaid {
		deltas, err = s.deliveryStockDeltas(ctx, order, receipt)
		if err != nil {
			return nil, err
		}
	}

	plan := &repository.DeliverySettlementPlan{
		OrderID:     order.ID,
		ReceiptID:   receipt.ID,
		ActorID:     input.ActorID,
		StockDeltas: deltas,
		MarkPaid:    markPaid,
	}
	if comp.Applied.IsPositive() {
		change := money.Round2(input.Collected.Sub(comp.Applied))
		plan.CashPayment = &entity.Payment{
			OrderID:    &order.ID,
			CustomerID: order.CustomerID,
			Method:     enum.PaymentMethodCash,
			Amount:     comp.Applied,
			Tendered:   &input.Collected,
			Change:     &change,
			ShiftID:    &shift.ID,
			CashierID:  &input.ActorID,
		}
	}
	postBridge := comp.BridgeDue && !hasBridge
	if postBridge {
		refNo := entity.BridgeRefNo(receipt.ID)
		plan.BridgePayment = &entity.Payment{
			OrderID:    &order.ID,
			CustomerID: order.CustomerID,
			Method:     enum.PaymentMethodInternalCredit,
			Amount:     comp.Shortage,
			ShiftID:    &shift.ID,
			CashierID:  &input.ActorID,
			RefNo:      &refNo,
		}
		plan.Variance = &entity.RiderRunVariance{
			ReceiptID: receipt.ID,
			OrderID:   order.ID,
			RiderID:   receipt.RiderID,
			Expected:  comp.RiderCash,
			// Actual is the cash actually credited, not the raw tendered
			// figure: an under-collecting cashier must not overstate the
			// rider's shortage.
			Actual:   comp.Applied,
			Variance: money.Round2(comp.Applied.Sub(comp.RiderCash)),
			Status:   enum.VarianceStatusOpen,
		}
	}

	result, err := s.settlementRepo.ApplyDeliverySettlement(ctx, plan)
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
		"order_id":   order.ID,
		"receipt_id": receipt.ID,
		"status":     result.Status.String(),
		"shortage":   comp.Shortage.String(),
		"bridged":    postBridge && !result.BridgeAlreadyPosted,
	}).Info("delivery settlement committed")

	outcome := &DeliveryOutcome{
		Status:        result.Status,
		ReceiptNo:     result.ReceiptNo,
		Computation:   comp,
		BridgePosted:  postBridge && !result.BridgeAlreadyPosted,
		BridgeSkipped: hasBridge || result.BridgeAlreadyPosted,
		Route:         RouteAfterSettlement(comp.Remaining, input.PrintRequested),
	}
	if outcome.Route != RouteWorkQueue {
		paid := money.Round2(finalTotal.Sub(comp.Remaining))
		outcome.Receipt = BuildReceiptView(order, result.ReceiptNo, paid, comp.Remaining, time.Now())
	}
	return outcome, nil
}

// deliveryStockDeltas classifies what the rider sold and aggregates the
// per-product deductions. Receipt lines take priority over order items as the
// sale truth, the same precedence the money side uses.
func (s *RiderService) deliveryStockDeltas(ctx context.Context, order *entity.Order, receipt *entity.RunReceipt) ([]repository.StockDelta, error) {
	type soldLine struct {
		productID uuid.UUID
		name      string
		quantity  int
		item      entity.OrderItem
	}

	var lines []soldLine
	if len(receipt.Lines) > 0 {
		for i := range receipt.Lines {
			l := &receipt.Lines[i]
			lines = append(lines, soldLine{
				productID: l.ProductID,
				name:      l.Name,
				quantity:  l.Quantity,
				item:      entity.OrderItem{ProductID: l.ProductID, UnitPrice: l.UnitPrice},
			})
		}
	} else {
		for i := range order.Items {
			it := &order.Items[i]
			lines = append(lines, soldLine{
				productID: it.ProductID,
				name:      it.Name,
				quantity:  it.Quantity,
				item:      *it,
			})
		}
	}

	productIDs := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		productIDs = append(productIDs, l.productID)
	}
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	var issues []apperror.ItemIssue
	deltaByProduct := make(map[uuid.UUID]*repository.StockDelta)
	var deltaOrder []uuid.UUID

	for _, l := range lines {
		product, ok := productMap[l.productID]
		if !ok {
			issues = append(issues, apperror.ItemIssue{
				ProductID: l.productID.String(),
				Name:      l.name,
				Reason:    "product no longer exists",
			})
			continue
		}

		item := l.item
		kind, classified := ClassifyLinePricing(&item, product)
		if !classified {
			issues = append(issues, apperror.ItemIssue{
				ProductID: l.productID.String(),
				Name:      l.name,
				Reason:    "line price matches neither retail nor pack price",
				Actual:    item.UnitPrice.String(),
			})
			continue
		}

		delta, seen := deltaByProduct[product.ID]
		if !seen {
			delta = &repository.StockDelta{ProductID: product.ID}
			deltaByProduct[product.ID] = delta
			deltaOrder = append(deltaOrder, product.ID)
		}
		if kind == enum.UnitKindRetail {
			delta.RetailUnits += l.quantity
		} else {
			delta.Packs += l.quantity
		}
	}

	if len(issues) > 0 {
		return nil, apperror.NewIntegrityError("unclassifiable delivery lines", issues)
	}

	deltas := make([]repository.StockDelta, 0, len(deltaOrder))
	for _, id := range deltaOrder {
		deltas = append(deltas, *deltaByProduct[id])
	}
	return deltas, nil
}

// deliveryFinalTotal sums the frozen lines, preferring run-receipt lines over
// legacy order items when both exist.
func deliveryFinalTotal(order *entity.Order, receipt *entity.RunReceipt) (decimal.Decimal, error) {
	if len(receipt.Lines) > 0 {
		total := decimal.Zero
		for i := range receipt.Lines {
			total = total.Add(receipt.Lines[i].LineTotal)
		}
		return money.Round2(total), nil
	}

	total := decimal.Zero
	for i := range order.Items {
		if order.Items[i].LineTotal == nil {
			return decimal.Zero, apperror.NewConflictError("order has lines without frozen totals")
		}
		total = total.Add(*order.Items[i].LineTotal)
	}
	return money.Round2(total), nil
}

// DecideVarianceInput is a manager's disposition of an open variance.
type DecideVarianceInput struct {
	VarianceID uuid.UUID
	ManagerID  uuid.UUID
	Resolution enum.VarianceResolution
	Note       string
}

// DecideVariance applies a manager decision to an open variance. ChargeRider
// creates (or refreshes) the rider's charge for the shortage; Waive and
// InfoOnly clear the item without one.
func (s *RiderService) DecideVariance(ctx context.Context, input *DecideVarianceInput) (*entity.RiderRunVariance, error) {
	manager, err := s.userRepo.GetByID(ctx, input.ManagerID)
	if err != nil {
		return nil, err
	}
	if manager == nil || !manager.IsManager() {
		return nil, apperror.ErrForbidden
	}

	applied, err := s.varianceRepo.ApplyDecision(ctx, repository.VarianceDecision{
		VarianceID: input.VarianceID,
		ManagerID:  input.ManagerID,
		Resolution: input.Resolution,
		Note:       input.Note,
	})
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, apperror.NewConflictError("variance is not open for decision")
	}

	s.log.WithFields(logrus.Fields{
		"variance_id": input.VarianceID,
		"resolution":  input.Resolution.String(),
	}).Info("variance decided")

	return s.varianceRepo.GetByID(ctx, input.VarianceID)
}

// AcceptCharge records a rider's acknowledgment of a ChargeRider decision.
func (s *RiderService) AcceptCharge(ctx context.Context, varianceID, riderID uuid.UUID) error {
	accepted, err := s.varianceRepo.MarkRiderAccepted(ctx, varianceID, riderID)
	if err != nil {
		return err
	}
	if !accepted {
		return apperror.NewConflictError("variance has no charge decision awaiting this rider")
	}
	return nil
}

// ListVariances returns the manager review queue.
func (s *RiderService) ListVariances(ctx context.Context, params *repository.VarianceFilterParams) ([]entity.RiderRunVariance, int64, error) {
	return s.varianceRepo.List(ctx, params)
}

// ListRiderCharges returns a rider's own charge ledger.
func (s *RiderService) ListRiderCharges(ctx context.Context, riderID uuid.UUID) ([]entity.RiderCharge, error) {
	return s.chargeRepo.ListByRider(ctx, riderID)
}

// CaptureRunReceipt freezes what a rider sold and collected for one order.
// Receipts are write-once; a second capture for the same order is rejected.
func (s *RiderService) CaptureRunReceipt(ctx context.Context, receipt *entity.RunReceipt) (*entity.RunReceipt, error) {
	existing, err := s.receiptRepo.GetByOrderID(ctx, receipt.OrderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("a run receipt already exists for this order")
	}
	if receipt.CashCollected.IsNegative() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "cash_collected", Message: "cash collected cannot be negative"},
		})
	}
	if err := s.receiptRepo.Create(ctx, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

func (s *RiderService) requireOpenShift(ctx context.Context, cashierID uuid.UUID) (*entity.CashierShift, error) {
	shift, err := s.shiftRepo.GetCurrentByCashier(ctx, cashierID)
	if err != nil {
		return nil, err
	}
	if shift == nil || !shift.Status.Writable() {
		return nil, apperror.NewConflictError("no open shift for this cashier")
	}
	return shift, nil
}
