package service

import (
	"context"
	"errors"
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

// ShiftService manages the cashier shift lifecycle, the drawer ledger and
// standalone A/R cash receipts
type ShiftService struct {
	shiftRepo    repository.ShiftRepository
	paymentRepo  repository.PaymentRepository
	customerRepo repository.CustomerRepository
	userRepo     repository.UserRepository

	log *logrus.Entry
}

// NewShiftService creates a new shift service
func NewShiftService(
	shiftRepo repository.ShiftRepository,
	paymentRepo repository.PaymentRepository,
	customerRepo repository.CustomerRepository,
	userRepo repository.UserRepository,
) *ShiftService {
	return &ShiftService{
		shiftRepo:    shiftRepo,
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		userRepo:     userRepo,
		log:          logger.WithComponent("shift"),
	}
}

// OpenShift starts a shift for a cashier with the manager's declared opening
// float. The shift sits in PendingAccept until the cashier verifies the
// drawer.
func (s *ShiftService) OpenShift(ctx context.Context, managerID, cashierID uuid.UUID, openingFloat decimal.Decimal) (*entity.CashierShift, error) {
	if err := s.requireManager(ctx, managerID); err != nil {
		return nil, err
	}
	if openingFloat.IsNegative() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "opening_float", Message: "opening float cannot be negative"},
		})
	}

	cashier, err := s.userRepo.GetByID(ctx, cashierID)
	if err != nil {
		return nil, err
	}
	if cashier == nil {
		return nil, apperror.NewNotFoundError("Cashier")
	}

	current, err := s.shiftRepo.GetCurrentByCashier(ctx, cashierID)
	if err != nil {
		return nil, err
	}
	if current != nil {
		return nil, apperror.NewConflictError("cashier already has an unfinished shift")
	}

	shift := &entity.CashierShift{
		CashierID:    cashierID,
		OpenedBy:     managerID,
		Status:       enum.ShiftStatusPendingAccept,
		OpeningFloat: money.Round2(openingFloat),
		OpenedAt:     time.Now(),
	}
	if err := s.shiftRepo.Create(ctx, shift); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"shift_id":   shift.ID,
		"cashier_id": cashierID,
	}).Info("shift opened")
	return shift, nil
}

// AcceptOpening records the cashier's recount and opens the drawer.
func (s *ShiftService) AcceptOpening(ctx context.Context, shiftID, cashierID uuid.UUID, counted decimal.Decimal) (*entity.CashierShift, error) {
	shift, err := s.ownShift(ctx, shiftID, cashierID)
	if err != nil {
		return nil, err
	}
	if !shift.Status.CanTransitionTo(enum.ShiftStatusOpen) {
		return nil, apperror.NewConflictError("shift is not awaiting acceptance")
	}

	ok, err := s.shiftRepo.AcceptOpening(ctx, shift.ID, money.Round2(counted), time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewConflictError("shift is not awaiting acceptance")
	}
	return s.shiftRepo.GetByID(ctx, shift.ID)
}

// DisputeOpening records a recount that disagrees with the declared float.
// The shift locks until a manager corrects it; the note is mandatory.
func (s *ShiftService) DisputeOpening(ctx context.Context, shiftID, cashierID uuid.UUID, counted decimal.Decimal, note string) (*entity.CashierShift, error) {
	if note == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "note", Message: "a dispute note is required"},
		})
	}

	shift, err := s.ownShift(ctx, shiftID, cashierID)
	if err != nil {
		return nil, err
	}
	if !shift.Status.CanTransitionTo(enum.ShiftStatusOpeningDisputed) {
		return nil, apperror.NewConflictError("shift is not awaiting acceptance")
	}

	ok, err := s.shiftRepo.DisputeOpening(ctx, shift.ID, money.Round2(counted), note)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewConflictError("shift is not awaiting acceptance")
	}
	return s.shiftRepo.GetByID(ctx, shift.ID)
}

// CorrectOpening is the manager's resolution of an opening dispute: a fresh
// declared float, and the shift returns to PendingAccept for recount.
func (s *ShiftService) CorrectOpening(ctx context.Context, shiftID, managerID uuid.UUID, newFloat decimal.Decimal) (*entity.CashierShift, error) {
	if err := s.requireManager(ctx, managerID); err != nil {
		return nil, err
	}
	if newFloat.IsNegative() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "opening_float", Message: "opening float cannot be negative"},
		})
	}

	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, apperror.NewNotFoundError("Shift")
	}
	if !shift.Status.CanTransitionTo(enum.ShiftStatusPendingAccept) {
		return nil, apperror.NewConflictError("shift has no opening dispute to correct")
	}

	ok, err := s.shiftRepo.CorrectOpening(ctx, shiftID, money.Round2(newFloat))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewConflictError("shift has no opening dispute to correct")
	}
	return s.shiftRepo.GetByID(ctx, shiftID)
}

// ClosingReport is what the cashier sees after submitting a count. The diff
// is informational; resolution is a manager action.
type ClosingReport struct {
	Shift    *entity.CashierShift `json:"shift"`
	Expected decimal.Decimal      `json:"expected"`
	Counted  decimal.Decimal      `json:"counted"`
	Diff     decimal.Decimal      `json:"diff"`
}

// SubmitClosing hands in the closing count and locks the drawer instantly:
// no further deposit, withdrawal or sale is accepted on this shift.
func (s *ShiftService) SubmitClosing(ctx context.Context, shiftID, cashierID uuid.UUID, total decimal.Decimal, breakdown, note string) (*ClosingReport, error) {
	shift, err := s.ownShift(ctx, shiftID, cashierID)
	if err != nil {
		return nil, err
	}
	if total.IsNegative() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "closing_total", Message: "closing total cannot be negative"},
		})
	}

	if !shift.Status.CanTransitionTo(enum.ShiftStatusSubmitted) {
		return nil, apperror.NewConflictError("shift is not open")
	}

	counted := money.Round2(total)
	ok, err := s.shiftRepo.SubmitClosing(ctx, shift.ID, counted, breakdown, note, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewConflictError("shift is not open")
	}

	expected, err := s.expectedBalance(ctx, shift)
	if err != nil {
		return nil, err
	}
	updated, err := s.shiftRepo.GetByID(ctx, shift.ID)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"shift_id": shift.ID,
		"expected": expected.String(),
		"counted":  counted.String(),
	}).Info("closing count submitted")

	return &ClosingReport{
		Shift:    updated,
		Expected: expected,
		Counted:  counted,
		Diff:     money.Round2(counted.Sub(expected)),
	}, nil
}

// FinalClose is the manager's terminal audit close of a submitted shift.
func (s *ShiftService) FinalClose(ctx context.Context, shiftID, managerID uuid.UUID) (*entity.CashierShift, error) {
	if err := s.requireManager(ctx, managerID); err != nil {
		return nil, err
	}

	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, apperror.NewNotFoundError("Shift")
	}
	if !shift.Status.CanTransitionTo(enum.ShiftStatusFinalClosed) {
		return nil, apperror.NewConflictError("shift has no submitted closing to finalize")
	}

	ok, err := s.shiftRepo.FinalClose(ctx, shiftID, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewConflictError("shift has no submitted closing to finalize")
	}
	return s.shiftRepo.GetByID(ctx, shiftID)
}

// PostDrawerTxn appends a drawer movement to the actor's shift. Outflows are
// refused when they would overdraw the expected balance; deposits are
// unrestricted.
func (s *ShiftService) PostDrawerTxn(ctx context.Context, shiftID, actorID uuid.UUID, txnType enum.DrawerTxnType, amount decimal.Decimal, note string) (*entity.CashDrawerTxn, error) {
	if !amount.IsPositive() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "amount", Message: "amount must be positive"},
		})
	}

	txn := &entity.CashDrawerTxn{
		ShiftID:   shiftID,
		Type:      txnType,
		Amount:    money.Round2(amount),
		Note:      note,
		CreatedBy: actorID,
	}
	ok, err := s.shiftRepo.PostDrawerTxn(ctx, txn)
	if err != nil {
		if errors.Is(err, repository.ErrShiftNotWritable) {
			return nil, apperror.NewConflictError("shift is not open for drawer writes")
		}
		return nil, err
	}
	if !ok {
		return nil, apperror.NewConflictError("withdrawal exceeds the expected drawer balance")
	}
	return txn, nil
}

// DrawerStatus is the expected-balance breakdown of a shift's drawer.
type DrawerStatus struct {
	Shift    *entity.CashierShift  `json:"shift"`
	Sums     *repository.DrawerSums `json:"sums"`
	Expected decimal.Decimal       `json:"expected"`
}

// DrawerStatus computes the live expected drawer balance for a shift.
func (s *ShiftService) DrawerStatus(ctx context.Context, shiftID uuid.UUID) (*DrawerStatus, error) {
	shift, err := s.shiftRepo.GetWithTxns(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, apperror.NewNotFoundError("Shift")
	}

	sums, err := s.shiftRepo.DrawerSums(ctx, shift.ID)
	if err != nil {
		return nil, err
	}
	return &DrawerStatus{
		Shift:    shift,
		Sums:     sums,
		Expected: ExpectedDrawerBalance(shift.OpeningFloat, sums),
	}, nil
}

// CurrentShift returns the cashier's unfinished shift, or nil.
func (s *ShiftService) CurrentShift(ctx context.Context, cashierID uuid.UUID) (*entity.CashierShift, error) {
	return s.shiftRepo.GetCurrentByCashier(ctx, cashierID)
}

// ReceiveARPayment records a standalone cash payment against a customer's
// balance, with no order attached. It feeds the drawer's arCashIn term.
func (s *ShiftService) ReceiveARPayment(ctx context.Context, cashierID, customerID uuid.UUID, amount decimal.Decimal) (*entity.Payment, error) {
	if !amount.IsPositive() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "amount", Message: "amount must be positive"},
		})
	}

	shift, err := s.shiftRepo.GetCurrentByCashier(ctx, cashierID)
	if err != nil {
		return nil, err
	}
	if shift == nil || !shift.Status.Writable() {
		return nil, apperror.NewConflictError("no open shift for this cashier")
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	applied := money.Round2(amount)
	payment := &entity.Payment{
		CustomerID: &customerID,
		Method:     enum.PaymentMethodCash,
		Amount:     applied,
		Tendered:   &applied,
		ShiftID:    &shift.ID,
		CashierID:  &cashierID,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"shift_id":    shift.ID,
		"customer_id": customerID,
		"amount":      applied.String(),
	}).Info("A/R cash payment received")
	return payment, nil
}

// ExpectedDrawerBalance applies the drawer formula: openingFloat + cash
// sales + A/R cash + deposits - withdrawals - drops. Pure.
func ExpectedDrawerBalance(openingFloat decimal.Decimal, sums *repository.DrawerSums) decimal.Decimal {
	return money.Round2(openingFloat.
		Add(sums.CashSales).
		Add(sums.ARCash).
		Add(sums.CashIn).
		Sub(sums.CashOut).
		Sub(sums.Drops))
}

func (s *ShiftService) expectedBalance(ctx context.Context, shift *entity.CashierShift) (decimal.Decimal, error) {
	sums, err := s.shiftRepo.DrawerSums(ctx, shift.ID)
	if err != nil {
		return decimal.Zero, err
	}
	return ExpectedDrawerBalance(shift.OpeningFloat, sums), nil
}

func (s *ShiftService) ownShift(ctx context.Context, shiftID, cashierID uuid.UUID) (*entity.CashierShift, error) {
	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, apperror.NewNotFoundError("Shift")
	}
	if shift.CashierID != cashierID {
		return nil, apperror.ErrForbidden
	}
	return shift, nil
}

func (s *ShiftService) requireManager(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil || !user.IsManager() {
		return apperror.ErrForbidden
	}
	return nil
}
