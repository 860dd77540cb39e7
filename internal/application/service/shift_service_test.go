package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/sangkips/tindahan-pos/internal/application/service"
	"github.com/sangkips/tindahan-pos/internal/domain/entity"
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
	"github.com/sangkips/tindahan-pos/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShiftLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	manager := seedUser(t, env.db, entity.RoleManager)
	cashier := seedUser(t, env.db, entity.RoleCashier)

	shift, err := env.shifts.OpenShift(ctx, manager.ID, cashier.ID, dec("500.00"))
	require.NoError(t, err)
	assert.Equal(t, enum.ShiftStatusPendingAccept, shift.Status)

	// The drawer is not writable before the cashier accepts.
	_, err = env.shifts.PostDrawerTxn(ctx, shift.ID, cashier.ID, enum.DrawerTxnCashIn, dec("100.00"), "")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)

	shift, err = env.shifts.AcceptOpening(ctx, shift.ID, cashier.ID, dec("500.00"))
	require.NoError(t, err)
	assert.Equal(t, enum.ShiftStatusOpen, shift.Status)
	require.NotNil(t, shift.OpeningCounted)
	assert.True(t, dec("500.00").Equal(*shift.OpeningCounted))

	_, err = env.shifts.PostDrawerTxn(ctx, shift.ID, cashier.ID, enum.DrawerTxnCashIn, dec("100.00"), "change fund top-up")
	require.NoError(t, err)

	report, err := env.shifts.SubmitClosing(ctx, shift.ID, cashier.ID, dec("590.00"), `{"500":1,"50":1,"20":2}`, "")
	require.NoError(t, err)
	assert.Equal(t, enum.ShiftStatusSubmitted, report.Shift.Status)
	assert.True(t, dec("600.00").Equal(report.Expected))
	assert.True(t, dec("-10.00").Equal(report.Diff))

	// Submission locks the drawer instantly.
	_, err = env.shifts.PostDrawerTxn(ctx, shift.ID, cashier.ID, enum.DrawerTxnCashIn, dec("10.00"), "")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)

	shift, err = env.shifts.FinalClose(ctx, shift.ID, manager.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.ShiftStatusFinalClosed, shift.Status)
	assert.NotNil(t, shift.ClosedAt)

	// A final-closed shift no longer counts as the cashier's current one.
	current, err := env.shifts.CurrentShift(ctx, cashier.ID)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestOpenShiftRejectsSecondUnfinishedShift(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	manager := seedUser(t, env.db, entity.RoleManager)
	cashier := seedUser(t, env.db, entity.RoleCashier)

	_, err := env.shifts.OpenShift(ctx, manager.ID, cashier.ID, dec("500.00"))
	require.NoError(t, err)

	_, err = env.shifts.OpenShift(ctx, manager.ID, cashier.ID, dec("400.00"))
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
}

func TestOpenShiftRequiresManager(t *testing.T) {
	env := newTestEnv(t)
	cashier := seedUser(t, env.db, entity.RoleCashier)
	other := seedUser(t, env.db, entity.RoleCashier)

	_, err := env.shifts.OpenShift(context.Background(), other.ID, cashier.ID, dec("500.00"))
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperror.GetAppError(err).Code)
}

func TestDisputeOpeningFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	manager := seedUser(t, env.db, entity.RoleManager)
	cashier := seedUser(t, env.db, entity.RoleCashier)

	shift, err := env.shifts.OpenShift(ctx, manager.ID, cashier.ID, dec("500.00"))
	require.NoError(t, err)

	// A dispute without a note is rejected outright.
	_, err = env.shifts.DisputeOpening(ctx, shift.ID, cashier.ID, dec("480.00"), "")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)

	shift, err = env.shifts.DisputeOpening(ctx, shift.ID, cashier.ID, dec("480.00"), "two 10s missing")
	require.NoError(t, err)
	assert.Equal(t, enum.ShiftStatusOpeningDisputed, shift.Status)
	assert.Equal(t, "two 10s missing", shift.OpeningNote)

	// The manager corrects the float and the cashier recounts from scratch.
	shift, err = env.shifts.CorrectOpening(ctx, shift.ID, manager.ID, dec("480.00"))
	require.NoError(t, err)
	assert.Equal(t, enum.ShiftStatusPendingAccept, shift.Status)
	assert.True(t, dec("480.00").Equal(shift.OpeningFloat))
	assert.Nil(t, shift.OpeningCounted)

	shift, err = env.shifts.AcceptOpening(ctx, shift.ID, cashier.ID, dec("480.00"))
	require.NoError(t, err)
	assert.Equal(t, enum.ShiftStatusOpen, shift.Status)
}

func TestPostDrawerTxnOverdrawGuard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	manager := seedUser(t, env.db, entity.RoleManager)
	cashier := seedUser(t, env.db, entity.RoleCashier)
	shift := seedOpenShift(t, env.db, cashier.ID, manager.ID, "500.00")

	// Withdrawing more than the expected balance is refused.
	_, err := env.shifts.PostDrawerTxn(ctx, shift.ID, cashier.ID, enum.DrawerTxnCashOut, dec("600.00"), "")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
	assert.Contains(t, err.Error(), "exceeds the expected drawer balance")

	// Withdrawing exactly the expected balance is allowed.
	_, err = env.shifts.PostDrawerTxn(ctx, shift.ID, cashier.ID, enum.DrawerTxnCashOut, dec("500.00"), "bank run")
	require.NoError(t, err)

	// The drawer is now empty; a safe drop of any size is refused too.
	_, err = env.shifts.PostDrawerTxn(ctx, shift.ID, cashier.ID, enum.DrawerTxnDrop, dec("1.00"), "")
	require.Error(t, err)

	status, err := env.shifts.DrawerStatus(ctx, shift.ID)
	require.NoError(t, err)
	assert.True(t, status.Expected.IsZero())
}

func TestDrawerStatusReflectsCashSales(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()
	order := f.draft(t, 3, enum.OrderChannelCounter, nil)

	_, err := f.env.settlements.SettleCash(ctx, &service.SettleCashInput{
		OrderID:  order.ID,
		ActorID:  f.cashier.ID,
		Tendered: dec("350.00"),
	})
	require.NoError(t, err)

	status, err := f.env.shifts.DrawerStatus(ctx, f.shift.ID)
	require.NoError(t, err)
	// Opening 500 plus the 300 that stayed in the drawer (350 tendered less
	// 50 change).
	assert.True(t, dec("300.00").Equal(status.Sums.CashSales))
	assert.True(t, dec("800.00").Equal(status.Expected))
}

func TestReceiveARPayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	manager := seedUser(t, env.db, entity.RoleManager)
	cashier := seedUser(t, env.db, entity.RoleCashier)
	customer := seedCustomer(t, env.db, "Utang Customer")

	// No open shift yet: the drawer cannot receive cash.
	_, err := env.shifts.ReceiveARPayment(ctx, cashier.ID, customer.ID, dec("75.00"))
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)

	shift := seedOpenShift(t, env.db, cashier.ID, manager.ID, "500.00")

	payment, err := env.shifts.ReceiveARPayment(ctx, cashier.ID, customer.ID, dec("75.00"))
	require.NoError(t, err)
	assert.Nil(t, payment.OrderID)
	require.NotNil(t, payment.CustomerID)
	assert.Equal(t, customer.ID, *payment.CustomerID)
	assert.True(t, dec("75.00").Equal(payment.Amount))

	status, err := env.shifts.DrawerStatus(ctx, shift.ID)
	require.NoError(t, err)
	assert.True(t, dec("75.00").Equal(status.Sums.ARCash))
	assert.True(t, dec("575.00").Equal(status.Expected))
}

func TestReceiveARPaymentUnknownCustomer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	manager := seedUser(t, env.db, entity.RoleManager)
	cashier := seedUser(t, env.db, entity.RoleCashier)
	seedOpenShift(t, env.db, cashier.ID, manager.ID, "500.00")
	ghost := seedCustomer(t, env.db, "Deleted")
	require.NoError(t, env.db.Delete(ghost).Error)

	_, err := env.shifts.ReceiveARPayment(ctx, cashier.ID, ghost.ID, dec("75.00"))
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestFinalCloseRequiresSubmittedShift(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	manager := seedUser(t, env.db, entity.RoleManager)
	cashier := seedUser(t, env.db, entity.RoleCashier)
	shift := seedOpenShift(t, env.db, cashier.ID, manager.ID, "500.00")

	_, err := env.shifts.FinalClose(ctx, shift.ID, manager.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
}
