package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/application/service"
	"github.com/sangkips/tindahan-pos/internal/domain/entity"
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
	"github.com/sangkips/tindahan-pos/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settlementFixture struct {
	env     *testEnv
	manager *entity.User
	cashier *entity.User
	shift   *entity.CashierShift
	product *entity.Product
}

func newSettlementFixture(t *testing.T) *settlementFixture {
	env := newTestEnv(t)
	manager := seedUser(t, env.db, entity.RoleManager)
	cashier := seedUser(t, env.db, entity.RoleCashier)
	shift := seedOpenShift(t, env.db, cashier.ID, manager.ID, "500.00")
	product := seedProduct(t, env.db, "100.00", "1000.00", 10, 5)
	return &settlementFixture{env: env, manager: manager, cashier: cashier, shift: shift, product: product}
}

func (f *settlementFixture) draft(t *testing.T, qty int, channel enum.OrderChannel, customerID *uuid.UUID) *entity.Order {
	t.Helper()
	order, err := f.env.orders.CreateDraft(context.Background(), &service.CreateOrderInput{
		ActorID:    f.cashier.ID,
		CustomerID: customerID,
		Channel:    channel,
		Items: []service.OrderItemInput{
			{ProductID: f.product.ID, Quantity: qty, UnitKind: enum.UnitKindRetail},
		},
	})
	require.NoError(t, err)
	return order
}

func TestSettleCashFullPayment(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()
	order := f.draft(t, 3, enum.OrderChannelCounter, nil)
	require.True(t, dec("300.00").Equal(order.Subtotal))

	out, err := f.env.settlements.SettleCash(ctx, &service.SettleCashInput{
		OrderID:        order.ID,
		ActorID:        f.cashier.ID,
		Tendered:       dec("500.00"),
		PrintRequested: true,
	})
	require.NoError(t, err)

	assert.Equal(t, enum.OrderStatusPaid, out.Status)
	require.NotNil(t, out.ReceiptNo)
	assert.Equal(t, int64(1), *out.ReceiptNo)
	assert.True(t, dec("300.00").Equal(out.Applied))
	assert.True(t, dec("200.00").Equal(out.Change))
	assert.True(t, out.Remaining.IsZero())
	assert.Equal(t, service.RouteOfficialReceipt, out.Route)
	require.NotNil(t, out.Receipt)
	assert.True(t, dec("300.00").Equal(out.Receipt.Total))

	assert.Equal(t, 7, reloadProduct(t, f.env.db, f.product.ID).RetailStock)

	stored := reloadOrder(t, f.env.db, order.ID)
	assert.Equal(t, enum.OrderStatusPaid, stored.Status)
	assert.NotNil(t, stored.PaidAt)
	assert.Nil(t, stored.LockedBy)
}

func TestSettleCashReceiptNumbersAreMonotonic(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		order := f.draft(t, 1, enum.OrderChannelCounter, nil)
		out, err := f.env.settlements.SettleCash(ctx, &service.SettleCashInput{
			OrderID:  order.ID,
			ActorID:  f.cashier.ID,
			Tendered: dec("100.00"),
		})
		require.NoError(t, err)
		require.NotNil(t, out.ReceiptNo)
		assert.Equal(t, want, *out.ReceiptNo)
	}
}

func TestSettleCashPartialRequiresCustomer(t *testing.T) {
	f := newSettlementFixture(t)
	order := f.draft(t, 3, enum.OrderChannelCounter, nil)

	_, err := f.env.settlements.SettleCash(context.Background(), &service.SettleCashInput{
		OrderID:  order.ID,
		ActorID:  f.cashier.ID,
		Tendered: dec("100.00"),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)

	// Nothing was applied.
	assert.Equal(t, enum.OrderStatusUnpaid, reloadOrder(t, f.env.db, order.ID).Status)
}

func TestSettleCashPartialWithCustomerHoldsStock(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()
	customer := seedCustomer(t, f.env.db, "Aling Nena")
	order := f.draft(t, 3, enum.OrderChannelCounter, &customer.ID)

	out, err := f.env.settlements.SettleCash(ctx, &service.SettleCashInput{
		OrderID:        order.ID,
		ActorID:        f.cashier.ID,
		Tendered:       dec("100.00"),
		PrintRequested: true,
	})
	require.NoError(t, err)

	assert.Equal(t, enum.OrderStatusPartiallyPaid, out.Status)
	assert.Nil(t, out.ReceiptNo)
	assert.True(t, dec("200.00").Equal(out.Remaining))
	assert.Equal(t, service.RouteAcknowledgment, out.Route)

	// No release was approved, so the goods stay on the shelf.
	assert.Equal(t, 10, reloadProduct(t, f.env.db, f.product.ID).RetailStock)

	stored := reloadOrder(t, f.env.db, order.ID)
	assert.True(t, stored.OnCredit)
	assert.False(t, stored.ReleasedWithBalance)
}

func TestSettleCashReleaseGoodsNeedsManagerApproval(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()
	customer := seedCustomer(t, f.env.db, "Mang Tomas")

	order := f.draft(t, 3, enum.OrderChannelCounter, &customer.ID)
	_, err := f.env.settlements.SettleCash(ctx, &service.SettleCashInput{
		OrderID:      order.ID,
		ActorID:      f.cashier.ID,
		Tendered:     dec("100.00"),
		ReleaseGoods: true,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)

	out, err := f.env.settlements.SettleCash(ctx, &service.SettleCashInput{
		OrderID:      order.ID,
		ActorID:      f.cashier.ID,
		Tendered:     dec("100.00"),
		ReleaseGoods: true,
		ApprovedBy:   &f.manager.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusPartiallyPaid, out.Status)

	assert.Equal(t, 7, reloadProduct(t, f.env.db, f.product.ID).RetailStock)
	stored := reloadOrder(t, f.env.db, order.ID)
	assert.True(t, stored.ReleasedWithBalance)
	require.NotNil(t, stored.ReleaseApprovedBy)
	assert.Equal(t, f.manager.ID, *stored.ReleaseApprovedBy)
}

// seedUnderpricedOrder writes an order whose frozen lines charge below the
// catalog retail price, with header totals consistent with the lines.
func seedUnderpricedOrder(t *testing.T, f *settlementFixture) *entity.Order {
	t.Helper()
	base := dec("100.00")
	under := dec("80.00")
	lineTotal := dec("160.00")
	perUnitOff := dec("20.00")
	order := &entity.Order{
		Code:                "ORD-UNDER-" + uuid.New().String()[:8],
		Channel:             enum.OrderChannelCounter,
		Status:              enum.OrderStatusUnpaid,
		Subtotal:            dec("160.00"),
		TotalBeforeDiscount: dec("200.00"),
		DiscountTotal:       dec("40.00"),
		CreatedBy:           f.cashier.ID,
		Items: []entity.OrderItem{{
			ProductID:      f.product.ID,
			Name:           f.product.Name,
			Quantity:       2,
			UnitPrice:      under,
			LineTotal:      &lineTotal,
			BaseUnitPrice:  &base,
			DiscountAmount: &perUnitOff,
		}},
	}
	require.NoError(t, f.env.db.Create(order).Error)
	return order
}

func TestSettleCashPriceGuardBlocksUnderpricing(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()
	order := seedUnderpricedOrder(t, f)

	_, err := f.env.settlements.SettleCash(ctx, &service.SettleCashInput{
		OrderID:  order.ID,
		ActorID:  f.cashier.ID,
		Tendered: dec("160.00"),
	})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusConflict, appErr.Code)
	require.NotEmpty(t, appErr.Items)
	assert.Equal(t, "charged below allowed price", appErr.Items[0].Reason)

	assert.Equal(t, enum.OrderStatusUnpaid, reloadOrder(t, f.env.db, order.ID).Status)
}

func TestSettleCashPriceGuardAcceptsManagerToken(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()
	order := seedUnderpricedOrder(t, f)

	out, err := f.env.settlements.SettleCash(ctx, &service.SettleCashInput{
		OrderID:    order.ID,
		ActorID:    f.cashier.ID,
		Tendered:   dec("160.00"),
		ApprovedBy: &f.manager.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusPaid, out.Status)

	// The approval lands on the price audit.
	var item entity.OrderItem
	require.NoError(t, f.env.db.First(&item, "order_id = ?", order.ID).Error)
	require.NotNil(t, item.DiscountApprovedBy)
	assert.Equal(t, f.manager.ID, *item.DiscountApprovedBy)
	require.NotNil(t, item.AllowedUnitPrice)
	assert.True(t, dec("100.00").Equal(*item.AllowedUnitPrice))
}

func TestSettleCashRejectsNonManagerApprover(t *testing.T) {
	f := newSettlementFixture(t)
	other := seedUser(t, f.env.db, entity.RoleCashier)
	order := seedUnderpricedOrder(t, f)

	_, err := f.env.settlements.SettleCash(context.Background(), &service.SettleCashInput{
		OrderID:    order.ID,
		ActorID:    f.cashier.ID,
		Tendered:   dec("160.00"),
		ApprovedBy: &other.ID,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)
}

func TestSettleCashInsufficientStockRollsBack(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()
	scarce := seedProduct(t, f.env.db, "50.00", "500.00", 2, 0)

	order, err := f.env.orders.CreateDraft(ctx, &service.CreateOrderInput{
		ActorID: f.cashier.ID,
		Channel: enum.OrderChannelCounter,
		Items: []service.OrderItemInput{
			{ProductID: scarce.ID, Quantity: 5, UnitKind: enum.UnitKindRetail},
		},
	})
	require.NoError(t, err)

	_, err = f.env.settlements.SettleCash(ctx, &service.SettleCashInput{
		OrderID:  order.ID,
		ActorID:  f.cashier.ID,
		Tendered: dec("250.00"),
	})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusConflict, appErr.Code)
	require.NotEmpty(t, appErr.Items)
	assert.Equal(t, "insufficient stock", appErr.Items[0].Reason)

	// The whole attempt rolled back: no payment, stock untouched.
	paid, err := f.env.paymentRepo.SumByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, paid.IsZero())
	assert.Equal(t, 2, reloadProduct(t, f.env.db, scarce.ID).RetailStock)
	assert.Equal(t, enum.OrderStatusUnpaid, reloadOrder(t, f.env.db, order.ID).Status)
}

func TestSettleCashLockExclusivity(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()
	order := f.draft(t, 1, enum.OrderChannelCounter, nil)

	otherCashier := seedUser(t, f.env.db, entity.RoleCashier)
	seedOpenShift(t, f.env.db, otherCashier.ID, f.manager.ID, "500.00")

	claimed, err := f.env.orderRepo.ClaimLock(ctx, order.ID, f.cashier.ID, testLockTTL)
	require.NoError(t, err)
	require.True(t, claimed)

	_, err = f.env.settlements.SettleCash(ctx, &service.SettleCashInput{
		OrderID:  order.ID,
		ActorID:  otherCashier.ID,
		Tendered: dec("100.00"),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusLocked, apperror.GetAppError(err).Code)
}

func TestSettleCashRequiresOpenShift(t *testing.T) {
	env := newTestEnv(t)
	cashier := seedUser(t, env.db, entity.RoleCashier)

	_, err := env.settlements.SettleCash(context.Background(), &service.SettleCashInput{
		OrderID:  uuid.New(),
		ActorID:  cashier.ID,
		Tendered: dec("100.00"),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
	assert.Contains(t, err.Error(), "no open shift")
}

func TestSettleCashRejectsCancelledOrder(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()
	order := f.draft(t, 1, enum.OrderChannelCounter, nil)
	require.NoError(t, f.env.orders.Cancel(ctx, order.ID, f.cashier.ID))

	_, err := f.env.settlements.SettleCash(ctx, &service.SettleCashInput{
		OrderID:  order.ID,
		ActorID:  f.cashier.ID,
		Tendered: dec("100.00"),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
}

func TestAmendItemsRefreezesTotals(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()
	order := f.draft(t, 1, enum.OrderChannelCounter, nil)

	amended, err := f.env.orders.AmendItems(ctx, order.ID, f.cashier.ID, []service.OrderItemInput{
		{ProductID: f.product.ID, Quantity: 4, UnitKind: enum.UnitKindRetail},
	})
	require.NoError(t, err)
	assert.True(t, dec("400.00").Equal(amended.Subtotal))
	require.Len(t, amended.Items, 1)
	assert.Equal(t, 4, amended.Items[0].Quantity)
}

func TestAmendItemsRejectedAfterSettlement(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()
	order := f.draft(t, 1, enum.OrderChannelCounter, nil)

	_, err := f.env.settlements.SettleCash(ctx, &service.SettleCashInput{
		OrderID:  order.ID,
		ActorID:  f.cashier.ID,
		Tendered: dec("100.00"),
	})
	require.NoError(t, err)

	_, err = f.env.orders.AmendItems(ctx, order.ID, f.cashier.ID, []service.OrderItemInput{
		{ProductID: f.product.ID, Quantity: 2, UnitKind: enum.UnitKindRetail},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
}
