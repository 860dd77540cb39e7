package service_test

import (
	"testing"

	"github.com/sangkips/tindahan-pos/internal/application/service"
	"github.com/sangkips/tindahan-pos/internal/domain/entity"
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
	"github.com/sangkips/tindahan-pos/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPriceMode(t *testing.T) {
	base := dec("100.00")

	tests := []struct {
		name string
		rule entity.CustomerPrice
		want string
	}{
		{"fixed price", entity.CustomerPrice{Mode: enum.PriceModeFixedPrice, Value: dec("85.00")}, "85.00"},
		{"fixed discount", entity.CustomerPrice{Mode: enum.PriceModeFixedDiscount, Value: dec("15.00")}, "85.00"},
		{"percent discount", entity.CustomerPrice{Mode: enum.PriceModePercentDiscount, Value: dec("12.5")}, "87.50"},
		{"discount larger than base clamps to zero", entity.CustomerPrice{Mode: enum.PriceModeFixedDiscount, Value: dec("150.00")}, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.ApplyPriceMode(base, &tt.rule)
			assert.True(t, dec(tt.want).Equal(got), "got %s", got)
		})
	}
}

func frozenLine(unit string, qty int, lineTotal string) entity.OrderItem {
	u := dec(unit)
	lt := dec(lineTotal)
	return entity.OrderItem{
		Quantity:      qty,
		UnitPrice:     u,
		LineTotal:     &lt,
		BaseUnitPrice: &u,
	}
}

func TestValidateFrozenTotalsMatch(t *testing.T) {
	order := &entity.Order{
		Subtotal:            dec("250.00"),
		TotalBeforeDiscount: dec("250.00"),
		Items: []entity.OrderItem{
			frozenLine("100.00", 2, "200.00"),
			frozenLine("50.00", 1, "50.00"),
		},
	}

	check := service.ValidateFrozenTotals(order)

	assert.False(t, check.Mismatch)
	assert.False(t, check.MissingLineTotals)
	assert.True(t, dec("250.00").Equal(check.Subtotal))
}

func TestValidateFrozenTotalsHeaderDrift(t *testing.T) {
	order := &entity.Order{
		Subtotal:            dec("260.00"),
		TotalBeforeDiscount: dec("250.00"),
		Items: []entity.OrderItem{
			frozenLine("100.00", 2, "200.00"),
			frozenLine("50.00", 1, "50.00"),
		},
	}

	check := service.ValidateFrozenTotals(order)

	assert.True(t, check.Mismatch)
	require.Len(t, check.Diffs, 1)
	assert.Equal(t, "subtotal", check.Diffs[0].Field)
	assert.True(t, dec("260.00").Equal(check.Diffs[0].Header))
	assert.True(t, dec("250.00").Equal(check.Diffs[0].Recomputed))
}

func TestValidateFrozenTotalsOneCentTolerance(t *testing.T) {
	order := &entity.Order{
		Subtotal:            dec("200.01"),
		TotalBeforeDiscount: dec("200.00"),
		Items:               []entity.OrderItem{frozenLine("100.00", 2, "200.00")},
	}

	check := service.ValidateFrozenTotals(order)

	assert.False(t, check.Mismatch)
}

func TestValidateFrozenTotalsMissingLine(t *testing.T) {
	unfrozen := entity.OrderItem{Quantity: 1, UnitPrice: dec("30.00")}
	order := &entity.Order{
		Subtotal:            dec("200.00"),
		TotalBeforeDiscount: dec("200.00"),
		Items: []entity.OrderItem{
			frozenLine("100.00", 2, "200.00"),
			unfrozen,
		},
	}

	check := service.ValidateFrozenTotals(order)

	assert.True(t, check.MissingLineTotals)
}

func TestClassifyLinePricing(t *testing.T) {
	product := &entity.Product{
		RetailPrice: dec("12.00"),
		PackPrice:   dec("100.00"),
	}

	retail := frozenLine("12.00", 1, "12.00")
	kind, ok := service.ClassifyLinePricing(&retail, product)
	assert.True(t, ok)
	assert.Equal(t, enum.UnitKindRetail, kind)

	pack := frozenLine("100.00", 1, "100.00")
	kind, ok = service.ClassifyLinePricing(&pack, product)
	assert.True(t, ok)
	assert.Equal(t, enum.UnitKindPack, kind)

	// A discounted line still classifies by its frozen base price.
	discounted := frozenLine("12.00", 1, "10.00")
	discounted.UnitPrice = dec("10.00")
	kind, ok = service.ClassifyLinePricing(&discounted, product)
	assert.True(t, ok)
	assert.Equal(t, enum.UnitKindRetail, kind)

	neither := frozenLine("7.77", 1, "7.77")
	_, ok = service.ClassifyLinePricing(&neither, product)
	assert.False(t, ok)
}

func TestRouteAfterSettlement(t *testing.T) {
	assert.Equal(t, service.RouteWorkQueue, service.RouteAfterSettlement(decimal.Zero, false))
	assert.Equal(t, service.RouteWorkQueue, service.RouteAfterSettlement(dec("10.00"), false))
	assert.Equal(t, service.RouteOfficialReceipt, service.RouteAfterSettlement(decimal.Zero, true))
	assert.Equal(t, service.RouteAcknowledgment, service.RouteAfterSettlement(dec("10.00"), true))
}

func TestComputeBridgeShortageSettlesReceipt(t *testing.T) {
	// Rider collected the full 300; cashier only received 250. The 50 gap
	// becomes a bridge entry so the receipt still settles.
	c := service.ComputeBridge(dec("300.00"), dec("300.00"), decimal.Zero, decimal.Zero, dec("250.00"))

	assert.True(t, dec("250.00").Equal(c.Applied))
	assert.True(t, dec("50.00").Equal(c.Shortage))
	assert.True(t, c.BridgeDue)
	assert.True(t, c.Remaining.IsZero())
}

func TestComputeBridgePartialCollection(t *testing.T) {
	// Rider only collected 200 of 300: no bridge, the balance stays open.
	c := service.ComputeBridge(dec("300.00"), dec("200.00"), decimal.Zero, decimal.Zero, dec("200.00"))

	assert.True(t, dec("200.00").Equal(c.Applied))
	assert.True(t, c.Shortage.IsZero())
	assert.False(t, c.BridgeDue)
	assert.True(t, dec("100.00").Equal(c.Remaining))
}

func TestComputeBridgeClampsRiderCash(t *testing.T) {
	c := service.ComputeBridge(dec("300.00"), dec("500.00"), decimal.Zero, decimal.Zero, dec("300.00"))

	assert.True(t, dec("300.00").Equal(c.RiderCash))
	assert.True(t, dec("300.00").Equal(c.Applied))
	assert.True(t, c.Remaining.IsZero())
}

func TestComputeBridgeCashierInputCappedAtRunDue(t *testing.T) {
	// Cashier keys in more cash than the run owes; the excess is ignored.
	c := service.ComputeBridge(dec("300.00"), dec("300.00"), dec("100.00"), decimal.Zero, dec("500.00"))

	assert.True(t, dec("100.00").Equal(c.SettledForRunBefore))
	assert.True(t, dec("200.00").Equal(c.DueBeforeRun))
	assert.True(t, dec("200.00").Equal(c.Applied))
	assert.True(t, c.Remaining.IsZero())
}

func TestComputeBridgeUnderCollectionCreditsCashHandedOver(t *testing.T) {
	// Rider collected 250 of 300; cashier turns in only 200. The customer
	// still settled the full 250 they handed the rider: the 50 gap is the
	// rider's problem, not new customer debt.
	c := service.ComputeBridge(dec("300.00"), dec("250.00"), decimal.Zero, decimal.Zero, dec("200.00"))

	assert.True(t, dec("200.00").Equal(c.Applied))
	assert.True(t, dec("50.00").Equal(c.Shortage))
	assert.False(t, c.BridgeDue)
	assert.True(t, dec("50.00").Equal(c.Remaining))
}

func TestComputeBridgeConservation(t *testing.T) {
	// paid + bridged + applied + shortage + remaining == finalTotal, after
	// every computation, with no conditions on it.
	cases := []struct {
		finalTotal, riderCash, paidCash, bridged, input string
	}{
		{"300.00", "300.00", "0.00", "0.00", "250.00"},
		{"300.00", "300.00", "100.00", "0.00", "150.00"},
		{"300.00", "250.00", "0.00", "0.00", "250.00"},
		{"300.00", "250.00", "0.00", "0.00", "200.00"},
		{"300.00", "300.00", "250.00", "50.00", "0.00"},
		{"99.99", "99.99", "33.33", "0.00", "66.66"},
	}
	for _, tc := range cases {
		c := service.ComputeBridge(dec(tc.finalTotal), dec(tc.riderCash), dec(tc.paidCash), dec(tc.bridged), dec(tc.input))

		settled := dec(tc.paidCash).Add(dec(tc.bridged)).Add(c.Applied).Add(c.Shortage)
		assert.True(t, settled.Add(c.Remaining).Equal(dec(tc.finalTotal)),
			"conservation broken for total %s: settled %s remaining %s", tc.finalTotal, settled, c.Remaining)
	}
}

func TestComputeBridgeRerunAfterBridgeIsANoop(t *testing.T) {
	// After the bridge payment is on file, the run is fully covered:
	// a rerun credits nothing, reports no shortage, and flags no bridge,
	// whatever cash the cashier keys in.
	c := service.ComputeBridge(dec("300.00"), dec("300.00"), dec("250.00"), dec("50.00"), dec("50.00"))

	assert.True(t, c.Applied.IsZero())
	assert.True(t, c.Shortage.IsZero())
	assert.False(t, c.BridgeDue)
	assert.True(t, c.Remaining.IsZero())
}

func TestExpectedDrawerBalance(t *testing.T) {
	sums := &repository.DrawerSums{
		CashSales: dec("1500.00"),
		ARCash:    dec("200.00"),
		CashIn:    dec("100.00"),
		CashOut:   dec("80.00"),
		Drops:     dec("500.00"),
	}

	got := service.ExpectedDrawerBalance(dec("1000.00"), sums)

	assert.True(t, dec("2220.00").Equal(got))
}
