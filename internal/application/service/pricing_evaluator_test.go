package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/application/service"
	"github.com/sangkips/tindahan-pos/internal/domain/entity"
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func line(unit string, qty int) service.CartLine {
	return service.CartLine{
		ProductID: uuid.New(),
		SKU:       "SKU-" + unit,
		Name:      "item",
		Quantity:  qty,
		UnitPrice: dec(unit),
	}
}

var evalNow = time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC) // a Monday

func TestEvaluateRulesPercentOffItem(t *testing.T) {
	cart := []service.CartLine{line("100.00", 3)}
	rules := []entity.PricingRule{{
		ID:      uuid.New(),
		Name:    "10% off",
		Enabled: true,
		Scope:   enum.RuleScopeItem,
		Type:    enum.RuleTypePercentOff,
		Percent: dec("10"),
	}}

	res := service.EvaluateRules(cart, rules, nil, evalNow)

	assert.True(t, dec("300.00").Equal(res.Subtotal))
	assert.True(t, dec("30.00").Equal(res.DiscountTotal))
	assert.True(t, dec("270.00").Equal(res.FinalTotal))
	require.Len(t, res.Items, 1)
	assert.True(t, dec("90.00").Equal(res.Items[0].EffectiveUnitPrice))
}

func TestEvaluateRulesAmountOffSharesSumExactly(t *testing.T) {
	cart := []service.CartLine{line("100.00", 1), line("50.00", 1)}
	rules := []entity.PricingRule{{
		ID:      uuid.New(),
		Name:    "10 off",
		Enabled: true,
		Scope:   enum.RuleScopeItem,
		Type:    enum.RuleTypeAmountOff,
		Amount:  dec("10.00"),
	}}

	res := service.EvaluateRules(cart, rules, nil, evalNow)

	require.Len(t, res.Discounts, 1)
	sum := decimal.Zero
	for _, share := range res.Discounts[0].PerItem {
		sum = sum.Add(share.Amount)
	}
	// The rounding remainder lands on the last matched line; shares always
	// sum to the rule amount to the cent.
	assert.True(t, dec("10.00").Equal(sum))
	assert.True(t, dec("140.00").Equal(res.FinalTotal))
}

func TestEvaluateRulesPriceOverride(t *testing.T) {
	cart := []service.CartLine{line("100.00", 2)}
	rules := []entity.PricingRule{{
		ID:            uuid.New(),
		Name:          "sell at 80",
		Enabled:       true,
		Scope:         enum.RuleScopeItem,
		Type:          enum.RuleTypePriceOverride,
		OverridePrice: dec("80.00"),
	}}

	res := service.EvaluateRules(cart, rules, nil, evalNow)

	assert.True(t, dec("40.00").Equal(res.DiscountTotal))
	assert.True(t, dec("160.00").Equal(res.FinalTotal))
}

func TestEvaluateRulesOverrideAboveUnitPriceIsNoop(t *testing.T) {
	cart := []service.CartLine{line("50.00", 1)}
	rules := []entity.PricingRule{{
		ID:            uuid.New(),
		Enabled:       true,
		Scope:         enum.RuleScopeItem,
		Type:          enum.RuleTypePriceOverride,
		OverridePrice: dec("60.00"),
	}}

	res := service.EvaluateRules(cart, rules, nil, evalNow)

	assert.Empty(t, res.Discounts)
	assert.True(t, dec("50.00").Equal(res.FinalTotal))
}

func TestEvaluateRulesNonStackableStopsRun(t *testing.T) {
	cart := []service.CartLine{line("100.00", 1)}
	rules := []entity.PricingRule{
		{
			ID:      uuid.New(),
			Name:    "second",
			Enabled: true,
			// Higher priority value runs later.
			Priority: 20,
			Scope:    enum.RuleScopeItem,
			Type:     enum.RuleTypePercentOff,
			Percent:  dec("50"),
		},
		{
			ID:        uuid.New(),
			Name:      "first",
			Enabled:   true,
			Priority:  10,
			Scope:     enum.RuleScopeItem,
			Type:      enum.RuleTypePercentOff,
			Percent:   dec("10"),
			Stackable: false,
		},
	}

	res := service.EvaluateRules(cart, rules, nil, evalNow)

	require.Len(t, res.Discounts, 1)
	assert.Equal(t, "first", res.Discounts[0].Name)
	assert.True(t, dec("90.00").Equal(res.FinalTotal))
}

func TestEvaluateRulesEligibilityGates(t *testing.T) {
	customerID := uuid.New()
	past := evalNow.Add(-48 * time.Hour)
	earlier := evalNow.Add(-24 * time.Hour)

	tests := []struct {
		name     string
		rule     entity.PricingRule
		customer *service.CustomerContext
		want     bool
	}{
		{
			name: "disabled rule skipped",
			rule: entity.PricingRule{Enabled: false, Scope: enum.RuleScopeItem, Type: enum.RuleTypePercentOff, Percent: dec("10")},
			want: false,
		},
		{
			name: "expired window skipped",
			rule: entity.PricingRule{Enabled: true, ValidFrom: &past, ValidUntil: &earlier, Scope: enum.RuleScopeItem, Type: enum.RuleTypePercentOff, Percent: dec("10")},
			want: false,
		},
		{
			name: "wrong weekday skipped",
			rule: entity.PricingRule{Enabled: true, DaysOfWeek: []time.Weekday{time.Sunday}, Scope: enum.RuleScopeItem, Type: enum.RuleTypePercentOff, Percent: dec("10")},
			want: false,
		},
		{
			name: "matching weekday applies",
			rule: entity.PricingRule{Enabled: true, DaysOfWeek: []time.Weekday{time.Monday}, Scope: enum.RuleScopeItem, Type: enum.RuleTypePercentOff, Percent: dec("10")},
			want: true,
		},
		{
			name: "min subtotal not reached",
			rule: entity.PricingRule{Enabled: true, MinSubtotal: dec("500.00"), Scope: enum.RuleScopeItem, Type: enum.RuleTypePercentOff, Percent: dec("10")},
			want: false,
		},
		{
			name: "customer allow-list blocks walk-in",
			rule: entity.PricingRule{Enabled: true, CustomerIDs: []uuid.UUID{customerID}, Scope: enum.RuleScopeItem, Type: enum.RuleTypePercentOff, Percent: dec("10")},
			want: false,
		},
		{
			name:     "customer allow-list admits member",
			rule:     entity.PricingRule{Enabled: true, CustomerIDs: []uuid.UUID{customerID}, Scope: enum.RuleScopeItem, Type: enum.RuleTypePercentOff, Percent: dec("10")},
			customer: &service.CustomerContext{CustomerID: &customerID},
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.rule.ID = uuid.New()
			cart := []service.CartLine{line("100.00", 1)}
			res := service.EvaluateRules(cart, []entity.PricingRule{tt.rule}, tt.customer, evalNow)
			if tt.want {
				assert.NotEmpty(t, res.Discounts)
			} else {
				assert.Empty(t, res.Discounts)
			}
		})
	}
}

func TestEvaluateRulesBuyXGetYSameProduct(t *testing.T) {
	cart := []service.CartLine{line("50.00", 5)}
	rules := []entity.PricingRule{{
		ID:      uuid.New(),
		Enabled: true,
		Scope:   enum.RuleScopeItem,
		Type:    enum.RuleTypeBuyXGetY,
		BXGY: &entity.BuyXGetY{
			BuyQty:         2,
			GetQty:         1,
			GetDiscountPct: dec("100"),
		},
	}}

	res := service.EvaluateRules(cart, rules, nil, evalNow)

	// 5 units / buy 2 = 2 applications, 2 benefit units fully discounted.
	assert.True(t, dec("100.00").Equal(res.DiscountTotal))
	assert.True(t, dec("150.00").Equal(res.FinalTotal))
}

func TestEvaluateRulesBuyXGetYOncePerOrder(t *testing.T) {
	cart := []service.CartLine{line("50.00", 6)}
	rules := []entity.PricingRule{{
		ID:      uuid.New(),
		Enabled: true,
		Scope:   enum.RuleScopeItem,
		Type:    enum.RuleTypeBuyXGetY,
		BXGY: &entity.BuyXGetY{
			BuyQty:         2,
			GetQty:         1,
			GetDiscountPct: dec("100"),
			OncePerOrder:   true,
		},
	}}

	res := service.EvaluateRules(cart, rules, nil, evalNow)

	assert.True(t, dec("50.00").Equal(res.DiscountTotal))
}

func TestEvaluateRulesBuyXGetYFreeLine(t *testing.T) {
	freeProduct := uuid.New()
	cart := []service.CartLine{line("100.00", 2)}
	rules := []entity.PricingRule{{
		ID:      uuid.New(),
		Enabled: true,
		Scope:   enum.RuleScopeItem,
		Type:    enum.RuleTypeBuyXGetY,
		BXGY: &entity.BuyXGetY{
			BuyQty:         2,
			GetQty:         1,
			GetProductID:   freeProduct,
			GetProductName: "free cup",
			GetUnitPrice:   decimal.Zero,
		},
	}}

	res := service.EvaluateRules(cart, rules, nil, evalNow)

	require.Len(t, res.FreeLines, 1)
	assert.Equal(t, freeProduct, res.FreeLines[0].ProductID)
	assert.Equal(t, 1, res.FreeLines[0].Quantity)
	// Free benefit at zero price leaves the payable total untouched.
	assert.True(t, dec("200.00").Equal(res.FinalTotal))
}

func TestEvaluateRulesOrderScopeRoundingClosure(t *testing.T) {
	cart := []service.CartLine{line("33.33", 1), line("33.33", 1), line("33.35", 1)}
	rules := []entity.PricingRule{{
		ID:      uuid.New(),
		Enabled: true,
		Scope:   enum.RuleScopeOrder,
		Type:    enum.RuleTypePercentOff,
		Percent: dec("10"),
	}}

	res := service.EvaluateRules(cart, rules, nil, evalNow)

	require.Len(t, res.Discounts, 1)
	sum := decimal.Zero
	for _, share := range res.Discounts[0].PerItem {
		sum = sum.Add(share.Amount)
	}
	assert.True(t, sum.Equal(res.Discounts[0].Amount))
	assert.True(t, res.Subtotal.Sub(res.DiscountTotal).Equal(res.FinalTotal))
}

func TestEvaluateRulesSelectorExclusionWins(t *testing.T) {
	excluded := line("100.00", 1)
	kept := line("40.00", 1)
	cart := []service.CartLine{excluded, kept}
	rules := []entity.PricingRule{{
		ID:      uuid.New(),
		Enabled: true,
		Scope:   enum.RuleScopeItem,
		Type:    enum.RuleTypePercentOff,
		Percent: dec("50"),
		Selector: entity.RuleSelector{
			ProductIDs:        []uuid.UUID{excluded.ProductID, kept.ProductID},
			ExcludeProductIDs: []uuid.UUID{excluded.ProductID},
		},
	}}

	res := service.EvaluateRules(cart, rules, nil, evalNow)

	assert.True(t, dec("20.00").Equal(res.DiscountTotal))
}

func TestEvaluateRulesDiscountNeverExceedsLine(t *testing.T) {
	cart := []service.CartLine{line("10.00", 1)}
	rules := []entity.PricingRule{{
		ID:      uuid.New(),
		Enabled: true,
		Scope:   enum.RuleScopeItem,
		Type:    enum.RuleTypeAmountOff,
		Amount:  dec("25.00"),
	}}

	res := service.EvaluateRules(cart, rules, nil, evalNow)

	assert.True(t, dec("10.00").Equal(res.DiscountTotal))
	assert.True(t, res.FinalTotal.IsZero())
}
