package service

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/domain/entity"
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
	"github.com/sangkips/tindahan-pos/pkg/money"
	"github.com/shopspring/decimal"
)

// CartLine is one pre-discount line fed into the evaluator. Tags carry
// promotional labels a rule's eligibility gate can match against.
type CartLine struct {
	ProductID  uuid.UUID
	CategoryID *uuid.UUID
	BrandID    *uuid.UUID
	SKU        string
	Name       string
	Tags       []string
	Quantity   int
	UnitPrice  decimal.Decimal
}

// Amount is the pre-discount line amount, rounded to two decimals.
func (l *CartLine) Amount() decimal.Decimal {
	return money.Round2(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
}

// CustomerContext identifies the buyer for customer-gated rules. A nil
// CustomerID is a walk-in.
type CustomerContext struct {
	CustomerID *uuid.UUID
}

// ItemDiscountShare is one line's share of an applied discount.
type ItemDiscountShare struct {
	LineIndex int
	Amount    decimal.Decimal
}

// FreeLine is a line item synthesized by a buy-X-get-Y rule. It is appended
// to the evaluation result; the original cart is never mutated.
type FreeLine struct {
	ProductID uuid.UUID
	Name      string
	Quantity  int
	// UnitPrice is what the customer is actually charged for the free or
	// discounted benefit item (often zero).
	UnitPrice decimal.Decimal
}

// Amount is the charged amount of the synthesized line.
func (l *FreeLine) Amount() decimal.Decimal {
	return money.Round2(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
}

// AppliedDiscount reports one rule's effect on the cart.
type AppliedDiscount struct {
	RuleID    uuid.UUID
	Name      string
	Amount    decimal.Decimal
	PerItem   []ItemDiscountShare
	FreeLines []FreeLine
}

// EvaluatedItem is the per-line view of the evaluation outcome.
type EvaluatedItem struct {
	Line               CartLine
	DiscountAmount     decimal.Decimal
	EffectiveUnitPrice decimal.Decimal
}

// EvalResult is the full output of one evaluator run.
type EvalResult struct {
	Subtotal      decimal.Decimal
	Discounts     []AppliedDiscount
	DiscountTotal decimal.Decimal
	FinalTotal    decimal.Decimal
	Items         []EvaluatedItem
	FreeLines     []FreeLine
}

// EvaluateRules runs the discount rule set over a cart. It is pure: no store
// access, no clock reads (now is an input), deterministic for identical
// inputs. Rules run in ascending priority; a non-stackable rule that
// produced a discount stops the run.
func EvaluateRules(cart []CartLine, rules []entity.PricingRule, customer *CustomerContext, now time.Time) *EvalResult {
	result := &EvalResult{
		Subtotal:      decimal.Zero,
		DiscountTotal: decimal.Zero,
	}

	lineAmounts := make([]decimal.Decimal, len(cart))
	lineDiscounts := make([]decimal.Decimal, len(cart))
	for i := range cart {
		lineAmounts[i] = cart[i].Amount()
		lineDiscounts[i] = decimal.Zero
		result.Subtotal = result.Subtotal.Add(lineAmounts[i])
	}

	ordered := make([]entity.PricingRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EffectivePriority() < ordered[j].EffectivePriority()
	})

	for ri := range ordered {
		rule := &ordered[ri]
		if !ruleEligible(rule, cart, result.Subtotal, customer, now) {
			continue
		}

		var applied *AppliedDiscount
		switch rule.Scope {
		case enum.RuleScopeItem:
			if rule.Type == enum.RuleTypeBuyXGetY {
				applied = applyBuyXGetY(rule, cart, lineAmounts, lineDiscounts)
			} else {
				applied = applyItemRule(rule, cart, lineAmounts, lineDiscounts)
			}
		case enum.RuleScopeOrder:
			interim := result.Subtotal.Sub(result.DiscountTotal)
			applied = applyOrderRule(rule, lineAmounts, lineDiscounts, interim)
		}

		if applied == nil {
			continue
		}
		result.Discounts = append(result.Discounts, *applied)
		result.DiscountTotal = result.DiscountTotal.Add(applied.Amount)
		result.FreeLines = append(result.FreeLines, applied.FreeLines...)

		if !rule.Stackable && (applied.Amount.IsPositive() || len(applied.FreeLines) > 0) {
			break
		}
	}

	freeCharged := decimal.Zero
	for i := range result.FreeLines {
		freeCharged = freeCharged.Add(result.FreeLines[i].Amount())
	}
	result.FinalTotal = money.Round2(result.Subtotal.Sub(result.DiscountTotal).Add(freeCharged))

	result.Items = make([]EvaluatedItem, len(cart))
	for i := range cart {
		item := EvaluatedItem{
			Line:           cart[i],
			DiscountAmount: lineDiscounts[i],
		}
		if cart[i].Quantity > 0 {
			net := lineAmounts[i].Sub(lineDiscounts[i])
			item.EffectiveUnitPrice = money.Round2(net.Div(decimal.NewFromInt(int64(cart[i].Quantity))))
		}
		result.Items[i] = item
	}
	return result
}

// ruleEligible evaluates the eligibility gate: enabled flag, [from, until)
// window, day-of-week set, minimum cart subtotal, customer allow-list, and
// any-tag match.
func ruleEligible(rule *entity.PricingRule, cart []CartLine, subtotal decimal.Decimal, customer *CustomerContext, now time.Time) bool {
	if !rule.Enabled {
		return false
	}
	if rule.ValidFrom != nil && now.Before(*rule.ValidFrom) {
		return false
	}
	if rule.ValidUntil != nil && !now.Before(*rule.ValidUntil) {
		return false
	}
	if len(rule.DaysOfWeek) > 0 {
		ok := false
		for _, d := range rule.DaysOfWeek {
			if d == now.Weekday() {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if rule.MinSubtotal.IsPositive() && subtotal.LessThan(rule.MinSubtotal) {
		return false
	}
	if len(rule.CustomerIDs) > 0 {
		if customer == nil || customer.CustomerID == nil {
			return false
		}
		ok := false
		for _, id := range rule.CustomerIDs {
			if id == *customer.CustomerID {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if len(rule.Tags) > 0 {
		ok := false
		for i := range cart {
			for _, lt := range cart[i].Tags {
				for _, rt := range rule.Tags {
					if lt == rt {
						ok = true
					}
				}
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// lineMatches applies the rule selector to one cart line. Empty id sets match
// everything; the exclusion list always wins.
func lineMatches(sel *entity.RuleSelector, line *CartLine) bool {
	for _, id := range sel.ExcludeProductIDs {
		if id == line.ProductID {
			return false
		}
	}
	anyCriteria := false
	if len(sel.ProductIDs) > 0 {
		anyCriteria = true
		for _, id := range sel.ProductIDs {
			if id == line.ProductID {
				return true
			}
		}
	}
	if len(sel.CategoryIDs) > 0 {
		anyCriteria = true
		if line.CategoryID != nil {
			for _, id := range sel.CategoryIDs {
				if id == *line.CategoryID {
					return true
				}
			}
		}
	}
	if len(sel.BrandIDs) > 0 {
		anyCriteria = true
		if line.BrandID != nil {
			for _, id := range sel.BrandIDs {
				if id == *line.BrandID {
					return true
				}
			}
		}
	}
	if sel.SKUContains != "" {
		anyCriteria = true
		if strings.Contains(strings.ToLower(line.SKU), strings.ToLower(sel.SKUContains)) {
			return true
		}
	}
	return !anyCriteria
}

// applyItemRule handles item-scoped PercentOff, AmountOff and PriceOverride.
func applyItemRule(rule *entity.PricingRule, cart []CartLine, lineAmounts, lineDiscounts []decimal.Decimal) *AppliedDiscount {
	var matched []int
	matchedSubtotal := decimal.Zero
	for i := range cart {
		if lineMatches(&rule.Selector, &cart[i]) {
			matched = append(matched, i)
			matchedSubtotal = matchedSubtotal.Add(lineAmounts[i])
		}
	}
	if len(matched) == 0 || !matchedSubtotal.IsPositive() {
		return nil
	}

	applied := &AppliedDiscount{RuleID: rule.ID, Name: rule.Name, Amount: decimal.Zero}

	switch rule.Type {
	case enum.RuleTypePercentOff:
		for _, i := range matched {
			d := money.Percent(lineAmounts[i], rule.Percent)
			d = capLineDiscount(d, lineAmounts[i], lineDiscounts[i])
			addShare(applied, lineDiscounts, i, d)
		}

	case enum.RuleTypeAmountOff:
		// Distributed proportionally to each line's share of the matched
		// subtotal; the last matched line absorbs the rounding remainder.
		total := money.Min(rule.Amount, matchedSubtotal)
		distributed := decimal.Zero
		for n, i := range matched {
			var d decimal.Decimal
			if n == len(matched)-1 {
				d = total.Sub(distributed)
			} else {
				d = money.Round2(total.Mul(lineAmounts[i]).Div(matchedSubtotal))
			}
			d = capLineDiscount(d, lineAmounts[i], lineDiscounts[i])
			distributed = distributed.Add(d)
			addShare(applied, lineDiscounts, i, d)
		}

	case enum.RuleTypePriceOverride:
		for _, i := range matched {
			perUnit := money.NonNegative(cart[i].UnitPrice.Sub(rule.OverridePrice))
			d := money.Round2(perUnit.Mul(decimal.NewFromInt(int64(cart[i].Quantity))))
			d = capLineDiscount(d, lineAmounts[i], lineDiscounts[i])
			addShare(applied, lineDiscounts, i, d)
		}
	}

	if applied.Amount.IsZero() {
		return nil
	}
	return applied
}

// applyBuyXGetY handles the buy-X-get-Y mechanic. Same-product benefits
// become per-item discounts; different-product benefits become synthesized
// free lines appended to the result.
func applyBuyXGetY(rule *entity.PricingRule, cart []CartLine, lineAmounts, lineDiscounts []decimal.Decimal) *AppliedDiscount {
	bxgy := rule.BXGY
	if bxgy == nil || bxgy.BuyQty <= 0 || bxgy.GetQty <= 0 {
		return nil
	}

	applied := &AppliedDiscount{RuleID: rule.ID, Name: rule.Name, Amount: decimal.Zero}

	for i := range cart {
		if !lineMatches(&rule.Selector, &cart[i]) {
			continue
		}
		apps := cart[i].Quantity / bxgy.BuyQty
		if bxgy.OncePerOrder && apps > 1 {
			apps = 1
		}
		if bxgy.MaxApplications > 0 && apps > bxgy.MaxApplications {
			apps = bxgy.MaxApplications
		}
		if apps == 0 {
			continue
		}

		benefitQty := bxgy.GetQty * apps
		if bxgy.GetProductID == uuid.Nil {
			// Benefit applies to the matching line itself.
			units := decimal.NewFromInt(int64(benefitQty))
			d := money.Percent(cart[i].UnitPrice.Mul(units), bxgy.GetDiscountPct)
			d = capLineDiscount(d, lineAmounts[i], lineDiscounts[i])
			addShare(applied, lineDiscounts, i, d)
		} else {
			applied.FreeLines = append(applied.FreeLines, FreeLine{
				ProductID: bxgy.GetProductID,
				Name:      bxgy.GetProductName,
				Quantity:  benefitQty,
				UnitPrice: bxgy.GetUnitPrice,
			})
		}
	}

	if applied.Amount.IsZero() && len(applied.FreeLines) == 0 {
		return nil
	}
	return applied
}

// applyOrderRule handles order-scoped PercentOff and AmountOff against the
// interim total, distributing the discount across all lines proportionally
// with the last line absorbing the rounding remainder so the shares sum to
// the discount exactly to the cent.
func applyOrderRule(rule *entity.PricingRule, lineAmounts, lineDiscounts []decimal.Decimal, interim decimal.Decimal) *AppliedDiscount {
	if !interim.IsPositive() || len(lineAmounts) == 0 {
		return nil
	}

	var total decimal.Decimal
	switch rule.Type {
	case enum.RuleTypePercentOff:
		total = money.Percent(interim, rule.Percent)
	case enum.RuleTypeAmountOff:
		total = money.Min(rule.Amount, interim)
	default:
		return nil
	}
	if !total.IsPositive() {
		return nil
	}

	applied := &AppliedDiscount{RuleID: rule.ID, Name: rule.Name, Amount: decimal.Zero}
	distributed := decimal.Zero
	for i := range lineAmounts {
		remainingOnLine := lineAmounts[i].Sub(lineDiscounts[i])
		var d decimal.Decimal
		if i == len(lineAmounts)-1 {
			d = total.Sub(distributed)
		} else {
			d = money.Round2(total.Mul(remainingOnLine).Div(interim))
		}
		if d.GreaterThan(remainingOnLine) {
			d = remainingOnLine
		}
		if d.IsNegative() {
			d = decimal.Zero
		}
		distributed = distributed.Add(d)
		addShare(applied, lineDiscounts, i, d)
	}

	if applied.Amount.IsZero() {
		return nil
	}
	return applied
}

func capLineDiscount(d, lineAmount, already decimal.Decimal) decimal.Decimal {
	remaining := lineAmount.Sub(already)
	if d.GreaterThan(remaining) {
		d = remaining
	}
	return money.NonNegative(d)
}

func addShare(applied *AppliedDiscount, lineDiscounts []decimal.Decimal, i int, d decimal.Decimal) {
	if !d.IsPositive() {
		return
	}
	lineDiscounts[i] = lineDiscounts[i].Add(d)
	applied.Amount = applied.Amount.Add(d)
	applied.PerItem = append(applied.PerItem, ItemDiscountShare{LineIndex: i, Amount: d})
}
