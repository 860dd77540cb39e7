package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// UnitKind distinguishes the two pricing pools a product sells from
type UnitKind int

const (
	UnitKindRetail UnitKind = 0
	UnitKindPack   UnitKind = 1
)

func (k UnitKind) String() string {
	return [...]string{"Retail", "Pack"}[k]
}

func (k UnitKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *UnitKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*k = UnitKind(i)
		return nil
	}
	switch str {
	case "Retail":
		*k = UnitKindRetail
	case "Pack":
		*k = UnitKindPack
	}
	return nil
}

func (k UnitKind) Value() (driver.Value, error) {
	return int64(k), nil
}

func (k *UnitKind) Scan(value interface{}) error {
	if value == nil {
		*k = UnitKindRetail
		return nil
	}
	switch v := value.(type) {
	case int64:
		*k = UnitKind(v)
	case int:
		*k = UnitKind(v)
	}
	return nil
}

// PricePolicy records which pricing source a settled line was audited against
type PricePolicy int

const (
	PricePolicyBase    PricePolicy = 0
	PricePolicyPerItem PricePolicy = 1
)

func (p PricePolicy) String() string {
	return [...]string{"Base", "PerItem"}[p]
}

func (p PricePolicy) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *PricePolicy) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*p = PricePolicy(i)
		return nil
	}
	switch str {
	case "Base":
		*p = PricePolicyBase
	case "PerItem":
		*p = PricePolicyPerItem
	}
	return nil
}

func (p PricePolicy) Value() (driver.Value, error) {
	return int64(p), nil
}

func (p *PricePolicy) Scan(value interface{}) error {
	if value == nil {
		*p = PricePolicyBase
		return nil
	}
	switch v := value.(type) {
	case int64:
		*p = PricePolicy(v)
	case int:
		*p = PricePolicy(v)
	}
	return nil
}

// CustomerPriceMode is how a customer-specific price rule adjusts the base price
type CustomerPriceMode int

const (
	PriceModeFixedPrice      CustomerPriceMode = 0
	PriceModeFixedDiscount   CustomerPriceMode = 1
	PriceModePercentDiscount CustomerPriceMode = 2
)

func (m CustomerPriceMode) String() string {
	return [...]string{"FixedPrice", "FixedDiscount", "PercentDiscount"}[m]
}

func (m CustomerPriceMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *CustomerPriceMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*m = CustomerPriceMode(i)
		return nil
	}
	switch str {
	case "FixedPrice":
		*m = PriceModeFixedPrice
	case "FixedDiscount":
		*m = PriceModeFixedDiscount
	case "PercentDiscount":
		*m = PriceModePercentDiscount
	}
	return nil
}

func (m CustomerPriceMode) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *CustomerPriceMode) Scan(value interface{}) error {
	if value == nil {
		*m = PriceModeFixedPrice
		return nil
	}
	switch v := value.(type) {
	case int64:
		*m = CustomerPriceMode(v)
	case int:
		*m = CustomerPriceMode(v)
	}
	return nil
}

// RuleScope is whether a pricing rule applies per matching item or to the order
type RuleScope int

const (
	RuleScopeItem  RuleScope = 0
	RuleScopeOrder RuleScope = 1
)

func (s RuleScope) String() string {
	return [...]string{"Item", "Order"}[s]
}

func (s RuleScope) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *RuleScope) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = RuleScope(i)
		return nil
	}
	switch str {
	case "Item":
		*s = RuleScopeItem
	case "Order":
		*s = RuleScopeOrder
	}
	return nil
}

func (s RuleScope) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *RuleScope) Scan(value interface{}) error {
	if value == nil {
		*s = RuleScopeItem
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = RuleScope(v)
	case int:
		*s = RuleScope(v)
	}
	return nil
}

// RuleType is the discount mechanic a pricing rule applies
type RuleType int

const (
	RuleTypePercentOff    RuleType = 0
	RuleTypeAmountOff     RuleType = 1
	RuleTypePriceOverride RuleType = 2
	RuleTypeBuyXGetY      RuleType = 3
)

func (t RuleType) String() string {
	return [...]string{"PercentOff", "AmountOff", "PriceOverride", "BuyXGetY"}[t]
}

func (t RuleType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *RuleType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = RuleType(i)
		return nil
	}
	switch str {
	case "PercentOff":
		*t = RuleTypePercentOff
	case "AmountOff":
		*t = RuleTypeAmountOff
	case "PriceOverride":
		*t = RuleTypePriceOverride
	case "BuyXGetY":
		*t = RuleTypeBuyXGetY
	}
	return nil
}

func (t RuleType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *RuleType) Scan(value interface{}) error {
	if value == nil {
		*t = RuleTypePercentOff
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = RuleType(v)
	case int:
		*t = RuleType(v)
	}
	return nil
}
