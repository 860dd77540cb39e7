package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentMethod represents how a payment was made
type PaymentMethod int

const (
	PaymentMethodCash PaymentMethod = 0
	// PaymentMethodInternalCredit is a non-cash ledger entry, e.g. the rider
	// shortage bridge. It never moves drawer cash.
	PaymentMethodInternalCredit PaymentMethod = 1
)

func (m PaymentMethod) String() string {
	return [...]string{"Cash", "InternalCredit"}[m]
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*m = PaymentMethod(i)
		return nil
	}
	switch str {
	case "Cash":
		*m = PaymentMethodCash
	case "InternalCredit":
		*m = PaymentMethodInternalCredit
	}
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*m = PaymentMethodCash
		return nil
	}
	switch v := value.(type) {
	case int64:
		*m = PaymentMethod(v)
	case int:
		*m = PaymentMethod(v)
	}
	return nil
}

// DrawerTxnType classifies a cash drawer transaction
type DrawerTxnType int

const (
	DrawerTxnCashIn  DrawerTxnType = 0
	DrawerTxnCashOut DrawerTxnType = 1
	DrawerTxnDrop    DrawerTxnType = 2
)

func (t DrawerTxnType) String() string {
	return [...]string{"CashIn", "CashOut", "Drop"}[t]
}

// Outflow reports whether this transaction removes cash from the drawer.
func (t DrawerTxnType) Outflow() bool {
	return t == DrawerTxnCashOut || t == DrawerTxnDrop
}

func (t DrawerTxnType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *DrawerTxnType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = DrawerTxnType(i)
		return nil
	}
	switch str {
	case "CashIn":
		*t = DrawerTxnCashIn
	case "CashOut":
		*t = DrawerTxnCashOut
	case "Drop":
		*t = DrawerTxnDrop
	}
	return nil
}

func (t DrawerTxnType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *DrawerTxnType) Scan(value interface{}) error {
	if value == nil {
		*t = DrawerTxnCashIn
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = DrawerTxnType(v)
	case int:
		*t = DrawerTxnType(v)
	}
	return nil
}
