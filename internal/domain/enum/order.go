package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// OrderStatus represents the settlement status of an order
type OrderStatus int

const (
	OrderStatusUnpaid        OrderStatus = 0
	OrderStatusPartiallyPaid OrderStatus = 1
	OrderStatusPaid          OrderStatus = 2
	OrderStatusCancelled     OrderStatus = 3
)

func (s OrderStatus) String() string {
	return [...]string{"Unpaid", "PartiallyPaid", "Paid", "Cancelled"}[s]
}

// CanTransitionTo reports whether the order status transition is legal.
// Paid and Cancelled are terminal; Cancelled is reachable only from Unpaid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusUnpaid:
		return next == OrderStatusPartiallyPaid || next == OrderStatusPaid || next == OrderStatusCancelled
	case OrderStatusPartiallyPaid:
		return next == OrderStatusPartiallyPaid || next == OrderStatusPaid
	default:
		return false
	}
}

// Settleable reports whether a payment may still be applied to this status.
func (s OrderStatus) Settleable() bool {
	return s == OrderStatusUnpaid || s == OrderStatusPartiallyPaid
}

func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = OrderStatus(i)
		return nil
	}
	switch str {
	case "Unpaid":
		*s = OrderStatusUnpaid
	case "PartiallyPaid":
		*s = OrderStatusPartiallyPaid
	case "Paid":
		*s = OrderStatusPaid
	case "Cancelled":
		*s = OrderStatusCancelled
	}
	return nil
}

func (s OrderStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *OrderStatus) Scan(value interface{}) error {
	if value == nil {
		*s = OrderStatusUnpaid
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = OrderStatus(v)
	case int:
		*s = OrderStatus(v)
	}
	return nil
}

// OrderChannel distinguishes where an order is fulfilled
type OrderChannel int

const (
	OrderChannelCounter  OrderChannel = 0
	OrderChannelDelivery OrderChannel = 1
)

func (c OrderChannel) String() string {
	return [...]string{"Counter", "Delivery"}[c]
}

func (c OrderChannel) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *OrderChannel) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*c = OrderChannel(i)
		return nil
	}
	switch str {
	case "Counter":
		*c = OrderChannelCounter
	case "Delivery":
		*c = OrderChannelDelivery
	}
	return nil
}

func (c OrderChannel) Value() (driver.Value, error) {
	return int64(c), nil
}

func (c *OrderChannel) Scan(value interface{}) error {
	if value == nil {
		*c = OrderChannelCounter
		return nil
	}
	switch v := value.(type) {
	case int64:
		*c = OrderChannel(v)
	case int:
		*c = OrderChannel(v)
	}
	return nil
}
