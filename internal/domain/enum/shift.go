package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ShiftStatus represents the cashier shift lifecycle
type ShiftStatus int

const (
	// ShiftStatusPendingAccept: manager declared an opening float, cashier
	// has not verified the drawer yet.
	ShiftStatusPendingAccept   ShiftStatus = 0
	ShiftStatusOpen            ShiftStatus = 1
	ShiftStatusOpeningDisputed ShiftStatus = 2
	// ShiftStatusSubmitted: closing count handed in, drawer locked.
	ShiftStatusSubmitted   ShiftStatus = 3
	ShiftStatusFinalClosed ShiftStatus = 4
)

func (s ShiftStatus) String() string {
	return [...]string{"PendingAccept", "Open", "OpeningDisputed", "Submitted", "FinalClosed"}[s]
}

// CanTransitionTo reports whether the shift status transition is legal.
func (s ShiftStatus) CanTransitionTo(next ShiftStatus) bool {
	switch s {
	case ShiftStatusPendingAccept:
		return next == ShiftStatusOpen || next == ShiftStatusOpeningDisputed
	case ShiftStatusOpen:
		return next == ShiftStatusSubmitted
	case ShiftStatusOpeningDisputed:
		// A manager corrects the float; the cashier recounts from scratch.
		return next == ShiftStatusPendingAccept
	case ShiftStatusSubmitted:
		return next == ShiftStatusFinalClosed
	default:
		return false
	}
}

// Writable reports whether drawer transactions and sale payments may still
// be posted to this shift.
func (s ShiftStatus) Writable() bool {
	return s == ShiftStatusOpen
}

func (s ShiftStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ShiftStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ShiftStatus(i)
		return nil
	}
	switch str {
	case "PendingAccept":
		*s = ShiftStatusPendingAccept
	case "Open":
		*s = ShiftStatusOpen
	case "OpeningDisputed":
		*s = ShiftStatusOpeningDisputed
	case "Submitted":
		*s = ShiftStatusSubmitted
	case "FinalClosed":
		*s = ShiftStatusFinalClosed
	}
	return nil
}

func (s ShiftStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ShiftStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ShiftStatusPendingAccept
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = ShiftStatus(v)
	case int:
		*s = ShiftStatus(v)
	}
	return nil
}
