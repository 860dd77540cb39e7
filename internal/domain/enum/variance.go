package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// VarianceStatus represents the review state of a rider run variance
type VarianceStatus int

const (
	VarianceStatusOpen            VarianceStatus = 0
	VarianceStatusManagerApproved VarianceStatus = 1
	VarianceStatusWaived          VarianceStatus = 2
	VarianceStatusRiderAccepted   VarianceStatus = 3
	VarianceStatusClosed          VarianceStatus = 4
)

func (s VarianceStatus) String() string {
	return [...]string{"Open", "ManagerApproved", "Waived", "RiderAccepted", "Closed"}[s]
}

// Decidable reports whether a manager may (re-)decide this variance.
// Re-deciding a ManagerApproved variance never duplicates a charge; the
// charge upsert is keyed by variance id.
func (s VarianceStatus) Decidable() bool {
	return s == VarianceStatusOpen || s == VarianceStatusManagerApproved
}

// Terminal reports whether the variance needs no further action.
func (s VarianceStatus) Terminal() bool {
	return s == VarianceStatusWaived || s == VarianceStatusRiderAccepted || s == VarianceStatusClosed
}

func (s VarianceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *VarianceStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = VarianceStatus(i)
		return nil
	}
	switch str {
	case "Open":
		*s = VarianceStatusOpen
	case "ManagerApproved":
		*s = VarianceStatusManagerApproved
	case "Waived":
		*s = VarianceStatusWaived
	case "RiderAccepted":
		*s = VarianceStatusRiderAccepted
	case "Closed":
		*s = VarianceStatusClosed
	}
	return nil
}

func (s VarianceStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *VarianceStatus) Scan(value interface{}) error {
	if value == nil {
		*s = VarianceStatusOpen
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = VarianceStatus(v)
	case int:
		*s = VarianceStatus(v)
	}
	return nil
}

// VarianceResolution is the manager's disposition of a variance
type VarianceResolution int

const (
	ResolutionChargeRider VarianceResolution = 0
	ResolutionWaive       VarianceResolution = 1
	ResolutionInfoOnly    VarianceResolution = 2
)

func (r VarianceResolution) String() string {
	return [...]string{"ChargeRider", "Waive", "InfoOnly"}[r]
}

func (r VarianceResolution) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *VarianceResolution) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*r = VarianceResolution(i)
		return nil
	}
	switch str {
	case "ChargeRider":
		*r = ResolutionChargeRider
	case "Waive":
		*r = ResolutionWaive
	case "InfoOnly":
		*r = ResolutionInfoOnly
	}
	return nil
}

func (r VarianceResolution) Value() (driver.Value, error) {
	return int64(r), nil
}

func (r *VarianceResolution) Scan(value interface{}) error {
	if value == nil {
		*r = ResolutionInfoOnly
		return nil
	}
	switch v := value.(type) {
	case int64:
		*r = VarianceResolution(v)
	case int:
		*r = VarianceResolution(v)
	}
	return nil
}

// ChargeStatus represents the settlement state of a rider charge
type ChargeStatus int

const (
	ChargeStatusOpen             ChargeStatus = 0
	ChargeStatusPartiallySettled ChargeStatus = 1
	ChargeStatusSettled          ChargeStatus = 2
	ChargeStatusWaived           ChargeStatus = 3
)

func (s ChargeStatus) String() string {
	return [...]string{"Open", "PartiallySettled", "Settled", "Waived"}[s]
}

// Outstanding reports whether the rider still owes on this charge.
func (s ChargeStatus) Outstanding() bool {
	return s == ChargeStatusOpen || s == ChargeStatusPartiallySettled
}

func (s ChargeStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ChargeStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ChargeStatus(i)
		return nil
	}
	switch str {
	case "Open":
		*s = ChargeStatusOpen
	case "PartiallySettled":
		*s = ChargeStatusPartiallySettled
	case "Settled":
		*s = ChargeStatusSettled
	case "Waived":
		*s = ChargeStatusWaived
	}
	return nil
}

func (s ChargeStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ChargeStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ChargeStatusOpen
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = ChargeStatus(v)
	case int:
		*s = ChargeStatus(v)
	}
	return nil
}
