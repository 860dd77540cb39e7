package enum_test

import (
	"testing"

	"github.com/sangkips/tindahan-pos/internal/domain/enum"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to enum.OrderStatus
		want     bool
	}{
		{enum.OrderStatusUnpaid, enum.OrderStatusPartiallyPaid, true},
		{enum.OrderStatusUnpaid, enum.OrderStatusPaid, true},
		{enum.OrderStatusUnpaid, enum.OrderStatusCancelled, true},
		{enum.OrderStatusPartiallyPaid, enum.OrderStatusPartiallyPaid, true},
		{enum.OrderStatusPartiallyPaid, enum.OrderStatusPaid, true},
		// Cancellation is only for untouched drafts.
		{enum.OrderStatusPartiallyPaid, enum.OrderStatusCancelled, false},
		// Paid and Cancelled are terminal.
		{enum.OrderStatusPaid, enum.OrderStatusPartiallyPaid, false},
		{enum.OrderStatusPaid, enum.OrderStatusUnpaid, false},
		{enum.OrderStatusCancelled, enum.OrderStatusUnpaid, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestShiftStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to enum.ShiftStatus
		want     bool
	}{
		{enum.ShiftStatusPendingAccept, enum.ShiftStatusOpen, true},
		{enum.ShiftStatusPendingAccept, enum.ShiftStatusOpeningDisputed, true},
		{enum.ShiftStatusOpeningDisputed, enum.ShiftStatusPendingAccept, true},
		{enum.ShiftStatusOpen, enum.ShiftStatusSubmitted, true},
		{enum.ShiftStatusSubmitted, enum.ShiftStatusFinalClosed, true},
		// No skipping the cashier's recount.
		{enum.ShiftStatusPendingAccept, enum.ShiftStatusSubmitted, false},
		{enum.ShiftStatusOpeningDisputed, enum.ShiftStatusOpen, false},
		// Submitted locks the drawer; only the manager close remains.
		{enum.ShiftStatusSubmitted, enum.ShiftStatusOpen, false},
		{enum.ShiftStatusFinalClosed, enum.ShiftStatusOpen, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}
