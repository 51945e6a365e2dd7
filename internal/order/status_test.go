package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusPreparation, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusDelivered, false},
		{StatusPreparation, StatusOnTheWay, true},
		{StatusPreparation, StatusCancelled, true},
		{StatusPreparation, StatusPending, false},
		{StatusOnTheWay, StatusDelivered, true},
		{StatusOnTheWay, StatusCancelled, true},
		{StatusOnTheWay, StatusPreparation, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusDelivered, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusDelivered, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusPreparation.Terminal())
	assert.False(t, StatusOnTheWay.Terminal())
}

func TestCanCancelSet(t *testing.T) {
	// Canonical cancelable set: pending and preparation only.
	assert.True(t, StatusPending.CanCancel())
	assert.True(t, StatusPreparation.CanCancel())
	assert.False(t, StatusOnTheWay.CanCancel())
	assert.False(t, StatusDelivered.CanCancel())
	assert.False(t, StatusCancelled.CanCancel())
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusOnTheWay.Valid())
	assert.False(t, Status("shipped").Valid())
	assert.False(t, Status("").Valid())
}

func TestPaymentStatusTerminal(t *testing.T) {
	assert.True(t, PaymentPaid.Terminal())
	assert.False(t, PaymentUnpaid.Terminal())
}

func TestPaymentMethodRedirect(t *testing.T) {
	assert.True(t, MethodKhalti.RequiresRedirect())
	assert.True(t, MethodEsewa.RequiresRedirect())
	assert.False(t, MethodCOD.RequiresRedirect())
}
