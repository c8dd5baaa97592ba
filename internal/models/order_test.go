package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidTransition(t *testing.T) {
	allowed := map[OrderStatus][]OrderStatus{
		OrderStatusPending:    {OrderStatusProcessing, OrderStatusCompleted, OrderStatusFailed, OrderStatusRefunded},
		OrderStatusProcessing: {OrderStatusCompleted, OrderStatusFailed},
		OrderStatusFailed:     {OrderStatusRefunded},
		OrderStatusCompleted:  {},
		OrderStatusRefunded:   {},
	}

	all := []OrderStatus{
		OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted,
		OrderStatusFailed, OrderStatusRefunded,
	}

	for from, targets := range allowed {
		permitted := make(map[OrderStatus]bool, len(targets))
		for _, to := range targets {
			permitted[to] = true
		}
		for _, to := range all {
			assert.Equal(t, permitted[to], ValidTransition(from, to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestSameStatusIsNeverATransition(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted,
		OrderStatusFailed, OrderStatusRefunded,
	} {
		assert.False(t, ValidTransition(s, s))
	}
}

func TestTerminal(t *testing.T) {
	assert.True(t, OrderStatusCompleted.Terminal())
	assert.True(t, OrderStatusRefunded.Terminal())
	assert.False(t, OrderStatusPending.Terminal())
	assert.False(t, OrderStatusProcessing.Terminal())
	assert.False(t, OrderStatusFailed.Terminal())
}

func TestValidOrderStatus(t *testing.T) {
	assert.True(t, ValidOrderStatus(OrderStatusPending))
	assert.False(t, ValidOrderStatus("shipped"))
}
