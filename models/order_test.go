package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecomputeTotal(t *testing.T) {
	o := Order{
		Items: []OrderItem{
			{Name: "Pizza", Quantity: 1, UnitPrice: 50000},
			{Name: "Soda", Quantity: 2, UnitPrice: 5000},
		},
		DeliveryFee: 10000,
	}
	o.RecomputeTotal()
	assert.Equal(t, 70000.0, o.Total)

	// Fee edit re-derives from the stored items
	o.DeliveryFee = 15000
	o.RecomputeTotal()
	assert.Equal(t, 75000.0, o.Total)
}

func TestRecomputeTotal_NoItems(t *testing.T) {
	o := Order{DeliveryFee: 8000}
	o.RecomputeTotal()
	assert.Equal(t, 8000.0, o.Total)
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusEnRoute.Terminal())
}

func TestStatusDisplayName(t *testing.T) {
	assert.Equal(t, "Pendiente", StatusPending.DisplayName())
	assert.Equal(t, "En camino", StatusEnRoute.DisplayName())
	assert.Equal(t, "Entregado", StatusDelivered.DisplayName())
	assert.Equal(t, "Cancelado", StatusCancelled.DisplayName())
}
