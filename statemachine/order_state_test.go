package statemachine

import (
	"testing"

	"pedidos-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition_HappyPath(t *testing.T) {
	steps := []struct {
		from, to models.OrderStatus
		actor    Actor
	}{
		{models.StatusPending, models.StatusAvailable, ActorRestaurant},
		{models.StatusAvailable, models.StatusAccepted, ActorDriver},
		{models.StatusAccepted, models.StatusEnRoute, ActorDriver},
		{models.StatusEnRoute, models.StatusDelivered, ActorDriver},
	}
	for _, s := range steps {
		assert.NoError(t, CanTransition(s.from, s.to, s.actor),
			"%s -> %s by %s should be allowed", s.from, s.to, s.actor)
	}
}

func TestCanTransition_ForwardOnly(t *testing.T) {
	// No resurrecting terminal orders
	assert.Error(t, CanTransition(models.StatusDelivered, models.StatusAccepted, ActorDriver))
	assert.Error(t, CanTransition(models.StatusCancelled, models.StatusAvailable, ActorRestaurant))
	assert.Error(t, CanTransition(models.StatusDelivered, models.StatusCancelled, ActorAdmin))
	// No skipping forward
	assert.Error(t, CanTransition(models.StatusPending, models.StatusAccepted, ActorDriver))
	assert.Error(t, CanTransition(models.StatusAvailable, models.StatusDelivered, ActorDriver))
}

func TestCanTransition_ActorScoped(t *testing.T) {
	// Only a restaurant claims
	assert.Error(t, CanTransition(models.StatusPending, models.StatusAvailable, ActorDriver))
	// Only a driver accepts and advances
	assert.Error(t, CanTransition(models.StatusAvailable, models.StatusAccepted, ActorRestaurant))
	assert.Error(t, CanTransition(models.StatusAccepted, models.StatusEnRoute, ActorAdmin))
	// Drivers never cancel
	assert.Error(t, CanTransition(models.StatusAccepted, models.StatusCancelled, ActorDriver))
}

func TestCanTransition_CancelFromAnyNonTerminal(t *testing.T) {
	for _, from := range []models.OrderStatus{
		models.StatusPending, models.StatusAvailable, models.StatusAccepted, models.StatusEnRoute,
	} {
		assert.NoError(t, CanTransition(from, models.StatusCancelled, ActorRestaurant))
		assert.NoError(t, CanTransition(from, models.StatusCancelled, ActorAdmin))
	}
}

func TestValidTransitionsFrom(t *testing.T) {
	assert.ElementsMatch(t,
		[]models.OrderStatus{models.StatusAvailable, models.StatusCancelled},
		ValidTransitionsFrom(models.StatusPending))
	assert.Empty(t, ValidTransitionsFrom(models.StatusDelivered))
	assert.Empty(t, ValidTransitionsFrom(models.StatusCancelled))
}

func TestParseStatus_LegacyTokens(t *testing.T) {
	cases := map[string]models.OrderStatus{
		"Pendiente":        models.StatusPending,
		"available":        models.StatusAvailable,
		"ready_for_pickup": models.StatusAvailable,
		"accepted":         models.StatusAccepted,
		"en_camino":        models.StatusEnRoute,
		"En camino":        models.StatusEnRoute,
		"recogido":         models.StatusEnRoute,
		"Entregado":        models.StatusDelivered,
		"completed":        models.StatusDelivered,
		"Cancelado":        models.StatusCancelled,
		"EN_ROUTE":         models.StatusEnRoute,
	}
	for raw, want := range cases {
		got, err := ParseStatus(raw)
		require.NoError(t, err, "token %q", raw)
		assert.Equal(t, want, got, "token %q", raw)
	}
}

func TestParseStatus_Unknown(t *testing.T) {
	_, err := ParseStatus("preparing")
	assert.Error(t, err)
	_, err = ParseStatus("")
	assert.Error(t, err)
}
