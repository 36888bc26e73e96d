package statemachine

import (
	"errors"
	"strings"

	"pedidos-api/models"
)

// Actor identifies who is attempting a transition.
type Actor string

const (
	ActorRestaurant Actor = "restaurant"
	ActorDriver     Actor = "driver"
	ActorAdmin      Actor = "admin"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

// validTransitions is the authoritative state machine definition.
// Forward-only: terminal states have no outgoing edges, so a cancelled or
// delivered order can never be resurrected.
var validTransitions = []Transition{
	// Restaurant claims a web order or marks an internal order ready
	{From: models.StatusPending, To: models.StatusAvailable, Actor: ActorRestaurant},
	// Driver accepts; the same write assigns the driver reference
	{From: models.StatusAvailable, To: models.StatusAccepted, Actor: ActorDriver},
	// Assigned driver advances to delivery
	{From: models.StatusAccepted, To: models.StatusEnRoute, Actor: ActorDriver},
	{From: models.StatusEnRoute, To: models.StatusDelivered, Actor: ActorDriver},
	// Owning restaurant or admin can cancel any non-terminal order
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorRestaurant},
	{From: models.StatusAvailable, To: models.StatusCancelled, Actor: ActorRestaurant},
	{From: models.StatusAccepted, To: models.StatusCancelled, Actor: ActorRestaurant},
	{From: models.StatusEnRoute, To: models.StatusCancelled, Actor: ActorRestaurant},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorAdmin},
	{From: models.StatusAvailable, To: models.StatusCancelled, Actor: ActorAdmin},
	{From: models.StatusAccepted, To: models.StatusCancelled, Actor: ActorAdmin},
	{From: models.StatusEnRoute, To: models.StatusCancelled, Actor: ActorAdmin},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor Actor) error {
	key := transitionKey{From: from, To: to, Actor: actor}
	if transitionMap[key] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " -> " + string(to) +
			" is not allowed for actor '" + string(actor) + "'. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}

// legacyTokens maps every status spelling the old dashboards ever stored to
// its canonical value. The dropped "recogido" checkpoint folds into EN_ROUTE.
var legacyTokens = map[string]models.OrderStatus{
	"pending":          models.StatusPending,
	"pendiente":        models.StatusPending,
	"available":        models.StatusAvailable,
	"ready_for_pickup": models.StatusAvailable,
	"listo":            models.StatusAvailable,
	"accepted":         models.StatusAccepted,
	"aceptado":         models.StatusAccepted,
	"en_route":         models.StatusEnRoute,
	"en_camino":        models.StatusEnRoute,
	"en camino":        models.StatusEnRoute,
	"recogido":         models.StatusEnRoute,
	"delivered":        models.StatusDelivered,
	"entregado":        models.StatusDelivered,
	"completed":        models.StatusDelivered,
	"cancelled":        models.StatusCancelled,
	"cancelado":        models.StatusCancelled,
}

// ParseStatus canonicalizes a status token from any client or legacy record.
// Returns an error for unknown tokens; two spellings of one state are never
// stored.
func ParseStatus(raw string) (models.OrderStatus, error) {
	if s, ok := legacyTokens[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s, nil
	}
	return "", errors.New("unknown order status: " + raw)
}
