package statemachine

import (
	"fmt"
	"strings"

	"surplus-food-api/models"
)

// Actors that drive order transitions
const (
	ActorCustomer   = "customer"
	ActorRestaurant = "restaurant"
)

// Transition defines a forward step in the pickup order lifecycle and who drives it
type Transition struct {
	From  models.OrderStatus `json:"from"`
	To    models.OrderStatus `json:"to"`
	Actor string             `json:"actor"`
}

// lifecycle is the authoritative flow of an order. Orders only move forward
// or to cancelled; nothing leaves completed or cancelled.
var lifecycle = []Transition{
	{From: models.StatusPending, To: models.StatusConfirmed, Actor: ActorRestaurant},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorCustomer},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorRestaurant},
	{From: models.StatusConfirmed, To: models.StatusReady, Actor: ActorRestaurant},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: ActorCustomer},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: ActorRestaurant},
	{From: models.StatusReady, To: models.StatusCompleted, Actor: ActorRestaurant},
	{From: models.StatusReady, To: models.StatusCancelled, Actor: ActorCustomer},
	{From: models.StatusReady, To: models.StatusCancelled, Actor: ActorRestaurant},
}

var statuses = []models.OrderStatus{
	models.StatusPending,
	models.StatusConfirmed,
	models.StatusReady,
	models.StatusCompleted,
	models.StatusCancelled,
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range lifecycle {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// Valid reports whether s is one of the five order statuses
func Valid(s models.OrderStatus) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Statuses returns every valid order status in lifecycle order
func Statuses() []models.OrderStatus {
	out := make([]models.OrderStatus, len(statuses))
	copy(out, statuses)
	return out
}

// Terminal reports whether no further transition leaves s
func Terminal(s models.OrderStatus) bool {
	return len(ValidTransitionsFrom(s)) == 0
}

// CanCancel checks whether a customer may cancel an order in the given status.
// Completed and already-cancelled orders are terminal, so cancelling them
// again would restore inventory twice.
func CanCancel(from models.OrderStatus) error {
	if transitionMap[transitionKey{From: from, To: models.StatusCancelled, Actor: ActorCustomer}] {
		return nil
	}
	return fmt.Errorf("order in status %q cannot be cancelled (valid next states: %s)", from, describeValidFrom(from))
}

// CanTransition checks whether actor may move an order from one status to another
func CanTransition(from, to models.OrderStatus, actor string) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return fmt.Errorf("%s may not move an order from %q to %q (valid next states: %s)",
		actor, from, to, describeValidFrom(from))
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range lifecycle {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	parts := make([]string, len(nexts))
	for i, s := range nexts {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// GetAllTransitions returns the full lifecycle for documentation
func GetAllTransitions() []Transition {
	return lifecycle
}
