package store

import "errors"

// Sentinel errors returned (wrapped) by store operations. Handlers map them
// to HTTP status codes with errors.Is.
var (
	ErrNotFound             = errors.New("not found")
	ErrInvalid              = errors.New("invalid input")
	ErrEmailTaken           = errors.New("email already registered")
	ErrSlotFull             = errors.New("pickup slot is full")
	ErrSlotInUse            = errors.New("pickup slot has orders")
	ErrInsufficientQuantity = errors.New("insufficient quantity")
	ErrNotCancellable       = errors.New("order cannot be cancelled")
	ErrInvalidTransition    = errors.New("order status change not allowed")
	ErrRestaurantExists     = errors.New("restaurant already exists for this account")
)
