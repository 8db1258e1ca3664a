package models

import "time"

// PickupSlot is a window in which a restaurant accepts up to MaxOrders
// non-cancelled orders. Booking counts are derived, never stored.
type PickupSlot struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	RestaurantID uint      `json:"restaurant_id" gorm:"not null;index"`
	SlotStart    time.Time `json:"slot_start" gorm:"not null;index"`
	SlotEnd      time.Time `json:"slot_end" gorm:"not null"`
	MaxOrders    int       `json:"max_orders" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// SlotAvailability is a slot annotated with its current booking count
type SlotAvailability struct {
	PickupSlot
	CurrentOrders  int `json:"current_orders"`
	AvailableSlots int `json:"available_slots"`
}
