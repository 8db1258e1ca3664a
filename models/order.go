package models

import "time"

// OrderStatus represents all possible states of a pickup order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	UserID       uint        `json:"user_id" gorm:"not null;index"`
	Customer     *User       `json:"customer,omitempty" gorm:"foreignKey:UserID"`
	RestaurantID uint        `json:"restaurant_id" gorm:"not null;index"`
	Restaurant   *Restaurant `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	PickupSlotID uint        `json:"pickup_slot_id" gorm:"not null;index"`
	PickupSlot   *PickupSlot `json:"pickup_slot,omitempty" gorm:"foreignKey:PickupSlotID"`
	Status       OrderStatus `json:"status" gorm:"not null;default:'pending'"`
	TotalAmount  float64     `json:"total_amount"`
	Items        []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	OrderID  uint    `json:"order_id" gorm:"not null;index"`
	FoodID   uint    `json:"food_id" gorm:"not null"`
	Quantity int     `json:"quantity" gorm:"not null"`
	Price    float64 `json:"price" gorm:"not null"` // snapshot unit price at time of order
	Name     string  `json:"food_name"`             // snapshot name
}
