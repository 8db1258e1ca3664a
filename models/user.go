package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer   UserRole = "customer"
	RoleRestaurant UserRole = "restaurant"
)

// Valid reports whether r is one of the roles a user can register with
func (r UserRole) Valid() bool {
	return r == RoleCustomer || r == RoleRestaurant
}

type User struct {
	ID           uint                 `json:"id" gorm:"primaryKey"`
	Name         string               `json:"name" gorm:"not null"`
	Email        string               `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string               `json:"-" gorm:"not null"`
	Phone        string               `json:"phone"`
	Role         UserRole             `json:"role" gorm:"not null;default:'customer'"`
	RestaurantID *uint                `json:"restaurant_id"`
	Restrictions []DietaryRestriction `json:"-" gorm:"many2many:user_dietary_restrictions;"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}
