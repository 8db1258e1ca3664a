package models

import (
	"math"
	"time"
)

type Restaurant struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OwnerID     uint      `json:"owner_id" gorm:"uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"not null"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	CuisineType string    `json:"cuisine_type"`
	Description string    `json:"description"`
	Rating      float64   `json:"rating" gorm:"default:0"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Foods       []Food    `json:"foods,omitempty" gorm:"foreignKey:RestaurantID"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Food is a surplus item a restaurant sells at a discount during its pickup window
type Food struct {
	ID                uint                 `json:"id" gorm:"primaryKey"`
	RestaurantID      uint                 `json:"restaurant_id" gorm:"not null;index"`
	Name              string               `json:"name" gorm:"not null"`
	Description       string               `json:"description"`
	Price             float64              `json:"price" gorm:"not null"`
	DiscountPercent   float64              `json:"discount_percent" gorm:"not null;default:0"`
	PhotoURL          string               `json:"photo_url"`
	AvailableQuantity int                  `json:"available_quantity" gorm:"not null;default:0"`
	PickupStart       time.Time            `json:"pickup_start"`
	PickupEnd         time.Time            `json:"pickup_end"`
	Restrictions      []DietaryRestriction `json:"dietary_compliance" gorm:"many2many:food_dietary_compliance;"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// SalePrice is the list price after the discount, rounded to cents
func (f Food) SalePrice() float64 {
	return RoundCents(f.Price * (100 - f.DiscountPercent) / 100)
}

// Complies reports whether the food carries every one of the given restriction ids
func (f Food) Complies(restrictionIDs []uint) bool {
	have := make(map[uint]bool, len(f.Restrictions))
	for _, r := range f.Restrictions {
		have[r.ID] = true
	}
	for _, id := range restrictionIDs {
		if !have[id] {
			return false
		}
	}
	return true
}

func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
