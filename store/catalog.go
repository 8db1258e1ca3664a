package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"surplus-food-api/geo"
	"surplus-food-api/models"

	"gorm.io/gorm"
)

// RestaurantByOwner fetches the restaurant owned by the given user
func (s *Store) RestaurantByOwner(ctx context.Context, ownerID uint) (*models.Restaurant, error) {
	var r models.Restaurant
	if err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&r).Error; err != nil {
		return nil, notFound(err, "restaurant")
	}
	return &r, nil
}

func (s *Store) RestaurantByID(ctx context.Context, id uint) (*models.Restaurant, error) {
	var r models.Restaurant
	if err := s.db.WithContext(ctx).First(&r, id).Error; err != nil {
		return nil, notFound(err, "restaurant")
	}
	return &r, nil
}

// CreateRestaurant creates the caller's restaurant and links it to the owner account
func (s *Store) CreateRestaurant(ctx context.Context, r *models.Restaurant) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Restaurant{}).Where("owner_id = ?", r.OwnerID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrRestaurantExists
		}
		if err := tx.Omit("Foods").Create(r).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", r.OwnerID).Update("restaurant_id", r.ID).Error
	})
}

// UpdateRestaurant applies a partial update to the owner's restaurant
func (s *Store) UpdateRestaurant(ctx context.Context, ownerID uint, fields map[string]interface{}) (*models.Restaurant, error) {
	r, err := s.RestaurantByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := s.db.WithContext(ctx).Model(r).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return s.RestaurantByOwner(ctx, ownerID)
}

// Inventory returns every food of a restaurant, including sold-out items, newest first
func (s *Store) Inventory(ctx context.Context, restaurantID uint) ([]models.Food, error) {
	foods := []models.Food{}
	err := s.db.WithContext(ctx).
		Preload("Restrictions").
		Where("restaurant_id = ?", restaurantID).
		Order("created_at desc, id desc").
		Find(&foods).Error
	return foods, err
}

// NewFood is a food to insert with the ids of the restrictions it complies with
type NewFood struct {
	Food           models.Food
	RestrictionIDs []uint
}

// AddFoods inserts foods and their dietary tags in one transaction. Any
// invalid entry aborts the whole batch.
func (s *Store) AddFoods(ctx context.Context, restaurantID uint, foods []NewFood) ([]models.Food, error) {
	created := make([]models.Food, 0, len(foods))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range foods {
			food := foods[i].Food
			food.ID = 0
			food.RestaurantID = restaurantID
			if err := validateFood(food); err != nil {
				return err
			}
			tags, err := restrictionsByID(tx, uniqueIDs(foods[i].RestrictionIDs))
			if err != nil {
				return err
			}
			food.Restrictions = nil
			if err := tx.Omit("Restrictions").Create(&food).Error; err != nil {
				return err
			}
			if len(tags) > 0 {
				if err := tx.Model(&food).Association("Restrictions").Append(tags); err != nil {
					return err
				}
			}
			food.Restrictions = tags
			created = append(created, food)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func validateFood(f models.Food) error {
	switch {
	case f.Name == "":
		return fmt.Errorf("%w: food name is required", ErrInvalid)
	case f.Price <= 0:
		return fmt.Errorf("%w: price must be positive", ErrInvalid)
	case f.DiscountPercent < 0 || f.DiscountPercent > 100:
		return fmt.Errorf("%w: discount_percent must be between 0 and 100", ErrInvalid)
	case f.AvailableQuantity < 0:
		return fmt.Errorf("%w: available_quantity must not be negative", ErrInvalid)
	case !f.PickupStart.IsZero() && !f.PickupEnd.IsZero() && !f.PickupEnd.After(f.PickupStart):
		return fmt.Errorf("%w: pickup_end must be after pickup_start", ErrInvalid)
	}
	return nil
}

// DeleteFood removes a food owned by the restaurant along with its tags.
// Past order items keep their name and price snapshot.
func (s *Store) DeleteFood(ctx context.Context, restaurantID, foodID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var food models.Food
		if err := tx.Where("id = ? AND restaurant_id = ?", foodID, restaurantID).First(&food).Error; err != nil {
			return notFound(err, "food item")
		}
		return tx.Select("Restrictions").Delete(&food).Error
	})
}

// MenuItem is an in-stock food annotated with restriction compliance
type MenuItem struct {
	models.Food
	MatchesRestrictions *bool `json:"matches_restrictions,omitempty"`
}

// Menu returns the restaurant's in-stock foods newest first. When
// restrictionIDs is non-empty each item reports whether it carries all of them.
func (s *Store) Menu(ctx context.Context, restaurantID uint, restrictionIDs []uint) ([]MenuItem, error) {
	if _, err := s.RestaurantByID(ctx, restaurantID); err != nil {
		return nil, err
	}
	var foods []models.Food
	err := s.db.WithContext(ctx).
		Preload("Restrictions").
		Where("restaurant_id = ? AND available_quantity > 0", restaurantID).
		Order("created_at desc, id desc").
		Find(&foods).Error
	if err != nil {
		return nil, err
	}
	ids := uniqueIDs(restrictionIDs)
	items := make([]MenuItem, len(foods))
	for i, f := range foods {
		items[i] = MenuItem{Food: f}
		if len(ids) > 0 {
			ok := f.Complies(ids)
			items[i].MatchesRestrictions = &ok
		}
	}
	return items, nil
}

// SearchQuery describes a nearby-restaurant search
type SearchQuery struct {
	Origin         geo.Point
	RadiusKm       float64
	RestrictionIDs []uint
	Limit          int
}

// SearchResult is a restaurant with its distance from the query origin
type SearchResult struct {
	models.Restaurant
	Distance float64 `json:"distance"` // kilometers
}

// SearchRestaurants finds restaurants with stock near the origin, nearest
// first. With restriction ids, a restaurant qualifies only if a single
// in-stock food carries all of them.
func (s *Store) SearchRestaurants(ctx context.Context, q SearchQuery) ([]SearchResult, error) {
	if !q.Origin.Valid() {
		return nil, fmt.Errorf("%w: coordinate out of range", ErrInvalid)
	}
	db := s.db.WithContext(ctx)

	inStock := db.Model(&models.Food{}).Select("restaurant_id").Where("available_quantity > 0")
	query := db.Model(&models.Restaurant{}).Where("id IN (?)", inStock)

	if ids := uniqueIDs(q.RestrictionIDs); len(ids) > 0 {
		compliant := db.Table("foods").
			Select("foods.restaurant_id").
			Joins("JOIN food_dietary_compliance fdc ON fdc.food_id = foods.id").
			Where("foods.available_quantity > 0 AND fdc.dietary_restriction_id IN ?", ids).
			Group("foods.id, foods.restaurant_id").
			Having("COUNT(DISTINCT fdc.dietary_restriction_id) = ?", len(ids))
		query = query.Where("id IN (?)", compliant)
	}

	var candidates []models.Restaurant
	if err := query.Find(&candidates).Error; err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(candidates))
	for _, r := range candidates {
		d := geo.DistanceKm(q.Origin, geo.Point{Lat: r.Latitude, Lon: r.Longitude})
		if q.RadiusKm > 0 && d >= q.RadiusKm {
			continue
		}
		results = append(results, SearchResult{Restaurant: r, Distance: d})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if q.Limit > 0 && len(results) > q.Limit {
		results = results[:q.Limit]
	}
	for i := range results {
		results[i].Distance = models.RoundCents(results[i].Distance)
	}
	return results, nil
}

// IsNotFound reports whether err means a missing or foreign-owned record
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
