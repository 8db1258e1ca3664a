package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"surplus-food-api/config"
	"surplus-food-api/logging"
	"surplus-food-api/models"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", LogLevel: "silent"}, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

type fixture struct {
	store      *Store
	owner      *models.User
	restaurant *models.Restaurant
	customer   *models.User
}

var userSeq int

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := newTestStore(t)
	f := &fixture{store: s}
	f.owner, f.restaurant = f.addRestaurant(t, "Corner Bakery", 40.7128, -74.0060)
	f.customer = f.addCustomer(t)
	return f
}

func (f *fixture) addRestaurant(t *testing.T, name string, lat, lon float64) (*models.User, *models.Restaurant) {
	t.Helper()
	userSeq++
	owner := &models.User{
		Name:         name + " owner",
		Email:        fmt.Sprintf("owner%d@example.com", userSeq),
		PasswordHash: "x",
		Role:         models.RoleRestaurant,
	}
	r := &models.Restaurant{Name: name, Latitude: lat, Longitude: lon}
	require.NoError(t, f.store.CreateUser(context.Background(), owner, r))
	return owner, r
}

func (f *fixture) addCustomer(t *testing.T) *models.User {
	t.Helper()
	userSeq++
	u := &models.User{
		Name:         "Customer",
		Email:        fmt.Sprintf("customer%d@example.com", userSeq),
		PasswordHash: "x",
		Role:         models.RoleCustomer,
	}
	require.NoError(t, f.store.CreateUser(context.Background(), u, nil))
	return u
}

func (f *fixture) addFood(t *testing.T, restaurantID uint, name string, price float64, qty int, tags ...uint) models.Food {
	t.Helper()
	created, err := f.store.AddFoods(context.Background(), restaurantID, []NewFood{{
		Food:           models.Food{Name: name, Price: price, AvailableQuantity: qty},
		RestrictionIDs: tags,
	}})
	require.NoError(t, err)
	require.Len(t, created, 1)
	return created[0]
}

func (f *fixture) addSlot(t *testing.T, restaurantID uint, start time.Time, max int) models.PickupSlot {
	t.Helper()
	slot := models.PickupSlot{
		RestaurantID: restaurantID,
		SlotStart:    start,
		SlotEnd:      start.Add(30 * time.Minute),
		MaxOrders:    max,
	}
	require.NoError(t, f.store.CreateSlot(context.Background(), &slot))
	return slot
}

func (f *fixture) quantity(t *testing.T, foodID uint) int {
	t.Helper()
	var food models.Food
	require.NoError(t, f.store.db.First(&food, foodID).Error)
	return food.AvailableQuantity
}

func (f *fixture) restrictionID(t *testing.T, name string) uint {
	t.Helper()
	byName, err := f.store.RestrictionsByName(context.Background(), []string{name})
	require.NoError(t, err)
	for _, r := range byName {
		return r.ID
	}
	t.Fatalf("restriction %s not found", name)
	return 0
}

func tomorrowAt(hour int) time.Time {
	d := time.Now().UTC().AddDate(0, 0, 1)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)
}
