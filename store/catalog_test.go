package store

import (
	"context"
	"testing"

	"surplus-food-api/geo"
	"surplus-food-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchRestaurantsNearestFirstWithStockOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	origin := geo.Point{Lat: 40.7128, Lon: -74.0060}

	// fixture restaurant sits on the origin
	f.addFood(t, f.restaurant.ID, "Bread", 3, 4)
	_, near := f.addRestaurant(t, "Near", 40.7228, -74.0060)
	f.addFood(t, near.ID, "Soup", 5, 2)
	_, soldOut := f.addRestaurant(t, "Sold Out", 40.7130, -74.0060)
	f.addFood(t, soldOut.ID, "Salad", 5, 0)
	_, far := f.addRestaurant(t, "Far Away", 41.5, -74.0)
	f.addFood(t, far.ID, "Pizza", 5, 3)

	results, err := f.store.SearchRestaurants(ctx, SearchQuery{Origin: origin, RadiusKm: 5, Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Corner Bakery", results[0].Name)
	assert.Equal(t, 0.0, results[0].Distance)
	assert.Equal(t, "Near", results[1].Name)
	assert.InDelta(t, 1.11, results[1].Distance, 0.01)

	limited, err := f.store.SearchRestaurants(ctx, SearchQuery{Origin: origin, RadiusKm: 500, Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "Corner Bakery", limited[0].Name)

	wide, err := f.store.SearchRestaurants(ctx, SearchQuery{Origin: origin, RadiusKm: 500, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, wide, 3)
}

func TestSearchRestaurantsRequiresOneFoodCarryingAllRestrictions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	vegan := f.restrictionID(t, "Vegan")
	glutenFree := f.restrictionID(t, "Gluten-Free")

	// split across two foods: does not qualify
	f.addFood(t, f.restaurant.ID, "Vegan Bread", 3, 4, vegan)
	f.addFood(t, f.restaurant.ID, "GF Cake", 3, 4, glutenFree)

	_, both := f.addRestaurant(t, "Green Table", 40.7150, -74.0060)
	f.addFood(t, both.ID, "Quinoa Bowl", 9, 2, vegan, glutenFree)

	_, outOfStock := f.addRestaurant(t, "Empty Shelf", 40.7140, -74.0060)
	f.addFood(t, outOfStock.ID, "Lentil Salad", 9, 0, vegan, glutenFree)

	results, err := f.store.SearchRestaurants(ctx, SearchQuery{
		Origin:         geo.Point{Lat: 40.7128, Lon: -74.0060},
		RadiusKm:       5,
		RestrictionIDs: []uint{vegan, glutenFree},
		Limit:          10,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Green Table", results[0].Name)

	single, err := f.store.SearchRestaurants(ctx, SearchQuery{
		Origin:         geo.Point{Lat: 40.7128, Lon: -74.0060},
		RadiusKm:       5,
		RestrictionIDs: []uint{vegan},
		Limit:          10,
	})
	require.NoError(t, err)
	assert.Len(t, single, 2)
}

func TestSearchRestaurantsRejectsBadCoordinates(t *testing.T) {
	s := newTestStore(t)
	_, err := s.SearchRestaurants(context.Background(), SearchQuery{Origin: geo.Point{Lat: 91, Lon: 0}, RadiusKm: 5})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestMenuAnnotatesCompliance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	vegan := f.restrictionID(t, "Vegan")

	f.addFood(t, f.restaurant.ID, "Butter Croissant", 3, 5)
	f.addFood(t, f.restaurant.ID, "Vegan Muffin", 3, 5, vegan)
	f.addFood(t, f.restaurant.ID, "Sold Out Tart", 3, 0, vegan)

	plain, err := f.store.Menu(ctx, f.restaurant.ID, nil)
	require.NoError(t, err)
	require.Len(t, plain, 2)
	for _, item := range plain {
		assert.Nil(t, item.MatchesRestrictions)
	}

	annotated, err := f.store.Menu(ctx, f.restaurant.ID, []uint{vegan})
	require.NoError(t, err)
	require.Len(t, annotated, 2)
	byName := map[string]bool{}
	for _, item := range annotated {
		require.NotNil(t, item.MatchesRestrictions)
		byName[item.Name] = *item.MatchesRestrictions
	}
	assert.True(t, byName["Vegan Muffin"])
	assert.False(t, byName["Butter Croissant"])

	_, err = f.store.Menu(ctx, 9999, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddFoodsValidatesWholeBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.AddFoods(ctx, f.restaurant.ID, []NewFood{
		{Food: models.Food{Name: "Good", Price: 2, AvailableQuantity: 1}},
		{Food: models.Food{Name: "Bad", Price: 2, DiscountPercent: 120, AvailableQuantity: 1}},
	})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = f.store.AddFoods(ctx, f.restaurant.ID, []NewFood{
		{Food: models.Food{Name: "Unknown tag", Price: 2, AvailableQuantity: 1}, RestrictionIDs: []uint{4242}},
	})
	assert.ErrorIs(t, err, ErrInvalid)

	inventory, err := f.store.Inventory(ctx, f.restaurant.ID)
	require.NoError(t, err)
	assert.Empty(t, inventory)
}

func TestInventoryIncludesSoldOutAndTags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	halal := f.restrictionID(t, "Halal")

	f.addFood(t, f.restaurant.ID, "Kebab", 8, 0, halal)
	f.addFood(t, f.restaurant.ID, "Flatbread", 2, 3)

	inventory, err := f.store.Inventory(ctx, f.restaurant.ID)
	require.NoError(t, err)
	require.Len(t, inventory, 2)
	for _, food := range inventory {
		if food.Name == "Kebab" {
			require.Len(t, food.Restrictions, 1)
			assert.Equal(t, "Halal", food.Restrictions[0].Name)
		}
	}
}

func TestDeleteFoodKeepsOrderSnapshots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	food := f.addFood(t, f.restaurant.ID, "Strudel", 5, 5, f.restrictionID(t, "Vegetarian"))
	slot := f.addSlot(t, f.restaurant.ID, tomorrowAt(12), 5)

	order, err := f.store.PlaceOrder(ctx, PlaceOrderInput{
		CustomerID:   f.customer.ID,
		RestaurantID: f.restaurant.ID,
		PickupSlotID: slot.ID,
		Items:        []LineItem{{FoodID: food.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, rival := f.addRestaurant(t, "Rival", 40.0, -74.0)
	assert.ErrorIs(t, f.store.DeleteFood(ctx, rival.ID, food.ID), ErrNotFound)
	require.NoError(t, f.store.DeleteFood(ctx, f.restaurant.ID, food.ID))

	stored, err := f.store.CustomerOrder(ctx, f.customer.ID, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "Strudel", stored.Items[0].Name)

	// cancelling after the food is gone still succeeds
	_, err = f.store.CancelOrder(ctx, f.customer.ID, order.ID)
	assert.NoError(t, err)
}

func TestCreateAndUpdateRestaurant(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := &models.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x", Role: models.RoleRestaurant}
	require.NoError(t, s.CreateUser(ctx, owner, nil))

	r := &models.Restaurant{OwnerID: owner.ID, Name: "Ana's Deli", Latitude: 40, Longitude: -73}
	require.NoError(t, s.CreateRestaurant(ctx, r))
	assert.ErrorIs(t, s.CreateRestaurant(ctx, &models.Restaurant{OwnerID: owner.ID, Name: "Second"}), ErrRestaurantExists)

	linked, err := s.UserByID(ctx, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, linked.RestaurantID)
	assert.Equal(t, r.ID, *linked.RestaurantID)

	updated, err := s.UpdateRestaurant(ctx, owner.ID, map[string]interface{}{"cuisine_type": "Deli"})
	require.NoError(t, err)
	assert.Equal(t, "Deli", updated.CuisineType)
	assert.Equal(t, "Ana's Deli", updated.Name)

	_, err = s.UpdateRestaurant(ctx, 9999, map[string]interface{}{"name": "x"})
	assert.True(t, IsNotFound(err))
}
