package store

import (
	"context"
	"errors"
	"fmt"

	"surplus-food-api/models"
	"surplus-food-api/statemachine"

	"gorm.io/gorm"
)

// LineItem is one requested (food, quantity) pair of an order
type LineItem struct {
	FoodID   uint
	Quantity int
}

// PlaceOrderInput carries everything needed to place a pickup order.
// Prices are never taken from the caller; they are read from the catalog.
type PlaceOrderInput struct {
	CustomerID   uint
	RestaurantID uint
	PickupSlotID uint
	Items        []LineItem
}

// PlaceOrder checks slot capacity, writes the order and its items and
// decrements inventory as one transaction. Any failure leaves the database
// exactly as it was.
func (s *Store) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: order has no items", ErrInvalid)
	}
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalid)
		}
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The slot row lock (postgres) or the single sqlite connection makes
		// the count below stable until commit.
		var slot models.PickupSlot
		err := forUpdate(tx).
			Where("id = ? AND restaurant_id = ?", in.PickupSlotID, in.RestaurantID).
			First(&slot).Error
		if err != nil {
			return notFound(err, "pickup slot")
		}

		var booked int64
		err = tx.Model(&models.Order{}).
			Where("pickup_slot_id = ? AND status <> ?", slot.ID, models.StatusCancelled).
			Count(&booked).Error
		if err != nil {
			return err
		}
		if booked >= int64(slot.MaxOrders) {
			return ErrSlotFull
		}

		foods, err := foodsForOrder(tx, in.RestaurantID, in.Items)
		if err != nil {
			return err
		}

		var total float64
		items := make([]models.OrderItem, 0, len(in.Items))
		for _, it := range in.Items {
			food := foods[it.FoodID]
			unit := food.SalePrice()
			total += unit * float64(it.Quantity)
			items = append(items, models.OrderItem{
				FoodID:   food.ID,
				Name:     food.Name,
				Quantity: it.Quantity,
				Price:    unit,
			})
		}

		order = models.Order{
			UserID:       in.CustomerID,
			RestaurantID: in.RestaurantID,
			PickupSlotID: slot.ID,
			Status:       models.StatusPending,
			TotalAmount:  models.RoundCents(total),
			Items:        items,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Conditional decrement: zero rows affected means the stock is short,
		// whether it was already short or another writer got there first.
		for _, it := range in.Items {
			res := tx.Model(&models.Food{}).
				Where("id = ? AND available_quantity >= ?", it.FoodID, it.Quantity).
				UpdateColumn("available_quantity", gorm.Expr("available_quantity - ?", it.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", ErrInsufficientQuantity, foods[it.FoodID].Name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func foodsForOrder(tx *gorm.DB, restaurantID uint, items []LineItem) (map[uint]models.Food, error) {
	ids := make([]uint, len(items))
	for i, it := range items {
		ids[i] = it.FoodID
	}
	ids = uniqueIDs(ids)

	var foods []models.Food
	if err := tx.Where("id IN ? AND restaurant_id = ?", ids, restaurantID).Find(&foods).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Food, len(foods))
	for _, f := range foods {
		byID[f.ID] = f
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, fmt.Errorf("%w: food item %d at this restaurant", ErrNotFound, id)
		}
	}
	return byID, nil
}

// CancelOrder restores the inventory an order consumed and marks it
// cancelled. Only the customer who placed the order may cancel it; anyone
// else gets ErrNotFound. Completed and already-cancelled orders are refused
// so their quantities are never restored twice.
func (s *Store) CancelOrder(ctx context.Context, customerID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := forUpdate(tx).Where("id = ? AND user_id = ?", orderID, customerID).First(&order).Error
		if err != nil {
			return notFound(err, "order")
		}
		if err := statemachine.CanCancel(order.Status); err != nil {
			return fmt.Errorf("%w: %v", ErrNotCancellable, err)
		}
		return cancelLocked(tx, &order)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// cancelLocked puts the order's quantities back on sale and marks it
// cancelled. The order row must already be locked by the caller.
func cancelLocked(tx *gorm.DB, order *models.Order) error {
	var items []models.OrderItem
	if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
		return err
	}
	for _, it := range items {
		// a deleted food has nothing left to restore
		err := tx.Model(&models.Food{}).
			Where("id = ?", it.FoodID).
			UpdateColumn("available_quantity", gorm.Expr("available_quantity + ?", it.Quantity)).Error
		if err != nil {
			return err
		}
	}
	if err := tx.Model(order).Update("status", models.StatusCancelled).Error; err != nil {
		return err
	}
	order.Items = items
	return nil
}

// UpdateOrderStatus moves an order of the restaurant one step along its
// lifecycle. Orders only go forward or to cancelled; cancelling returns the
// items to stock like a customer cancel does. An order of another
// restaurant is left untouched and reported as zero rows updated rather
// than as an error.
func (s *Store) UpdateOrderStatus(ctx context.Context, restaurantID, orderID uint, status models.OrderStatus) (int64, error) {
	if !statemachine.Valid(status) {
		return 0, fmt.Errorf("%w: invalid status %q", ErrInvalid, status)
	}

	var rows int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := forUpdate(tx).Where("id = ? AND restaurant_id = ?", orderID, restaurantID).First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := statemachine.CanTransition(order.Status, status, statemachine.ActorRestaurant); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}

		if status == models.StatusCancelled {
			if err := cancelLocked(tx, &order); err != nil {
				return err
			}
		} else if err := tx.Model(&order).Update("status", status).Error; err != nil {
			return err
		}
		rows = 1
		return nil
	})
	if err != nil {
		return 0, err
	}
	return rows, nil
}

// CustomerOrders lists a customer's orders newest first with restaurant, slot and items
func (s *Store) CustomerOrders(ctx context.Context, customerID uint) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.WithContext(ctx).
		Preload("Restaurant").Preload("PickupSlot").Preload("Items").
		Where("user_id = ?", customerID).
		Order("created_at desc, id desc").
		Find(&orders).Error
	return orders, err
}

// CustomerOrder returns one of the customer's own orders
func (s *Store) CustomerOrder(ctx context.Context, customerID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Restaurant").Preload("PickupSlot").Preload("Items").
		Where("id = ? AND user_id = ?", orderID, customerID).
		First(&order).Error
	if err != nil {
		return nil, notFound(err, "order")
	}
	return &order, nil
}

// RestaurantOrders lists a restaurant's orders, latest pickup first, with
// customer, slot and items. An empty status returns every order.
func (s *Store) RestaurantOrders(ctx context.Context, restaurantID uint, status models.OrderStatus) ([]models.Order, error) {
	query := s.db.WithContext(ctx).
		Preload("Customer").Preload("PickupSlot").Preload("Items").
		Joins("LEFT JOIN pickup_slots ON pickup_slots.id = orders.pickup_slot_id").
		Where("orders.restaurant_id = ?", restaurantID)
	if status != "" {
		if !statemachine.Valid(status) {
			return nil, fmt.Errorf("%w: invalid status %q", ErrInvalid, status)
		}
		query = query.Where("orders.status = ?", status)
	}
	orders := []models.Order{}
	err := query.Order("pickup_slots.slot_start desc, orders.id desc").Find(&orders).Error
	return orders, err
}
