package store

import (
	"context"
	"fmt"
	"time"

	"surplus-food-api/models"

	"gorm.io/gorm"
)

// SlotsForDay lists a restaurant's pickup slots starting on the given UTC
// day and strictly after notBefore, with their current booking counts.
func (s *Store) SlotsForDay(ctx context.Context, restaurantID uint, day, notBefore time.Time) ([]models.SlotAvailability, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	query := s.db.WithContext(ctx).
		Where("restaurant_id = ? AND slot_start < ?", restaurantID, end)
	if notBefore.After(start) {
		// a slot starting exactly at notBefore has already begun
		query = query.Where("slot_start > ?", notBefore.UTC())
	} else {
		query = query.Where("slot_start >= ?", start)
	}

	var slots []models.PickupSlot
	err := query.
		Order("slot_start").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return []models.SlotAvailability{}, nil
	}

	ids := make([]uint, len(slots))
	for i, sl := range slots {
		ids[i] = sl.ID
	}
	counts, err := activeOrderCounts(s.db.WithContext(ctx), ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.SlotAvailability, len(slots))
	for i, sl := range slots {
		booked := counts[sl.ID]
		out[i] = models.SlotAvailability{
			PickupSlot:     sl,
			CurrentOrders:  booked,
			AvailableSlots: sl.MaxOrders - booked,
		}
	}
	return out, nil
}

func activeOrderCounts(db *gorm.DB, slotIDs []uint) (map[uint]int, error) {
	var rows []struct {
		PickupSlotID uint
		Booked       int
	}
	err := db.Model(&models.Order{}).
		Select("pickup_slot_id, COUNT(*) AS booked").
		Where("pickup_slot_id IN ? AND status <> ?", slotIDs, models.StatusCancelled).
		Group("pickup_slot_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int, len(rows))
	for _, r := range rows {
		counts[r.PickupSlotID] = r.Booked
	}
	return counts, nil
}

// CreateSlot adds a pickup slot to the restaurant
func (s *Store) CreateSlot(ctx context.Context, slot *models.PickupSlot) error {
	slot.SlotStart = slot.SlotStart.UTC().Truncate(time.Second)
	slot.SlotEnd = slot.SlotEnd.UTC().Truncate(time.Second)
	switch {
	case slot.SlotStart.IsZero() || slot.SlotEnd.IsZero():
		return fmt.Errorf("%w: slot_start and slot_end are required", ErrInvalid)
	case !slot.SlotEnd.After(slot.SlotStart):
		return fmt.Errorf("%w: slot_end must be after slot_start", ErrInvalid)
	case slot.MaxOrders < 1:
		return fmt.Errorf("%w: max_orders must be at least 1", ErrInvalid)
	}
	slot.ID = 0
	return s.db.WithContext(ctx).Create(slot).Error
}

// DeleteSlot removes a slot that no order references. Cancelled orders
// still point at their slot, so they block deletion too.
func (s *Store) DeleteSlot(ctx context.Context, restaurantID, slotID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var slot models.PickupSlot
		err := forUpdate(tx).Where("id = ? AND restaurant_id = ?", slotID, restaurantID).First(&slot).Error
		if err != nil {
			return notFound(err, "pickup slot")
		}
		var booked int64
		if err := tx.Model(&models.Order{}).Where("pickup_slot_id = ?", slot.ID).Count(&booked).Error; err != nil {
			return err
		}
		if booked > 0 {
			return fmt.Errorf("%w: %d orders", ErrSlotInUse, booked)
		}
		return tx.Delete(&slot).Error
	})
}
