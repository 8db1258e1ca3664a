package handlers

import (
	"net/http"
	"time"

	"surplus-food-api/models"
	"surplus-food-api/store"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

func parseDay(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), true
	}
	day, err := time.Parse(dateLayout, raw)
	if err != nil {
		badRequest(c, "date must be formatted YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}

// GetPickupSlots lists a restaurant's upcoming slots for a day with their remaining capacity
func (h *Handler) GetPickupSlots(c *gin.Context) {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return
	}
	day, ok := parseDay(c)
	if !ok {
		return
	}
	slots, err := h.store.SlotsForDay(c.Request.Context(), restaurantID, day, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// ── Owner slot management ────────────────────────────────────────────────────

type CreateSlotRequest struct {
	SlotStart time.Time `json:"slot_start" binding:"required"`
	SlotEnd   time.Time `json:"slot_end" binding:"required"`
	MaxOrders int       `json:"max_orders" binding:"required,min=1"`
}

// ListMySlots lists the owner's slots for a day, past ones included
func (h *Handler) ListMySlots(c *gin.Context) {
	restaurantID, ok := h.ownerRestaurantID(c)
	if !ok {
		return
	}
	day, ok := parseDay(c)
	if !ok {
		return
	}
	slots, err := h.store.SlotsForDay(c.Request.Context(), restaurantID, day, time.Time{})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

func (h *Handler) CreateSlot(c *gin.Context) {
	restaurantID, ok := h.ownerRestaurantID(c)
	if !ok {
		return
	}
	var req CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	slot := models.PickupSlot{
		RestaurantID: restaurantID,
		SlotStart:    req.SlotStart,
		SlotEnd:      req.SlotEnd,
		MaxOrders:    req.MaxOrders,
	}
	if err := h.store.CreateSlot(c.Request.Context(), &slot); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Pickup slot created", "slot": slot})
}

// DeleteSlot removes a slot no order has booked
func (h *Handler) DeleteSlot(c *gin.Context) {
	restaurantID, ok := h.ownerRestaurantID(c)
	if !ok {
		return
	}
	slotID, ok := paramID(c, "slotId")
	if !ok {
		return
	}
	if err := h.store.DeleteSlot(c.Request.Context(), restaurantID, slotID); err != nil {
		if store.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pickup slot not found"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pickup slot deleted"})
}
