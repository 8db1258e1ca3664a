package handlers

import (
	"net/http"

	"surplus-food-api/metrics"
	"surplus-food-api/middleware"
	"surplus-food-api/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// GetRestaurantOrders returns the owner's orders, latest pickup first, optionally filtered by status
func (h *Handler) GetRestaurantOrders(c *gin.Context) {
	restaurantID, ok := h.ownerRestaurantID(c)
	if !ok {
		return
	}
	orders, err := h.store.RestaurantOrders(c.Request.Context(), restaurantID, models.OrderStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}

	summary := map[string]int{}
	for _, o := range orders {
		summary[string(o.Status)]++
	}
	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"count":         len(orders),
		"orders":        orders,
	})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// UpdateOrderStatus moves an order one step forward or cancels it, returning
// its items to stock. An order of another restaurant is left untouched and
// the call still succeeds with updated=false.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	restaurantID, ok := h.ownerRestaurantID(c)
	if !ok {
		return
	}
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	rows, err := h.store.UpdateOrderStatus(c.Request.Context(), restaurantID, orderID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	if rows == 0 {
		middleware.Logger(c).WithFields(logrus.Fields{
			"order_id":      orderID,
			"restaurant_id": restaurantID,
		}).Info("status update matched no order of this restaurant")
	} else if req.Status == models.StatusCancelled {
		h.metrics.RecordOrder(metrics.OutcomeCancelled)
	} else {
		h.metrics.RecordOrder(metrics.OutcomeStatusUpdate)
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Order status updated",
		"order_id": orderID,
		"status":   req.Status,
		"updated":  rows > 0,
	})
}
