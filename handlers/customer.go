package handlers

import (
	"errors"
	"math"
	"net/http"

	"surplus-food-api/metrics"
	"surplus-food-api/middleware"
	"surplus-food-api/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type OrderItemRequest struct {
	FoodID   uint     `json:"food_id" binding:"required"`
	Quantity int      `json:"quantity" binding:"required,min=1"`
	Price    *float64 `json:"price"` // informational; the catalog price is charged
}

type PlaceOrderRequest struct {
	RestaurantID uint               `json:"restaurant_id" binding:"required"`
	PickupSlotID uint               `json:"pickup_slot_id" binding:"required"`
	Items        []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	TotalAmount  *float64           `json:"total_amount"` // informational
}

// PlaceOrder books a pickup slot and reserves the requested quantities (customer only)
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	in := store.PlaceOrderInput{
		CustomerID:   middleware.GetUserID(c),
		RestaurantID: req.RestaurantID,
		PickupSlotID: req.PickupSlotID,
		Items:        make([]store.LineItem, len(req.Items)),
	}
	for i, it := range req.Items {
		in.Items[i] = store.LineItem{FoodID: it.FoodID, Quantity: it.Quantity}
	}

	order, err := h.store.PlaceOrder(c.Request.Context(), in)
	if err != nil {
		h.metrics.RecordOrder(placementOutcome(err))
		respondError(c, err)
		return
	}
	h.metrics.RecordOrder(metrics.OutcomePlaced)

	if req.TotalAmount != nil && math.Abs(*req.TotalAmount-order.TotalAmount) >= 0.005 {
		middleware.Logger(c).WithFields(logrus.Fields{
			"order_id":     order.ID,
			"client_total": *req.TotalAmount,
			"total":        order.TotalAmount,
		}).Warn("client total differs from catalog price")
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Order created successfully",
		"order_id": order.ID,
		"order":    order,
	})
}

func placementOutcome(err error) string {
	switch {
	case errors.Is(err, store.ErrSlotFull):
		return metrics.OutcomeSlotFull
	case errors.Is(err, store.ErrInsufficientQuantity):
		return metrics.OutcomeOutOfStock
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrInvalid):
		return metrics.OutcomeRejected
	}
	return metrics.OutcomeError
}

// GetMyOrders returns all orders for the logged-in customer
func (h *Handler) GetMyOrders(c *gin.Context) {
	orders, err := h.store.CustomerOrders(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrderDetail returns one of the caller's orders
func (h *Handler) GetOrderDetail(c *gin.Context) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := h.store.CustomerOrder(c.Request.Context(), middleware.GetUserID(c), orderID)
	if err != nil {
		if store.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// CancelOrder cancels one of the caller's open orders and returns its items to stock
func (h *Handler) CancelOrder(c *gin.Context) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := h.store.CancelOrder(c.Request.Context(), middleware.GetUserID(c), orderID)
	if err != nil {
		if store.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		respondError(c, err)
		return
	}
	h.metrics.RecordOrder(metrics.OutcomeCancelled)
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully", "order_id": order.ID})
}
