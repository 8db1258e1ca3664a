package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"surplus-food-api/geo"
	"surplus-food-api/models"
	"surplus-food-api/statemachine"
	"surplus-food-api/store"

	"github.com/gin-gonic/gin"
)

// SearchRestaurants finds restaurants with stock near a coordinate, nearest first.
// Query: latitude, longitude, radius (km), restriction_ids.
func (h *Handler) SearchRestaurants(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("latitude"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("longitude"), 64)
	if errLat != nil || errLon != nil {
		badRequest(c, "latitude and longitude are required numbers")
		return
	}
	radius := h.cfg.Search.DefaultRadiusKm
	if raw := c.Query("radius"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil || r <= 0 {
			badRequest(c, "radius must be a positive number of kilometers")
			return
		}
		radius = r
	}
	ids, err := queryIDs(c, "restriction_ids")
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	results, err := h.store.SearchRestaurants(c.Request.Context(), store.SearchQuery{
		Origin:         geo.Point{Lat: lat, Lon: lon},
		RadiusKm:       radius,
		RestrictionIDs: ids,
		Limit:          h.cfg.Search.PageSize,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetMenu returns a restaurant's in-stock foods; with restriction_ids each
// item also reports whether it carries all of them.
func (h *Handler) GetMenu(c *gin.Context) {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return
	}
	ids, err := queryIDs(c, "restriction_ids")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	items, err := h.store.Menu(c.Request.Context(), restaurantID, ids)
	if err != nil {
		if store.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetStateMachineInfo returns the order lifecycle for informational purposes
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	var terminal []models.OrderStatus
	for _, s := range statemachine.Statuses() {
		if statemachine.Terminal(s) {
			terminal = append(terminal, s)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   statemachine.GetAllTransitions(),
		"statuses":        statemachine.Statuses(),
		"terminal_states": terminal,
		"description":     "Surplus Food Pickup Order Lifecycle",
	})
}

// Health reports liveness and database reachability
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
