package handlers

import (
	"net/http"
	"strconv"

	"surplus-food-api/discovery"

	"github.com/gin-gonic/gin"
)

// DiscoverRestaurants relays a nearby-business search to the discovery
// provider and returns its JSON as is. Query: q, lat, lon, radius (meters).
func (h *Handler) DiscoverRestaurants(c *gin.Context) {
	q := discovery.Query{
		Term:      c.Query("q"),
		Latitude:  c.Query("lat"),
		Longitude: c.Query("lon"),
	}
	if raw := c.Query("radius"); raw != "" {
		radius, err := strconv.Atoi(raw)
		if err != nil || radius <= 0 {
			badRequest(c, "radius must be a positive number of meters")
			return
		}
		q.Radius = radius
	}

	body, err := h.discovery.Search(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
