package handlers

import (
	"errors"
	"net/http"

	"surplus-food-api/geo"
	"surplus-food-api/middleware"
	"surplus-food-api/models"
	"surplus-food-api/store"

	"github.com/gin-gonic/gin"
)

// ── Restaurant Profile ───────────────────────────────────────────────────────

type RestaurantRequest struct {
	Name        string  `json:"name" binding:"required"`
	Address     string  `json:"address"`
	Phone       string  `json:"phone"`
	CuisineType string  `json:"cuisine_type"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

func (r RestaurantRequest) toModel() (*models.Restaurant, error) {
	if r.Name == "" {
		return nil, errors.New("restaurant name is required")
	}
	if !(geo.Point{Lat: r.Latitude, Lon: r.Longitude}).Valid() {
		return nil, errors.New("restaurant coordinates out of range")
	}
	return &models.Restaurant{
		Name:        r.Name,
		Address:     r.Address,
		Phone:       r.Phone,
		CuisineType: r.CuisineType,
		Description: r.Description,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
	}, nil
}

// CreateRestaurant lets a restaurant-role user create their restaurant
func (h *Handler) CreateRestaurant(c *gin.Context) {
	var req RestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	restaurant, err := req.toModel()
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	restaurant.OwnerID = middleware.GetUserID(c)
	if err := h.store.CreateRestaurant(c.Request.Context(), restaurant); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Restaurant created", "restaurant": restaurant})
}

// GetMyRestaurant fetches the restaurant owned by the logged-in user
func (h *Handler) GetMyRestaurant(c *gin.Context) {
	restaurant, err := h.store.RestaurantByOwner(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		if store.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

type UpdateRestaurantRequest struct {
	Name        *string  `json:"name"`
	Address     *string  `json:"address"`
	Phone       *string  `json:"phone"`
	CuisineType *string  `json:"cuisine_type"`
	Description *string  `json:"description"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// UpdateRestaurant applies the fields present in the body to the owner's restaurant
func (h *Handler) UpdateRestaurant(c *gin.Context) {
	var req UpdateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	update := map[string]interface{}{}
	if req.Name != nil {
		if *req.Name == "" {
			badRequest(c, "Restaurant name cannot be empty")
			return
		}
		update["name"] = *req.Name
	}
	if req.Address != nil {
		update["address"] = *req.Address
	}
	if req.Phone != nil {
		update["phone"] = *req.Phone
	}
	if req.CuisineType != nil {
		update["cuisine_type"] = *req.CuisineType
	}
	if req.Description != nil {
		update["description"] = *req.Description
	}
	if req.Latitude != nil {
		if *req.Latitude < -90 || *req.Latitude > 90 {
			badRequest(c, "latitude out of range")
			return
		}
		update["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		if *req.Longitude < -180 || *req.Longitude > 180 {
			badRequest(c, "longitude out of range")
			return
		}
		update["longitude"] = *req.Longitude
	}

	restaurant, err := h.store.UpdateRestaurant(c.Request.Context(), middleware.GetUserID(c), update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant updated", "restaurant": restaurant})
}
