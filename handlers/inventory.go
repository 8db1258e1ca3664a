package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"surplus-food-api/importer"
	"surplus-food-api/models"
	"surplus-food-api/store"

	"github.com/gin-gonic/gin"
)

// ── Inventory ────────────────────────────────────────────────────────────────

type AddFoodRequest struct {
	Name                  string     `json:"name" binding:"required"`
	Description           string     `json:"description"`
	Price                 float64    `json:"price" binding:"required,gt=0"`
	DiscountPercent       float64    `json:"discount_percent" binding:"min=0,max=100"`
	PhotoURL              string     `json:"photo_url"`
	AvailableQuantity     int        `json:"available_quantity" binding:"min=0"`
	PickupStart           *time.Time `json:"pickup_start"`
	PickupEnd             *time.Time `json:"pickup_end"`
	DietaryRestrictionIDs []uint     `json:"dietary_restriction_ids"`
}

// GetInventory lists every food of the owner's restaurant, sold-out items included
func (h *Handler) GetInventory(c *gin.Context) {
	restaurantID, ok := h.ownerRestaurantID(c)
	if !ok {
		return
	}
	foods, err := h.store.Inventory(c.Request.Context(), restaurantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, foods)
}

// AddFood lists a surplus item with its dietary tags
func (h *Handler) AddFood(c *gin.Context) {
	restaurantID, ok := h.ownerRestaurantID(c)
	if !ok {
		return
	}
	var req AddFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	food := models.Food{
		Name:              req.Name,
		Description:       req.Description,
		Price:             req.Price,
		DiscountPercent:   req.DiscountPercent,
		PhotoURL:          req.PhotoURL,
		AvailableQuantity: req.AvailableQuantity,
	}
	if req.PickupStart != nil {
		food.PickupStart = req.PickupStart.UTC()
	}
	if req.PickupEnd != nil {
		food.PickupEnd = req.PickupEnd.UTC()
	}

	created, err := h.store.AddFoods(c.Request.Context(), restaurantID, []store.NewFood{{
		Food:           food,
		RestrictionIDs: req.DietaryRestrictionIDs,
	}})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Food item added successfully",
		"food_id": created[0].ID,
		"food":    created[0],
	})
}

// ImportFoods bulk-adds foods from an uploaded .xlsx sheet. Rows that cannot
// be parsed or carry unknown dietary tags are skipped and reported; the rest
// are inserted together.
func (h *Handler) ImportFoods(c *gin.Context) {
	restaurantID, ok := h.ownerRestaurantID(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "Excel file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	rows, skipped, err := importer.ReadFoods(file)
	if err != nil {
		if errors.Is(err, importer.ErrNoRows) {
			badRequest(c, "Excel must have at least one row of data")
			return
		}
		badRequest(c, "Failed to parse Excel file: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	foods := make([]store.NewFood, 0, len(rows))
	for _, row := range rows {
		var ids []uint
		if len(row.Tags) > 0 {
			byName, err := h.store.RestrictionsByName(ctx, row.Tags)
			if errors.Is(err, store.ErrInvalid) {
				skipped = append(skipped, importer.RowError{
					Line:  row.Line,
					Error: strings.TrimPrefix(err.Error(), store.ErrInvalid.Error()+": "),
				})
				continue
			}
			if err != nil {
				respondError(c, err)
				return
			}
			for _, r := range byName {
				ids = append(ids, r.ID)
			}
		}
		foods = append(foods, store.NewFood{
			Food: models.Food{
				Name:              row.Name,
				Description:       row.Description,
				Price:             row.Price,
				DiscountPercent:   float64(row.DiscountPercent),
				AvailableQuantity: row.AvailableQuantity,
				PickupStart:       row.PickupStart,
				PickupEnd:         row.PickupEnd,
			},
			RestrictionIDs: ids,
		})
	}
	if skipped == nil {
		skipped = []importer.RowError{}
	}
	if len(foods) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid rows found", "skipped": skipped})
		return
	}

	created, err := h.store.AddFoods(ctx, restaurantID, foods)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Bulk food upload successful",
		"imported": len(created),
		"foods":    created,
		"skipped":  skipped,
	})
}

// DeleteFood removes one of the owner's foods
func (h *Handler) DeleteFood(c *gin.Context) {
	restaurantID, ok := h.ownerRestaurantID(c)
	if !ok {
		return
	}
	foodID, ok := paramID(c, "foodId")
	if !ok {
		return
	}
	if err := h.store.DeleteFood(c.Request.Context(), restaurantID, foodID); err != nil {
		if store.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Food item not found"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Food item deleted successfully"})
}
