package handlers

import (
	"net/http"

	"surplus-food-api/middleware"

	"github.com/gin-gonic/gin"
)

type SetRestrictionsRequest struct {
	RestrictionIDs []uint `json:"restriction_ids"`
}

// ListRestrictions returns the dietary restriction reference list (public)
func (h *Handler) ListRestrictions(c *gin.Context) {
	restrictions, err := h.store.ListRestrictions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, restrictions)
}

// SetMyRestrictions replaces the caller's dietary restrictions; an empty list clears them
func (h *Handler) SetMyRestrictions(c *gin.Context) {
	var req SetRestrictionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	selected, err := h.store.SetUserRestrictions(c.Request.Context(), middleware.GetUserID(c), req.RestrictionIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":              "Dietary restrictions updated successfully",
		"dietary_restrictions": selected,
	})
}
