package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"surplus-food-api/config"
	"surplus-food-api/discovery"
	"surplus-food-api/metrics"
	"surplus-food-api/middleware"
	"surplus-food-api/store"

	"github.com/gin-gonic/gin"
)

// Discoverer searches a third-party business directory
type Discoverer interface {
	Search(ctx context.Context, q discovery.Query) (json.RawMessage, error)
}

// Handler serves the HTTP API on top of the store
type Handler struct {
	store     *store.Store
	tokens    *middleware.TokenIssuer
	discovery Discoverer
	metrics   *metrics.Metrics
	cfg       *config.Config
}

func New(s *store.Store, tokens *middleware.TokenIssuer, d Discoverer, m *metrics.Metrics, cfg *config.Config) *Handler {
	return &Handler{store: s, tokens: tokens, discovery: d, metrics: m, cfg: cfg}
}

// respondError maps store errors onto status codes. Anything unclassified is
// logged with the request fields and reported as a plain server error.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrSlotFull),
		errors.Is(err, store.ErrInsufficientQuantity),
		errors.Is(err, store.ErrNotCancellable),
		errors.Is(err, store.ErrInvalidTransition),
		errors.Is(err, store.ErrEmailTaken),
		errors.Is(err, store.ErrSlotInUse),
		errors.Is(err, store.ErrRestaurantExists):
		status = http.StatusConflict
	case errors.Is(err, discovery.ErrUpstream):
		middleware.Logger(c).WithError(err).Warn("discovery upstream failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch discovery data"})
		return
	}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "Server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// paramID parses a positive integer path parameter
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// queryIDs reads a list of ids given either as repeated parameters or comma separated
func queryIDs(c *gin.Context, name string) ([]uint, error) {
	var ids []uint
	for _, raw := range c.QueryArray(name) {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 64)
			if err != nil {
				return nil, errors.New("invalid " + name)
			}
			ids = append(ids, uint(id))
		}
	}
	return ids, nil
}

// ownerRestaurantID resolves the restaurant owned by the calling user. The
// token carries it for owners who had a restaurant at login time.
func (h *Handler) ownerRestaurantID(c *gin.Context) (uint, bool) {
	if id, ok := middleware.GetRestaurantID(c); ok {
		return id, true
	}
	r, err := h.store.RestaurantByOwner(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		if store.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No restaurant found for your account"})
			return 0, false
		}
		respondError(c, err)
		return 0, false
	}
	return r.ID, true
}
