package handlers

import (
	"net/http"

	"surplus-food-api/middleware"
	"surplus-food-api/models"
	"surplus-food-api/store"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Name       string             `json:"name" binding:"required"`
	Email      string             `json:"email" binding:"required,email"`
	Password   string             `json:"password" binding:"required,min=6"`
	Role       models.UserRole    `json:"role" binding:"required"`
	Phone      string             `json:"phone"`
	Restaurant *RestaurantRequest `json:"restaurant"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func authResponse(message, token string, user *models.User) gin.H {
	return gin.H{
		"message": message,
		"token":   token,
		"user": gin.H{
			"id":            user.ID,
			"name":          user.Name,
			"email":         user.Email,
			"role":          user.Role,
			"restaurant_id": user.RestaurantID,
		},
	}
}

// Register creates a new user account. Restaurant owners may send their
// restaurant profile along and get it created in the same transaction.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if !req.Role.Valid() {
		badRequest(c, "Invalid role. Must be customer or restaurant")
		return
	}

	var restaurant *models.Restaurant
	if req.Restaurant != nil {
		if req.Role != models.RoleRestaurant {
			badRequest(c, "Only restaurant accounts can register a restaurant")
			return
		}
		r, err := req.Restaurant.toModel()
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		restaurant = r
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err)
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Phone:        req.Phone,
	}
	if err := h.store.CreateUser(c.Request.Context(), &user, restaurant); err != nil {
		respondError(c, err)
		return
	}

	token, err := h.tokens.Generate(&user)
	if err != nil {
		respondError(c, err)
		return
	}
	middleware.Logger(c).WithField("user_id", user.ID).WithField("role", user.Role).Info("user registered")
	c.JSON(http.StatusCreated, authResponse("Registration successful", token, &user))
}

// Login authenticates a user and returns a JWT
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := h.store.UserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if store.IsNotFound(err) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		respondError(c, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, authResponse("Login successful", token, user))
}

// Me returns the authenticated user's profile; customers also get their dietary restrictions
func (h *Handler) Me(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := h.store.UserByID(ctx, middleware.GetUserID(c))
	if err != nil {
		if store.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		respondError(c, err)
		return
	}

	restrictions := []models.DietaryRestriction{}
	if user.Role == models.RoleCustomer {
		if restrictions, err = h.store.UserRestrictions(ctx, user.ID); err != nil {
			respondError(c, err)
			return
		}
		if restrictions == nil {
			restrictions = []models.DietaryRestriction{}
		}
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "dietary_restrictions": restrictions})
}
