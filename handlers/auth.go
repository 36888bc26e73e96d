package handlers

import (
	"net/http"

	"pedidos-api/config"
	"pedidos-api/middleware"
	"pedidos-api/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// landingPath maps a role to its dashboard, mirroring the old per-role
// redirect after sign-in.
func landingPath(role models.UserRole) string {
	switch role {
	case models.RoleAdmin:
		return "/admin"
	case models.RoleRestaurant:
		return "/restaurant"
	case models.RoleDriver:
		return "/driver"
	}
	return "/"
}

// Login authenticates a user and returns a JWT plus the dashboard to load
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := middleware.GenerateToken(&user)
	if err != nil {
		log.WithError(err).Error("failed to sign token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"landing": landingPath(user.Role),
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// GetProfile returns the authenticated user's profile
func GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type UpdateProfileRequest struct {
	Name        string   `json:"name"`
	LocationURL string   `json:"location_url"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// UpdateProfile lets the owning account change its own profile fields.
// Role and email are not editable here — accounts are admin-managed.
func UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := map[string]interface{}{}
	if req.Name != "" {
		update["name"] = req.Name
	}
	if req.LocationURL != "" {
		update["location_url"] = req.LocationURL
	}
	if req.Latitude != nil {
		update["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		update["longitude"] = *req.Longitude
	}
	if len(update) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No editable fields in request"})
		return
	}

	if err := config.DB.Model(&user).Updates(update).Error; err != nil {
		log.WithError(err).Error("failed to update profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": user})
}

// UploadProfilePhoto stores an image and persists its URL on the account.
func UploadProfilePhoto(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image file"})
		return
	}
	url, err := Images.Save(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := config.DB.Model(&user).Update("photo_url", url).Error; err != nil {
		log.WithError(err).Error("failed to persist photo URL")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save photo"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Photo uploaded", "photo_url": url})
}
