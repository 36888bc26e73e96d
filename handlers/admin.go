package handlers

import (
	"bytes"
	"net/http"
	"time"

	"pedidos-api/config"
	"pedidos-api/middleware"
	"pedidos-api/models"
	"pedidos-api/settlement"
	"pedidos-api/statemachine"
	"pedidos-api/views"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserRequest struct {
	Name        string          `json:"name" binding:"required"`
	Email       string          `json:"email" binding:"required,email"`
	Password    string          `json:"password" binding:"required,min=6"`
	Role        models.UserRole `json:"role" binding:"required"`
	LocationURL string          `json:"location_url"`
}

// CreateUser is the server-side privileged account creation endpoint.
// Accounts only ever come into existence here, under an admin session;
// creating a user never signs anyone in or out.
func CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role. Must be: admin, restaurant, or driver"})
		return
	}
	// Restaurants need a pickup point before they can take orders
	if req.Role == models.RoleRestaurant && req.LocationURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location_url is required for restaurant accounts"})
		return
	}

	var existing models.User
	if result := config.DB.Where("email = ?", req.Email).First(&existing); result.Error == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		LocationURL:  req.LocationURL,
	}
	if user.Role == models.RoleDriver {
		user.DriverStatus = models.DriverInactive
	}

	if err := config.DB.Create(&user).Error; err != nil {
		log.WithError(err).Error("failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	log.WithFields(map[string]interface{}{"user_id": user.ID, "role": user.Role}).Info("account created")
	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// AdminGetAllUsers returns all users, optionally filtered by role
func AdminGetAllUsers(c *gin.Context) {
	var users []models.User
	query := config.DB
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	query.Find(&users)
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// AdminGetActiveDrivers lists drivers currently taking orders
func AdminGetActiveDrivers(c *gin.Context) {
	var drivers []models.User
	config.DB.
		Where("role = ? AND driver_status = ?", models.RoleDriver, models.DriverActive).
		Find(&drivers)
	c.JSON(http.StatusOK, gin.H{"count": len(drivers), "drivers": drivers})
}

// AdminGetAllOrders returns the unfiltered ledger, newest first
func AdminGetAllOrders(c *gin.Context) {
	orders, err := views.AdminAll(config.DB)
	if err != nil {
		log.WithError(err).Error("failed to load admin order view")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
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

// AdminCancelOrder cancels any non-terminal order. Admin order writes are
// limited to this and the settlement flag; everything else is read-only.
func AdminCancelOrder(c *gin.Context) {
	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if err := statemachine.CanTransition(order.Status, models.StatusCancelled, statemachine.ActorAdmin); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Invalid state transition",
			"current_status": order.Status,
			"reason":         err.Error(),
		})
		return
	}

	if err := config.DB.Model(&order).Update("status", models.StatusCancelled).Error; err != nil {
		log.WithError(err).Error("failed to cancel order")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
		return
	}

	log.WithFields(map[string]interface{}{
		"order_id": order.ID, "admin_id": middleware.GetUserID(c),
	}).Info("order cancelled by admin")
	notifyOrderChanged()
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled", "order_id": order.ID})
}

// AdminDeleteOrder removes an order permanently. Explicit and irreversible;
// not a status transition.
func AdminDeleteOrder(c *gin.Context) {
	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if err := config.DB.Select("Items").Delete(&order).Error; err != nil {
		log.WithError(err).Error("failed to delete order")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
		return
	}

	notifyOrderChanged()
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted", "order_id": order.ID})
}

// GetSettlementReport returns pending and settled delivery totals per restaurant
func GetSettlementReport(c *gin.Context) {
	rows, err := settlement.Report(config.DB)
	if err != nil {
		log.WithError(err).Error("failed to build settlement report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build settlement report"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(rows), "report": rows})
}

// SettleRestaurant flips every unsettled order of one restaurant in a single
// all-or-nothing batch.
func SettleRestaurant(c *gin.Context) {
	var restaurant models.User
	if err := config.DB.Where("id = ? AND role = ?", c.Param("id"), models.RoleRestaurant).
		First(&restaurant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}

	n, err := settlement.Settle(config.DB, restaurant.ID)
	if err != nil {
		log.WithError(err).Error("settlement batch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Settlement failed, no order was flagged"})
		return
	}
	if n == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Nothing pending to settle", "settled_orders": 0})
		return
	}

	log.WithFields(map[string]interface{}{
		"restaurant_id": restaurant.ID, "settled_orders": n,
	}).Info("settlement batch committed")
	notifyOrderChanged()
	c.JSON(http.StatusOK, gin.H{"message": "Settlement completed", "settled_orders": n})
}

// ExportSettlementReport streams the payout report as a spreadsheet
func ExportSettlementReport(c *gin.Context) {
	rows, err := settlement.Report(config.DB)
	if err != nil {
		log.WithError(err).Error("failed to build settlement report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build settlement report"})
		return
	}

	f, err := settlement.BuildWorkbook(rows)
	if err != nil {
		log.WithError(err).Error("failed to build workbook")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build spreadsheet"})
		return
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		log.WithError(err).Error("failed to serialize workbook")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build spreadsheet"})
		return
	}

	filename := settlement.Filename(time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
