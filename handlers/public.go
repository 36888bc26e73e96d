package handlers

import (
	"net/http"

	"pedidos-api/config"
	"pedidos-api/models"
	"pedidos-api/statemachine"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WebOrderRequest struct {
	CustomerName    string               `json:"customer_name" binding:"required"`
	CustomerPhone   string               `json:"customer_phone"`
	DeliveryAddress string               `json:"delivery_address" binding:"required"`
	DeliveryFee     *float64             `json:"delivery_fee" binding:"required"`
	PaymentMethod   models.PaymentMethod `json:"payment_method" binding:"required"`
	Items           []struct {
		Name      string   `json:"name" binding:"required"`
		Quantity  int      `json:"quantity" binding:"required,min=1"`
		UnitPrice *float64 `json:"unit_price" binding:"required"`
	} `json:"items" binding:"required,min=1"`
}

// PlaceWebOrder takes an unauthenticated storefront order. It starts with no
// restaurant reference — any restaurant can claim it — and returns a tracking
// code the customer can poll.
func PlaceWebOrder(c *gin.Context) {
	var req WebOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if *req.DeliveryFee < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Delivery fee must not be negative"})
		return
	}
	if !models.ValidPayment(req.PaymentMethod) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment method. Must be: CASH or TRANSFER"})
		return
	}

	var items []models.OrderItem
	for _, it := range req.Items {
		if *it.UnitPrice < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Item price must not be negative"})
			return
		}
		items = append(items, models.OrderItem{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: *it.UnitPrice,
		})
	}

	order := models.Order{
		TrackingCode:    uuid.NewString(),
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryFee:     *req.DeliveryFee,
		PaymentMethod:   req.PaymentMethod,
		Status:          models.StatusPending,
		Items:           items,
	}
	order.RecomputeTotal()

	if err := config.DB.Create(&order).Error; err != nil {
		log.WithError(err).Error("failed to create web order")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	log.WithFields(map[string]interface{}{
		"order_id": order.ID, "total": order.Total,
	}).Info("web order placed")
	notifyOrderChanged()
	c.JSON(http.StatusCreated, gin.H{
		"message":       "Order placed successfully",
		"tracking_code": order.TrackingCode,
		"total":         order.Total,
		"status":        order.Status,
	})
}

// TrackOrder looks up a web order by its tracking code
func TrackOrder(c *gin.Context) {
	var order models.Order
	if err := config.DB.Preload("Items").
		Where("tracking_code = ?", c.Param("code")).
		First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         order.Status,
		"status_display": order.Status.DisplayName(),
		"total":          order.Total,
		"items":          order.Items,
		"created_at":     order.CreatedAt,
	})
}

// GetStateMachineInfo returns the full lifecycle graph for documentation
func GetStateMachineInfo(c *gin.Context) {
	transitions := statemachine.GetAllTransitions()
	info := make([]gin.H, len(transitions))
	for i, t := range transitions {
		info[i] = gin.H{"from": t.From, "to": t.To, "actor": t.Actor}
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"terminal_states": []models.OrderStatus{models.StatusDelivered, models.StatusCancelled},
		"description":     "Order lifecycle state machine",
	})
}
