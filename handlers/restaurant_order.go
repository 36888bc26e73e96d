package handlers

import (
	"net/http"

	"pedidos-api/config"
	"pedidos-api/middleware"
	"pedidos-api/models"
	"pedidos-api/statemachine"
	"pedidos-api/views"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreateOrderRequest struct {
	CustomerName    string               `json:"customer_name" binding:"required"`
	CustomerPhone   string               `json:"customer_phone"`
	DeliveryAddress string               `json:"delivery_address" binding:"required"`
	DeliveryFee     *float64             `json:"delivery_fee" binding:"required"`
	PaymentMethod   models.PaymentMethod `json:"payment_method" binding:"required"`
	Items           []struct {
		ProductID uint `json:"product_id" binding:"required"`
		Quantity  int  `json:"quantity" binding:"required,min=1"`
	} `json:"items" binding:"required,min=1"`
}

// CreateOrder creates an internal order from the restaurant's own catalog.
// Line items snapshot the catalog name and price at this moment; later
// catalog edits never change a past order.
func CreateOrder(c *gin.Context) {
	restaurantID := middleware.GetUserID(c)

	var req CreateOrderRequest
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

	var restaurant models.User
	if err := config.DB.First(&restaurant, restaurantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant account not found"})
		return
	}

	var items []models.OrderItem
	for _, reqItem := range req.Items {
		var product models.Product
		if err := config.DB.Where("id = ? AND restaurant_id = ?", reqItem.ProductID, restaurantID).
			First(&product).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product not found in your catalog"})
			return
		}
		items = append(items, models.OrderItem{
			Name:      product.Name,
			Quantity:  reqItem.Quantity,
			UnitPrice: product.Price,
		})
	}

	order := models.Order{
		TrackingCode:    uuid.NewString(),
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryFee:     *req.DeliveryFee,
		PaymentMethod:   req.PaymentMethod,
		RestaurantID:    &restaurant.ID,
		PickupAddress:   restaurant.LocationURL,
		Status:          models.StatusPending,
		Items:           items,
	}
	order.RecomputeTotal()

	if err := config.DB.Create(&order).Error; err != nil {
		log.WithError(err).Error("failed to create order")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	log.WithFields(map[string]interface{}{
		"order_id": order.ID, "restaurant_id": restaurant.ID, "total": order.Total,
	}).Info("order created")
	notifyOrderChanged()
	c.JSON(http.StatusCreated, gin.H{"message": "Order created successfully", "order": order})
}

// GetOrderHistory returns all of the restaurant's orders, newest first
func GetOrderHistory(c *gin.Context) {
	orders, err := views.RestaurantHistory(config.DB, middleware.GetUserID(c))
	if err != nil {
		log.WithError(err).Error("failed to load order history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}

	summary := map[string]int{}
	for _, o := range orders {
		summary[string(o.Status)]++
	}
	c.JSON(http.StatusOK, gin.H{"order_summary": summary, "count": len(orders), "orders": orders})
}

// GetIncomingWebOrders lists unclaimed web orders any restaurant may claim
func GetIncomingWebOrders(c *gin.Context) {
	orders, err := views.RestaurantIncoming(config.DB)
	if err != nil {
		log.WithError(err).Error("failed to load incoming web orders")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// ClaimWebOrder assigns an unclaimed web order to the calling restaurant and
// makes it available for drivers. The write is conditioned on the restaurant
// reference still being null, so at most one restaurant ever wins the claim;
// the loser gets a conflict and a fresh read of who won.
func ClaimWebOrder(c *gin.Context) {
	restaurantID := middleware.GetUserID(c)

	var restaurant models.User
	if err := config.DB.First(&restaurant, restaurantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant account not found"})
		return
	}

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.RestaurantID != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Order has already been claimed by another restaurant"})
		return
	}
	if err := statemachine.CanTransition(order.Status, models.StatusAvailable, statemachine.ActorRestaurant); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Invalid state transition",
			"current_status": order.Status,
			"reason":         err.Error(),
		})
		return
	}

	res := config.DB.Model(&models.Order{}).
		Where("id = ? AND restaurant_id IS NULL AND status = ?", order.ID, models.StatusPending).
		Updates(map[string]interface{}{
			"restaurant_id":  restaurant.ID,
			"pickup_address": restaurant.LocationURL,
			"status":         models.StatusAvailable,
		})
	if res.Error != nil {
		log.WithError(res.Error).Error("failed to claim web order")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to claim order"})
		return
	}
	if res.RowsAffected == 0 {
		// Lost the race: someone claimed it between our read and write
		c.JSON(http.StatusConflict, gin.H{"error": "Order has already been claimed by another restaurant"})
		return
	}

	log.WithFields(map[string]interface{}{
		"order_id": order.ID, "restaurant_id": restaurant.ID,
	}).Info("web order claimed")
	notifyOrderChanged()
	c.JSON(http.StatusOK, gin.H{
		"message":  "Order claimed",
		"order_id": order.ID,
		"status":   models.StatusAvailable,
	})
}

// MarkOrderReady transitions the restaurant's own pending order to available,
// publishing it to the driver pool.
func MarkOrderReady(c *gin.Context) {
	order, ok := ownedOrder(c)
	if !ok {
		return
	}

	if err := statemachine.CanTransition(order.Status, models.StatusAvailable, statemachine.ActorRestaurant); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    order.Status,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(order.Status),
		})
		return
	}

	if err := config.DB.Model(&order).Update("status", models.StatusAvailable).Error; err != nil {
		log.WithError(err).Error("failed to mark order ready")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	notifyOrderChanged()
	c.JSON(http.StatusOK, gin.H{"message": "Order is now available for drivers", "order_id": order.ID, "status": models.StatusAvailable})
}

type EditOrderRequest struct {
	CustomerName    string   `json:"customer_name"`
	CustomerPhone   *string  `json:"customer_phone"`
	DeliveryAddress string   `json:"delivery_address"`
	DeliveryFee     *float64 `json:"delivery_fee"`
}

// EditOrder updates the customer-facing fields of an order. Line items are
// immutable; the total is re-derived from the stored items plus the new fee,
// never taken from input.
func EditOrder(c *gin.Context) {
	order, ok := ownedOrder(c)
	if !ok {
		return
	}
	if order.Status.Terminal() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Cannot edit a " + string(order.Status) + " order"})
		return
	}

	var req EditOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := map[string]interface{}{}
	if req.CustomerName != "" {
		update["customer_name"] = req.CustomerName
	}
	if req.CustomerPhone != nil {
		update["customer_phone"] = *req.CustomerPhone
	}
	if req.DeliveryAddress != "" {
		update["delivery_address"] = req.DeliveryAddress
	}
	if req.DeliveryFee != nil {
		if *req.DeliveryFee < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Delivery fee must not be negative"})
			return
		}
		order.DeliveryFee = *req.DeliveryFee
		order.RecomputeTotal()
		update["delivery_fee"] = order.DeliveryFee
		update["total"] = order.Total
	}
	if len(update) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No editable fields in request"})
		return
	}

	if err := config.DB.Model(&order).Updates(update).Error; err != nil {
		log.WithError(err).Error("failed to edit order")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	notifyOrderChanged()
	c.JSON(http.StatusOK, gin.H{"message": "Order updated", "order": order})
}

// CancelOrder cancels any non-terminal order owned by the restaurant
func CancelOrder(c *gin.Context) {
	order, ok := ownedOrder(c)
	if !ok {
		return
	}

	if err := statemachine.CanTransition(order.Status, models.StatusCancelled, statemachine.ActorRestaurant); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Cannot cancel order",
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

	log.WithField("order_id", order.ID).Info("order cancelled by restaurant")
	notifyOrderChanged()
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully", "order_id": order.ID})
}

// DeleteOrder removes an order permanently. Allowed in any status; the
// record vanishes from every view.
func DeleteOrder(c *gin.Context) {
	order, ok := ownedOrder(c)
	if !ok {
		return
	}

	if err := config.DB.Select("Items").Delete(&order).Error; err != nil {
		log.WithError(err).Error("failed to delete order")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
		return
	}

	log.WithField("order_id", order.ID).Info("order deleted by restaurant")
	notifyOrderChanged()
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted", "order_id": order.ID})
}

// ownedOrder loads the :id order and checks it belongs to the calling
// restaurant. Writes the error response itself when it returns ok=false.
func ownedOrder(c *gin.Context) (models.Order, bool) {
	restaurantID := middleware.GetUserID(c)
	var order models.Order
	if err := config.DB.Preload("Items").First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return order, false
	}
	if order.RestaurantID == nil || *order.RestaurantID != restaurantID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to your restaurant"})
		return order, false
	}
	return order, true
}
