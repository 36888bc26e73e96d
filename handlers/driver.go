package handlers

import (
	"net/http"

	"pedidos-api/config"
	"pedidos-api/maplink"
	"pedidos-api/middleware"
	"pedidos-api/models"
	"pedidos-api/statemachine"
	"pedidos-api/views"

	"github.com/gin-gonic/gin"
)

// GetAvailableOrders shows claimed orders waiting for a driver, plus
// unclaimed web orders as a preview of what's coming.
func GetAvailableOrders(c *gin.Context) {
	orders, err := views.DriverAvailable(config.DB)
	if err != nil {
		log.WithError(err).Error("failed to load available orders")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetMyDeliveries returns the driver's in-flight orders with navigation links
func GetMyDeliveries(c *gin.Context) {
	orders, err := views.DriverMine(config.DB, middleware.GetUserID(c))
	if err != nil {
		log.WithError(err).Error("failed to load driver deliveries")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}

	type delivery struct {
		models.Order
		PickupLink      string `json:"pickup_link,omitempty"`
		DestinationLink string `json:"destination_link,omitempty"`
	}
	deliveries := make([]delivery, len(orders))
	for i, o := range orders {
		deliveries[i] = delivery{
			Order:           o,
			PickupLink:      maplink.Pickup(o.PickupAddress),
			DestinationLink: maplink.Destination(o.DeliveryAddress),
		}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(deliveries), "orders": deliveries})
}

// AcceptOrder assigns an available order to the calling driver and moves it
// to accepted. The driver reference is set exactly once: the write is
// conditioned on it still being null, so a second driver's attempt affects
// zero rows and is reported as a conflict.
func AcceptOrder(c *gin.Context) {
	driverID := middleware.GetUserID(c)

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.DriverID != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Order has already been accepted by another driver"})
		return
	}
	if err := statemachine.CanTransition(order.Status, models.StatusAccepted, statemachine.ActorDriver); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    order.Status,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(order.Status),
		})
		return
	}

	res := config.DB.Model(&models.Order{}).
		Where("id = ? AND driver_id IS NULL AND status = ?", order.ID, models.StatusAvailable).
		Updates(map[string]interface{}{
			"driver_id": driverID,
			"status":    models.StatusAccepted,
		})
	if res.Error != nil {
		log.WithError(res.Error).Error("failed to accept order")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept order"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Order has already been accepted by another driver"})
		return
	}

	log.WithFields(map[string]interface{}{
		"order_id": order.ID, "driver_id": driverID,
	}).Info("order accepted")
	notifyOrderChanged()
	c.JSON(http.StatusOK, gin.H{
		"message":  "Order accepted",
		"order_id": order.ID,
		"status":   models.StatusAccepted,
	})
}

type AdvanceOrderRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdvanceOrder moves an assigned order forward (en route, then delivered).
// Accepts legacy status spellings; only the assigned driver may advance.
func AdvanceOrder(c *gin.Context) {
	driverID := middleware.GetUserID(c)

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.DriverID == nil || *order.DriverID != driverID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not the assigned driver for this order"})
		return
	}

	var req AdvanceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	target, err := statemachine.ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := statemachine.CanTransition(order.Status, target, statemachine.ActorDriver); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    order.Status,
			"requested":         target,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(order.Status),
		})
		return
	}

	if err := config.DB.Model(&order).Update("status", target).Error; err != nil {
		log.WithError(err).Error("failed to advance order")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	log.WithFields(map[string]interface{}{
		"order_id": order.ID, "driver_id": driverID, "status": target,
	}).Info("order advanced")
	notifyOrderChanged()
	c.JSON(http.StatusOK, gin.H{
		"message":  "Order updated to " + target.DisplayName(),
		"order_id": order.ID,
		"status":   target,
	})
}

// ToggleDriverStatus flips the driver between active and inactive
func ToggleDriverStatus(c *gin.Context) {
	driverID := middleware.GetUserID(c)
	var driver models.User
	if err := config.DB.First(&driver, driverID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
		return
	}

	newStatus := models.DriverActive
	if driver.DriverStatus == models.DriverActive {
		newStatus = models.DriverInactive
	}
	if err := config.DB.Model(&driver).Update("driver_status", newStatus).Error; err != nil {
		log.WithError(err).Error("failed to toggle driver status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated", "driver_status": newStatus})
}
