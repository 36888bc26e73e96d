// Package views holds the role-scoped read filters over the order ledger.
// Every dashboard — HTTP reads and live pushes alike — goes through the same
// predicate here instead of wiring its own query, so a mutation observed by
// one consumer is derived identically for all of them.
package views

import (
	"pedidos-api/models"

	"gorm.io/gorm"
)

// DriverAvailable lists orders a driver could take: unclaimed web orders plus
// claimed orders waiting for a driver, oldest first so the queue drains fairly.
func DriverAvailable(db *gorm.DB) ([]models.Order, error) {
	var orders []models.Order
	err := db.Preload("Items").Preload("Restaurant").
		Where("status IN ?", []models.OrderStatus{models.StatusPending, models.StatusAvailable}).
		Order("created_at asc").
		Find(&orders).Error
	return orders, err
}

// DriverMine lists the driver's in-flight deliveries.
func DriverMine(db *gorm.DB, driverID uint) ([]models.Order, error) {
	var orders []models.Order
	err := db.Preload("Items").Preload("Restaurant").
		Where("driver_id = ? AND status IN ?", driverID,
			[]models.OrderStatus{models.StatusAccepted, models.StatusEnRoute}).
		Order("updated_at desc").
		Find(&orders).Error
	return orders, err
}

// RestaurantHistory lists every order belonging to a restaurant, newest first.
func RestaurantHistory(db *gorm.DB, restaurantID uint) ([]models.Order, error) {
	var orders []models.Order
	err := db.Preload("Items").Preload("Driver").
		Where("restaurant_id = ?", restaurantID).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

// RestaurantIncoming lists unclaimed web orders any restaurant may claim.
func RestaurantIncoming(db *gorm.DB) ([]models.Order, error) {
	var orders []models.Order
	err := db.Preload("Items").
		Where("restaurant_id IS NULL AND status = ?", models.StatusPending).
		Order("created_at asc").
		Find(&orders).Error
	return orders, err
}

// AdminAll is the unfiltered ledger, newest first.
func AdminAll(db *gorm.DB) ([]models.Order, error) {
	var orders []models.Order
	err := db.Preload("Items").Preload("Restaurant").Preload("Driver").
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}
