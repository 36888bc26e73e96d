package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleRestaurant UserRole = "restaurant"
	RoleDriver     UserRole = "driver"
)

// ValidRole reports whether r is one of the three known roles.
func ValidRole(r UserRole) bool {
	return r == RoleAdmin || r == RoleRestaurant || r == RoleDriver
}

// DriverStatus is the driver's availability toggle
type DriverStatus string

const (
	DriverActive   DriverStatus = "active"
	DriverInactive DriverStatus = "inactive"
)

// User is one account in the directory. Restaurants and drivers carry
// role-specific profile fields; the unused ones stay at their zero value.
// Accounts are created by an admin only and never deleted in-app.
type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Name         string   `json:"name" gorm:"not null"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string   `json:"-" gorm:"not null"`
	Role         UserRole `json:"role" gorm:"not null"`

	// Restaurant profile
	LocationURL string   `json:"location_url,omitempty"` // maps link to the pickup point
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	PhotoURL    string   `json:"photo_url,omitempty"`

	// Driver profile
	DriverStatus DriverStatus `json:"driver_status,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
