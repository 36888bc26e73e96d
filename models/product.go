package models

import "time"

// ProductCategory splits the catalog the way the order builder consumes it.
type ProductCategory string

const (
	CategoryProduct  ProductCategory = "PRODUCT"
	CategoryBeverage ProductCategory = "BEVERAGE"
)

// ValidCategory reports whether c is a known catalog category.
func ValidCategory(c ProductCategory) bool {
	return c == CategoryProduct || c == CategoryBeverage
}

// Product is a sellable catalog item owned by exactly one restaurant.
type Product struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	RestaurantID uint            `json:"restaurant_id" gorm:"not null;index"`
	Name         string          `json:"name" gorm:"not null"`
	Price        float64         `json:"price" gorm:"not null"`
	Category     ProductCategory `json:"category" gorm:"not null;default:'PRODUCT'"`
	ImageURL     string          `json:"image_url,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
