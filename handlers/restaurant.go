package handlers

import (
	"net/http"

	"pedidos-api/config"
	"pedidos-api/middleware"
	"pedidos-api/models"

	"github.com/gin-gonic/gin"
)

// ── Catalog Management ──────────────────────────────────────────────────────

// ListMyProducts returns the restaurant's own catalog
func ListMyProducts(c *gin.Context) {
	restaurantID := middleware.GetUserID(c)
	var products []models.Product
	query := config.DB.Where("restaurant_id = ?", restaurantID)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	query.Order("name asc").Find(&products)
	c.JSON(http.StatusOK, gin.H{"count": len(products), "products": products})
}

type CreateProductRequest struct {
	Name     string                 `json:"name" binding:"required"`
	Price    *float64               `json:"price" binding:"required"`
	Category models.ProductCategory `json:"category" binding:"required"`
}

// AddProduct adds a new item to the restaurant's catalog
func AddProduct(c *gin.Context) {
	restaurantID := middleware.GetUserID(c)

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if *req.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must not be negative"})
		return
	}
	if !models.ValidCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category. Must be: PRODUCT or BEVERAGE"})
		return
	}

	product := models.Product{
		RestaurantID: restaurantID,
		Name:         req.Name,
		Price:        *req.Price,
		Category:     req.Category,
	}
	if err := config.DB.Create(&product).Error; err != nil {
		log.WithError(err).Error("failed to add product")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add product"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product added", "product": product})
}

type UpdateProductRequest struct {
	Name     string                  `json:"name"`
	Price    *float64                `json:"price"`
	Category *models.ProductCategory `json:"category"`
}

// UpdateProduct updates a catalog item (only by the owner)
func UpdateProduct(c *gin.Context) {
	product, ok := ownedProduct(c)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := map[string]interface{}{}
	if req.Name != "" {
		update["name"] = req.Name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must not be negative"})
			return
		}
		update["price"] = *req.Price
	}
	if req.Category != nil {
		if !models.ValidCategory(*req.Category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category. Must be: PRODUCT or BEVERAGE"})
			return
		}
		update["category"] = *req.Category
	}
	if len(update) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No editable fields in request"})
		return
	}

	if err := config.DB.Model(&product).Updates(update).Error; err != nil {
		log.WithError(err).Error("failed to update product")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated", "product": product})
}

// DeleteProduct removes a catalog item. Past orders keep their snapshots.
func DeleteProduct(c *gin.Context) {
	product, ok := ownedProduct(c)
	if !ok {
		return
	}
	if err := config.DB.Delete(&product).Error; err != nil {
		log.WithError(err).Error("failed to delete product")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// UploadProductImage stores an image and persists its URL on the item.
func UploadProductImage(c *gin.Context) {
	product, ok := ownedProduct(c)
	if !ok {
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

	if err := config.DB.Model(&product).Update("image_url", url).Error; err != nil {
		log.WithError(err).Error("failed to persist image URL")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Image uploaded", "image_url": url})
}

// ownedProduct loads the :itemId product and checks it belongs to the caller.
// Writes the error response itself when it returns ok=false.
func ownedProduct(c *gin.Context) (models.Product, bool) {
	restaurantID := middleware.GetUserID(c)
	var product models.Product
	if err := config.DB.First(&product, c.Param("itemId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return product, false
	}
	if product.RestaurantID != restaurantID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't own this product"})
		return product, false
	}
	return product, true
}
