package routes

import (
	"pedidos-api/handlers"
	"pedidos-api/middleware"
	"pedidos-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/login", handlers.Login)

		// Web storefront: order intake and tracking, no account needed
		public.POST("/orders", handlers.PlaceWebOrder)
		public.GET("/orders/track/:code", handlers.TrackOrder)

		// Lifecycle graph (for docs/Postman)
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", handlers.GetProfile)
		auth.PUT("/profile", handlers.UpdateProfile)
		auth.POST("/profile/photo", handlers.UploadProfilePhoto)
	}

	// ── Restaurant routes ──────────────────────────────────────────
	restaurant := r.Group("/api/restaurant")
	restaurant.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleRestaurant))
	{
		// Catalog management
		restaurant.GET("/products", handlers.ListMyProducts)
		restaurant.POST("/products", handlers.AddProduct)
		restaurant.PUT("/products/:itemId", handlers.UpdateProduct)
		restaurant.DELETE("/products/:itemId", handlers.DeleteProduct)
		restaurant.POST("/products/:itemId/image", handlers.UploadProductImage)

		// Order management
		restaurant.POST("/orders", handlers.CreateOrder)
		restaurant.GET("/orders", handlers.GetOrderHistory)
		restaurant.GET("/orders/incoming", handlers.GetIncomingWebOrders)
		restaurant.PUT("/orders/:id/claim", handlers.ClaimWebOrder)
		restaurant.PUT("/orders/:id/ready", handlers.MarkOrderReady)
		restaurant.PUT("/orders/:id", handlers.EditOrder)
		restaurant.PUT("/orders/:id/cancel", handlers.CancelOrder)
		restaurant.DELETE("/orders/:id", handlers.DeleteOrder)
	}

	// ── Driver routes ──────────────────────────────────────────────
	driver := r.Group("/api/driver")
	driver.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleDriver))
	{
		driver.GET("/orders/available", handlers.GetAvailableOrders)
		driver.GET("/orders/mine", handlers.GetMyDeliveries)
		driver.PUT("/orders/:id/accept", handlers.AcceptOrder)
		driver.PUT("/orders/:id/advance", handlers.AdvanceOrder)
		driver.PUT("/status", handlers.ToggleDriverStatus)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.POST("/users", handlers.CreateUser)
		admin.GET("/users", handlers.AdminGetAllUsers)
		admin.GET("/drivers/active", handlers.AdminGetActiveDrivers)
		admin.GET("/orders", handlers.AdminGetAllOrders)
		admin.PUT("/orders/:id/cancel", handlers.AdminCancelOrder)
		admin.DELETE("/orders/:id", handlers.AdminDeleteOrder)
		admin.GET("/settlement", handlers.GetSettlementReport)
		admin.POST("/settlement/:id", handlers.SettleRestaurant)
		admin.GET("/settlement/export", handlers.ExportSettlementReport)
	}
}
