package main

import (
	"net/http"
	"os"

	"pedidos-api/config"
	"pedidos-api/handlers"
	"pedidos-api/jobs"
	"pedidos-api/live"
	"pedidos-api/models"
	"pedidos-api/routes"
	"pedidos-api/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	logger := logrus.StandardLogger()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if lvl, err := logrus.ParseLevel(config.GetEnv("LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(lvl)
	}

	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	config.InitDB()
	seedAdmin(logger)

	// Blob store for profile and catalog images
	images, err := storage.New(config.UploadDir)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize blob store")
	}
	handlers.Images = images

	// Live view hub: every order mutation pushes fresh snapshots
	hub := live.NewHub(config.DB, logger)
	go hub.Run()
	handlers.Hub = hub

	// Periodic settlement summary for admin dashboards
	summaryJob := jobs.NewSettlementSummaryJob(config.DB, hub, logger)
	if err := summaryJob.Start(); err != nil {
		logger.WithError(err).Fatal("failed to start settlement summary job")
	}
	defer summaryJob.Stop()

	r := gin.New()
	r.Use(gin.Recovery())

	// CORS middleware for the dashboards
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "healthy",
			"service":      "Pedidos Delivery Coordination API",
			"live_clients": hub.ClientCount(),
		})
	})

	// Live dashboard feed
	r.GET("/ws", hub.HandleWebSocket)

	// Uploaded images are publicly resolvable
	r.Static(storage.URLPrefix, images.Dir())

	// Register all routes
	routes.SetupRoutes(r)

	port := config.GetEnv("PORT", "8080")
	logger.WithField("port", port).Info("server starting")
	if err := r.Run(":" + port); err != nil {
		logger.WithError(err).Fatal("failed to start server")
	}
}

// seedAdmin creates the bootstrap admin account when the directory has none.
// Every other account is created in-app by an admin.
func seedAdmin(logger *logrus.Logger) {
	var count int64
	config.DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}

	email := config.GetEnv("ADMIN_EMAIL", "admin@pedidos.local")
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		logger.Warn("no admin account and ADMIN_PASSWORD unset, skipping bootstrap")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.WithError(err).Fatal("failed to hash bootstrap admin password")
	}
	admin := models.User{
		Name:         "Administrador",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := config.DB.Create(&admin).Error; err != nil {
		logger.WithError(err).Fatal("failed to create bootstrap admin")
	}
	logger.WithField("email", email).Info("bootstrap admin created")
}
