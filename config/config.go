package config

import (
	"os"

	"pedidos-api/models"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// JWTSecret used to sign tokens — read from env or fallback
var JWTSecret = []byte(GetEnv("JWT_SECRET", "pedidos_super_secret_2024"))

// UploadDir is where the blob store keeps image files.
var UploadDir = GetEnv("UPLOAD_DIR", "uploads")

// GetEnv returns the env value for key, or fallback if unset.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// InitDB opens the database and migrates all models. Fatal on failure:
// nothing works without the store.
func InitDB() {
	OpenDB(GetEnv("DB_PATH", "pedidos.db"))
}

// OpenDB opens the named sqlite database and runs migrations. Tests use this
// directly with ":memory:".
func OpenDB(path string) {
	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		logrus.WithError(err).Fatal("failed to migrate database")
	}

	logrus.WithField("path", path).Info("database connected and migrated")
}
