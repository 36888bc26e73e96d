package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pedidos-api/config"
	"pedidos-api/handlers"
	"pedidos-api/middleware"
	"pedidos-api/models"
	"pedidos-api/routes"
	"pedidos-api/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// setupServer gives each test a fresh in-memory database and router.
func setupServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.OpenDB(":memory:")

	images, err := storage.New(t.TempDir())
	require.NoError(t, err)
	handlers.Images = images
	handlers.Hub = nil // live pushes are exercised separately

	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

var userSeq int

func newUser(t *testing.T, role models.UserRole, name string) (models.User, string) {
	t.Helper()
	userSeq++
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := models.User{
		Name:         name,
		Email:        fmt.Sprintf("user%d@example.com", userSeq),
		PasswordHash: string(hash),
		Role:         role,
	}
	if role == models.RoleRestaurant {
		u.LocationURL = "https://maps.app.goo.gl/" + name
	}
	require.NoError(t, config.DB.Create(&u).Error)

	token, err := middleware.GenerateToken(&u)
	require.NoError(t, err)
	return u, token
}

func doRequest(t *testing.T, r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func urlf(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}

func addProduct(t *testing.T, r http.Handler, token, name string, price float64, category models.ProductCategory) uint {
	t.Helper()
	w := doRequest(t, r, http.MethodPost, "/api/restaurant/products", token, gin.H{
		"name": name, "price": price, "category": category,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	product := decode(t, w)["product"].(map[string]interface{})
	return uint(product["id"].(float64))
}
