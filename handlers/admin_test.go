package handlers_test

import (
	"net/http"
	"testing"

	"pedidos-api/config"
	"pedidos-api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser_AdminOnly(t *testing.T) {
	r := setupServer(t)
	_, adminToken := newUser(t, models.RoleAdmin, "Admin")
	_, restToken := newUser(t, models.RoleRestaurant, "dona-chipa")

	payload := gin.H{
		"name": "Marcos", "email": "marcos@example.com",
		"password": "secret123", "role": "driver",
	}

	w := doRequest(t, r, http.MethodPost, "/api/admin/users", restToken, payload)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/admin/users", "", payload)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/admin/users", adminToken, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var driver models.User
	require.NoError(t, config.DB.Where("email = ?", "marcos@example.com").First(&driver).Error)
	assert.Equal(t, models.RoleDriver, driver.Role)
	assert.Equal(t, models.DriverInactive, driver.DriverStatus)
}

func TestCreateUser_RestaurantNeedsLocation(t *testing.T) {
	r := setupServer(t)
	_, adminToken := newUser(t, models.RoleAdmin, "Admin")

	w := doRequest(t, r, http.MethodPost, "/api/admin/users", adminToken, gin.H{
		"name": "Lomiteria", "email": "lomi@example.com",
		"password": "secret123", "role": "restaurant",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/admin/users", adminToken, gin.H{
		"name": "Lomiteria", "email": "lomi@example.com",
		"password": "secret123", "role": "restaurant",
		"location_url": "https://maps.app.goo.gl/lomi",
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestCreateUser_DuplicateEmailAndBadRole(t *testing.T) {
	r := setupServer(t)
	_, adminToken := newUser(t, models.RoleAdmin, "Admin")

	payload := gin.H{
		"name": "Marcos", "email": "dup@example.com",
		"password": "secret123", "role": "driver",
	}
	w := doRequest(t, r, http.MethodPost, "/api/admin/users", adminToken, payload)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/admin/users", adminToken, payload)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/admin/users", adminToken, gin.H{
		"name": "X", "email": "x@example.com", "password": "secret123", "role": "customer",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminGetActiveDrivers(t *testing.T) {
	r := setupServer(t)
	_, adminToken := newUser(t, models.RoleAdmin, "Admin")
	active, activeToken := newUser(t, models.RoleDriver, "Marcos")
	newUser(t, models.RoleDriver, "Luis") // stays inactive

	w := doRequest(t, r, http.MethodPut, "/api/driver/status", activeToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "active", decode(t, w)["driver_status"])

	w = doRequest(t, r, http.MethodGet, "/api/admin/drivers/active", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.Equal(t, 1.0, body["count"])
	drivers := body["drivers"].([]interface{})
	got := drivers[0].(map[string]interface{})
	assert.Equal(t, float64(active.ID), got["id"])

	// Second toggle goes back to inactive
	w = doRequest(t, r, http.MethodPut, "/api/driver/status", activeToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "inactive", decode(t, w)["driver_status"])
}

func TestAdminCancelOrder_NonTerminalOnly(t *testing.T) {
	r := setupServer(t)
	_, adminToken := newUser(t, models.RoleAdmin, "Admin")
	_, restToken := newUser(t, models.RoleRestaurant, "dona-chipa")
	pizzaID := addProduct(t, r, restToken, "Pizza", 50000, models.CategoryProduct)
	sodaID := addProduct(t, r, restToken, "Soda", 5000, models.CategoryBeverage)
	orderID := createInternalOrder(t, r, restToken, pizzaID, sodaID)

	w := doRequest(t, r, http.MethodPut, urlf("/api/admin/orders/%d/cancel", orderID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var order models.Order
	require.NoError(t, config.DB.First(&order, orderID).Error)
	assert.Equal(t, models.StatusCancelled, order.Status)

	w = doRequest(t, r, http.MethodPut, urlf("/api/admin/orders/%d/cancel", orderID), adminToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAdminOrders_SummaryCounts(t *testing.T) {
	r := setupServer(t)
	_, adminToken := newUser(t, models.RoleAdmin, "Admin")
	_, restToken := newUser(t, models.RoleRestaurant, "dona-chipa")
	pizzaID := addProduct(t, r, restToken, "Pizza", 50000, models.CategoryProduct)
	sodaID := addProduct(t, r, restToken, "Soda", 5000, models.CategoryBeverage)

	createInternalOrder(t, r, restToken, pizzaID, sodaID)
	second := createInternalOrder(t, r, restToken, pizzaID, sodaID)
	doRequest(t, r, http.MethodPut, urlf("/api/restaurant/orders/%d/cancel", second), restToken, nil)

	w := doRequest(t, r, http.MethodGet, "/api/admin/orders", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, 2.0, body["count"])
	summary := body["order_summary"].(map[string]interface{})
	assert.Equal(t, 1.0, summary["PENDING"])
	assert.Equal(t, 1.0, summary["CANCELLED"])
}

func TestSettlementEndpoints(t *testing.T) {
	r := setupServer(t)
	_, adminToken := newUser(t, models.RoleAdmin, "Admin")
	rest, restToken := newUser(t, models.RoleRestaurant, "dona-chipa")
	pizzaID := addProduct(t, r, restToken, "Pizza", 50000, models.CategoryProduct)
	sodaID := addProduct(t, r, restToken, "Soda", 5000, models.CategoryBeverage)
	createInternalOrder(t, r, restToken, pizzaID, sodaID)
	createInternalOrder(t, r, restToken, pizzaID, sodaID)

	w := doRequest(t, r, http.MethodGet, "/api/admin/settlement", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.Equal(t, 1.0, body["count"])
	row := body["report"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, 20000.0, row["pending_total"]) // two fees of 10000

	w = doRequest(t, r, http.MethodPost, urlf("/api/admin/settlement/%d", rest.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 2.0, decode(t, w)["settled_orders"])

	// Re-running settles nothing
	w = doRequest(t, r, http.MethodPost, urlf("/api/admin/settlement/%d", rest.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.0, decode(t, w)["settled_orders"])

	w = doRequest(t, r, http.MethodPost, "/api/admin/settlement/9999", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportSettlementReport(t *testing.T) {
	r := setupServer(t)
	_, adminToken := newUser(t, models.RoleAdmin, "Admin")
	newUser(t, models.RoleRestaurant, "dona-chipa")

	w := doRequest(t, r, http.MethodGet, "/api/admin/settlement/export", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.NotZero(t, w.Body.Len())
}
