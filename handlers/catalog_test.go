package handlers_test

import (
	"net/http"
	"testing"

	"pedidos-api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_ScopedToOwner(t *testing.T) {
	r := setupServer(t)
	_, tokenA := newUser(t, models.RoleRestaurant, "dona-chipa")
	_, tokenB := newUser(t, models.RoleRestaurant, "lomiteria")
	addProduct(t, r, tokenA, "Pizza", 50000, models.CategoryProduct)
	addProduct(t, r, tokenB, "Lomito", 35000, models.CategoryProduct)

	w := doRequest(t, r, http.MethodGet, "/api/restaurant/products", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.Equal(t, 1.0, body["count"])
	product := body["products"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Pizza", product["name"])
}

func TestCatalog_CategoryFilter(t *testing.T) {
	r := setupServer(t)
	_, token := newUser(t, models.RoleRestaurant, "dona-chipa")
	addProduct(t, r, token, "Pizza", 50000, models.CategoryProduct)
	addProduct(t, r, token, "Soda", 5000, models.CategoryBeverage)

	w := doRequest(t, r, http.MethodGet, "/api/restaurant/products?category=BEVERAGE", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.Equal(t, 1.0, body["count"])
	product := body["products"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Soda", product["name"])
}

func TestAddProduct_Validation(t *testing.T) {
	r := setupServer(t)
	_, token := newUser(t, models.RoleRestaurant, "dona-chipa")

	w := doRequest(t, r, http.MethodPost, "/api/restaurant/products", token, gin.H{
		"name": "Pizza", "price": -1, "category": "PRODUCT",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/restaurant/products", token, gin.H{
		"name": "Pizza", "price": 50000, "category": "DESSERT",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateProduct_OwnershipEnforced(t *testing.T) {
	r := setupServer(t)
	_, tokenA := newUser(t, models.RoleRestaurant, "dona-chipa")
	_, tokenB := newUser(t, models.RoleRestaurant, "lomiteria")
	pizzaID := addProduct(t, r, tokenA, "Pizza", 50000, models.CategoryProduct)

	w := doRequest(t, r, http.MethodPut, urlf("/api/restaurant/products/%d", pizzaID), tokenB, gin.H{"price": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodDelete, urlf("/api/restaurant/products/%d", pizzaID), tokenB, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodPut, urlf("/api/restaurant/products/%d", pizzaID), tokenA, gin.H{"price": 55000})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodPut, "/api/restaurant/products/9999", tokenA, gin.H{"price": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteProduct_KeepsOrderSnapshots(t *testing.T) {
	r := setupServer(t)
	_, token := newUser(t, models.RoleRestaurant, "dona-chipa")
	pizzaID := addProduct(t, r, token, "Pizza", 50000, models.CategoryProduct)
	sodaID := addProduct(t, r, token, "Soda", 5000, models.CategoryBeverage)
	orderID := createInternalOrder(t, r, token, pizzaID, sodaID)

	w := doRequest(t, r, http.MethodDelete, urlf("/api/restaurant/products/%d", pizzaID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/restaurant/orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders := decode(t, w)["orders"].([]interface{})
	require.Len(t, orders, 1)
	got := orders[0].(map[string]interface{})
	assert.Equal(t, float64(orderID), got["id"])
	assert.Equal(t, 70000.0, got["total"])
}
