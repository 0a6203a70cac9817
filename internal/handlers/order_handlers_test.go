package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dmunteanu/shop-orders/internal/models"
	"github.com/dmunteanu/shop-orders/internal/repo"
	"github.com/dmunteanu/shop-orders/internal/service/order"
)

type testEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newOrderEnv(t *testing.T) (*OrderHandler, *gorm.DB, *echo.Echo) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Order{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	svc := order.NewService(repo.NewGormStore(db))
	return &OrderHandler{Svc: svc}, db, echo.New()
}

func jsonRequest(t *testing.T, e *echo.Echo, method, target string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func seedProduct(t *testing.T, db *gorm.DB, stock int) *models.Product {
	t.Helper()
	product := models.Product{Name: "keyboard", Description: "mechanical", Price: 49.99, Stock: stock}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func TestGetOrderInvalidID(t *testing.T) {
	h, _, e := newOrderEnv(t)

	c, rec := jsonRequest(t, e, http.MethodGet, "/orders/abc", nil)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	require.NoError(t, h.GetOrder(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	require.False(t, env.Success)
	require.Equal(t, "Order id is not valid", env.Message)
}

func TestGetOrderNotFound(t *testing.T) {
	h, _, e := newOrderEnv(t)

	c, rec := jsonRequest(t, e, http.MethodGet, "/orders/99999", nil)
	c.SetParamNames("id")
	c.SetParamValues("99999")

	require.NoError(t, h.GetOrder(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Order was not found", decodeEnvelope(t, rec).Message)
}

func TestAddProduct(t *testing.T) {
	h, db, e := newOrderEnv(t)
	product := seedProduct(t, db, 10)

	c, rec := jsonRequest(t, e, http.MethodPost, "/orders/add-product/1", map[string]int{"quantity": 3})
	c.SetParamNames("productId")
	c.SetParamValues("1")

	require.NoError(t, h.AddProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	env := decodeEnvelope(t, rec)
	require.True(t, env.Success)
	require.Equal(t, "Product added to orders", env.Message)

	var created models.Order
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Equal(t, 3, created.Quantity)
	require.Equal(t, product.ID, created.ProductID)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	require.Equal(t, 7, reloaded.Stock)
}

func TestAddProductInsufficientStock(t *testing.T) {
	h, db, e := newOrderEnv(t)
	seedProduct(t, db, 2)

	c, rec := jsonRequest(t, e, http.MethodPost, "/orders/add-product/1", map[string]int{"quantity": 5})
	c.SetParamNames("productId")
	c.SetParamValues("1")

	require.NoError(t, h.AddProduct(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Insufficient stock", decodeEnvelope(t, rec).Message)
}

func TestAddProductUnknownProduct(t *testing.T) {
	h, _, e := newOrderEnv(t)

	c, rec := jsonRequest(t, e, http.MethodPost, "/orders/add-product/42", nil)
	c.SetParamNames("productId")
	c.SetParamValues("42")

	require.NoError(t, h.AddProduct(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Product not found", decodeEnvelope(t, rec).Message)
}

func TestCreateOrder(t *testing.T) {
	h, db, e := newOrderEnv(t)

	payload := map[string]interface{}{
		"product_id": 7,
		"name":       "imported",
		"price":      9.99,
		"quantity":   2,
	}
	c, rec := jsonRequest(t, e, http.MethodPost, "/orders", payload)

	require.NoError(t, h.CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	env := decodeEnvelope(t, rec)
	require.True(t, env.Success)
	require.Equal(t, "Order successfully created", env.Message)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestUpdateOrder(t *testing.T) {
	h, db, e := newOrderEnv(t)
	product := seedProduct(t, db, 10)

	created, err := h.Svc.AddProduct(context.Background(), product.ID, 3)
	require.NoError(t, err)

	c, rec := jsonRequest(t, e, http.MethodPut, "/orders/1", map[string]int{"quantity": 1})
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.UpdateOrder(c))
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	require.Equal(t, "Order updated successfully", env.Message)

	var updated models.Order
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, 1, updated.Quantity)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	require.Equal(t, 9, reloaded.Stock)
}

func TestUpdateOrderQuantityBelowOne(t *testing.T) {
	h, db, e := newOrderEnv(t)
	product := seedProduct(t, db, 10)

	_, err := h.Svc.AddProduct(context.Background(), product.ID, 3)
	require.NoError(t, err)

	c, rec := jsonRequest(t, e, http.MethodPut, "/orders/1", map[string]int{"quantity": 0})
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.UpdateOrder(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Quantity must be at least 1", decodeEnvelope(t, rec).Message)
}

func TestUpdateOrderNotFound(t *testing.T) {
	h, _, e := newOrderEnv(t)

	c, rec := jsonRequest(t, e, http.MethodPut, "/orders/5", map[string]int{"quantity": 2})
	c.SetParamNames("id")
	c.SetParamValues("5")

	require.NoError(t, h.UpdateOrder(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Order was not found", decodeEnvelope(t, rec).Message)
}

func TestDeleteOrder(t *testing.T) {
	h, db, e := newOrderEnv(t)
	product := seedProduct(t, db, 10)

	created, err := h.Svc.AddProduct(context.Background(), product.ID, 4)
	require.NoError(t, err)

	c, rec := jsonRequest(t, e, http.MethodDelete, "/orders/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.DeleteOrder(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Order successfully deleted", decodeEnvelope(t, rec).Message)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	require.Equal(t, 10, reloaded.Stock)

	_, err = h.Svc.Get(context.Background(), created.ID)
	require.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestListOrders(t *testing.T) {
	h, db, e := newOrderEnv(t)
	product := seedProduct(t, db, 10)

	_, err := h.Svc.AddProduct(context.Background(), product.ID, 2)
	require.NoError(t, err)

	c, rec := jsonRequest(t, e, http.MethodGet, "/orders", nil)

	require.NoError(t, h.ListOrders(c))
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	require.True(t, env.Success)
	require.Equal(t, "Orders retrieved successfully", env.Message)

	var orders []models.Order
	require.NoError(t, json.Unmarshal(env.Data, &orders))
	require.Len(t, orders, 1)
}
