package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dmunteanu/shop-orders/internal/models"
)

func newProductEnv(t *testing.T) (*ProductHandler, *gorm.DB, *echo.Echo) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Order{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	// nil cache, producer and ES: all are optional collaborators
	return &ProductHandler{DB: db, Index: "product"}, db, echo.New()
}

func TestGetProduct(t *testing.T) {
	h, db, e := newProductEnv(t)
	product := models.Product{Name: "keyboard", Price: 49.99, Stock: 5}
	require.NoError(t, db.Create(&product).Error)

	c, rec := jsonRequest(t, e, http.MethodGet, "/products/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.GetProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Product was found", decodeEnvelope(t, rec).Message)
}

func TestGetProductNotFound(t *testing.T) {
	h, _, e := newProductEnv(t)

	c, rec := jsonRequest(t, e, http.MethodGet, "/products/77", nil)
	c.SetParamNames("id")
	c.SetParamValues("77")

	require.NoError(t, h.GetProduct(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProduct(t *testing.T) {
	h, db, e := newProductEnv(t)

	payload := map[string]interface{}{
		"name":        "mouse",
		"description": "wireless",
		"price":       19.99,
		"image":       "mouse.png",
		"stock":       12,
	}
	c, rec := jsonRequest(t, e, http.MethodPost, "/products", payload)

	require.NoError(t, h.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCreateProductRejectsEmptyName(t *testing.T) {
	h, _, e := newProductEnv(t)

	c, rec := jsonRequest(t, e, http.MethodPost, "/products", map[string]interface{}{"price": 1.0})

	require.NoError(t, h.CreateProduct(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProductsPagination(t *testing.T) {
	h, db, e := newProductEnv(t)
	for i := 0; i < 15; i++ {
		require.NoError(t, db.Create(&models.Product{Name: "item", Price: 1, Stock: 1}).Error)
	}

	c, rec := jsonRequest(t, e, http.MethodGet, "/products?page=2&size=10", nil)

	require.NoError(t, h.GetProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	require.True(t, env.Success)

	var data struct {
		Items []models.Product `json:"items"`
		Meta  struct {
			Page    int   `json:"page"`
			Total   int64 `json:"total"`
			HasNext bool  `json:"has_next"`
			HasPrev bool  `json:"has_prev"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Items, 5)
	require.Equal(t, 2, data.Meta.Page)
	require.EqualValues(t, 15, data.Meta.Total)
	require.False(t, data.Meta.HasNext)
	require.True(t, data.Meta.HasPrev)
}
