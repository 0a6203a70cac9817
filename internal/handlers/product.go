package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/dmunteanu/shop-orders/internal/cache"
	"github.com/dmunteanu/shop-orders/internal/models"
	"github.com/dmunteanu/shop-orders/internal/mykafka"
	"github.com/dmunteanu/shop-orders/internal/util"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	Cache    *cache.ProductCache
	ES       *elasticsearch.Client
	Index    string
}

func (h *ProductHandler) publish(c echo.Context, event map[string]interface{}) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(event["productID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// indexProduct mirrors the product into the search index, best-effort.
func (h *ProductHandler) indexProduct(c echo.Context, p *models.Product) {
	if h.ES == nil {
		return
	}
	body, err := json.Marshal(p)
	if err != nil {
		return
	}
	res, err := h.ES.Index(
		h.Index,
		bytes.NewReader(body),
		h.ES.Index.WithDocumentID(strconv.Itoa(int(p.ID))),
		h.ES.Index.WithContext(c.Request().Context()),
	)
	if err != nil {
		c.Logger().Errorf("ES index error: %v", err)
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		c.Logger().Errorf("ES index error: %s", res.Status())
	}
}

func (h *ProductHandler) unindexProduct(c echo.Context, id int) {
	if h.ES == nil {
		return
	}
	res, err := h.ES.Delete(
		h.Index,
		strconv.Itoa(id),
		h.ES.Delete.WithContext(c.Request().Context()),
	)
	if err != nil {
		c.Logger().Errorf("ES delete error: %v", err)
		return
	}
	res.Body.Close()
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.Model(&models.Product{}).Count(&total).Error; err != nil {
		return respondInternal(c, "Error getting the products", err)
	}

	var items []models.Product
	if err := h.DB.Model(&models.Product{}).Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return respondInternal(c, "Error getting the products", err)
	}

	return respond(c, http.StatusOK, "Products retrieved successfully", map[string]interface{}{
		"items": items,
		"meta": map[string]interface{}{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return respondError(c, http.StatusBadRequest, "Product id is not valid")
	}

	ctx := c.Request().Context()
	if cached, ok := h.Cache.Get(ctx, uint(id)); ok {
		return respond(c, http.StatusOK, "Product was found", cached)
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Product not found")
		}
		return respondInternal(c, "Error getting the product", err)
	}

	h.Cache.Set(ctx, &product)
	return respond(c, http.StatusOK, "Product was found", product)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Image       string  `json:"image"`
		Stock       int     `json:"stock"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" || req.Price < 0 || req.Stock < 0 {
		return respondError(c, http.StatusBadRequest, "Invalid product payload")
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Stock:       req.Stock,
	}
	if err := h.DB.Create(&product).Error; err != nil {
		return respondInternal(c, "Error creating the product", err)
	}

	h.publish(c, map[string]interface{}{
		"type":      "product_created",
		"productID": product.ID,
		"name":      product.Name,
	})
	h.indexProduct(c, &product)

	return respond(c, http.StatusCreated, "Product successfully created", product)
}

func (h *ProductHandler) PatchProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return respondError(c, http.StatusBadRequest, "Product id is not valid")
	}

	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Image       string  `json:"image"`
		Stock       int     `json:"stock"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Product not found")
		}
		return respondInternal(c, "Error updating the product", err)
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.Image = req.Image
	product.Stock = req.Stock

	if err := h.DB.Save(&product).Error; err != nil {
		return respondInternal(c, "Error updating the product", err)
	}

	h.Cache.Invalidate(c.Request().Context(), product.ID)
	h.publish(c, map[string]interface{}{
		"type":      "product_updated",
		"productID": product.ID,
		"name":      product.Name,
	})
	h.indexProduct(c, &product)

	return respond(c, http.StatusOK, "Product updated successfully", product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return respondError(c, http.StatusBadRequest, "Product id is not valid")
	}

	if err := h.DB.Delete(&models.Product{}, id).Error; err != nil {
		return respondInternal(c, "Error deleting the product", err)
	}

	h.Cache.Invalidate(c.Request().Context(), uint(id))
	h.publish(c, map[string]interface{}{
		"type":      "product_deleted",
		"productID": id,
	})
	h.unindexProduct(c, id)

	return respond(c, http.StatusOK, "Product successfully deleted", map[string]interface{}{})
}
