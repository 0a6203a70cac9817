package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmunteanu/shop-orders/internal/models"
	"github.com/dmunteanu/shop-orders/internal/mykafka"
	"github.com/dmunteanu/shop-orders/internal/service/order"
)

type OrderHandler struct {
	Svc      *order.Service
	Producer *mykafka.Producer
}

func (h *OrderHandler) publish(c echo.Context, event map[string]interface{}) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "order_events", fmt.Sprint(event["orderID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	orders, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return respondInternal(c, "Error getting the order", err)
	}
	return respond(c, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return respondError(c, http.StatusBadRequest, "Order id is not valid")
	}

	o, err := h.Svc.Get(c.Request().Context(), uint(id))
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		return respondError(c, http.StatusNotFound, "Order was not found")
	case err != nil:
		return respondInternal(c, "Error getting the order", err)
	}
	return respond(c, http.StatusOK, "Order was found", o)
}

func (h *OrderHandler) AddProduct(c echo.Context) error {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil || productID <= 0 {
		return respondError(c, http.StatusBadRequest, "Product id is not valid")
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}

	o, err := h.Svc.AddProduct(c.Request().Context(), uint(productID), req.Quantity)
	switch {
	case errors.Is(err, order.ErrProductNotFound):
		return respondError(c, http.StatusNotFound, "Product not found")
	case errors.Is(err, order.ErrInsufficientStock):
		return respondError(c, http.StatusBadRequest, "Insufficient stock")
	case err != nil:
		return respondInternal(c, "Error adding product to orders", err)
	}

	h.publish(c, map[string]interface{}{
		"type":      "product_added_to_order",
		"orderID":   o.ID,
		"productID": o.ProductID,
		"quantity":  o.Quantity,
	})
	return respond(c, http.StatusCreated, "Product added to orders", o)
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var o models.Order
	if err := c.Bind(&o); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}

	if err := h.Svc.Create(c.Request().Context(), &o); err != nil {
		return respondInternal(c, "Error creating the order", err)
	}

	h.publish(c, map[string]interface{}{
		"type":      "order_created",
		"orderID":   o.ID,
		"productID": o.ProductID,
		"quantity":  o.Quantity,
	})
	return respond(c, http.StatusCreated, "Order successfully created", o)
}

func (h *OrderHandler) UpdateOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return respondError(c, http.StatusBadRequest, "Order id is not valid")
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}

	o, err := h.Svc.UpdateQuantity(c.Request().Context(), uint(id), req.Quantity)
	switch {
	case errors.Is(err, order.ErrValidation):
		return respondError(c, http.StatusBadRequest, "Quantity must be at least 1")
	case errors.Is(err, order.ErrOrderNotFound):
		return respondError(c, http.StatusNotFound, "Order was not found")
	case errors.Is(err, order.ErrProductNotFound):
		return respondError(c, http.StatusNotFound, "Product not found")
	case errors.Is(err, order.ErrInsufficientStock):
		return respondError(c, http.StatusBadRequest, "Insufficient stock")
	case err != nil:
		return respondInternal(c, "Error updating the order", err)
	}

	h.publish(c, map[string]interface{}{
		"type":     "order_updated",
		"orderID":  o.ID,
		"quantity": o.Quantity,
	})
	return respond(c, http.StatusOK, "Order updated successfully", o)
}

func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return respondError(c, http.StatusBadRequest, "Order id is not valid")
	}

	err = h.Svc.Delete(c.Request().Context(), uint(id))
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		return respondError(c, http.StatusNotFound, "Order was not found")
	case err != nil:
		return respondInternal(c, "Error deleting the order", err)
	}

	h.publish(c, map[string]interface{}{
		"type":    "order_deleted",
		"orderID": id,
	})
	return respond(c, http.StatusOK, "Order successfully deleted", map[string]interface{}{})
}
