package orderclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmunteanu/shop-orders/internal/models"
)

// Envelope is the {success, message, data} wrapper every endpoint returns.
// Non-2xx responses carry the same shape with success=false, so callers get
// the decoded body either way; only transport failures surface as errors.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *Envelope) Order() (*models.Order, error) {
	var order models.Order
	if err := json.Unmarshal(e.Data, &order); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	return &order, nil
}

func (e *Envelope) Orders() ([]models.Order, error) {
	var orders []models.Order
	if err := json.Unmarshal(e.Data, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient builds a client for the order API. token is the bearer access
// token used on mutating calls; read calls go unauthenticated.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *Client) FetchOrders(ctx context.Context) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, "/orders", nil, false)
}

func (c *Client) GetOrder(ctx context.Context, id uint) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", id), nil, false)
}

func (c *Client) CreateOrder(ctx context.Context, order interface{}) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, "/orders", order, true)
}

func (c *Client) AddProduct(ctx context.Context, productID uint, quantity int) (*Envelope, error) {
	body := map[string]int{"quantity": quantity}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/orders/add-product/%d", productID), body, true)
}

func (c *Client) UpdateOrder(ctx context.Context, id uint, quantity int) (*Envelope, error) {
	body := map[string]int{"quantity": quantity}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/orders/%d", id), body, true)
}

func (c *Client) DeleteOrder(ctx context.Context, id uint) (*Envelope, error) {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/orders/%d", id), nil, true)
}

// Increment raises the order quantity by one.
func (c *Client) Increment(ctx context.Context, order *models.Order) (*Envelope, error) {
	return c.UpdateOrder(ctx, order.ID, order.Quantity+1)
}

// Decrement lowers the order quantity by one. An order already at quantity
// 1 is deleted instead of being updated to zero.
func (c *Client) Decrement(ctx context.Context, order *models.Order) (*Envelope, error) {
	if order.Quantity <= 1 {
		return c.DeleteOrder(ctx, order.ID)
	}
	return c.UpdateOrder(ctx, order.ID, order.Quantity-1)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, authed bool) (*Envelope, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	return &env, nil
}
