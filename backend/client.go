// Package backend is the client for the order service REST contract. The
// relational store behind it is authoritative; everything surfaces hold
// locally is speculative display state.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/yaman786/sangeet-restaurant-website-sub001/models"
	"github.com/yaman786/sangeet-restaurant-website-sub001/policy"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrTableNotFound = errors.New("table not found")
)

type Client struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type CreateOrderItem struct {
	MenuItemID      uint   `json:"menu_item_id"`
	Quantity        int    `json:"quantity"`
	SpecialRequests string `json:"special_requests,omitempty"`
}

type CreateOrderRequest struct {
	TableID             uint              `json:"table_id"`
	CustomerName        string            `json:"customer_name"`
	SpecialInstructions string            `json:"special_instructions,omitempty"`
	Items               []CreateOrderItem `json:"items"`
}

// CreateOrderResult reports whether the backend folded the items into an
// existing non-terminal order for the same customer/table instead of opening
// a new one.
type CreateOrderResult struct {
	Order  models.Order `json:"order"`
	Merged bool         `json:"merged"`
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	var res CreateOrderResult
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

type updateStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

// UpdateOrderStatus moves one order. A completion blocked by sibling active
// orders comes back as *policy.CompletionBlockedError.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID uint, status models.OrderStatus) (*models.Order, error) {
	var order models.Order
	path := fmt.Sprintf("/api/orders/%d/status", orderID)
	if err := c.do(ctx, http.MethodPut, path, updateStatusRequest{Status: status}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

type bulkUpdateRequest struct {
	OrderIDs []uint             `json:"order_ids"`
	Status   models.OrderStatus `json:"status"`
}

func (c *Client) BulkUpdateOrderStatus(ctx context.Context, orderIDs []uint, status models.OrderStatus) error {
	return c.do(ctx, http.MethodPut, "/api/orders/bulk-status", bulkUpdateRequest{OrderIDs: orderIDs, Status: status}, nil)
}

func (c *Client) DeleteOrder(ctx context.Context, orderID uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/orders/%d", orderID), nil, nil)
}

type SearchFilters struct {
	Status   models.OrderStatus
	TableID  uint
	DateFrom time.Time
	DateTo   time.Time
	Query    string
}

func (c *Client) SearchOrders(ctx context.Context, f SearchFilters) ([]models.Order, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.TableID != 0 {
		q.Set("table_id", strconv.FormatUint(uint64(f.TableID), 10))
	}
	if !f.DateFrom.IsZero() {
		q.Set("date_from", f.DateFrom.Format(time.RFC3339))
	}
	if !f.DateTo.IsZero() {
		q.Set("date_to", f.DateTo.Format(time.RFC3339))
	}
	if f.Query != "" {
		q.Set("q", f.Query)
	}

	path := "/api/orders"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetOrderByID(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/orders/%d", orderID), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) GetOrdersByTable(ctx context.Context, tableNumber int) ([]models.Order, error) {
	var orders []models.Order
	path := fmt.Sprintf("/api/tables/%d/orders", tableNumber)
	if err := c.do(ctx, http.MethodGet, path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetTableByQRCode(ctx context.Context, code string) (*models.Table, error) {
	var table models.Table
	path := "/api/tables/by-code/" + url.PathEscape(code)
	if err := c.do(ctx, http.MethodGet, path, nil, &table); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return &table, nil
}

func (c *Client) FetchTables(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	if err := c.do(ctx, http.MethodGet, "/api/tables", nil, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// conflictBody is the structured refusal the backend sends when completion is
// blocked by sibling active orders.
type conflictBody struct {
	Error        string         `json:"error"`
	CustomerName string         `json:"customer_name"`
	ActiveOrders []models.Order `json:"active_orders"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return ErrOrderNotFound
	case resp.StatusCode == http.StatusConflict:
		var conflict conflictBody
		if err := json.NewDecoder(resp.Body).Decode(&conflict); err == nil && len(conflict.ActiveOrders) > 0 {
			return &policy.CompletionBlockedError{
				CustomerName: conflict.CustomerName,
				ActiveOrders: conflict.ActiveOrders,
			}
		}
		return fmt.Errorf("conflict: %s", conflict.Error)
	default:
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status: %d, body: %s", resp.StatusCode, string(data))
	}
}
