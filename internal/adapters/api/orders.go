package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bnema/foodfast-cli/internal/domain"
)

type orderPayload struct {
	ID              int64    `json:"id"`
	CustomerID      int64    `json:"customer_id"`
	Items           []string `json:"items"`
	DeliveryAddress string   `json:"delivery_address"`
	RestaurantName  string   `json:"restaurant_name"`
	TotalAmount     float64  `json:"total_amount"`
	Status          string   `json:"status"`
	CreatedAt       string   `json:"created_at"`
}

func (o orderPayload) toDomain() domain.Order {
	return domain.Order{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		Items:           o.Items,
		DeliveryAddress: o.DeliveryAddress,
		RestaurantName:  o.RestaurantName,
		TotalAmount:     o.TotalAmount,
		Status:          domain.OrderStatus(o.Status),
		CreatedAt:       ParseTimestamp(o.CreatedAt),
	}
}

// ParseTimestamp decodes the backend's ISO-8601 timestamps, which come with
// or without fractional seconds and usually without a zone.
func ParseTimestamp(raw string) time.Time {
	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999",
		"2006-01-02T15:04:05",
	} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return time.Time{}
}

type orderResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    orderPayload `json:"data"`
}

type orderListResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    []orderPayload `json:"data"`
}

type CreateOrderArgs struct {
	CustomerID      int64    `json:"customer_id"`
	Items           []string `json:"items"`
	DeliveryAddress string   `json:"delivery_address"`
	RestaurantName  string   `json:"restaurant_name,omitempty"`
	TotalAmount     float64  `json:"total_amount"`
}

func (c *Client) CreateOrder(ctx context.Context, args CreateOrderArgs) (domain.Order, error) {
	var resp orderResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/orders", nil, args, &resp); err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}
	if !resp.Success {
		return domain.Order{}, fmt.Errorf("create order: %s", resp.Message)
	}

	return resp.Data.toDomain(), nil
}

func (c *Client) CustomerOrders(ctx context.Context, customerID int64) ([]domain.Order, error) {
	path := fmt.Sprintf("/api/v1/orders/customer/%d", customerID)

	var resp orderListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("list customer orders: %w", err)
	}

	return toDomainOrders(resp.Data), nil
}

func (c *Client) AllOrders(ctx context.Context) ([]domain.Order, error) {
	var resp orderListResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/orders/all", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("list all orders: %w", err)
	}

	return toDomainOrders(resp.Data), nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (domain.Order, error) {
	path := fmt.Sprintf("/api/v1/orders/%d/status", orderID)
	body := map[string]string{"status": string(status)}

	var resp orderResponse
	if err := c.do(ctx, http.MethodPut, path, nil, body, &resp); err != nil {
		return domain.Order{}, fmt.Errorf("update order status: %w", orderErr(err))
	}
	if !resp.Success {
		return domain.Order{}, fmt.Errorf("update order status: %s", resp.Message)
	}

	return resp.Data.toDomain(), nil
}

// TrackOrder is one long-poll iteration: the backend holds the request until
// the status moves past lastStatus or the timeout expires, then returns the
// current order either way. lastStatus empty means "first look, answer now".
func (c *Client) TrackOrder(ctx context.Context, orderID int64, lastStatus domain.OrderStatus, timeout time.Duration) (domain.Order, error) {
	path := fmt.Sprintf("/api/v1/orders/%d/track", orderID)

	query := url.Values{}
	if lastStatus != "" {
		query.Set("last_status", string(lastStatus))
		query.Set("timeout", strconv.Itoa(int(timeout/time.Second)))
	}

	// Leave headroom over the server-side hold so a full hold is not
	// misreported as a transport failure.
	trackCtx, cancel := context.WithTimeout(ctx, timeout+15*time.Second)
	defer cancel()

	var resp orderResponse
	if err := c.do(trackCtx, http.MethodGet, path, query, nil, &resp); err != nil {
		return domain.Order{}, fmt.Errorf("track order: %w", orderErr(err))
	}
	if !resp.Success {
		return domain.Order{}, fmt.Errorf("track order: %s", resp.Message)
	}

	return resp.Data.toDomain(), nil
}

// orderErr maps the backend's 404 for a missing order onto
// domain.ErrOrderNotFound so callers can match it with errors.Is.
func orderErr(err error) error {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return fmt.Errorf("%w: %v", domain.ErrOrderNotFound, err)
	}
	return err
}

func toDomainOrders(payloads []orderPayload) []domain.Order {
	orders := make([]domain.Order, 0, len(payloads))
	for _, payload := range payloads {
		orders = append(orders, payload.toDomain())
	}
	return orders
}
