package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bnema/foodfast-cli/internal/domain"
)

// PostDriverLocation reports a driver position. The backend implicitly
// creates the driver and attaches the order on first contact.
func (c *Client) PostDriverLocation(ctx context.Context, loc domain.DriverLocation) error {
	path := fmt.Sprintf("/api/v1/drivers/%d/location", loc.DriverID)
	body := map[string]any{
		"latitude":  loc.Latitude,
		"longitude": loc.Longitude,
		"order_id":  loc.OrderID,
	}

	var resp struct {
		Success bool   `json:"success"`
		Err     string `json:"error"`
	}
	if err := c.do(ctx, http.MethodPost, path, nil, body, &resp); err != nil {
		return fmt.Errorf("post driver location: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("post driver location: %s", resp.Err)
	}

	return nil
}

func (c *Client) SetDriverOnline(ctx context.Context, driverID int64, online bool, orderID int64) error {
	path := fmt.Sprintf("/api/v1/drivers/%d/online", driverID)
	body := map[string]any{"is_online": online}
	if orderID > 0 {
		body["current_order_id"] = orderID
	}

	var resp struct {
		Success bool `json:"success"`
	}
	if err := c.do(ctx, http.MethodPost, path, nil, body, &resp); err != nil {
		return fmt.Errorf("set driver online: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("set driver online: backend rejected update")
	}

	return nil
}
