package stream

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/bnema/foodfast-cli/internal/adapters/api"
	"github.com/bnema/foodfast-cli/internal/domain"
)

// AnnouncementTopic streams new restaurant announcements. The feed wraps each
// payload in an {"announcement": ...} envelope exactly once; an already-bare
// payload is decoded as-is.
func AnnouncementTopic() Topic[domain.Announcement] {
	return Topic[domain.Announcement]{
		Path:   "/api/v1/announcements/stream",
		Decode: decodeAnnouncement,
	}
}

func decodeAnnouncement(data []byte) (domain.Announcement, error) {
	var wrapped struct {
		Announcement json.RawMessage `json:"announcement"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && len(wrapped.Announcement) > 0 {
		if string(wrapped.Announcement) == "null" {
			return domain.Announcement{}, fmt.Errorf("decode announcement event: null envelope")
		}
		data = wrapped.Announcement
	}

	var payload struct {
		ID             int64  `json:"id"`
		Title          string `json:"title"`
		Message        string `json:"message"`
		RestaurantName string `json:"restaurant_name"`
		CreatedBy      string `json:"created_by"`
		CreatedAt      string `json:"created_at"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return domain.Announcement{}, fmt.Errorf("decode announcement event: %w", err)
	}

	return domain.Announcement{
		ID:             payload.ID,
		Title:          payload.Title,
		Message:        payload.Message,
		RestaurantName: payload.RestaurantName,
		CreatedBy:      payload.CreatedBy,
		CreatedAt:      api.ParseTimestamp(payload.CreatedAt),
	}, nil
}

// OrderFeedTopic streams order creations and status changes for the employee
// board. Feed events carry the order id under "order_id" while the REST API
// uses "id"; both spellings are accepted.
func OrderFeedTopic() Topic[domain.Order] {
	return Topic[domain.Order]{
		Path:   "/api/v1/orders/stream",
		Decode: decodeOrderEvent,
	}
}

func decodeOrderEvent(data []byte) (domain.Order, error) {
	var payload struct {
		ID              int64    `json:"id"`
		OrderID         int64    `json:"order_id"`
		CustomerID      int64    `json:"customer_id"`
		Items           []string `json:"items"`
		DeliveryAddress string   `json:"delivery_address"`
		RestaurantName  string   `json:"restaurant_name"`
		TotalAmount     float64  `json:"total_amount"`
		Status          string   `json:"status"`
		CreatedAt       string   `json:"created_at"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return domain.Order{}, fmt.Errorf("decode order event: %w", err)
	}

	id := payload.ID
	if id == 0 {
		id = payload.OrderID
	}

	return domain.Order{
		ID:              id,
		CustomerID:      payload.CustomerID,
		Items:           payload.Items,
		DeliveryAddress: payload.DeliveryAddress,
		RestaurantName:  payload.RestaurantName,
		TotalAmount:     payload.TotalAmount,
		Status:          domain.OrderStatus(payload.Status),
		CreatedAt:       api.ParseTimestamp(payload.CreatedAt),
	}, nil
}

// OrderLocationTopic streams the delivery driver's position for one order.
func OrderLocationTopic(orderID, customerID int64) Topic[domain.DriverLocation] {
	query := url.Values{}
	query.Set("customer_id", strconv.FormatInt(customerID, 10))
	return Topic[domain.DriverLocation]{
		Path:  fmt.Sprintf("/api/v1/tracking/order/%d/stream", orderID),
		Query: query,
		Decode: func(data []byte) (domain.DriverLocation, error) {
			var payload struct {
				DriverID  int64   `json:"driver_id"`
				OrderID   int64   `json:"order_id"`
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			}
			if err := json.Unmarshal(data, &payload); err != nil {
				return domain.DriverLocation{}, fmt.Errorf("decode location event: %w", err)
			}
			return domain.DriverLocation{
				DriverID:  payload.DriverID,
				OrderID:   payload.OrderID,
				Latitude:  payload.Latitude,
				Longitude: payload.Longitude,
			}, nil
		},
	}
}
