package domain

import "time"

type OrderStatus string

const (
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderPickedUp  OrderStatus = "picked_up"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// Terminal reports whether no further status transitions are expected.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderConfirmed, OrderPreparing, OrderReady, OrderPickedUp, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type Order struct {
	ID              int64
	CustomerID      int64
	Items           []string
	DeliveryAddress string
	RestaurantName  string
	TotalAmount     float64
	Status          OrderStatus
	CreatedAt       time.Time
}
