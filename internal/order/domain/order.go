package domain

import "time"

type OrderType string

const (
	TypePickup   OrderType = "PICKUP"
	TypeDelivery OrderType = "DELIVERY"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusReceived   OrderStatus = "RECEIVED"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

type Order struct {
	OrderID    string      `json:"orderId"`
	OrderType  OrderType   `json:"orderType"`
	Status     OrderStatus `json:"status"`
	PlacedTime time.Time   `json:"orderPlacedTime"`
	DueTime    time.Time   `json:"orderDueTime"`
	Items      []OrderItem `json:"items"`
	CustomerID string      `json:"customerId"`
}

type OrderItem struct {
	SKU             string `json:"sku"`
	Quantity        int    `json:"quantity"`
	TemperatureZone string `json:"temperatureZone"`
}

func NewOrder(id string, typ OrderType, customer string, placed, due time.Time, items []OrderItem) Order {
	return Order{
		OrderID:    id,
		OrderType:  typ,
		Status:     StatusPending,
		PlacedTime: placed,
		DueTime:    due,
		Items:      items,
		CustomerID: customer,
	}
}
