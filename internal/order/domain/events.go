package domain

import "time"

// OrderReceived is the payload published on the order.received topic.
type OrderReceived struct {
	OrderID    string      `json:"orderId"`
	OrderType  OrderType   `json:"orderType"`
	PlacedTime time.Time   `json:"orderPlacedTime"`
	DueTime    time.Time   `json:"orderDueTime"`
	Items      []OrderItem `json:"items"`
	CustomerID string      `json:"customerId"`
	SenderID   string      `json:"senderId"`
}

// OrderProcessed is the payload published on the order.processed topic.
type OrderProcessed struct {
	OrderID       string    `json:"orderId"`
	Status        string    `json:"status"` // PROCESSING, COMPLETED, FAILED
	ProcessedTime time.Time `json:"processedTime"`
	Message       string    `json:"message"`
}

const (
	ProcessedStatusProcessing = "PROCESSING"
	ProcessedStatusCompleted  = "COMPLETED"
	ProcessedStatusFailed     = "FAILED"
)
