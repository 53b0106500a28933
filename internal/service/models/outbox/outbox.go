package outbox

import (
	"time"
)

// Routing keys for order lifecycle events.
const (
	RoutingKeyOrderCreated       = "orders.order.created"
	RoutingKeyOrderStatusChanged = "orders.order.status_changed"
)

// Message is an event waiting in the outbox table to be published to
// RabbitMQ. It is written in the same transaction as the state change it
// describes and deleted after a successful publish.
type Message struct {
	ID           int64
	QueueName    string
	ExchangeName string
	RoutingKey   string
	Payload      []byte
	ContentType  string
	RetryCount   int
	MaxRetries   int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	NextRetryAt  time.Time
}

// OrderCreatedEvent is the payload published when an order is placed.
type OrderCreatedEvent struct {
	OrderID      int64     `json:"orderId"`
	CustomerID   int64     `json:"customerId"`
	RestaurantID int64     `json:"restaurantId"`
	TotalCents   int64     `json:"totalCents"`
	CreatedAt    time.Time `json:"createdAt"`
}

// StatusChangedEvent is the payload published when an order status advances.
type StatusChangedEvent struct {
	OrderID    int64     `json:"orderId"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	ChangedBy  int64     `json:"changedBy"`
	ChangedAt  time.Time `json:"changedAt"`
}
