package order

import (
	"time"

	"github.com/entrega-app/entrega/internal/service/models/currency"
	"github.com/entrega-app/entrega/internal/service/models/orderitem"
	"github.com/entrega-app/entrega/internal/service/models/status"
)

// Order represents a placed order. Everything except Status is immutable
// after creation; Status moves through the state machine in the status
// package and is the only field advanceStatus may touch.
type Order struct {
	ID               int64                 `json:"id"`
	CustomerID       int64                 `json:"customerId"`
	RestaurantID     int64                 `json:"restaurantId"`
	DeliveryAddress  string                `json:"deliveryAddress"`
	Notes            string                `json:"notes,omitempty"`
	SubtotalCents    int64                 `json:"subtotalCents"`
	DeliveryFeeCents int64                 `json:"deliveryFeeCents"`
	TotalCents       int64                 `json:"totalCents"`
	Currency         currency.Currency     `json:"currency"`
	Status           status.Status         `json:"status"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
	OrderItems       []orderitem.OrderItem `json:"orderItems"`
}

// Active reports whether the order still needs restaurant attention, i.e. its
// status is not terminal. Dashboards partition on this; it is derived, never
// stored.
func (o *Order) Active() bool {
	return !o.Status.Terminal()
}

// Partition splits orders into active and completed groups, preserving order.
func Partition(orders []Order) (active, completed []Order) {
	for _, o := range orders {
		if o.Active() {
			active = append(active, o)
		} else {
			completed = append(completed, o)
		}
	}

	return active, completed
}
