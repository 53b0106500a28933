package orderitem

import (
	"time"

	"github.com/entrega-app/entrega/internal/service/models/currency"
)

// OrderItem is a line within an order. Name and price are snapshots taken at
// checkout time; later catalog edits do not affect placed orders.
type OrderItem struct {
	ID            int64             `json:"id"`
	OrderID       int64             `json:"orderId"`
	ProductID     int64             `json:"productId"`
	Quantity      int               `json:"quantity"`
	ProductName   string            `json:"productName"`
	PriceCents    int64             `json:"priceCents"`
	PriceCurrency currency.Currency `json:"priceCurrency"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}
