package catalogitem

import (
	"time"

	"github.com/entrega-app/entrega/internal/service/models/currency"
)

// CatalogItem is a purchasable menu entry belonging to one restaurant.
// Read-only from the ordering core; rows are managed externally.
type CatalogItem struct {
	ID            int64             `json:"id"`
	RestaurantID  int64             `json:"restaurantId"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	PriceCents    int64             `json:"priceCents"`
	PriceCurrency currency.Currency `json:"priceCurrency"`
	Category      string            `json:"category"`
	ImageURL      string            `json:"imageUrl,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}
