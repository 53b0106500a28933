package iorderrepo

import (
	"context"

	"github.com/entrega-app/entrega/internal/service/models/order"
	"github.com/entrega-app/entrega/internal/service/models/status"
)

// IOrderRepository is an interface for the order postgres repository.
type IOrderRepository interface {
	Insert(ctx context.Context, o order.Order) (order.Order, error)
	GetByID(ctx context.Context, id int64) (order.Order, error)
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
	// UpdateStatus moves the order from one status to another. It reports
	// false when the order was not in the expected from status, which is how
	// concurrent restaurant-side updates are detected.
	UpdateStatus(ctx context.Context, id int64, from, to status.Status) (bool, error)
}
