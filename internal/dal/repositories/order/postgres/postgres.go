package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/entrega-app/entrega/internal/dal/postgres"
	"github.com/entrega-app/entrega/internal/service/models/currency"
	"github.com/entrega-app/entrega/internal/service/models/order"
	"github.com/entrega-app/entrega/internal/service/models/orderitem"
	"github.com/entrega-app/entrega/internal/service/models/status"
	"github.com/jackc/pgx/v5"
)

var ErrOrderNotFound = errors.New("order not found")

var orderColumns = []string{
	"id",
	"customer_id",
	"restaurant_id",
	"delivery_address",
	"notes",
	"subtotal_cents",
	"delivery_fee_cents",
	"total_cents",
	"currency",
	"status",
	"created_at",
	"updated_at",
}

// OrderDal represents the order data access layer model.
type OrderDal struct {
	Id               int64
	CustomerId       int64
	RestaurantId     int64
	DeliveryAddress  string
	Notes            string
	SubtotalCents    int64
	DeliveryFeeCents int64
	TotalCents       int64
	Currency         string
	Status           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	cur, err := currency.ParseCurrency(o.Currency)
	if err != nil {
		return nil, err
	}
	st, err := status.ParseStatus(o.Status)
	if err != nil {
		return nil, err
	}

	return &order.Order{
		ID:               o.Id,
		CustomerID:       o.CustomerId,
		RestaurantID:     o.RestaurantId,
		DeliveryAddress:  o.DeliveryAddress,
		Notes:            o.Notes,
		SubtotalCents:    o.SubtotalCents,
		DeliveryFeeCents: o.DeliveryFeeCents,
		TotalCents:       o.TotalCents,
		Currency:         cur,
		Status:           st,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
		OrderItems:       []orderitem.OrderItem{}, // populated separately
	}, nil
}

type PostgresOrderRepository struct {
	conn postgres.DBTX
}

func NewPostgresOrderRepository(conn postgres.DBTX) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
	}
}

// Insert stores a new order row and returns it with the assigned ID. Order
// items are inserted separately by the order item repository.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	query, args, err := sq.Insert("orders").
		Columns(
			"customer_id",
			"restaurant_id",
			"delivery_address",
			"notes",
			"subtotal_cents",
			"delivery_fee_cents",
			"total_cents",
			"currency",
			"status",
			"created_at",
			"updated_at",
		).
		Values(
			o.CustomerID,
			o.RestaurantID,
			o.DeliveryAddress,
			o.Notes,
			o.SubtotalCents,
			o.DeliveryFeeCents,
			o.TotalCents,
			o.Currency.String(),
			o.Status.String(),
			o.CreatedAt,
			o.UpdatedAt,
		).
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&o.ID); err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	return o, nil
}

// GetByID retrieves a single order without its items.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id int64) (order.Order, error) {
	query, args, err := sq.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build select query: %w", err)
	}

	var dal OrderDal
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&dal.Id,
		&dal.CustomerId,
		&dal.RestaurantId,
		&dal.DeliveryAddress,
		&dal.Notes,
		&dal.SubtotalCents,
		&dal.DeliveryFeeCents,
		&dal.TotalCents,
		&dal.Currency,
		&dal.Status,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return order.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	model, err := dal.ToModel()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to convert order dal to model: %w", err)
	}

	return *model, nil
}

// Query retrieves orders based on filter criteria, newest first. Orders that
// share a created_at keep insertion order (id ascending).
func (r *PostgresOrderRepository) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	builder := sq.Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC", "id ASC").
		PlaceholderFormat(sq.Dollar)

	if len(filter.Ids) > 0 {
		builder = builder.Where(sq.Eq{"id": filter.Ids})
	}
	if len(filter.CustomerIds) > 0 {
		builder = builder.Where(sq.Eq{"customer_id": filter.CustomerIds})
	}
	if len(filter.RestaurantIds) > 0 {
		builder = builder.Where(sq.Eq{"restaurant_id": filter.RestaurantIds})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		var dal OrderDal
		err := rows.Scan(
			&dal.Id,
			&dal.CustomerId,
			&dal.RestaurantId,
			&dal.DeliveryAddress,
			&dal.Notes,
			&dal.SubtotalCents,
			&dal.DeliveryFeeCents,
			&dal.TotalCents,
			&dal.Currency,
			&dal.Status,
			&dal.CreatedAt,
			&dal.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// UpdateStatus moves an order from one status to another. The from status is
// part of the predicate so concurrent updates lose instead of overwriting.
func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, id int64, from, to status.Status) (bool, error) {
	query, args, err := sq.Update("orders").
		Set("status", to.String()).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id, "status": from.String()}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update order status: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}
