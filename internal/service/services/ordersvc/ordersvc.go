package ordersvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/entrega-app/entrega/internal/dal/interfaces/iorderitemrepo"
	"github.com/entrega-app/entrega/internal/dal/interfaces/iorderrepo"
	"github.com/entrega-app/entrega/internal/dal/interfaces/ioutboxrepo"
	"github.com/entrega-app/entrega/internal/dal/postgres"
	orderrepo "github.com/entrega-app/entrega/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/entrega-app/entrega/internal/dal/repositories/orderitem/postgres"
	"github.com/entrega-app/entrega/internal/dal/uow"
	"github.com/entrega-app/entrega/internal/service/models/cart"
	"github.com/entrega-app/entrega/internal/service/models/currency"
	"github.com/entrega-app/entrega/internal/service/models/order"
	"github.com/entrega-app/entrega/internal/service/models/orderitem"
	"github.com/entrega-app/entrega/internal/service/models/outbox"
	"github.com/entrega-app/entrega/internal/service/models/role"
	"github.com/entrega-app/entrega/internal/service/models/status"
	"github.com/entrega-app/entrega/internal/service/models/user"
	"github.com/spf13/viper"
)

var (
	ErrEmptyCart         = errors.New("cart has no line items")
	ErrEmptyAddress      = errors.New("delivery address is required")
	ErrMixedRestaurants  = errors.New("cart lines belong to different restaurants")
	ErrOrderNotFound     = errors.New("order not found")
	ErrNotAllowed        = errors.New("operation not allowed for this user")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrStatusConflict    = errors.New("order status changed concurrently")
)

const outboxMaxRetries = 5

// unitOfWork is the transactional surface PlaceOrder and AdvanceStatus need.
type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

// OrderService owns the order lifecycle: it turns a priced cart snapshot into
// a pending order and moves orders through the status state machine.
type OrderService struct {
	orders           iorderrepo.IOrderRepository
	orderItems       iorderitemrepo.IOrderItemRepository
	newUOW           func() unitOfWork
	deliveryFeeCents int64
	now              func() time.Time
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.deliveryFeeCents == 0 {
		s.deliveryFeeCents = viper.GetInt64("order.delivery_fee_cents")
	}
	if s.orders == nil || s.newUOW == nil {
		panic("ordersvc: storage is not configured")
	}

	return s
}

// WithPostgresClient sets the Postgres-backed repositories and unit of work.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.orders = orderrepo.NewPostgresOrderRepository(pgClient.Pool())
		s.orderItems = orderitemrepo.NewPostgresOrderItemRepository(pgClient.Pool())
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(pgClient)
		}
	}
}

// WithDeliveryFee overrides the fixed delivery fee.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithDeliveryFee(cents int64) option {
	return func(s *OrderService) {
		s.deliveryFeeCents = cents
	}
}

// WithClock overrides the time source.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *OrderService) {
		s.now = now
	}
}

// WithStorage wires explicit repositories and a unit-of-work factory. Used by
// tests to substitute in-memory doubles.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithStorage(
	orders iorderrepo.IOrderRepository,
	orderItems iorderitemrepo.IOrderItemRepository,
	newUOW func() unitOfWork,
) option {
	return func(s *OrderService) {
		s.orders = orders
		s.orderItems = orderItems
		s.newUOW = newUOW
	}
}

// PlaceOrder converts a non-empty cart snapshot plus a delivery address into
// a pending order. The order row, its item snapshots and the order.created
// outbox event are written in one transaction. Every call creates a new
// order; the engine does not deduplicate retries by content.
func (s *OrderService) PlaceOrder(
	ctx context.Context,
	customerID int64,
	lines []cart.LineItem,
	address string,
	notes string,
) (*order.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return nil, ErrEmptyAddress
	}

	restaurantID := lines[0].Item.RestaurantID
	var subtotal int64
	for _, line := range lines {
		if line.Item.RestaurantID != restaurantID {
			return nil, ErrMixedRestaurants
		}
		if line.Quantity < 1 {
			return nil, cart.ErrInvalidQuantity
		}
		subtotal += line.Item.PriceCents * int64(line.Quantity)
	}

	now := s.now()
	o := order.Order{
		CustomerID:       customerID,
		RestaurantID:     restaurantID,
		DeliveryAddress:  address,
		Notes:            notes,
		SubtotalCents:    subtotal,
		DeliveryFeeCents: s.deliveryFeeCents,
		TotalCents:       subtotal + s.deliveryFeeCents,
		Currency:         currency.CurrencyBRL,
		Status:           status.StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, err
	}

	inserted, err := work.OrderRepository().Insert(ctx, o)
	if err != nil {
		_ = work.Rollback(ctx)

		return nil, err
	}

	items := make([]orderitem.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, orderitem.OrderItem{
			OrderID:       inserted.ID,
			ProductID:     line.Item.ID,
			Quantity:      line.Quantity,
			ProductName:   line.Item.Name,
			PriceCents:    line.Item.PriceCents,
			PriceCurrency: line.Item.PriceCurrency,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	items, err = work.OrderItemRepository().BulkInsert(ctx, items)
	if err != nil {
		_ = work.Rollback(ctx)

		return nil, err
	}
	inserted.OrderItems = items

	event, err := json.Marshal(outbox.OrderCreatedEvent{
		OrderID:      inserted.ID,
		CustomerID:   inserted.CustomerID,
		RestaurantID: inserted.RestaurantID,
		TotalCents:   inserted.TotalCents,
		CreatedAt:    inserted.CreatedAt,
	})
	if err != nil {
		_ = work.Rollback(ctx)

		return nil, fmt.Errorf("failed to marshal order created event: %w", err)
	}

	if err := work.OutboxRepository().Insert(ctx, s.newOutboxMessage(outbox.RoutingKeyOrderCreated, event, now)); err != nil {
		_ = work.Rollback(ctx)

		return nil, err
	}

	if err := work.Commit(ctx); err != nil {
		return nil, err
	}

	return &inserted, nil
}

// AdvanceStatus transitions an order to the requested status. Only the
// restaurant the order belongs to may advance it; the originating customer
// may not. Illegal transitions are rejected even though the UI only offers
// legal next statuses.
func (s *OrderService) AdvanceStatus(
	ctx context.Context,
	orderID int64,
	requested status.Status,
	actor user.User,
) (*order.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if errors.Is(err, orderrepo.ErrOrderNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if actor.Role != role.RoleRestaurant || o.RestaurantID != actor.ID {
		return nil, ErrNotAllowed
	}

	if !o.Status.CanTransitionTo(requested) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, requested)
	}

	// Items never change after placement, so they are read before the
	// transaction. Once the commit succeeds nothing below can fail: a
	// post-commit error would surface as a retryable failure for a status
	// change that is already durable.
	withItems := []order.Order{o}
	if err := s.attachItems(ctx, withItems); err != nil {
		return nil, err
	}
	o = withItems[0]

	now := s.now()

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, err
	}

	updated, err := work.OrderRepository().UpdateStatus(ctx, orderID, o.Status, requested)
	if err != nil {
		_ = work.Rollback(ctx)

		return nil, err
	}
	if !updated {
		_ = work.Rollback(ctx)

		return nil, ErrStatusConflict
	}

	event, err := json.Marshal(outbox.StatusChangedEvent{
		OrderID:    orderID,
		FromStatus: o.Status.String(),
		ToStatus:   requested.String(),
		ChangedBy:  actor.ID,
		ChangedAt:  now,
	})
	if err != nil {
		_ = work.Rollback(ctx)

		return nil, fmt.Errorf("failed to marshal status changed event: %w", err)
	}

	if err := work.OutboxRepository().Insert(ctx, s.newOutboxMessage(outbox.RoutingKeyOrderStatusChanged, event, now)); err != nil {
		_ = work.Rollback(ctx)

		return nil, err
	}

	if err := work.Commit(ctx); err != nil {
		return nil, err
	}

	o.Status = requested
	o.UpdatedAt = now

	return &o, nil
}

// GetOrder retrieves one order with its items.
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*order.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if errors.Is(err, orderrepo.ErrOrderNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	orders := []order.Order{o}
	if err := s.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return &orders[0], nil
}

// ListForCustomer returns the customer's orders, newest first.
func (s *OrderService) ListForCustomer(ctx context.Context, customerID int64) ([]order.Order, error) {
	return s.list(ctx, &order.QueryOrdersModel{CustomerIds: []int64{customerID}})
}

// ListForRestaurant returns the restaurant's orders, newest first. Callers
// split the result into active and completed views with order.Partition.
func (s *OrderService) ListForRestaurant(ctx context.Context, restaurantID int64) ([]order.Order, error) {
	return s.list(ctx, &order.QueryOrdersModel{RestaurantIds: []int64{restaurantID}})
}

func (s *OrderService) list(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	orders, err := s.orders.Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	if err := s.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (s *OrderService) attachItems(ctx context.Context, orders []order.Order) error {
	orderIds := make([]int64, 0, len(orders))
	for _, o := range orders {
		orderIds = append(orderIds, o.ID)
	}

	items, err := s.orderItems.QueryByOrderIds(ctx, orderIds)
	if err != nil {
		return err
	}

	for i := range orders {
		for _, item := range items {
			if item.OrderID == orders[i].ID {
				orders[i].OrderItems = append(orders[i].OrderItems, item)
			}
		}
	}

	return nil
}

func (s *OrderService) newOutboxMessage(routingKey string, payload []byte, now time.Time) outbox.Message {
	return outbox.Message{
		QueueName:   routingKey,
		RoutingKey:  routingKey,
		Payload:     payload,
		ContentType: "application/json",
		MaxRetries:  outboxMaxRetries,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	}
}
