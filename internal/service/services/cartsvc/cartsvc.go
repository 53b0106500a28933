package cartsvc

import (
	"context"
	"errors"
	"sync"

	"github.com/entrega-app/entrega/internal/dal/interfaces/icatalogrepo"
	catalogrepo "github.com/entrega-app/entrega/internal/dal/repositories/catalog/postgres"
	"github.com/entrega-app/entrega/internal/service/models/cart"
)

var ErrItemNotFound = errors.New("catalog item not found")

// View is a read snapshot of a cart: the lines plus the derived subtotal and
// unit count, recomputed at snapshot time.
type View struct {
	Lines         []cart.LineItem `json:"lines"`
	SubtotalCents int64           `json:"subtotalCents"`
	Count         int             `json:"count"`
}

// CartService holds one in-memory cart per authenticated user. Carts live for
// the lifetime of the process and are dropped on checkout or explicit clear;
// they are deliberately not persisted. Mutation is serialized per user.
type CartService struct {
	catalog icatalogrepo.ICatalogRepository

	mu    sync.Mutex
	carts map[int64]*cart.Cart
}

// option is a function that configures the CartService.
type option func(*CartService)

// MustNewCartService creates a new CartService.
func MustNewCartService(opts ...option) *CartService {
	s := &CartService{
		carts: make(map[int64]*cart.Cart),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.catalog == nil {
		panic("cartsvc: catalog repository is not configured")
	}

	return s
}

// WithCatalogRepository sets the catalog repository used to resolve item ids.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCatalogRepository(catalog icatalogrepo.ICatalogRepository) option {
	return func(s *CartService) {
		s.catalog = catalog
	}
}

// cartFor returns the user's cart, creating it lazily. The whole map is
// guarded by one mutex; cart traffic is a handful of line items per user, so
// finer locking buys nothing.
func (s *CartService) cartFor(userID int64) *cart.Cart {
	c, ok := s.carts[userID]
	if !ok {
		c = cart.New()
		s.carts[userID] = c
	}

	return c
}

// AddItem resolves the catalog item and adds quantity units of it to the
// user's cart, merging with an existing line for the same item.
func (s *CartService) AddItem(ctx context.Context, userID, itemID int64, quantity int) (View, error) {
	item, err := s.catalog.GetItem(ctx, itemID)
	if errors.Is(err, catalogrepo.ErrItemNotFound) {
		return View{}, ErrItemNotFound
	}
	if err != nil {
		return View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cartFor(userID)
	if err := c.AddItem(item, quantity); err != nil {
		return View{}, err
	}

	return snapshot(c), nil
}

// UpdateQuantity sets the quantity of a line; zero or below removes it.
func (s *CartService) UpdateQuantity(userID, itemID int64, quantity int) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cartFor(userID)
	c.UpdateQuantity(itemID, quantity)

	return snapshot(c)
}

// RemoveItem deletes a line; removing an absent line is a no-op.
func (s *CartService) RemoveItem(userID, itemID int64) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cartFor(userID)
	c.RemoveItem(itemID)

	return snapshot(c)
}

// Clear empties the user's cart unconditionally.
func (s *CartService) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cartFor(userID).Clear()
}

// ClearLines removes exactly the given snapshot from the user's cart. Lines
// added or topped up after the snapshot was taken stay in the cart, so a
// checkout racing a concurrent add cannot discard the addition.
func (s *CartService) ClearLines(userID int64, lines []cart.LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cartFor(userID).RemoveLines(lines)
}

// Get returns the current cart view.
func (s *CartService) Get(userID int64) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return snapshot(s.cartFor(userID))
}

// Lines returns a copy of the cart lines, for checkout.
func (s *CartService) Lines(userID int64) []cart.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cartFor(userID).Lines()
}

func snapshot(c *cart.Cart) View {
	return View{
		Lines:         c.Lines(),
		SubtotalCents: c.SubtotalCents(),
		Count:         c.Count(),
	}
}
