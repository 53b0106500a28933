package cartsvc

import (
	"context"
	"sync"
	"testing"

	catalogrepo "github.com/entrega-app/entrega/internal/dal/repositories/catalog/postgres"
	"github.com/entrega-app/entrega/internal/service/models/cart"
	"github.com/entrega-app/entrega/internal/service/models/catalogitem"
	"github.com/entrega-app/entrega/internal/service/models/currency"
	"github.com/entrega-app/entrega/internal/service/models/restaurant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	items map[int64]catalogitem.CatalogItem
}

func (f *fakeCatalog) ListRestaurants(context.Context) ([]restaurant.Restaurant, error) {
	return nil, nil
}

func (f *fakeCatalog) GetRestaurant(context.Context, int64) (restaurant.Restaurant, error) {
	return restaurant.Restaurant{}, nil
}

func (f *fakeCatalog) ListItems(context.Context, int64) ([]catalogitem.CatalogItem, error) {
	return nil, nil
}

func (f *fakeCatalog) SearchRestaurants(context.Context, string) ([]restaurant.Restaurant, error) {
	return nil, nil
}

func (f *fakeCatalog) SearchItems(context.Context, string) ([]catalogitem.CatalogItem, error) {
	return nil, nil
}

func (f *fakeCatalog) GetItem(_ context.Context, itemID int64) (catalogitem.CatalogItem, error) {
	item, ok := f.items[itemID]
	if !ok {
		return catalogitem.CatalogItem{}, catalogrepo.ErrItemNotFound
	}

	return item, nil
}

func newTestService() *CartService {
	catalog := &fakeCatalog{items: map[int64]catalogitem.CatalogItem{
		1: {ID: 1, RestaurantID: 1, Name: "Burger Clássico", PriceCents: 2590, PriceCurrency: currency.CurrencyBRL},
		3: {ID: 3, RestaurantID: 1, Name: "Batata Frita", PriceCents: 1290, PriceCurrency: currency.CurrencyBRL},
	}}

	return MustNewCartService(WithCatalogRepository(catalog))
}

func TestCartService_AddItem(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	view, err := svc.AddItem(ctx, 5, 1, 2)
	require.NoError(t, err)
	view, err = svc.AddItem(ctx, 5, 3, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(6470), view.SubtotalCents)
	assert.Equal(t, 3, view.Count)
	require.Len(t, view.Lines, 2)
	assert.Equal(t, "Burger Clássico", view.Lines[0].Item.Name)
}

func TestCartService_AddItemUnknownItem(t *testing.T) {
	svc := newTestService()

	_, err := svc.AddItem(context.Background(), 5, 404, 1)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestCartService_AddItemInvalidQuantity(t *testing.T) {
	svc := newTestService()

	_, err := svc.AddItem(context.Background(), 5, 1, 0)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
}

func TestCartService_CartsAreIsolatedPerUser(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 5, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, svc.Get(5).Count)
	assert.Equal(t, 0, svc.Get(6).Count)
}

func TestCartService_UpdateQuantityToZeroRemovesLine(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 5, 1, 2)
	require.NoError(t, err)

	view := svc.UpdateQuantity(5, 1, 0)
	assert.Empty(t, view.Lines)
	assert.Equal(t, int64(0), view.SubtotalCents)
}

func TestCartService_Clear(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 5, 1, 2)
	require.NoError(t, err)

	svc.Clear(5)

	assert.Empty(t, svc.Lines(5))
	assert.Equal(t, 0, svc.Get(5).Count)
}

func TestCartService_ConcurrentAdds(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddItem(ctx, 5, 1, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	view := svc.Get(5)
	assert.Equal(t, 50, view.Count)
	require.Len(t, view.Lines, 1)
}

func TestCartService_ClearLinesKeepsAdditionsAfterSnapshot(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 5, 1, 2)
	require.NoError(t, err)

	snapshot := svc.Lines(5)

	// Added between taking the checkout snapshot and clearing it.
	_, err = svc.AddItem(ctx, 5, 3, 1)
	require.NoError(t, err)

	svc.ClearLines(5, snapshot)

	lines := svc.Lines(5)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(3), lines[0].Item.ID)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestCartService_ClearLinesWholeCart(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 5, 1, 2)
	require.NoError(t, err)

	svc.ClearLines(5, svc.Lines(5))

	assert.Empty(t, svc.Lines(5))
	assert.Equal(t, 0, svc.Get(5).Count)
}
