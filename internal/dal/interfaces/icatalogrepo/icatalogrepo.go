package icatalogrepo

import (
	"context"

	"github.com/entrega-app/entrega/internal/service/models/catalogitem"
	"github.com/entrega-app/entrega/internal/service/models/restaurant"
)

// ICatalogRepository is an interface for the catalog postgres repository.
// The ordering core only reads the catalog; writes belong to restaurant
// management tooling outside this service.
type ICatalogRepository interface {
	ListRestaurants(ctx context.Context) ([]restaurant.Restaurant, error)
	GetRestaurant(ctx context.Context, id int64) (restaurant.Restaurant, error)
	ListItems(ctx context.Context, restaurantID int64) ([]catalogitem.CatalogItem, error)
	GetItem(ctx context.Context, itemID int64) (catalogitem.CatalogItem, error)
	SearchRestaurants(ctx context.Context, term string) ([]restaurant.Restaurant, error)
	SearchItems(ctx context.Context, term string) ([]catalogitem.CatalogItem, error)
}
