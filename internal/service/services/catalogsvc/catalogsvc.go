package catalogsvc

import (
	"context"
	"errors"
	"strings"

	"github.com/entrega-app/entrega/internal/dal/interfaces/icatalogrepo"
	catalogrepo "github.com/entrega-app/entrega/internal/dal/repositories/catalog/postgres"
	"github.com/entrega-app/entrega/internal/service/models/catalogitem"
	"github.com/entrega-app/entrega/internal/service/models/restaurant"
)

var ErrRestaurantNotFound = errors.New("restaurant not found")

// SearchResult is a name search across the whole catalog: matching
// restaurants plus matching items from any restaurant.
type SearchResult struct {
	Restaurants []restaurant.Restaurant   `json:"restaurants"`
	Items       []catalogitem.CatalogItem `json:"items"`
}

// MenuSection is one category of a restaurant's menu, in display order.
type MenuSection struct {
	Category string                    `json:"category"`
	Items    []catalogitem.CatalogItem `json:"items"`
}

// CatalogService is the read-only browsing surface: restaurants and their
// menus. Catalog writes happen in restaurant management tooling, not here.
type CatalogService struct {
	catalog icatalogrepo.ICatalogRepository
}

// option is a function that configures the CatalogService.
type option func(*CatalogService)

// MustNewCatalogService creates a new CatalogService.
func MustNewCatalogService(opts ...option) *CatalogService {
	s := &CatalogService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.catalog == nil {
		panic("catalogsvc: catalog repository is not configured")
	}

	return s
}

// WithCatalogRepository sets the catalog repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCatalogRepository(catalog icatalogrepo.ICatalogRepository) option {
	return func(s *CatalogService) {
		s.catalog = catalog
	}
}

// ListRestaurants returns all restaurants available for browsing.
func (s *CatalogService) ListRestaurants(ctx context.Context) ([]restaurant.Restaurant, error) {
	return s.catalog.ListRestaurants(ctx)
}

// Search matches restaurants and catalog items by name, case-insensitively.
// A blank term matches everything, mirroring an empty search box.
func (s *CatalogService) Search(ctx context.Context, term string) (SearchResult, error) {
	term = strings.TrimSpace(term)

	restaurants, err := s.catalog.SearchRestaurants(ctx, term)
	if err != nil {
		return SearchResult{}, err
	}

	items, err := s.catalog.SearchItems(ctx, term)
	if err != nil {
		return SearchResult{}, err
	}

	if restaurants == nil {
		restaurants = []restaurant.Restaurant{}
	}
	if items == nil {
		items = []catalogitem.CatalogItem{}
	}

	return SearchResult{Restaurants: restaurants, Items: items}, nil
}

// Menu returns a restaurant's items grouped by category. Categories appear in
// order of first appearance, items keep menu order within their category.
func (s *CatalogService) Menu(ctx context.Context, restaurantID int64) ([]MenuSection, error) {
	if _, err := s.catalog.GetRestaurant(ctx, restaurantID); err != nil {
		if errors.Is(err, catalogrepo.ErrRestaurantNotFound) {
			return nil, ErrRestaurantNotFound
		}

		return nil, err
	}

	items, err := s.catalog.ListItems(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	sections := make([]MenuSection, 0)
	index := make(map[string]int)
	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(sections)
			index[item.Category] = i
			sections = append(sections, MenuSection{Category: item.Category})
		}
		sections[i].Items = append(sections[i].Items, item)
	}

	return sections, nil
}
