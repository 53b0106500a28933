package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/entrega-app/entrega/internal/service/models/catalogitem"
	"github.com/entrega-app/entrega/internal/service/models/restaurant"
	"github.com/entrega-app/entrega/internal/service/services/catalogsvc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	restaurants []restaurant.Restaurant
	sections    []catalogsvc.MenuSection
	searched    catalogsvc.SearchResult
	searchTerm  string
	searchErr   error
}

func (s *stubService) ListRestaurants(context.Context) ([]restaurant.Restaurant, error) {
	return s.restaurants, nil
}

func (s *stubService) Menu(context.Context, int64) ([]catalogsvc.MenuSection, error) {
	return s.sections, nil
}

func (s *stubService) Search(_ context.Context, term string) (catalogsvc.SearchResult, error) {
	s.searchTerm = term

	return s.searched, s.searchErr
}

func TestSearch_ReturnsRestaurantsAndItems(t *testing.T) {
	svc := &stubService{searched: catalogsvc.SearchResult{
		Restaurants: []restaurant.Restaurant{{ID: 1, Name: "Burger Palace"}},
		Items:       []catalogitem.CatalogItem{{ID: 1, Name: "Burger Clássico", PriceCents: 2590}},
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=burger", nil)
	rec := httptest.NewRecorder()

	Search(rec, req, svc)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "burger", svc.searchTerm)

	var body catalogsvc.SearchResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Restaurants, 1)
	assert.Equal(t, "Burger Palace", body.Restaurants[0].Name)
	require.Len(t, body.Items, 1)
	assert.Equal(t, int64(2590), body.Items[0].PriceCents)
}

func TestSearch_MissingQueryParamPassesBlankTerm(t *testing.T) {
	svc := &stubService{searched: catalogsvc.SearchResult{
		Restaurants: []restaurant.Restaurant{},
		Items:       []catalogitem.CatalogItem{},
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	rec := httptest.NewRecorder()

	Search(rec, req, svc)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", svc.searchTerm)
	assert.True(t, strings.Contains(rec.Body.String(), `"restaurants":[]`))
	assert.True(t, strings.Contains(rec.Body.String(), `"items":[]`))
}

func TestSearch_ServiceFailure(t *testing.T) {
	svc := &stubService{searchErr: errors.New("catalog unavailable")}

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=x", nil)
	rec := httptest.NewRecorder()

	Search(rec, req, svc)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
