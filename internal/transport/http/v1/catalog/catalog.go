package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/entrega-app/entrega/internal/service/models/restaurant"
	"github.com/entrega-app/entrega/internal/service/models/review"
	"github.com/entrega-app/entrega/internal/service/models/role"
	"github.com/entrega-app/entrega/internal/service/services/catalogsvc"
	"github.com/entrega-app/entrega/internal/service/services/ordersvc"
	"github.com/entrega-app/entrega/internal/transport/http/v1/httperr"
	authmw "github.com/entrega-app/entrega/pkg/http/middleware/auth"
	"github.com/go-chi/chi/v5"
)

// service is an interface for the service layer.
type service interface {
	ListRestaurants(ctx context.Context) ([]restaurant.Restaurant, error)
	Menu(ctx context.Context, restaurantID int64) ([]catalogsvc.MenuSection, error)
	Search(ctx context.Context, term string) (catalogsvc.SearchResult, error)
}

// ratingService serves aggregated restaurant ratings.
type ratingService interface {
	RestaurantRating(ctx context.Context, restaurantID int64) (review.Rating, error)
}

// reviewService records restaurant reviews.
type reviewService interface {
	ReviewRestaurant(ctx context.Context, customerID, restaurantID int64, rating int, comment string) (*review.RestaurantReview, error)
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ListRestaurants returns all restaurants for the browsing screen.
func ListRestaurants(w http.ResponseWriter, r *http.Request, svc service) {
	restaurants, err := svc.ListRestaurants(r.Context())
	if err != nil {
		httperr.WriteError(w, err)

		return
	}

	if restaurants == nil {
		restaurants = []restaurant.Restaurant{}
	}
	httperr.WriteJSON(w, http.StatusOK, restaurants)
}

// Menu returns one restaurant's items grouped by category.
func Menu(w http.ResponseWriter, r *http.Request, svc service) {
	restaurantID, ok := restaurantIDFromURL(w, r)
	if !ok {
		return
	}

	sections, err := svc.Menu(r.Context(), restaurantID)
	if err != nil {
		httperr.WriteError(w, err)

		return
	}

	httperr.WriteJSON(w, http.StatusOK, sections)
}

// Search matches restaurants and items by name from the q query parameter.
func Search(w http.ResponseWriter, r *http.Request, svc service) {
	result, err := svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		httperr.WriteError(w, err)

		return
	}

	httperr.WriteJSON(w, http.StatusOK, result)
}

// Rating returns one restaurant's aggregated review rating.
func Rating(w http.ResponseWriter, r *http.Request, svc ratingService) {
	restaurantID, ok := restaurantIDFromURL(w, r)
	if !ok {
		return
	}

	rating, err := svc.RestaurantRating(r.Context(), restaurantID)
	if err != nil {
		httperr.WriteError(w, err)

		return
	}

	httperr.WriteJSON(w, http.StatusOK, rating)
}

// Review records a customer's rating of a restaurant.
func Review(w http.ResponseWriter, r *http.Request, svc reviewService) {
	identity, ok := authmw.FromContext(r.Context())
	if !ok || identity.Role != role.RoleCustomer {
		httperr.WriteError(w, ordersvc.ErrNotAllowed)

		return
	}

	restaurantID, ok := restaurantIDFromURL(w, r)
	if !ok {
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)

		return
	}

	rev, err := svc.ReviewRestaurant(r.Context(), identity.ID, restaurantID, req.Rating, req.Comment)
	if err != nil {
		httperr.WriteError(w, err)

		return
	}

	httperr.WriteJSON(w, http.StatusCreated, rev)
}

func restaurantIDFromURL(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "restaurantID"), 10, 64)
	if err != nil {
		httperr.WriteBadRequest(w, "invalid restaurant id")

		return 0, false
	}

	return id, true
}
