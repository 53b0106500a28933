package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/entrega-app/entrega/internal/service/models/cart"
	"github.com/entrega-app/entrega/internal/service/models/order"
	"github.com/entrega-app/entrega/internal/service/models/review"
	"github.com/entrega-app/entrega/internal/service/models/role"
	"github.com/entrega-app/entrega/internal/service/models/status"
	"github.com/entrega-app/entrega/internal/service/models/user"
	"github.com/entrega-app/entrega/internal/service/services/ordersvc"
	"github.com/entrega-app/entrega/internal/transport/http/v1/httperr"
	authmw "github.com/entrega-app/entrega/pkg/http/middleware/auth"
	"github.com/go-chi/chi/v5"
)

// service is an interface for the service layer.
type service interface {
	PlaceOrder(ctx context.Context, customerID int64, lines []cart.LineItem, address, notes string) (*order.Order, error)
	AdvanceStatus(ctx context.Context, orderID int64, requested status.Status, actor user.User) (*order.Order, error)
	ListForCustomer(ctx context.Context, customerID int64) ([]order.Order, error)
	ListForRestaurant(ctx context.Context, restaurantID int64) ([]order.Order, error)
}

// cartService is the slice of the cart service checkout needs.
type cartService interface {
	Lines(userID int64) []cart.LineItem
	ClearLines(userID int64, lines []cart.LineItem)
}

// reviewService records order reviews.
type reviewService interface {
	ReviewOrder(ctx context.Context, customerID, orderID int64, rating int, comment string) (*review.OrderReview, error)
}

type checkoutRequest struct {
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type customerOrdersResponse struct {
	Orders []order.Order `json:"orders"`
}

type restaurantOrdersResponse struct {
	Active    []order.Order `json:"active"`
	Completed []order.Order `json:"completed"`
}

// Checkout places an order from the session cart and clears the cart on
// success. A failed placement leaves the cart untouched so the user can
// retry.
func Checkout(w http.ResponseWriter, r *http.Request, svc service, carts cartService) {
	identity, ok := authmw.FromContext(r.Context())
	if !ok || identity.Role != role.RoleCustomer {
		httperr.WriteError(w, ordersvc.ErrNotAllowed)

		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)

		return
	}

	lines := carts.Lines(identity.ID)

	placed, err := svc.PlaceOrder(r.Context(), identity.ID, lines, req.Address, req.Notes)
	if err != nil {
		httperr.WriteError(w, err)

		return
	}

	// Only the snapshot that was just ordered is cleared; anything added to
	// the cart while the order was being placed stays.
	carts.ClearLines(identity.ID, lines)

	httperr.WriteJSON(w, http.StatusCreated, placed)
}

// List returns the caller's orders: customers see their own purchases as a
// flat list, restaurants see their incoming orders split into active and
// completed for the dashboard.
func List(w http.ResponseWriter, r *http.Request, svc service) {
	identity, ok := authmw.FromContext(r.Context())
	if !ok {
		httperr.WriteError(w, ordersvc.ErrNotAllowed)

		return
	}

	switch identity.Role {
	case role.RoleCustomer:
		list, err := svc.ListForCustomer(r.Context(), identity.ID)
		if err != nil {
			httperr.WriteError(w, err)

			return
		}
		httperr.WriteJSON(w, http.StatusOK, customerOrdersResponse{Orders: list})
	case role.RoleRestaurant:
		list, err := svc.ListForRestaurant(r.Context(), identity.ID)
		if err != nil {
			httperr.WriteError(w, err)

			return
		}
		active, completed := order.Partition(list)
		if active == nil {
			active = []order.Order{}
		}
		if completed == nil {
			completed = []order.Order{}
		}
		httperr.WriteJSON(w, http.StatusOK, restaurantOrdersResponse{Active: active, Completed: completed})
	default:
		httperr.WriteError(w, ordersvc.ErrNotAllowed)
	}
}

// UpdateStatus advances one order through the fulfillment state machine.
func UpdateStatus(w http.ResponseWriter, r *http.Request, svc service) {
	identity, ok := authmw.FromContext(r.Context())
	if !ok {
		httperr.WriteError(w, ordersvc.ErrNotAllowed)

		return
	}

	orderID, ok := orderIDFromURL(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)

		return
	}

	requested, err := status.ParseStatus(req.Status)
	if err != nil {
		httperr.WriteError(w, err)

		return
	}

	updated, err := svc.AdvanceStatus(r.Context(), orderID, requested, identity)
	if err != nil {
		httperr.WriteError(w, err)

		return
	}

	httperr.WriteJSON(w, http.StatusOK, updated)
}

// Review records the customer's rating of a delivered order.
func Review(w http.ResponseWriter, r *http.Request, svc reviewService) {
	identity, ok := authmw.FromContext(r.Context())
	if !ok || identity.Role != role.RoleCustomer {
		httperr.WriteError(w, ordersvc.ErrNotAllowed)

		return
	}

	orderID, ok := orderIDFromURL(w, r)
	if !ok {
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)

		return
	}

	rev, err := svc.ReviewOrder(r.Context(), identity.ID, orderID, req.Rating, req.Comment)
	if err != nil {
		httperr.WriteError(w, err)

		return
	}

	httperr.WriteJSON(w, http.StatusCreated, rev)
}

func orderIDFromURL(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		httperr.WriteBadRequest(w, "invalid order id")

		return 0, false
	}

	return id, true
}
