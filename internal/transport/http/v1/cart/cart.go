package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/entrega-app/entrega/internal/service/models/role"
	"github.com/entrega-app/entrega/internal/service/services/cartsvc"
	"github.com/entrega-app/entrega/internal/service/services/ordersvc"
	"github.com/entrega-app/entrega/internal/transport/http/v1/httperr"
	authmw "github.com/entrega-app/entrega/pkg/http/middleware/auth"
	"github.com/go-chi/chi/v5"
)

// service is an interface for the service layer.
type service interface {
	AddItem(ctx context.Context, userID, itemID int64, quantity int) (cartsvc.View, error)
	UpdateQuantity(userID, itemID int64, quantity int) cartsvc.View
	RemoveItem(userID, itemID int64) cartsvc.View
	Clear(userID int64)
	Get(userID int64) cartsvc.View
}

type addItemRequest struct {
	ItemID   int64 `json:"itemId"`
	Quantity int   `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// Get returns the current cart with derived subtotal and count.
func Get(w http.ResponseWriter, r *http.Request, svc service) {
	u, ok := requireCustomer(w, r)
	if !ok {
		return
	}

	httperr.WriteJSON(w, http.StatusOK, svc.Get(u))
}

// AddItem adds units of one catalog item to the cart.
func AddItem(w http.ResponseWriter, r *http.Request, svc service) {
	u, ok := requireCustomer(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)

		return
	}

	// Missing quantity means one unit, matching the add-to-cart button.
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	view, err := svc.AddItem(r.Context(), u, req.ItemID, req.Quantity)
	if err != nil {
		httperr.WriteError(w, err)

		return
	}

	httperr.WriteJSON(w, http.StatusOK, view)
}

// UpdateQuantity sets a line's quantity; zero or below removes the line.
func UpdateQuantity(w http.ResponseWriter, r *http.Request, svc service) {
	u, ok := requireCustomer(w, r)
	if !ok {
		return
	}

	itemID, ok := itemIDFromURL(w, r)
	if !ok {
		return
	}

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)

		return
	}

	httperr.WriteJSON(w, http.StatusOK, svc.UpdateQuantity(u, itemID, req.Quantity))
}

// RemoveItem deletes one line from the cart.
func RemoveItem(w http.ResponseWriter, r *http.Request, svc service) {
	u, ok := requireCustomer(w, r)
	if !ok {
		return
	}

	itemID, ok := itemIDFromURL(w, r)
	if !ok {
		return
	}

	httperr.WriteJSON(w, http.StatusOK, svc.RemoveItem(u, itemID))
}

// Clear empties the cart.
func Clear(w http.ResponseWriter, r *http.Request, svc service) {
	u, ok := requireCustomer(w, r)
	if !ok {
		return
	}

	svc.Clear(u)
	w.WriteHeader(http.StatusNoContent)
}

func requireCustomer(w http.ResponseWriter, r *http.Request) (int64, bool) {
	identity, ok := authmw.FromContext(r.Context())
	if !ok || identity.Role != role.RoleCustomer {
		httperr.WriteError(w, ordersvc.ErrNotAllowed)

		return 0, false
	}

	return identity.ID, true
}

func itemIDFromURL(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		httperr.WriteBadRequest(w, "invalid item id")

		return 0, false
	}

	return id, true
}
