package httperr

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/entrega-app/entrega/internal/service/models/cart"
	"github.com/entrega-app/entrega/internal/service/models/role"
	"github.com/entrega-app/entrega/internal/service/models/status"
	"github.com/entrega-app/entrega/internal/service/services/authsvc"
	"github.com/entrega-app/entrega/internal/service/services/cartsvc"
	"github.com/entrega-app/entrega/internal/service/services/catalogsvc"
	"github.com/entrega-app/entrega/internal/service/services/ordersvc"
	"github.com/entrega-app/entrega/internal/service/services/reviewsvc"
)

type errorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes v as a JSON response body.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error writing response", "error", err)
	}
}

// WriteBadRequest reports a transport-level validation failure.
func WriteBadRequest(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// WriteError maps service errors onto HTTP status codes. Unknown errors are
// logged and surfaced as an opaque 500 so callers can offer a retry.
func WriteError(w http.ResponseWriter, err error) {
	statusCode := statusFor(err)
	if statusCode == http.StatusInternalServerError {
		slog.Error("Unhandled service error", "error", err)
		WriteJSON(w, statusCode, errorResponse{Error: "internal server error"})

		return
	}

	WriteJSON(w, statusCode, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ordersvc.ErrEmptyCart),
		errors.Is(err, ordersvc.ErrEmptyAddress),
		errors.Is(err, ordersvc.ErrMixedRestaurants),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, authsvc.ErrInvalidEmail),
		errors.Is(err, authsvc.ErrShortPassword),
		errors.Is(err, reviewsvc.ErrInvalidRating),
		errors.Is(err, reviewsvc.ErrOrderNotComplete),
		errors.Is(err, role.ErrInvalidRole),
		errors.Is(err, status.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, authsvc.ErrInvalidCredentials),
		errors.Is(err, authsvc.ErrInvalidSession):
		return http.StatusUnauthorized
	case errors.Is(err, ordersvc.ErrNotAllowed),
		errors.Is(err, reviewsvc.ErrNotOrderOwner):
		return http.StatusForbidden
	case errors.Is(err, ordersvc.ErrOrderNotFound),
		errors.Is(err, cartsvc.ErrItemNotFound),
		errors.Is(err, catalogsvc.ErrRestaurantNotFound):
		return http.StatusNotFound
	case errors.Is(err, authsvc.ErrEmailTaken),
		errors.Is(err, ordersvc.ErrInvalidTransition),
		errors.Is(err, ordersvc.ErrStatusConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
