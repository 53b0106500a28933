package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/entrega-app/entrega/internal/service/models/cart"
	"github.com/entrega-app/entrega/internal/service/models/catalogitem"
	"github.com/entrega-app/entrega/internal/service/models/order"
	"github.com/entrega-app/entrega/internal/service/models/review"
	"github.com/entrega-app/entrega/internal/service/models/role"
	"github.com/entrega-app/entrega/internal/service/models/status"
	"github.com/entrega-app/entrega/internal/service/models/user"
	"github.com/entrega-app/entrega/internal/service/services/ordersvc"
	authmw "github.com/entrega-app/entrega/pkg/http/middleware/auth"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	placed     *order.Order
	placeErr   error
	advanced   *order.Order
	advanceErr error
	customer   []order.Order
	restaurant []order.Order
}

func (s *stubService) PlaceOrder(_ context.Context, _ int64, _ []cart.LineItem, _, _ string) (*order.Order, error) {
	return s.placed, s.placeErr
}

func (s *stubService) AdvanceStatus(_ context.Context, _ int64, _ status.Status, _ user.User) (*order.Order, error) {
	return s.advanced, s.advanceErr
}

func (s *stubService) ListForCustomer(context.Context, int64) ([]order.Order, error) {
	return s.customer, nil
}

func (s *stubService) ListForRestaurant(context.Context, int64) ([]order.Order, error) {
	return s.restaurant, nil
}

type stubCarts struct {
	lines   []cart.LineItem
	cleared []cart.LineItem
}

func (s *stubCarts) Lines(int64) []cart.LineItem { return s.lines }

func (s *stubCarts) ClearLines(_ int64, lines []cart.LineItem) { s.cleared = lines }

func authedRequest(method, target, body string, u user.User) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	return req.WithContext(authmw.WithIdentity(req.Context(), u))
}

func customer() user.User   { return user.User{ID: 5, Role: role.RoleCustomer} }
func restaurant() user.User { return user.User{ID: 1, Role: role.RoleRestaurant} }

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)

	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestCheckout_Success(t *testing.T) {
	placed := &order.Order{ID: 7, CustomerID: 5, TotalCents: 6970, Status: status.StatusPending}
	svc := &stubService{placed: placed}
	carts := &stubCarts{lines: []cart.LineItem{
		{Item: catalogitem.CatalogItem{ID: 1, RestaurantID: 1, PriceCents: 2590}, Quantity: 2},
	}}

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/orders", `{"address":"Rua das Flores, 123"}`, customer())
	Checkout(rec, req, svc, carts)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, carts.lines, carts.cleared)

	var got order.Order
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, int64(6970), got.TotalCents)
}

func TestCheckout_FailureKeepsCart(t *testing.T) {
	svc := &stubService{placeErr: ordersvc.ErrEmptyCart}
	carts := &stubCarts{}

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/orders", `{"address":"Rua das Flores, 123"}`, customer())
	Checkout(rec, req, svc, carts)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, carts.cleared)
}

func TestCheckout_RestaurantForbidden(t *testing.T) {
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/orders", `{"address":"x"}`, restaurant())
	Checkout(rec, req, &stubService{}, &stubCarts{})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestList_CustomerFlatList(t *testing.T) {
	svc := &stubService{customer: []order.Order{
		{ID: 2, Status: status.StatusPending},
		{ID: 1, Status: status.StatusDelivered},
	}}

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodGet, "/api/orders", "", customer())
	List(rec, req, svc)

	require.Equal(t, http.StatusOK, rec.Code)

	var got customerOrdersResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got.Orders, 2)
	assert.Equal(t, int64(2), got.Orders[0].ID)
}

func TestList_RestaurantBuckets(t *testing.T) {
	svc := &stubService{restaurant: []order.Order{
		{ID: 1, Status: status.StatusPending},
		{ID: 2, Status: status.StatusDelivered},
		{ID: 3, Status: status.StatusReady},
	}}

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodGet, "/api/orders", "", restaurant())
	List(rec, req, svc)

	require.Equal(t, http.StatusOK, rec.Code)

	var got restaurantOrdersResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got.Active, 2)
	require.Len(t, got.Completed, 1)
	assert.Equal(t, int64(2), got.Completed[0].ID)
}

func TestUpdateStatus_InvalidStatusValue(t *testing.T) {
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPatch, "/api/orders/1/status", `{"status":"shipped"}`, restaurant())
	req = withURLParam(req, "orderID", "1")
	UpdateStatus(rec, req, &stubService{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatus_TransitionConflict(t *testing.T) {
	svc := &stubService{advanceErr: ordersvc.ErrStatusConflict}

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPatch, "/api/orders/1/status", `{"status":"preparing"}`, restaurant())
	req = withURLParam(req, "orderID", "1")
	UpdateStatus(rec, req, svc)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

type stubReviews struct {
	reviewErr error
}

func (s *stubReviews) ReviewOrder(_ context.Context, customerID, orderID int64, rating int, comment string) (*review.OrderReview, error) {
	if s.reviewErr != nil {
		return nil, s.reviewErr
	}

	return &review.OrderReview{ID: 1, OrderID: orderID, CustomerID: customerID, Rating: rating, Comment: comment}, nil
}

func TestReview_Success(t *testing.T) {
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/orders/1/reviews", `{"rating":5,"comment":"Excelente!"}`, customer())
	req = withURLParam(req, "orderID", "1")
	Review(rec, req, &stubReviews{})

	assert.Equal(t, http.StatusCreated, rec.Code)
}
