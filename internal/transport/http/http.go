package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/entrega-app/entrega/internal/service/models/cart"
	"github.com/entrega-app/entrega/internal/service/models/order"
	"github.com/entrega-app/entrega/internal/service/models/restaurant"
	"github.com/entrega-app/entrega/internal/service/models/review"
	"github.com/entrega-app/entrega/internal/service/models/role"
	"github.com/entrega-app/entrega/internal/service/models/session"
	"github.com/entrega-app/entrega/internal/service/models/status"
	"github.com/entrega-app/entrega/internal/service/models/user"
	"github.com/entrega-app/entrega/internal/service/services/cartsvc"
	"github.com/entrega-app/entrega/internal/service/services/catalogsvc"
	authhandler "github.com/entrega-app/entrega/internal/transport/http/v1/auth"
	carthandler "github.com/entrega-app/entrega/internal/transport/http/v1/cart"
	cataloghandler "github.com/entrega-app/entrega/internal/transport/http/v1/catalog"
	ordershandler "github.com/entrega-app/entrega/internal/transport/http/v1/orders"
	authmw "github.com/entrega-app/entrega/pkg/http/middleware/auth"
	tracemw "github.com/entrega-app/entrega/pkg/http/middleware/trace"
	"github.com/entrega-app/entrega/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type authService interface {
	Register(ctx context.Context, displayName, email, password string, r role.Role) (*session.Session, error)
	Login(ctx context.Context, email, password string) (*session.Session, error)
	Logout(ctx context.Context, token string)
	Identity(ctx context.Context, token string) (user.User, error)
}

type catalogService interface {
	ListRestaurants(ctx context.Context) ([]restaurant.Restaurant, error)
	Menu(ctx context.Context, restaurantID int64) ([]catalogsvc.MenuSection, error)
	Search(ctx context.Context, term string) (catalogsvc.SearchResult, error)
}

type cartService interface {
	AddItem(ctx context.Context, userID, itemID int64, quantity int) (cartsvc.View, error)
	UpdateQuantity(userID, itemID int64, quantity int) cartsvc.View
	RemoveItem(userID, itemID int64) cartsvc.View
	Clear(userID int64)
	ClearLines(userID int64, lines []cart.LineItem)
	Get(userID int64) cartsvc.View
	Lines(userID int64) []cart.LineItem
}

type orderService interface {
	PlaceOrder(ctx context.Context, customerID int64, lines []cart.LineItem, address, notes string) (*order.Order, error)
	AdvanceStatus(ctx context.Context, orderID int64, requested status.Status, actor user.User) (*order.Order, error)
	ListForCustomer(ctx context.Context, customerID int64) ([]order.Order, error)
	ListForRestaurant(ctx context.Context, restaurantID int64) ([]order.Order, error)
}

type reviewService interface {
	ReviewOrder(ctx context.Context, customerID, orderID int64, rating int, comment string) (*review.OrderReview, error)
	ReviewRestaurant(ctx context.Context, customerID, restaurantID int64, rating int, comment string) (*review.RestaurantReview, error)
	RestaurantRating(ctx context.Context, restaurantID int64) (review.Rating, error)
}

type HTTPTransport struct {
	server   *http.Server
	router   *chi.Mux
	auth     authService
	catalogs catalogService
	carts    cartService
	orders   orderService
	reviews  reviewService
}

func NewHTTPTransport(
	auth authService,
	catalogs catalogService,
	carts cartService,
	orders orderService,
	reviews reviewService,
) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:   server,
		router:   router,
		auth:     auth,
		catalogs: catalogs,
		carts:    carts,
		orders:   orders,
		reviews:  reviews,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport. Register and
// login are public; everything else requires an active session.
func (h *HTTPTransport) RegisterRoutes() {
	requireSession := authmw.NewAuthMiddleware(h.auth)

	h.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", func(w http.ResponseWriter, r *http.Request) {
			authhandler.Register(w, r, h.auth)
		})
		r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
			authhandler.Login(w, r, h.auth)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireSession)

			r.Post("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
				authhandler.Logout(w, r, h.auth)
			})

			r.Get("/restaurants", func(w http.ResponseWriter, r *http.Request) {
				cataloghandler.ListRestaurants(w, r, h.catalogs)
			})
			r.Get("/search", func(w http.ResponseWriter, r *http.Request) {
				cataloghandler.Search(w, r, h.catalogs)
			})
			r.Get("/restaurants/{restaurantID}/menu", func(w http.ResponseWriter, r *http.Request) {
				cataloghandler.Menu(w, r, h.catalogs)
			})
			r.Get("/restaurants/{restaurantID}/rating", func(w http.ResponseWriter, r *http.Request) {
				cataloghandler.Rating(w, r, h.reviews)
			})
			r.Post("/restaurants/{restaurantID}/reviews", func(w http.ResponseWriter, r *http.Request) {
				cataloghandler.Review(w, r, h.reviews)
			})

			r.Get("/cart", func(w http.ResponseWriter, r *http.Request) {
				carthandler.Get(w, r, h.carts)
			})
			r.Post("/cart/items", func(w http.ResponseWriter, r *http.Request) {
				carthandler.AddItem(w, r, h.carts)
			})
			r.Patch("/cart/items/{itemID}", func(w http.ResponseWriter, r *http.Request) {
				carthandler.UpdateQuantity(w, r, h.carts)
			})
			r.Delete("/cart/items/{itemID}", func(w http.ResponseWriter, r *http.Request) {
				carthandler.RemoveItem(w, r, h.carts)
			})
			r.Delete("/cart", func(w http.ResponseWriter, r *http.Request) {
				carthandler.Clear(w, r, h.carts)
			})

			r.Post("/orders", func(w http.ResponseWriter, r *http.Request) {
				ordershandler.Checkout(w, r, h.orders, h.carts)
			})
			r.Get("/orders", func(w http.ResponseWriter, r *http.Request) {
				ordershandler.List(w, r, h.orders)
			})
			r.Patch("/orders/{orderID}/status", func(w http.ResponseWriter, r *http.Request) {
				ordershandler.UpdateStatus(w, r, h.orders)
			})
			r.Post("/orders/{orderID}/reviews", func(w http.ResponseWriter, r *http.Request) {
				ordershandler.Review(w, r, h.reviews)
			})
		})
	})

	docsPath := viper.GetString("docs.openapi_path")
	h.router.Get("/api/docs/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, docsPath)
	})
	h.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/api/docs/openapi.json"),
	))
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(tracemw.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
