package reviewsvc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/entrega-app/entrega/internal/dal/interfaces/ireviewrepo"
	ratingcache "github.com/entrega-app/entrega/internal/dal/repositories/rating/redis"
	"github.com/entrega-app/entrega/internal/service/models/order"
	"github.com/entrega-app/entrega/internal/service/models/review"
	"github.com/entrega-app/entrega/internal/service/models/status"
)

var (
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrNotOrderOwner    = errors.New("order belongs to another customer")
	ErrOrderNotComplete = errors.New("only delivered orders can be reviewed")
)

// orderGetter is the slice of the order service the review flow needs.
type orderGetter interface {
	GetOrder(ctx context.Context, orderID int64) (*order.Order, error)
}

// ratingCache caches aggregated restaurant ratings.
type ratingCache interface {
	Get(ctx context.Context, restaurantID int64) (review.Rating, error)
	Set(ctx context.Context, rating review.Rating) error
	Invalidate(ctx context.Context, restaurantID int64) error
}

// ReviewService lets customers rate delivered orders and restaurants, and
// serves the aggregated restaurant rating for browsing screens.
type ReviewService struct {
	reviews ireviewrepo.IReviewRepository
	orders  orderGetter
	cache   ratingCache
	now     func() time.Time
}

// option is a function that configures the ReviewService.
type option func(*ReviewService)

// MustNewReviewService creates a new ReviewService.
func MustNewReviewService(opts ...option) *ReviewService {
	s := &ReviewService{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.reviews == nil || s.orders == nil {
		panic("reviewsvc: storage is not configured")
	}

	return s
}

// WithReviewRepository sets the review repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithReviewRepository(reviews ireviewrepo.IReviewRepository) option {
	return func(s *ReviewService) {
		s.reviews = reviews
	}
}

// WithOrderService sets the order reader used to check review eligibility.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderService(orders orderGetter) option {
	return func(s *ReviewService) {
		s.orders = orders
	}
}

// WithRatingCache sets the rating cache. Without a cache every rating read
// hits Postgres.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRatingCache(cache ratingCache) option {
	return func(s *ReviewService) {
		s.cache = cache
	}
}

// WithClock overrides the time source.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *ReviewService) {
		s.now = now
	}
}

// ReviewOrder records a customer's rating of one of their delivered orders.
func (s *ReviewService) ReviewOrder(
	ctx context.Context,
	customerID, orderID int64,
	rating int,
	comment string,
) (*review.OrderReview, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	o, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.CustomerID != customerID {
		return nil, ErrNotOrderOwner
	}
	if o.Status != status.StatusDelivered {
		return nil, ErrOrderNotComplete
	}

	rev, err := s.reviews.InsertOrderReview(ctx, review.OrderReview{
		OrderID:    orderID,
		CustomerID: customerID,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  s.now(),
	})
	if err != nil {
		return nil, err
	}

	return &rev, nil
}

// ReviewRestaurant records a customer's rating of a restaurant and drops the
// cached aggregate.
func (s *ReviewService) ReviewRestaurant(
	ctx context.Context,
	customerID, restaurantID int64,
	rating int,
	comment string,
) (*review.RestaurantReview, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	rev, err := s.reviews.InsertRestaurantReview(ctx, review.RestaurantReview{
		RestaurantID: restaurantID,
		CustomerID:   customerID,
		Rating:       rating,
		Comment:      comment,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, restaurantID); err != nil {
			slog.Warn("Failed to invalidate rating cache", "restaurant_id", restaurantID, "error", err)
		}
	}

	return &rev, nil
}

// RestaurantRating returns the restaurant's average rating, cache-first.
func (s *ReviewService) RestaurantRating(ctx context.Context, restaurantID int64) (review.Rating, error) {
	if s.cache != nil {
		rating, err := s.cache.Get(ctx, restaurantID)
		if err == nil {
			return rating, nil
		}
		if !errors.Is(err, ratingcache.ErrRatingNotCached) {
			slog.Warn("Rating cache read failed", "restaurant_id", restaurantID, "error", err)
		}
	}

	rating, err := s.reviews.RestaurantRating(ctx, restaurantID)
	if err != nil {
		return review.Rating{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, rating); err != nil {
			slog.Warn("Rating cache write failed", "restaurant_id", restaurantID, "error", err)
		}
	}

	return rating, nil
}
