package ireviewrepo

import (
	"context"

	"github.com/entrega-app/entrega/internal/service/models/review"
)

// IReviewRepository is an interface for the review postgres repository.
type IReviewRepository interface {
	InsertOrderReview(ctx context.Context, r review.OrderReview) (review.OrderReview, error)
	InsertRestaurantReview(ctx context.Context, r review.RestaurantReview) (review.RestaurantReview, error)
	RestaurantRating(ctx context.Context, restaurantID int64) (review.Rating, error)
}
