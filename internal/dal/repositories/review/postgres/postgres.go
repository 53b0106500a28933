package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/entrega-app/entrega/internal/dal/postgres"
	"github.com/entrega-app/entrega/internal/service/models/review"
)

type PostgresReviewRepository struct {
	conn postgres.DBTX
}

func NewPostgresReviewRepository(conn postgres.DBTX) *PostgresReviewRepository {
	return &PostgresReviewRepository{
		conn: conn,
	}
}

// InsertOrderReview stores a review of a delivered order.
func (r *PostgresReviewRepository) InsertOrderReview(ctx context.Context, rev review.OrderReview) (review.OrderReview, error) {
	query, args, err := sq.Insert("order_reviews").
		Columns("order_id", "customer_id", "rating", "comment", "created_at").
		Values(rev.OrderID, rev.CustomerID, rev.Rating, rev.Comment, rev.CreatedAt).
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return review.OrderReview{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&rev.ID); err != nil {
		return review.OrderReview{}, fmt.Errorf("failed to insert order review: %w", err)
	}

	return rev, nil
}

// InsertRestaurantReview stores a review of a restaurant.
func (r *PostgresReviewRepository) InsertRestaurantReview(ctx context.Context, rev review.RestaurantReview) (review.RestaurantReview, error) {
	query, args, err := sq.Insert("restaurant_reviews").
		Columns("restaurant_id", "customer_id", "rating", "comment", "created_at").
		Values(rev.RestaurantID, rev.CustomerID, rev.Rating, rev.Comment, rev.CreatedAt).
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return review.RestaurantReview{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&rev.ID); err != nil {
		return review.RestaurantReview{}, fmt.Errorf("failed to insert restaurant review: %w", err)
	}

	return rev, nil
}

// RestaurantRating computes the average rating of a restaurant. A restaurant
// with no reviews has a zero average and zero count.
func (r *PostgresReviewRepository) RestaurantRating(ctx context.Context, restaurantID int64) (review.Rating, error) {
	query, args, err := sq.Select("COALESCE(AVG(rating), 0)", "COUNT(*)").
		From("restaurant_reviews").
		Where(sq.Eq{"restaurant_id": restaurantID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return review.Rating{}, fmt.Errorf("failed to build select query: %w", err)
	}

	rating := review.Rating{RestaurantID: restaurantID}
	if err := r.conn.QueryRow(ctx, query, args...).Scan(&rating.Average, &rating.Count); err != nil {
		return review.Rating{}, fmt.Errorf("failed to compute restaurant rating: %w", err)
	}

	return rating, nil
}
