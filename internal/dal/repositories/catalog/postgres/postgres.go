package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/entrega-app/entrega/internal/dal/postgres"
	"github.com/entrega-app/entrega/internal/service/models/catalogitem"
	"github.com/entrega-app/entrega/internal/service/models/currency"
	"github.com/entrega-app/entrega/internal/service/models/restaurant"
	"github.com/jackc/pgx/v5"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrItemNotFound       = errors.New("catalog item not found")
)

var restaurantColumns = []string{
	"user_id",
	"name",
	"description",
	"location",
	"hours",
	"image_url",
	"created_at",
	"updated_at",
}

var itemColumns = []string{
	"id",
	"restaurant_id",
	"name",
	"description",
	"price_cents",
	"price_currency",
	"category",
	"image_url",
	"created_at",
	"updated_at",
}

type PostgresCatalogRepository struct {
	conn postgres.DBTX
}

func NewPostgresCatalogRepository(conn postgres.DBTX) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{
		conn: conn,
	}
}

// ListRestaurants retrieves all restaurant profiles, alphabetically.
func (r *PostgresCatalogRepository) ListRestaurants(ctx context.Context) ([]restaurant.Restaurant, error) {
	query, args, err := sq.Select(restaurantColumns...).
		From("restaurants").
		OrderBy("name ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query restaurants: %w", err)
	}
	defer rows.Close()

	var result []restaurant.Restaurant
	for rows.Next() {
		var rest restaurant.Restaurant
		err := rows.Scan(
			&rest.ID,
			&rest.Name,
			&rest.Description,
			&rest.Location,
			&rest.Hours,
			&rest.ImageURL,
			&rest.CreatedAt,
			&rest.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}
		result = append(result, rest)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// GetRestaurant retrieves one restaurant profile by its user ID.
func (r *PostgresCatalogRepository) GetRestaurant(ctx context.Context, id int64) (restaurant.Restaurant, error) {
	query, args, err := sq.Select(restaurantColumns...).
		From("restaurants").
		Where(sq.Eq{"user_id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return restaurant.Restaurant{}, fmt.Errorf("failed to build select query: %w", err)
	}

	var rest restaurant.Restaurant
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&rest.ID,
		&rest.Name,
		&rest.Description,
		&rest.Location,
		&rest.Hours,
		&rest.ImageURL,
		&rest.CreatedAt,
		&rest.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return restaurant.Restaurant{}, ErrRestaurantNotFound
	}
	if err != nil {
		return restaurant.Restaurant{}, fmt.Errorf("failed to get restaurant: %w", err)
	}

	return rest, nil
}

// ListItems retrieves the full menu of one restaurant. Category grouping is
// done in the service layer; rows come back in stable menu order.
func (r *PostgresCatalogRepository) ListItems(ctx context.Context, restaurantID int64) ([]catalogitem.CatalogItem, error) {
	query, args, err := sq.Select(itemColumns...).
		From("catalog_items").
		Where(sq.Eq{"restaurant_id": restaurantID}).
		OrderBy("id ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog items: %w", err)
	}
	defer rows.Close()

	var result []catalogitem.CatalogItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// SearchRestaurants retrieves restaurants whose name matches the term,
// case-insensitively. An empty term matches every restaurant.
func (r *PostgresCatalogRepository) SearchRestaurants(ctx context.Context, term string) ([]restaurant.Restaurant, error) {
	query, args, err := sq.Select(restaurantColumns...).
		From("restaurants").
		Where(sq.ILike{"name": "%" + term + "%"}).
		OrderBy("name ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search restaurants: %w", err)
	}
	defer rows.Close()

	var result []restaurant.Restaurant
	for rows.Next() {
		var rest restaurant.Restaurant
		err := rows.Scan(
			&rest.ID,
			&rest.Name,
			&rest.Description,
			&rest.Location,
			&rest.Hours,
			&rest.ImageURL,
			&rest.CreatedAt,
			&rest.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}
		result = append(result, rest)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// SearchItems retrieves catalog items whose name matches the term across all
// restaurants, case-insensitively.
func (r *PostgresCatalogRepository) SearchItems(ctx context.Context, term string) ([]catalogitem.CatalogItem, error) {
	query, args, err := sq.Select(itemColumns...).
		From("catalog_items").
		Where(sq.ILike{"name": "%" + term + "%"}).
		OrderBy("name ASC", "id ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search catalog items: %w", err)
	}
	defer rows.Close()

	var result []catalogitem.CatalogItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// GetItem retrieves a single catalog item.
func (r *PostgresCatalogRepository) GetItem(ctx context.Context, itemID int64) (catalogitem.CatalogItem, error) {
	query, args, err := sq.Select(itemColumns...).
		From("catalog_items").
		Where(sq.Eq{"id": itemID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return catalogitem.CatalogItem{}, fmt.Errorf("failed to build select query: %w", err)
	}

	item, err := scanItem(r.conn.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return catalogitem.CatalogItem{}, ErrItemNotFound
	}
	if err != nil {
		return catalogitem.CatalogItem{}, err
	}

	return item, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (catalogitem.CatalogItem, error) {
	var (
		item catalogitem.CatalogItem
		cur  string
	)
	err := row.Scan(
		&item.ID,
		&item.RestaurantID,
		&item.Name,
		&item.Description,
		&item.PriceCents,
		&cur,
		&item.Category,
		&item.ImageURL,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return catalogitem.CatalogItem{}, err
	}

	item.PriceCurrency, err = currency.ParseCurrency(cur)
	if err != nil {
		return catalogitem.CatalogItem{}, fmt.Errorf("failed to parse item currency: %w", err)
	}

	return item, nil
}
