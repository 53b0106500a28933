package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/entrega-app/entrega/internal/dal/postgres"
	"github.com/entrega-app/entrega/internal/service/models/role"
	"github.com/entrega-app/entrega/internal/service/models/user"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

const uniqueViolationCode = "23505"

var userColumns = []string{
	"id",
	"display_name",
	"email",
	"role",
	"created_at",
	"updated_at",
}

type PostgresUserRepository struct {
	conn postgres.DBTX
}

func NewPostgresUserRepository(conn postgres.DBTX) *PostgresUserRepository {
	return &PostgresUserRepository{
		conn: conn,
	}
}

// Insert stores a new user with its password hash. A duplicate email maps to
// ErrEmailTaken via the unique index on email.
func (r *PostgresUserRepository) Insert(ctx context.Context, u user.User, passwordHash string) (user.User, error) {
	query, args, err := sq.Insert("users").
		Columns("display_name", "email", "password_hash", "role", "created_at", "updated_at").
		Values(u.DisplayName, u.Email, passwordHash, u.Role.String(), u.CreatedAt, u.UpdatedAt).
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return user.User{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&u.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return user.User{}, ErrEmailTaken
		}

		return user.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	return u, nil
}

// GetByEmail retrieves a user and its password hash by email.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user.User, string, error) {
	columns := append([]string{}, userColumns...)
	columns = append(columns, "password_hash")

	query, args, err := sq.Select(columns...).
		From("users").
		Where(sq.Eq{"email": email}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return user.User{}, "", fmt.Errorf("failed to build select query: %w", err)
	}

	var (
		u       user.User
		roleStr string
		hash    string
	)
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.DisplayName,
		&u.Email,
		&roleStr,
		&u.CreatedAt,
		&u.UpdatedAt,
		&hash,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return user.User{}, "", ErrUserNotFound
	}
	if err != nil {
		return user.User{}, "", fmt.Errorf("failed to get user by email: %w", err)
	}

	u.Role, err = role.ParseRole(roleStr)
	if err != nil {
		return user.User{}, "", fmt.Errorf("failed to parse user role: %w", err)
	}

	return u, hash, nil
}

// GetByID retrieves a user by ID.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (user.User, error) {
	query, args, err := sq.Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return user.User{}, fmt.Errorf("failed to build select query: %w", err)
	}

	var (
		u       user.User
		roleStr string
	)
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.DisplayName,
		&u.Email,
		&roleStr,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return user.User{}, ErrUserNotFound
	}
	if err != nil {
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	u.Role, err = role.ParseRole(roleStr)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to parse user role: %w", err)
	}

	return u, nil
}
