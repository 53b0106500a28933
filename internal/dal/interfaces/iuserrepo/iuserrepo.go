package iuserrepo

import (
	"context"

	"github.com/entrega-app/entrega/internal/service/models/user"
)

// IUserRepository is an interface for the user postgres repository.
type IUserRepository interface {
	Insert(ctx context.Context, u user.User, passwordHash string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, string, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
}
