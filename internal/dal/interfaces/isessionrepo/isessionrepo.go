package isessionrepo

import (
	"context"
	"time"

	"github.com/entrega-app/entrega/internal/service/models/user"
)

// ISessionRepository is an interface for the session store. Both slots of a
// session (opaque token marker and serialized identity) are written together
// and cleared together.
type ISessionRepository interface {
	Store(ctx context.Context, tokenID string, u user.User, ttl time.Duration) error
	Get(ctx context.Context, tokenID string) (user.User, error)
	Delete(ctx context.Context, tokenID string) error
}
