package redisrepo

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/entrega-app/entrega/internal/service/models/role"
	"github.com/entrega-app/entrega/internal/service/models/user"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*RedisSessionRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisSessionRepository(client), mr
}

func TestSessionRepository_StoreAndGet(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	u := user.User{
		ID:          7,
		DisplayName: "João Silva",
		Email:       "joao@example.com",
		Role:        role.RoleCustomer,
	}

	require.NoError(t, repo.Store(ctx, "token-1", u, time.Minute))

	got, err := repo.Get(ctx, "token-1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, role.RoleCustomer, got.Role)
}

func TestSessionRepository_GetUnknownToken(t *testing.T) {
	repo, _ := newTestRepository(t)

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionRepository_BothSlotsWritten(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, "abc", user.User{ID: 1, Role: role.RoleCustomer}, time.Minute))

	assert.True(t, mr.Exists("session:token:abc"))
	assert.True(t, mr.Exists("session:identity:abc"))
}

func TestSessionRepository_DeleteClearsBothSlots(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, "abc", user.User{ID: 1, Role: role.RoleCustomer}, time.Minute))
	require.NoError(t, repo.Delete(ctx, "abc"))

	assert.False(t, mr.Exists("session:token:abc"))
	assert.False(t, mr.Exists("session:identity:abc"))

	_, err := repo.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionRepository_DeleteAbsentIsNoError(t *testing.T) {
	repo, _ := newTestRepository(t)

	assert.NoError(t, repo.Delete(context.Background(), "never-stored"))
}

func TestSessionRepository_TTLExpires(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, "abc", user.User{ID: 1, Role: role.RoleCustomer}, time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err := repo.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
