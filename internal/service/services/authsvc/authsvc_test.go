package authsvc

import (
	"context"
	"testing"
	"time"

	sessionrepo "github.com/entrega-app/entrega/internal/dal/repositories/session/redis"
	userrepo "github.com/entrega-app/entrega/internal/dal/repositories/user/postgres"
	"github.com/entrega-app/entrega/internal/service/models/role"
	"github.com/entrega-app/entrega/internal/service/models/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byEmail map[string]user.User
	hashes  map[string]string
	nextID  int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: map[string]user.User{},
		hashes:  map[string]string{},
		nextID:  1,
	}
}

func (r *fakeUserRepo) Insert(_ context.Context, u user.User, passwordHash string) (user.User, error) {
	if _, ok := r.byEmail[u.Email]; ok {
		return user.User{}, userrepo.ErrEmailTaken
	}
	u.ID = r.nextID
	r.nextID++
	r.byEmail[u.Email] = u
	r.hashes[u.Email] = passwordHash

	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, string, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return user.User{}, "", userrepo.ErrUserNotFound
	}

	return u, r.hashes[email], nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (user.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}

	return user.User{}, userrepo.ErrUserNotFound
}

type memorySessionRepo struct {
	sessions map[string]user.User
}

func newMemorySessionRepo() *memorySessionRepo {
	return &memorySessionRepo{sessions: map[string]user.User{}}
}

func (r *memorySessionRepo) Store(_ context.Context, tokenID string, u user.User, _ time.Duration) error {
	r.sessions[tokenID] = u

	return nil
}

func (r *memorySessionRepo) Get(_ context.Context, tokenID string) (user.User, error) {
	u, ok := r.sessions[tokenID]
	if !ok {
		return user.User{}, sessionrepo.ErrSessionNotFound
	}

	return u, nil
}

func (r *memorySessionRepo) Delete(_ context.Context, tokenID string) error {
	delete(r.sessions, tokenID)

	return nil
}

func newTestService(t *testing.T) (*AuthService, *fakeUserRepo, *memorySessionRepo) {
	t.Helper()

	users := newFakeUserRepo()
	sessions := newMemorySessionRepo()

	svc := MustNewAuthService(
		WithUserRepository(users),
		WithSessionRepository(sessions),
		WithSigningSecret([]byte("test-secret")),
	)

	return svc, users, sessions
}

func TestRegister_OpensSession(t *testing.T) {
	svc, _, _ := newTestService(t)

	sess, err := svc.Register(context.Background(), "João Silva", "Joao@Example.com", "supersenha", role.RoleCustomer)
	require.NoError(t, err)

	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "joao@example.com", sess.User.Email)
	assert.Equal(t, role.RoleCustomer, sess.User.Role)

	// the returned token must resolve back to the same identity
	u, err := svc.Identity(context.Background(), sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, u.ID)
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "x", "not-an-email", "supersenha", role.RoleCustomer)
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Register(ctx, "x", "a@b.com", "short", role.RoleCustomer)
	assert.ErrorIs(t, err, ErrShortPassword)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a", "dup@example.com", "supersenha", role.RoleCustomer)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "b", "dup@example.com", "supersenha", role.RoleCustomer)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "João", "joao@example.com", "supersenha", role.RoleCustomer)
	require.NoError(t, err)

	sess, err := svc.Login(ctx, "JOAO@example.com", "supersenha")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)

	_, err = svc.Login(ctx, "joao@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "supersenha")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogout_InvalidatesSession(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Register(ctx, "João", "joao@example.com", "supersenha", role.RoleCustomer)
	require.NoError(t, err)

	svc.Logout(ctx, sess.Token)

	// the token still verifies cryptographically, but the session is gone
	_, err = svc.Identity(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestLogout_GarbageTokenIsNoop(t *testing.T) {
	svc, _, _ := newTestService(t)

	svc.Logout(context.Background(), "not-a-jwt")
}

func TestIdentity_RejectsForgedToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	other := MustNewAuthService(
		WithUserRepository(newFakeUserRepo()),
		WithSessionRepository(newMemorySessionRepo()),
		WithSigningSecret([]byte("different-secret")),
	)
	sess, err := other.Register(ctx, "Eve", "eve@example.com", "supersenha", role.RoleCustomer)
	require.NoError(t, err)

	_, err = svc.Identity(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestIdentity_ExpiredToken(t *testing.T) {
	users := newFakeUserRepo()
	sessions := newMemorySessionRepo()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := MustNewAuthService(
		WithUserRepository(users),
		WithSessionRepository(sessions),
		WithSigningSecret([]byte("test-secret")),
		WithTokenTTL(time.Hour),
		WithClock(func() time.Time { return now }),
	)

	sess, err := svc.Register(context.Background(), "João", "joao@example.com", "supersenha", role.RoleCustomer)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)

	_, err = svc.Identity(context.Background(), sess.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}
