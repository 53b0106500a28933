package session

import (
	"time"

	"github.com/entrega-app/entrega/internal/service/models/user"
)

// Session is an authenticated session: the signed token handed to the client
// plus the identity it resolves to. The identity is pinned at login and does
// not change for the lifetime of the session.
type Session struct {
	Token     string    `json:"token"`
	User      user.User `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}
