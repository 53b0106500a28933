package user

import (
	"time"

	"github.com/entrega-app/entrega/internal/service/models/role"
)

// User represents an authenticated identity: a customer placing orders or a
// restaurant account fulfilling them.
type User struct {
	ID          int64     `json:"id"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
	Role        role.Role `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
