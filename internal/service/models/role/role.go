package role

import (
	"database/sql/driver"
	"errors"
)

// Role determines which operations an authenticated user may perform.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleRestaurant Role = "restaurant"
)

var ErrInvalidRole = errors.New("invalid role")

func (r Role) String() string {
	return string(r)
}

func (r Role) Value() (driver.Value, error) {
	return r.String(), nil
}

func ParseRole(s string) (Role, error) {
	switch s {
	case RoleCustomer.String():
		return RoleCustomer, nil
	case RoleRestaurant.String():
		return RoleRestaurant, nil
	default:
		return "", ErrInvalidRole
	}
}
