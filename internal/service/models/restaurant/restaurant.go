package restaurant

import "time"

// Restaurant is the public profile of a restaurant account. Its ID is the
// owning user's ID: the restaurant role user and the restaurant are the same
// entity, only the profile row is separate.
type Restaurant struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Hours       string    `json:"hours"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
