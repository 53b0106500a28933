package review

import "time"

// OrderReview is a customer's rating of one of their delivered orders.
type OrderReview struct {
	ID         int64     `json:"id"`
	OrderID    int64     `json:"orderId"`
	CustomerID int64     `json:"customerId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RestaurantReview is a customer's rating of a restaurant.
type RestaurantReview struct {
	ID           int64     `json:"id"`
	RestaurantID int64     `json:"restaurantId"`
	CustomerID   int64     `json:"customerId"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Rating is the aggregated restaurant rating shown on browsing screens.
type Rating struct {
	RestaurantID int64   `json:"restaurantId"`
	Average      float64 `json:"average"`
	Count        int     `json:"count"`
}
