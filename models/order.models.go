package models

// OrderDetail is one line of an order, product_id references an embedded MenuItem
type OrderDetail struct {
	ProductID string `bson:"product_id" json:"product_id" validate:"required"`
	Quantity  int    `bson:"quantity" json:"quantity" validate:"min=1"`
}

// Order represents a user's order at one restaurant.
// Total is computed by the client and only checked to be non-negative.
type Order struct {
	Base         `bson:",inline"`
	Detail       []OrderDetail `bson:"detail" json:"detail" validate:"dive"`
	Total        float64       `bson:"total" json:"total" validate:"gte=0"`
	RestaurantID string        `bson:"restaurant_id" json:"restaurant_id" validate:"required"`
	UserID       string        `bson:"user_id" json:"user_id" validate:"required"`
}
