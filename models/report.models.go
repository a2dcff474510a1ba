package models

import "time"

// RatedRestaurant is a row of the top-rated restaurants report
type RatedRestaurant struct {
	Restaurant string  `bson:"restaurant" json:"restaurant"`
	AvgRating  float64 `bson:"avgRating" json:"avgRating"`
	Reviews    int     `bson:"reviews" json:"reviews"`
}

// DishSales is a row of the top sold dishes report
type DishSales struct {
	ProductID string `bson:"product_id" json:"product_id"`
	Name      string `bson:"name" json:"name"`
	TotalSold int    `bson:"totalSold" json:"totalSold"`
}

// DishPrice is a row of the expensive dishes report
type DishPrice struct {
	Name  string  `bson:"name" json:"name"`
	Price float64 `bson:"price" json:"price"`
}

// OrderHistoryItem is one resolved line of a user's past order
type OrderHistoryItem struct {
	Product   string `bson:"product" json:"product"`
	ProductID string `bson:"product_id" json:"product_id"`
	Quantity  int    `bson:"quantity" json:"quantity"`
}

// OrderHistory is one order in a user's history
type OrderHistory struct {
	ID           string             `bson:"_id" json:"_id"`
	Restaurant   string             `bson:"restaurant" json:"restaurant"`
	RestaurantID string             `bson:"restaurant_id" json:"restaurant_id"`
	Total        float64            `bson:"total" json:"total"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	Items        []OrderHistoryItem `bson:"items" json:"items"`
}

// UpdateResult reports the outcome of an update-many
type UpdateResult struct {
	Matched  int64 `json:"matched"`
	Modified int64 `json:"modified"`
}

// ChangeEvent is published after every successful collection write
type ChangeEvent struct {
	Collection string    `json:"collection"`
	Op         string    `json:"op"`
	IDs        []string  `json:"ids,omitempty"`
	Count      int64     `json:"count"`
	At         time.Time `json:"at"`
}
