package models

// Review is a user's rating of a restaurant
type Review struct {
	Base         `bson:",inline"`
	Rating       int    `bson:"rating" json:"rating" validate:"required,min=1,max=5"`
	Comment      string `bson:"comment" json:"comment" validate:"required"`
	UserID       string `bson:"user_id" json:"user_id" validate:"required"`
	RestaurantID string `bson:"restaurant_id" json:"restaurant_id" validate:"required"`
}
