package models

// Location is a GeoJSON point, coordinates are [longitude, latitude]
type Location struct {
	Type        string    `bson:"type" json:"type" validate:"omitempty,oneof=Point"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates" validate:"required,len=2,lnglat"`
}

// MenuItem is a dish embedded in a restaurant's menu
type MenuItem struct {
	ID          string  `bson:"_id" json:"_id"`
	Name        string  `bson:"name" json:"name" validate:"required"`
	Price       float64 `bson:"price" json:"price" validate:"gte=0"`
	Description string  `bson:"description" json:"description" validate:"required"`
}

// Restaurant owns its menu items
type Restaurant struct {
	Base        `bson:",inline"`
	Name        string     `bson:"name" json:"name" validate:"required"`
	City        string     `bson:"city" json:"city" validate:"required"`
	Description string     `bson:"description" json:"description" validate:"required"`
	Location    Location   `bson:"location" json:"location"`
	Menu        []MenuItem `bson:"menu" json:"menu" validate:"dive"`
	Tags        []string   `bson:"tags,omitempty" json:"tags,omitempty" validate:"omitempty,unique,dive,required"`
}

// Normalize fills defaults that the schema declares for a restaurant
func (r *Restaurant) Normalize() {
	if r.Location.Type == "" {
		r.Location.Type = "Point"
	}
	if r.Menu == nil {
		r.Menu = []MenuItem{}
	}
}
