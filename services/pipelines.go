package services

import (
	"go-fooddelivery/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// TopN is the number of rows returned by the ranking reports
const TopN = 5

// TopRatedPipeline ranks restaurants by average review rating, then by review count,
// then by restaurant id. Restaurants without reviews never appear; a ranked id
// with no matching restaurant is dropped after the limit.
func TopRatedPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$restaurant_id"},
			{Key: "avgRating", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "avgRating", Value: -1}, {Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: TopN}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: models.RestaurantsCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "info"},
		}}},
		{{Key: "$unwind", Value: "$info"}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "restaurant", Value: "$info.name"},
			{Key: "avgRating", Value: 1},
			{Key: "reviews", Value: "$count"},
		}}},
	}
}

// TopDishesPipeline ranks products by total quantity sold, then by product id.
// The name comes from the first restaurant (by id) whose menu holds the product;
// a product found in no menu yields no row.
func TopDishesPipeline() mongo.Pipeline {
	matchingItem := bson.D{{Key: "$filter", Value: bson.D{
		{Key: "input", Value: "$menu"},
		{Key: "as", Value: "m"},
		{Key: "cond", Value: bson.D{{Key: "$eq", Value: bson.A{"$$m._id", "$$pid"}}}},
	}}}
	return mongo.Pipeline{
		{{Key: "$unwind", Value: "$detail"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$detail.product_id"},
			{Key: "totalSold", Value: bson.D{{Key: "$sum", Value: "$detail.quantity"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "totalSold", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: TopN}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: models.RestaurantsCollection},
			{Key: "let", Value: bson.D{{Key: "pid", Value: "$_id"}}},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{
					{Key: "$in", Value: bson.A{"$$pid", bson.D{{Key: "$ifNull", Value: bson.A{"$menu._id", bson.A{}}}}}},
				}}}}},
				bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
				bson.D{{Key: "$limit", Value: 1}},
				bson.D{{Key: "$project", Value: bson.D{
					{Key: "_id", Value: 0},
					{Key: "item", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{matchingItem, 0}}}},
				}}},
			}},
			{Key: "as", Value: "match"},
		}}},
		{{Key: "$unwind", Value: "$match"}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "product_id", Value: "$_id"},
			{Key: "name", Value: "$match.item.name"},
			{Key: "totalSold", Value: 1},
		}}},
	}
}

// ExpensiveDishesPipeline lists the dishes of one restaurant priced at or above minPrice,
// most expensive first and by name among equal prices.
func ExpensiveDishesPipeline(restaurantID string, minPrice float64) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: restaurantID}}}},
		{{Key: "$unwind", Value: "$menu"}},
		{{Key: "$match", Value: bson.D{{Key: "menu.price", Value: bson.D{{Key: "$gte", Value: minPrice}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "menu.price", Value: -1}, {Key: "menu.name", Value: 1}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "name", Value: "$menu.name"},
			{Key: "price", Value: "$menu.price"},
		}}},
	}
}

// UserOrdersPipeline returns one row per order of the user, newest first, with the
// restaurant name and each line's product name resolved from that restaurant's menu.
// Missing restaurants or products leave the name empty instead of dropping the row.
func UserOrdersPipeline(userID string) mongo.Pipeline {
	productName := bson.D{{Key: "$let", Value: bson.D{
		{Key: "vars", Value: bson.D{{Key: "m", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{
			bson.D{{Key: "$filter", Value: bson.D{
				{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$restaurant.menu", bson.A{}}}}},
				{Key: "as", Value: "item"},
				{Key: "cond", Value: bson.D{{Key: "$eq", Value: bson.A{"$$item._id", "$detail.product_id"}}}},
			}}},
			0,
		}}}}}},
		{Key: "in", Value: "$$m.name"},
	}}}

	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "user_id", Value: userID}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: models.RestaurantsCollection},
			{Key: "localField", Value: "restaurant_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "restaurant"},
		}}},
		{{Key: "$unwind", Value: bson.D{{Key: "path", Value: "$restaurant"}, {Key: "preserveNullAndEmptyArrays", Value: true}}}},
		{{Key: "$unwind", Value: bson.D{{Key: "path", Value: "$detail"}, {Key: "preserveNullAndEmptyArrays", Value: true}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$_id"},
			{Key: "restaurant", Value: bson.D{{Key: "$first", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$restaurant.name", ""}}}}}},
			{Key: "restaurant_id", Value: bson.D{{Key: "$first", Value: "$restaurant_id"}}},
			{Key: "total", Value: bson.D{{Key: "$first", Value: "$total"}}},
			{Key: "createdAt", Value: bson.D{{Key: "$first", Value: "$createdAt"}}},
			{Key: "items", Value: bson.D{{Key: "$push", Value: bson.D{
				{Key: "product", Value: bson.D{{Key: "$ifNull", Value: bson.A{productName, ""}}}},
				{Key: "product_id", Value: "$detail.product_id"},
				{Key: "quantity", Value: "$detail.quantity"},
			}}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "restaurant", Value: 1},
			{Key: "restaurant_id", Value: 1},
			{Key: "total", Value: 1},
			{Key: "createdAt", Value: 1},
			{Key: "items", Value: bson.D{{Key: "$filter", Value: bson.D{
				{Key: "input", Value: "$items"},
				{Key: "as", Value: "i"},
				{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{bson.D{{Key: "$ifNull", Value: bson.A{"$$i.product_id", nil}}}, nil}}}},
			}}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}}},
	}
}
