package services

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go-fooddelivery/models"
	"go-fooddelivery/storage"
	"go-fooddelivery/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// startMongo returns a MongoDB URI. MONGO_TEST_URI wins, otherwise a mongo:7 container is started.
func startMongo(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in short mode")
	}
	if uri := os.Getenv("MONGO_TEST_URI"); uri != "" {
		return uri
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err, "failed to start MongoDB container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate MongoDB container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	return uri
}

func TestIntegration_FoodDelivery(t *testing.T) {
	uri := startMongo(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := utils.ConnectDB(ctx, uri)
	require.NoError(t, err)
	defer client.Disconnect(context.Background())

	db := client.Database(fmt.Sprintf("fooddelivery_test_%d", time.Now().UnixNano()))
	defer db.Drop(context.Background())

	registry := models.NewRegistry()
	logger := zap.NewNop()
	require.NoError(t, utils.EnsureIndexes(ctx, db, registry, logger))

	store := storage.NewMongoStore(db)
	collections := NewCollectionService(registry, store, nil, nil, logger)
	restaurants := NewRestaurantService(store, nil, nil, logger)
	reports := NewReportService(store, nil, logger)

	_, err = collections.CreateMany(ctx, models.RestaurantsCollection, []byte(`[
		{"_id":"r1","name":"Bukka","city":"Lagos","description":"Local","location":{"coordinates":[3.37,6.52]},
		 "menu":[{"_id":"m1","name":"Jollof","price":10,"description":"Rice"},{"_id":"m2","name":"Suya","price":25,"description":"Beef"}]},
		{"_id":"r2","name":"Mama Put","city":"Abuja","description":"Homely","location":{"coordinates":[7.49,9.05]},
		 "menu":[{"_id":"m1","name":"Jollof Special","price":12,"description":"Rice"}]},
		{"_id":"r3","name":"Quiet Place","city":"Lagos","description":"New","location":{"coordinates":[3.4,6.45]},"tags":["new"]}
	]`))
	require.NoError(t, err)

	// r1 rated 5,5,5 and r2 rated 4,4,4,4, r3 has no reviews
	_, err = collections.CreateMany(ctx, models.ReviewsCollection, []byte(`[
		{"rating":5,"comment":"great","user_id":"u1","restaurant_id":"r1"},
		{"rating":5,"comment":"again","user_id":"u2","restaurant_id":"r1"},
		{"rating":5,"comment":"best","user_id":"u3","restaurant_id":"r1"},
		{"rating":4,"comment":"good","user_id":"u1","restaurant_id":"r2"},
		{"rating":4,"comment":"fine","user_id":"u2","restaurant_id":"r2"},
		{"rating":4,"comment":"solid","user_id":"u3","restaurant_id":"r2"},
		{"rating":4,"comment":"okay","user_id":"u4","restaurant_id":"r2"}
	]`))
	require.NoError(t, err)

	_, err = collections.CreateMany(ctx, models.OrdersCollection, []byte(`[
		{"_id":"o1","detail":[{"product_id":"m1","quantity":2}],"total":20,"restaurant_id":"r1","user_id":"u1","createdAt":"2024-01-01T10:00:00Z"},
		{"_id":"o2","detail":[{"product_id":"m1","quantity":3},{"product_id":"m2","quantity":1}],"total":55,"restaurant_id":"r1","user_id":"u1","createdAt":"2024-01-02T10:00:00Z"}
	]`))
	require.NoError(t, err)

	t.Run("generic find", func(t *testing.T) {
		docs, err := collections.Find(ctx, models.RestaurantsCollection, utils.Criteria{Filter: bson.M{"city": "Lagos"}})
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("create then find by created id", func(t *testing.T) {
		created, err := collections.CreateOne(ctx, models.ReviewsCollection,
			[]byte(`{"rating":3,"comment":"meh","user_id":"u9","restaurant_id":"r3"}`))
		require.NoError(t, err)
		require.NotEmpty(t, created.DocumentID())

		docs, err := collections.Find(ctx, models.ReviewsCollection, utils.Criteria{Filter: bson.M{"_id": created.DocumentID()}})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, created.DocumentID(), docs[0]["_id"])
		assert.Equal(t, "meh", docs[0]["comment"])

		_, err = collections.DeleteOneByID(ctx, models.ReviewsCollection, created.DocumentID())
		require.NoError(t, err)
	})

	t.Run("top rated", func(t *testing.T) {
		rows, err := reports.TopRatedRestaurants(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.RatedRestaurant{
			{Restaurant: "Bukka", AvgRating: 5, Reviews: 3},
			{Restaurant: "Mama Put", AvgRating: 4, Reviews: 4},
		}, rows)
	})

	t.Run("top dishes", func(t *testing.T) {
		rows, err := reports.TopDishes(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, rows)
		assert.Equal(t, models.DishSales{ProductID: "m1", Name: "Jollof", TotalSold: 5}, rows[0])
	})

	t.Run("cities", func(t *testing.T) {
		cities, err := reports.RestaurantCities(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Abuja", "Lagos"}, cities)
	})

	t.Run("price update stays in its restaurant", func(t *testing.T) {
		doc, err := restaurants.SetMenuItemPrice(ctx, "r2", "m1", price(99))
		require.NoError(t, err)
		require.NotNil(t, doc)

		dishes, err := reports.ExpensiveDishes(ctx, "r1", 0)
		require.NoError(t, err)
		assert.Equal(t, []models.DishPrice{{Name: "Suya", Price: 25}, {Name: "Jollof", Price: 10}}, dishes)
		dishes, err = reports.ExpensiveDishes(ctx, "r2", 0)
		require.NoError(t, err)
		assert.Equal(t, []models.DishPrice{{Name: "Jollof Special", Price: 99}}, dishes)
	})

	t.Run("user orders newest first", func(t *testing.T) {
		rows, err := reports.UserOrders(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "o2", rows[0].ID)
		assert.Equal(t, "Bukka", rows[0].Restaurant)
		assert.Len(t, rows[0].Items, 2)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := collections.CreateOne(ctx, models.UsersCollection, []byte(validUser))
		require.NoError(t, err)
		_, err = collections.CreateOne(ctx, models.UsersCollection, []byte(validUser))
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("bulk insert with a duplicate stores nothing", func(t *testing.T) {
		_, err := collections.CreateMany(ctx, models.RestaurantsCollection, []byte(`[
			{"_id":"r8","name":"Fresh One","city":"Kano","description":"x","location":{"coordinates":[8.5,12]}},
			{"_id":"r1","name":"Clash","city":"Kano","description":"x","location":{"coordinates":[8.5,12]}},
			{"_id":"r9","name":"Fresh Two","city":"Kano","description":"x","location":{"coordinates":[8.5,12]}}
		]`))
		assert.ErrorIs(t, err, ErrDuplicate)

		docs, err := collections.Find(ctx, models.RestaurantsCollection, utils.Criteria{Filter: bson.M{"city": "Kano"}})
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("patch with empty tags clears them", func(t *testing.T) {
		doc, err := collections.UpdateOneByID(ctx, models.RestaurantsCollection, "r3", []byte(`{"tags":[]}`))
		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Empty(t, doc["tags"])

		docs, err := collections.Find(ctx, models.RestaurantsCollection, utils.Criteria{Filter: bson.M{"_id": "r3"}})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Empty(t, docs[0]["tags"])
	})

	t.Run("unchecked operators never reach the database", func(t *testing.T) {
		_, err := collections.UpdateOneByID(ctx, models.ReviewsCollection, "any", []byte(`{"$inc":{"rating":100}}`))
		assert.ErrorIs(t, err, ErrMalformedBody)

		rows, err := reports.TopRatedRestaurants(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, rows)
		assert.Equal(t, 5.0, rows[0].AvgRating)
	})
}
