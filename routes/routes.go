package routes

import (
	"go-fooddelivery/controllers"

	"github.com/gorilla/mux"
)

// Controllers groups the handlers the router dispatches to
type Controllers struct {
	Health     *controllers.HealthController
	Collection *controllers.CollectionController
	Restaurant *controllers.RestaurantController
	Report     *controllers.ReportController
}

// RegisterRoutes sets up all the routes for the application.
// Fixed routes are registered before the generic /{collection} routes so they win the match.
func RegisterRoutes(router *mux.Router, c Controllers) {
	router.HandleFunc("/healthz", c.Health.Health).Methods("GET")

	// Report routes
	router.HandleFunc("/stats/orders/count", c.Report.OrderCount).Methods("GET")
	router.HandleFunc("/stats/restaurants/cities", c.Report.RestaurantCities).Methods("GET")
	router.HandleFunc("/stats/restaurants/top-rated", c.Report.TopRatedRestaurants).Methods("GET")
	router.HandleFunc("/stats/orders/top-dishes", c.Report.TopDishes).Methods("GET")
	router.HandleFunc("/reports/restaurants/{id}/expensive-dishes", c.Report.ExpensiveDishes).Methods("GET")
	router.HandleFunc("/userOrders/{userId}", c.Report.UserOrders).Methods("GET")

	// Restaurant menu and tag routes
	router.HandleFunc("/restaurants/{id}/menu/add", c.Restaurant.AddMenuItem).Methods("POST")
	router.HandleFunc("/restaurants/{id}/menu/remove/{itemId}", c.Restaurant.RemoveMenuItem).Methods("DELETE")
	router.HandleFunc("/restaurants/{id}/menu/{itemId}/price", c.Restaurant.SetMenuItemPrice).Methods("PATCH")
	router.HandleFunc("/restaurants/{id}/tags", c.Restaurant.AddTag).Methods("PATCH")

	// Generic collection routes
	router.HandleFunc("/{collection}", c.Collection.Find).Methods("GET")
	router.HandleFunc("/{collection}", c.Collection.CreateOne).Methods("POST")
	router.HandleFunc("/{collection}", c.Collection.UpdateMany).Methods("PATCH")
	router.HandleFunc("/{collection}", c.Collection.DeleteMany).Methods("DELETE")
	router.HandleFunc("/{collection}/bulk", c.Collection.CreateMany).Methods("POST")
	router.HandleFunc("/{collection}/{id}", c.Collection.UpdateOne).Methods("PATCH")
	router.HandleFunc("/{collection}/{id}", c.Collection.DeleteOne).Methods("DELETE")
}
