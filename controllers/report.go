package controllers

import (
	"net/http"

	"go-fooddelivery/services"
	"go-fooddelivery/utils"

	"github.com/gorilla/mux"
)

// ReportController serves the fixed reports
type ReportController struct {
	Service *services.ReportService
}

// NewReportController creates a new ReportController
func NewReportController(service *services.ReportService) *ReportController {
	return &ReportController{Service: service}
}

func (rc *ReportController) OrderCount(w http.ResponseWriter, r *http.Request) {
	total, err := rc.Service.OrderCount(r.Context())
	if err != nil {
		writeServiceError(w, "", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]int64{"totalOrders": total})
}

func (rc *ReportController) RestaurantCities(w http.ResponseWriter, r *http.Request) {
	cities, err := rc.Service.RestaurantCities(r.Context())
	if err != nil {
		writeServiceError(w, "", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string][]string{"cities": cities})
}

func (rc *ReportController) TopRatedRestaurants(w http.ResponseWriter, r *http.Request) {
	rows, err := rc.Service.TopRatedRestaurants(r.Context())
	if err != nil {
		writeServiceError(w, "", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, rows)
}

func (rc *ReportController) TopDishes(w http.ResponseWriter, r *http.Request) {
	rows, err := rc.Service.TopDishes(r.Context())
	if err != nil {
		writeServiceError(w, "", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, rows)
}

// ExpensiveDishes handles GET /reports/restaurants/{id}/expensive-dishes?minPrice=
func (rc *ReportController) ExpensiveDishes(w http.ResponseWriter, r *http.Request) {
	minPrice := services.ParseMinPrice(r.URL.Query().Get("minPrice"))
	rows, err := rc.Service.ExpensiveDishes(r.Context(), mux.Vars(r)["id"], minPrice)
	if err != nil {
		writeServiceError(w, "", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, rows)
}

// UserOrders handles GET /userOrders/{userId}
func (rc *ReportController) UserOrders(w http.ResponseWriter, r *http.Request) {
	rows, err := rc.Service.UserOrders(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeServiceError(w, "", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, rows)
}
