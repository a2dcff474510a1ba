package controllers

import (
	"net/http"

	"go-fooddelivery/models"
	"go-fooddelivery/services"
	"go-fooddelivery/utils"

	"github.com/gorilla/mux"
)

// RestaurantController handles the menu and tag maintenance routes
type RestaurantController struct {
	Service *services.RestaurantService
}

// NewRestaurantController creates a new RestaurantController
func NewRestaurantController(service *services.RestaurantService) *RestaurantController {
	return &RestaurantController{Service: service}
}

// AddMenuItem handles POST /restaurants/{id}/menu/add
func (rc *RestaurantController) AddMenuItem(w http.ResponseWriter, r *http.Request) {
	var item services.MenuItemInput
	if err := decodeBody(w, r, &item); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	doc, err := rc.Service.AddMenuItem(r.Context(), mux.Vars(r)["id"], item)
	if err != nil {
		writeServiceError(w, models.RestaurantsCollection, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, doc)
}

// RemoveMenuItem handles DELETE /restaurants/{id}/menu/remove/{itemId}
func (rc *RestaurantController) RemoveMenuItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doc, err := rc.Service.RemoveMenuItem(r.Context(), vars["id"], vars["itemId"])
	if err != nil {
		writeServiceError(w, models.RestaurantsCollection, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, doc)
}

// AddTag handles PATCH /restaurants/{id}/tags with a {"tag": "..."} body
func (rc *RestaurantController) AddTag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tag string `json:"tag"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	doc, err := rc.Service.AddTag(r.Context(), mux.Vars(r)["id"], req.Tag)
	if err != nil {
		writeServiceError(w, models.RestaurantsCollection, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, doc)
}

// SetMenuItemPrice handles PATCH /restaurants/{id}/menu/{itemId}/price with a {"newPrice": n} body
func (rc *RestaurantController) SetMenuItemPrice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewPrice *float64 `json:"newPrice"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	vars := mux.Vars(r)
	doc, err := rc.Service.SetMenuItemPrice(r.Context(), vars["id"], vars["itemId"], req.NewPrice)
	if err != nil {
		writeServiceError(w, models.RestaurantsCollection, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, doc)
}
