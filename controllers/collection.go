package controllers

import (
	"net/http"

	"go-fooddelivery/services"
	"go-fooddelivery/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// CollectionController serves the generic routes of every registered collection
type CollectionController struct {
	Service *services.CollectionService
	Logger  *zap.Logger
}

// NewCollectionController creates a new CollectionController
func NewCollectionController(service *services.CollectionService, logger *zap.Logger) *CollectionController {
	return &CollectionController{Service: service, Logger: logger}
}

// Find handles GET /{collection}?filter=&projection=&sort=&skip=&limit=
func (cc *CollectionController) Find(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["collection"]
	criteria := utils.DecodeCriteria(r.URL.Query(), cc.Logger)

	docs, err := cc.Service.Find(r.Context(), name, criteria)
	if err != nil {
		writeServiceError(w, name, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, docs)
}

// CreateOne handles POST /{collection}
func (cc *CollectionController) CreateOne(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["collection"]
	body, err := readBody(w, r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	doc, err := cc.Service.CreateOne(r.Context(), name, body)
	if err != nil {
		writeServiceError(w, name, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, doc)
}

// CreateMany handles POST /{collection}/bulk
func (cc *CollectionController) CreateMany(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["collection"]
	body, err := readBody(w, r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	docs, err := cc.Service.CreateMany(r.Context(), name, body)
	if err != nil {
		writeServiceError(w, name, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, docs)
}

// UpdateOne handles PATCH /{collection}/{id}, answering null when the id is unknown
func (cc *CollectionController) UpdateOne(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := vars["collection"]
	body, err := readBody(w, r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	doc, err := cc.Service.UpdateOneByID(r.Context(), name, vars["id"], body)
	if err != nil {
		writeServiceError(w, name, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, doc)
}

// UpdateMany handles PATCH /{collection} with a {filter, patch} body
func (cc *CollectionController) UpdateMany(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["collection"]
	body, err := readBody(w, r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	result, err := cc.Service.UpdateManyByFilter(r.Context(), name, body)
	if err != nil {
		writeServiceError(w, name, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// DeleteOne handles DELETE /{collection}/{id}, answering null when the id is unknown
func (cc *CollectionController) DeleteOne(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := vars["collection"]

	doc, err := cc.Service.DeleteOneByID(r.Context(), name, vars["id"])
	if err != nil {
		writeServiceError(w, name, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, doc)
}

// DeleteMany handles DELETE /{collection} with a {filter} body
func (cc *CollectionController) DeleteMany(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["collection"]
	body, err := readBody(w, r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	deleted, err := cc.Service.DeleteManyByFilter(r.Context(), name, body)
	if err != nil {
		writeServiceError(w, name, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}
