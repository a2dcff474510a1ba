package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go-fooddelivery/models"
	"go-fooddelivery/services"
	"go-fooddelivery/utils"
)

const maxBodyBytes = 10 << 20

// writeServiceError maps service errors to status codes and the JSON error payload
func writeServiceError(w http.ResponseWriter, collection string, err error) {
	var verr *services.ValidationError
	switch {
	case errors.Is(err, models.ErrUnknownCollection):
		utils.WriteJSON(w, http.StatusNotFound, map[string]string{
			"error":      "collection does not exist",
			"collection": collection,
		})
	case errors.As(err, &verr):
		utils.WriteJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"fields": verr.Violations,
		})
	case errors.Is(err, services.ErrMalformedBody):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrDuplicate):
		utils.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		utils.WriteError(w, http.StatusGatewayTimeout, "storage did not answer in time")
	default:
		utils.WriteError(w, http.StatusInternalServerError, "storage error")
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

// decodeBody reads a size capped body into dst
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, dst)
}
