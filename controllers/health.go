package controllers

import (
	"context"
	"net/http"

	"go-fooddelivery/utils"
)

// Pinger reports whether the store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	Store Pinger
}

func NewHealthController(store Pinger) *HealthController {
	return &HealthController{Store: store}
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if err := hc.Store.Ping(r.Context()); err != nil {
		utils.WriteError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
