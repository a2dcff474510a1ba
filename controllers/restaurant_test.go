package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-fooddelivery/mocks"
	"go-fooddelivery/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRestaurantController_RejectsOversizedBodies(t *testing.T) {
	// no store expectations: oversized bodies never reach the service
	store := mocks.NewStore(t)
	rc := NewRestaurantController(services.NewRestaurantService(store, nil, nil, zap.NewNop()))
	big := strings.Repeat("a", maxBodyBytes+1)

	tests := []struct {
		name    string
		handler http.HandlerFunc
		body    string
	}{
		{"add menu item", rc.AddMenuItem, `{"name":"` + big + `","price":1,"description":"d"}`},
		{"add tag", rc.AddTag, `{"tag":"` + big + `"}`},
		{"set price", rc.SetMenuItemPrice, `{"newPrice":1,"note":"` + big + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/restaurants/r1/x", strings.NewReader(tt.body))
			req = mux.SetURLVars(req, map[string]string{"id": "r1", "itemId": "m1"})
			rec := httptest.NewRecorder()

			tt.handler(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
