package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-fooddelivery/models"
	"go-fooddelivery/services"
	"go-fooddelivery/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unknown collection", fmt.Errorf("%w: carts", models.ErrUnknownCollection), http.StatusNotFound},
		{"validation", &services.ValidationError{Collection: "reviews", Violations: []utils.FieldViolation{{Field: "rating"}}}, http.StatusBadRequest},
		{"malformed", fmt.Errorf("%w: patch must be a JSON object", services.ErrMalformedBody), http.StatusBadRequest},
		{"duplicate", fmt.Errorf("%w: insert users", services.ErrDuplicate), http.StatusConflict},
		{"deadline", fmt.Errorf("find orders: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"storage", errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, "carts", tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestWriteServiceError_Payloads(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, "carts", models.ErrUnknownCollection)
	assert.JSONEq(t, `{"error":"collection does not exist","collection":"carts"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	writeServiceError(rec, "reviews", &services.ValidationError{
		Collection: "reviews",
		Violations: []utils.FieldViolation{{Field: "rating", Rule: "max", Message: "rating must satisfy max=5"}},
	})
	assert.JSONEq(t, `{"error":"validation failed","fields":[{"field":"rating","rule":"max","message":"rating must satisfy max=5"}]}`, rec.Body.String())
}

func TestWriteServiceError_StorageDetailsStayInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, "orders", errors.New("mongodb://admin:pw@db: auth failed"))
	assert.NotContains(t, rec.Body.String(), "admin")
}
