package services

import (
	"fmt"
	"testing"
	"time"

	"go-fooddelivery/mocks"
	"go-fooddelivery/models"

	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// deterministic replaces the id and clock sources with predictable ones
func deterministic(h *writeHooks) {
	n := 0
	h.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	h.now = func() time.Time { return fixedNow }
}

func newTestCollectionService(t *testing.T, cache ReportCache, publisher ChangePublisher) (*CollectionService, *mocks.Store) {
	store := mocks.NewStore(t)
	svc := NewCollectionService(models.NewRegistry(), store, cache, publisher, zap.NewNop())
	deterministic(&svc.writeHooks)
	return svc, store
}

func newTestRestaurantService(t *testing.T, publisher ChangePublisher) (*RestaurantService, *mocks.Store) {
	store := mocks.NewStore(t)
	svc := NewRestaurantService(store, nil, publisher, zap.NewNop())
	deterministic(&svc.writeHooks)
	return svc, store
}
