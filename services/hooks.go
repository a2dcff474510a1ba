package services

import (
	"context"
	"time"

	"go-fooddelivery/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// writeHooks run after a successful write. Neither hook can fail the write.
type writeHooks struct {
	cache     ReportCache
	publisher ChangePublisher
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

func newWriteHooks(cache ReportCache, publisher ChangePublisher, logger *zap.Logger) writeHooks {
	if logger == nil {
		logger = zap.NewNop()
	}
	return writeHooks{
		cache:     cache,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     func() string { return primitive.NewObjectID().Hex() },
	}
}

func (h writeHooks) afterWrite(ctx context.Context, collection, op string, ids []string, count int64) {
	if count == 0 {
		return
	}
	if h.cache != nil {
		if err := h.cache.Invalidate(ctx); err != nil {
			h.logger.Warn("report cache invalidation failed", zap.String("collection", collection), zap.Error(err))
		}
	}
	if h.publisher != nil {
		event := models.ChangeEvent{Collection: collection, Op: op, IDs: ids, Count: count, At: h.now()}
		if err := h.publisher.Publish(ctx, event); err != nil {
			h.logger.Warn("change event not published", zap.String("collection", collection), zap.String("op", op), zap.Error(err))
		}
	}
}
