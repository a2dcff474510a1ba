package utils

import (
	"context"
	"fmt"
	"time"

	"go-fooddelivery/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens the shared MongoDB client. Writes are never retried by the driver.
func ConnectDB(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetRetryWrites(false).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the indexes declared by every registered schema
func EnsureIndexes(ctx context.Context, db *mongo.Database, registry *models.Registry, logger *zap.Logger) error {
	for _, name := range registry.Names() {
		schema, _ := registry.Resolve(name)
		if len(schema.Indexes) == 0 {
			continue
		}
		created, err := db.Collection(name).Indexes().CreateMany(ctx, schema.Indexes)
		if err != nil {
			return fmt.Errorf("create indexes for %s: %w", name, err)
		}
		logger.Info("indexes ready", zap.String("collection", name), zap.Strings("indexes", created))
	}
	return nil
}
