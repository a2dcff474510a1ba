package services

import (
	"context"

	"go-fooddelivery/models"
	"go-fooddelivery/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store is the document store the services run against.
// FindOneAndUpdate and FindOneAndDelete return a nil document when nothing matched.
type Store interface {
	Find(ctx context.Context, collection string, criteria utils.Criteria) ([]bson.M, error)
	InsertOne(ctx context.Context, collection string, doc interface{}) error
	InsertMany(ctx context.Context, collection string, docs []interface{}) error
	FindOneAndUpdate(ctx context.Context, collection string, filter, update interface{}) (bson.M, error)
	UpdateMany(ctx context.Context, collection string, filter, update interface{}) (models.UpdateResult, error)
	FindOneAndDelete(ctx context.Context, collection string, filter interface{}) (bson.M, error)
	DeleteMany(ctx context.Context, collection string, filter interface{}) (int64, error)
	Count(ctx context.Context, collection string, filter interface{}) (int64, error)
	Distinct(ctx context.Context, collection, field string, filter interface{}) ([]interface{}, error)
	Aggregate(ctx context.Context, collection string, pipeline mongo.Pipeline, results interface{}) error
}

// ReportCache stores the JSON form of global reports
type ReportCache interface {
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Invalidate(ctx context.Context) error
}

// ChangePublisher announces successful writes
type ChangePublisher interface {
	Publish(ctx context.Context, event models.ChangeEvent) error
}
