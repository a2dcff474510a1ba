package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-fooddelivery/models"
	"go-fooddelivery/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStore runs collection operations against one MongoDB database
type MongoStore struct {
	DB *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{DB: db}
}

func (s *MongoStore) Find(ctx context.Context, collection string, c utils.Criteria) ([]bson.M, error) {
	opts := options.Find().SetSkip(c.Skip).SetLimit(c.Limit)
	if c.Projection != nil {
		opts.SetProjection(c.Projection)
	}
	if len(c.Sort) > 0 {
		opts.SetSort(c.Sort)
	}
	filter := c.Filter
	if filter == nil {
		filter = bson.M{}
	}

	cursor, err := s.DB.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	docs := []bson.M{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *MongoStore) InsertOne(ctx context.Context, collection string, doc interface{}) error {
	_, err := s.DB.Collection(collection).InsertOne(ctx, doc)
	return err
}

// InsertMany is all or nothing. The ordered insert stops at the first failing document,
// the documents inserted before it are then deleted again.
func (s *MongoStore) InsertMany(ctx context.Context, collection string, docs []interface{}) error {
	coll := s.DB.Collection(collection)
	_, err := coll.InsertMany(ctx, docs)
	if err == nil {
		return nil
	}
	ids := insertedBefore(docs, err)
	if len(ids) == 0 {
		return err
	}

	rollbackCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
	defer cancel()
	if _, derr := coll.DeleteMany(rollbackCtx, bson.M{"_id": bson.M{"$in": ids}}); derr != nil {
		return fmt.Errorf("%w (removing %d inserted documents failed: %v)", err, len(ids), derr)
	}
	return err
}

const rollbackTimeout = 10 * time.Second

// insertedBefore lists the ids of the documents an ordered insert stored before its first write error
func insertedBefore(docs []interface{}, err error) []string {
	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) || len(bwe.WriteErrors) == 0 {
		return nil
	}
	n := bwe.WriteErrors[0].Index
	if n > len(docs) {
		n = len(docs)
	}
	ids := make([]string, 0, n)
	for _, d := range docs[:n] {
		if doc, ok := d.(models.Document); ok {
			ids = append(ids, doc.DocumentID())
		}
	}
	return ids
}

func (s *MongoStore) FindOneAndUpdate(ctx context.Context, collection string, filter, update interface{}) (bson.M, error) {
	var doc bson.M
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.DB.Collection(collection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *MongoStore) UpdateMany(ctx context.Context, collection string, filter, update interface{}) (models.UpdateResult, error) {
	result, err := s.DB.Collection(collection).UpdateMany(ctx, filter, update)
	if err != nil {
		return models.UpdateResult{}, err
	}
	return models.UpdateResult{Matched: result.MatchedCount, Modified: result.ModifiedCount}, nil
}

func (s *MongoStore) FindOneAndDelete(ctx context.Context, collection string, filter interface{}) (bson.M, error) {
	var doc bson.M
	err := s.DB.Collection(collection).FindOneAndDelete(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *MongoStore) DeleteMany(ctx context.Context, collection string, filter interface{}) (int64, error) {
	result, err := s.DB.Collection(collection).DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (s *MongoStore) Count(ctx context.Context, collection string, filter interface{}) (int64, error) {
	return s.DB.Collection(collection).CountDocuments(ctx, filter)
}

func (s *MongoStore) Distinct(ctx context.Context, collection, field string, filter interface{}) ([]interface{}, error) {
	return s.DB.Collection(collection).Distinct(ctx, field, filter)
}

func (s *MongoStore) Aggregate(ctx context.Context, collection string, pipeline mongo.Pipeline, results interface{}) error {
	cursor, err := s.DB.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	return cursor.All(ctx, results)
}

// Ping checks that the primary is reachable
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.DB.Client().Ping(ctx, readpref.Primary())
}
