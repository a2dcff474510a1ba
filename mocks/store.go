package mocks

import (
	"context"

	"go-fooddelivery/models"
	"go-fooddelivery/utils"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store is a mock of services.Store
type Store struct {
	mock.Mock
}

func (m *Store) Find(ctx context.Context, collection string, criteria utils.Criteria) ([]bson.M, error) {
	ret := m.Called(ctx, collection, criteria)
	var docs []bson.M
	if v := ret.Get(0); v != nil {
		docs = v.([]bson.M)
	}
	return docs, ret.Error(1)
}

func (m *Store) InsertOne(ctx context.Context, collection string, doc interface{}) error {
	return m.Called(ctx, collection, doc).Error(0)
}

func (m *Store) InsertMany(ctx context.Context, collection string, docs []interface{}) error {
	return m.Called(ctx, collection, docs).Error(0)
}

func (m *Store) FindOneAndUpdate(ctx context.Context, collection string, filter, update interface{}) (bson.M, error) {
	ret := m.Called(ctx, collection, filter, update)
	return document(ret.Get(0)), ret.Error(1)
}

func (m *Store) UpdateMany(ctx context.Context, collection string, filter, update interface{}) (models.UpdateResult, error) {
	ret := m.Called(ctx, collection, filter, update)
	return ret.Get(0).(models.UpdateResult), ret.Error(1)
}

func (m *Store) FindOneAndDelete(ctx context.Context, collection string, filter interface{}) (bson.M, error) {
	ret := m.Called(ctx, collection, filter)
	return document(ret.Get(0)), ret.Error(1)
}

func (m *Store) DeleteMany(ctx context.Context, collection string, filter interface{}) (int64, error) {
	ret := m.Called(ctx, collection, filter)
	return ret.Get(0).(int64), ret.Error(1)
}

func (m *Store) Count(ctx context.Context, collection string, filter interface{}) (int64, error) {
	ret := m.Called(ctx, collection, filter)
	return ret.Get(0).(int64), ret.Error(1)
}

func (m *Store) Distinct(ctx context.Context, collection, field string, filter interface{}) ([]interface{}, error) {
	ret := m.Called(ctx, collection, field, filter)
	var values []interface{}
	if v := ret.Get(0); v != nil {
		values = v.([]interface{})
	}
	return values, ret.Error(1)
}

// Aggregate runs the function registered with Run to fill results
func (m *Store) Aggregate(ctx context.Context, collection string, pipeline mongo.Pipeline, results interface{}) error {
	return m.Called(ctx, collection, pipeline, results).Error(0)
}

func document(v interface{}) bson.M {
	if v == nil {
		return nil
	}
	return v.(bson.M)
}

// NewStore creates a Store mock whose expectations are asserted when the test ends
func NewStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *Store {
	m := &Store{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
