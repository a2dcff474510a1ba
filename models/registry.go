package models

import (
	"errors"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrUnknownCollection is returned when a collection name is not registered
var ErrUnknownCollection = errors.New("collection does not exist")

// Collection names
const (
	UsersCollection       = "users"
	RestaurantsCollection = "restaurants"
	OrdersCollection      = "orders"
	ReviewsCollection     = "reviews"
)

// Capabilities flag the few schema-specific behaviours of the generic router
type Capabilities struct {
	NestedMenu  bool // menu items get their own identifiers
	Tags        bool // supports the tag set operations
	Credentials bool // documents carry a password to hash and hide
}

// Schema describes one registered collection
type Schema struct {
	Name         string
	New          func() Document
	Capabilities Capabilities
	Indexes      []mongo.IndexModel
	Hidden       []string
}

// Registry maps collection names to schemas. It is never mutated after NewRegistry returns.
type Registry struct {
	schemas map[string]*Schema
}

// NewRegistry builds the registry of the four food-delivery collections
func NewRegistry() *Registry {
	return newRegistry(
		&Schema{
			Name:         UsersCollection,
			New:          func() Document { return &User{} },
			Capabilities: Capabilities{Credentials: true},
			Indexes: []mongo.IndexModel{
				{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			},
			Hidden: []string{"password"},
		},
		&Schema{
			Name:         RestaurantsCollection,
			New:          func() Document { return &Restaurant{} },
			Capabilities: Capabilities{NestedMenu: true, Tags: true},
			Indexes: []mongo.IndexModel{
				{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
				{Keys: bson.D{{Key: "city", Value: 1}, {Key: "name", Value: 1}}},
				{Keys: bson.D{{Key: "menu._id", Value: 1}}},
				{Keys: bson.D{{Key: "menu.name", Value: 1}}},
			},
		},
		&Schema{
			Name: OrdersCollection,
			New:  func() Document { return &Order{} },
			Indexes: []mongo.IndexModel{
				{Keys: bson.D{{Key: "detail.product_id", Value: 1}}},
				{Keys: bson.D{{Key: "restaurant_id", Value: 1}, {Key: "total", Value: -1}}},
				{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "createdAt", Value: -1}}},
			},
		},
		&Schema{
			Name: ReviewsCollection,
			New:  func() Document { return &Review{} },
			Indexes: []mongo.IndexModel{
				{Keys: bson.D{{Key: "restaurant_id", Value: 1}}},
				{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "rating", Value: -1}}},
			},
		},
	)
}

func newRegistry(schemas ...*Schema) *Registry {
	reg := &Registry{schemas: make(map[string]*Schema, len(schemas))}
	for _, s := range schemas {
		reg.schemas[s.Name] = s
	}
	return reg
}

// Resolve returns the schema registered under name
func (r *Registry) Resolve(name string) (*Schema, error) {
	s, ok := r.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}
	return s, nil
}

// Names lists the registered collection names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StripHidden removes fields that must never leave the server
func (s *Schema) StripHidden(doc bson.M) {
	for _, f := range s.Hidden {
		delete(doc, f)
	}
}
