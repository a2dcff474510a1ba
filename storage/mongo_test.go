package storage

import (
	"errors"
	"testing"

	"go-fooddelivery/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func reviewsWithIDs(ids ...string) []interface{} {
	docs := make([]interface{}, len(ids))
	for i, id := range ids {
		r := &models.Review{}
		r.SetDocumentID(id)
		docs[i] = r
	}
	return docs
}

func TestInsertedBefore(t *testing.T) {
	docs := reviewsWithIDs("a", "b", "c", "d")

	dupAt := func(i int) error {
		return mongo.BulkWriteException{WriteErrors: []mongo.BulkWriteError{{
			WriteError: mongo.WriteError{Index: i, Code: 11000, Message: "E11000 duplicate key"},
		}}}
	}

	tests := []struct {
		name string
		err  error
		want []string
	}{
		{"first document failed", dupAt(0), []string{}},
		{"third document failed", dupAt(2), []string{"a", "b"}},
		{"index past the batch", dupAt(9), []string{"a", "b", "c", "d"}},
		{"no write errors", mongo.BulkWriteException{}, nil},
		{"not a write error", errors.New("connection reset"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, insertedBefore(docs, tt.err))
		})
	}
}
