package utils

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Criteria drives a generic find.
// A nil Projection returns whole documents, an empty Sort leaves the order to the store
// and a zero Limit means no limit.
type Criteria struct {
	Filter     bson.M
	Projection bson.M
	Sort       bson.D
	Skip       int64
	Limit      int64
}

var errNotObject = errors.New("not a JSON object")

// Query parameters understood by DecodeCriteria
const (
	ParamFilter     = "filter"
	ParamProjection = "projection"
	ParamSort       = "sort"
	ParamSkip       = "skip"
	ParamLimit      = "limit"
)

// ValueGetter is satisfied by url.Values
type ValueGetter interface {
	Get(key string) string
}

// DecodeCriteria turns untrusted query parameters into Criteria. It never fails:
// an absent or malformed parameter is replaced by its default and the fallback is logged at debug level.
//
//	filter      {}
//	projection  none
//	sort        unordered
//	skip        0, negatives clamp to 0
//	limit       0 (unbounded), negatives clamp to 0
func DecodeCriteria(q ValueGetter, logger *zap.Logger) Criteria {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := Criteria{Filter: bson.M{}}

	if raw := q.Get(ParamFilter); raw != "" {
		if filter, err := ParseDocument([]byte(raw)); err != nil {
			logger.Debug("filter ignored", zap.String("raw", raw), zap.Error(err))
		} else {
			c.Filter = filter
		}
	}

	if raw := q.Get(ParamProjection); raw != "" {
		if projection, err := ParseDocument([]byte(raw)); err != nil {
			logger.Debug("projection ignored", zap.String("raw", raw), zap.Error(err))
		} else if len(projection) > 0 {
			c.Projection = projection
		}
	}

	if raw := q.Get(ParamSort); raw != "" {
		var sort bson.D
		if err := bson.UnmarshalExtJSON([]byte(raw), false, &sort); err != nil {
			logger.Debug("sort ignored", zap.String("raw", raw), zap.Error(err))
		} else {
			c.Sort = sort
		}
	}

	c.Skip = nonNegative(q.Get(ParamSkip))
	c.Limit = nonNegative(q.Get(ParamLimit))
	return c
}

// ParseDocument reads a JSON object into a document, preferring MongoDB Extended JSON.
// Plain JSON is accepted as well because operator documents such as {"$regex": "x"}
// are rejected by the Extended JSON parser.
func ParseDocument(raw []byte) (bson.M, error) {
	var doc bson.M
	extErr := bson.UnmarshalExtJSON(raw, false, &doc)
	if extErr == nil && doc != nil {
		return doc, nil
	}
	var plain map[string]interface{}
	if err := json.Unmarshal(raw, &plain); err != nil {
		return nil, err
	}
	if plain == nil {
		return nil, errNotObject
	}
	return bson.M(plain), nil
}

func nonNegative(raw string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
