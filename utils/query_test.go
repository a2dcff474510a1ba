package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestDecodeCriteria_Defaults(t *testing.T) {
	c := DecodeCriteria(url.Values{}, nil)

	assert.Equal(t, bson.M{}, c.Filter)
	assert.Nil(t, c.Projection)
	assert.Empty(t, c.Sort)
	assert.Zero(t, c.Skip)
	assert.Zero(t, c.Limit)
}

func TestDecodeCriteria_MalformedParamsFallBack(t *testing.T) {
	q := url.Values{}
	q.Set(ParamFilter, "not-json")
	q.Set(ParamProjection, "{name:")
	q.Set(ParamSort, "[1,2")
	q.Set(ParamSkip, "-4")
	q.Set(ParamLimit, "ten")

	c := DecodeCriteria(q, nil)

	assert.Equal(t, bson.M{}, c.Filter)
	assert.Nil(t, c.Projection)
	assert.Empty(t, c.Sort)
	assert.Zero(t, c.Skip)
	assert.Zero(t, c.Limit)
}

func TestDecodeCriteria_ValidParams(t *testing.T) {
	q := url.Values{}
	q.Set(ParamFilter, `{"city":"Lagos"}`)
	q.Set(ParamProjection, `{"name":1}`)
	q.Set(ParamSort, `{"createdAt":-1,"name":1}`)
	q.Set(ParamSkip, "10")
	q.Set(ParamLimit, " 5 ")

	c := DecodeCriteria(q, nil)

	assert.Equal(t, "Lagos", c.Filter["city"])
	assert.Contains(t, c.Projection, "name")
	require.Len(t, c.Sort, 2)
	assert.Equal(t, "createdAt", c.Sort[0].Key)
	assert.Equal(t, "name", c.Sort[1].Key)
	assert.EqualValues(t, 10, c.Skip)
	assert.EqualValues(t, 5, c.Limit)
}

func TestDecodeCriteria_EmptyProjectionMeansWholeDocuments(t *testing.T) {
	q := url.Values{}
	q.Set(ParamProjection, `{}`)

	assert.Nil(t, DecodeCriteria(q, nil).Projection)
}

func TestDecodeCriteria_OperatorFilter(t *testing.T) {
	q := url.Values{}
	q.Set(ParamFilter, `{"name":{"$regex":"^Bu"},"rating":{"$gte":4}}`)

	c := DecodeCriteria(q, nil)

	assert.Contains(t, c.Filter, "name")
	assert.Contains(t, c.Filter, "rating")
}

func TestParseDocument(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "object", raw: `{"a":1}`},
		{name: "empty object", raw: `{}`},
		{name: "null", raw: `null`, wantErr: true},
		{name: "array", raw: `[1,2]`, wantErr: true},
		{name: "garbage", raw: `{a`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument([]byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, doc)
		})
	}
}
