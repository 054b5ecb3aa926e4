package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCountDecodesLooseBSON(t *testing.T) {
	cases := []struct {
		name string
		doc  bson.M
		want Count
	}{
		{"int32", bson.M{"hotDogsConsumed": int32(4)}, 4},
		{"int64", bson.M{"hotDogsConsumed": int64(12)}, 12},
		{"double", bson.M{"hotDogsConsumed": 3.9}, 3},
		{"numeric string", bson.M{"hotDogsConsumed": "7"}, 7},
		{"garbage string", bson.M{"hotDogsConsumed": "lots"}, 0},
		{"bool", bson.M{"hotDogsConsumed": true}, 0},
		{"missing", bson.M{}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := bson.Marshal(tc.doc)
			require.NoError(t, err)

			var p Post
			require.NoError(t, bson.Unmarshal(raw, &p))
			assert.Equal(t, tc.want, p.HotDogsConsumed)
		})
	}
}

func TestCountDecodesLooseJSON(t *testing.T) {
	var req CreatePostRequest
	require.NoError(t, json.Unmarshal([]byte(`{"hotDogsConsumed":"5"}`), &req))
	assert.Equal(t, Count(5), req.HotDogsConsumed)

	require.NoError(t, json.Unmarshal([]byte(`{"hotDogsConsumed":2}`), &req))
	assert.Equal(t, Count(2), req.HotDogsConsumed)

	require.NoError(t, json.Unmarshal([]byte(`{"hotDogsConsumed":null}`), &req))
	assert.Equal(t, Count(0), req.HotDogsConsumed)
}

func TestPostLikedBy(t *testing.T) {
	p := Post{Likes: []string{"a", "b"}}
	assert.True(t, p.LikedBy("b"))
	assert.False(t, p.LikedBy("c"))
}
