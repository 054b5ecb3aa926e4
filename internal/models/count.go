package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Count is a consumption count. Documents written by older clients may hold the
// value as a double or a string; anything that is not a number decodes as 0.
type Count int64

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (c *Count) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeInt32:
		*c = Count(rv.Int32())
	case bson.TypeInt64:
		*c = Count(rv.Int64())
	case bson.TypeDouble:
		*c = fromFloat(rv.Double())
	case bson.TypeString:
		*c = parseCount(rv.StringValue())
	default:
		*c = 0
	}
	return nil
}

// UnmarshalJSON accepts a number or a numeric string.
func (c *Count) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*c = parseCount(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = parseCount(s)
		return nil
	}
	*c = 0
	return nil
}

func parseCount(s string) Count {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Count(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromFloat(f)
	}
	return 0
}

func fromFloat(f float64) Count {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Count(math.Trunc(f))
}
