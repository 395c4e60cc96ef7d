package db

import (
	"math"
	"sort"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldSet describes the fields of an entity that a partial update may
// set, keyed by stored field name.
type FieldSet map[string]FieldType

// Keys returns the field names in sorted order.
func (s FieldSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Select returns the entries of payload whose keys are in the set. The
// second result lists the dropped keys in sorted order.
func (s FieldSet) Select(payload map[string]any) (map[string]any, []string) {
	selected := map[string]any{}
	dropped := []string{}
	for key, value := range payload {
		if _, ok := s[key]; ok {
			selected[key] = value
			continue
		}
		dropped = append(dropped, key)
	}
	sort.Strings(dropped)
	return selected, dropped
}

// FieldValueError describes a value that cannot be stored in a field.
type FieldValueError struct {
	Field  string
	Reason string
}

func (e *FieldValueError) Error() string {
	return "field '" + e.Field + "': " + e.Reason
}

// SetDocument converts decoded JSON values to the stored types of their
// fields and returns a $set update. Fields outside the set are stored as
// given.
func (s FieldSet) SetDocument(values map[string]any) (bson.M, error) {
	set := bson.M{}
	for key, raw := range values {
		fieldType, ok := s[key]
		if !ok {
			set[key] = raw
			continue
		}
		value, err := ConvertFieldValue(fieldType, raw)
		if err != nil {
			return nil, &FieldValueError{Field: key, Reason: err.Error()}
		}
		set[key] = value
	}
	return bson.M{"$set": set}, nil
}

// ConvertFieldValue converts a decoded JSON value to the stored form of
// a whole field. List fields take a list.
func ConvertFieldValue(fieldType FieldType, raw any) (any, error) {
	switch fieldType {
	case StringListField:
		var out []string
		if err := decodeStrict(raw, &out); err != nil {
			return nil, errors.New("expected a list of strings")
		}
		return out, nil
	case ObjectIDListField:
		var hexes []string
		if err := decodeStrict(raw, &hexes); err != nil {
			return nil, errors.New("expected a list of identifier strings")
		}
		out := make([]primitive.ObjectID, 0, len(hexes))
		for _, h := range hexes {
			id, err := primitive.ObjectIDFromHex(h)
			if err != nil {
				return nil, errors.Errorf("'%s' is not a valid identifier", h)
			}
			out = append(out, id)
		}
		return out, nil
	case IntField:
		var n float64
		if err := decodeStrict(raw, &n); err != nil || n != math.Trunc(n) {
			return nil, errors.New("expected an integer")
		}
		return int(n), nil
	case NumberField:
		var n float64
		if err := decodeStrict(raw, &n); err != nil {
			return nil, errors.New("expected a number")
		}
		return n, nil
	default:
		return convertFilterValue(fieldType, raw)
	}
}

func decodeStrict(raw any, out any) error {
	if raw == nil {
		return errors.New("value is null")
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(dec.Decode(raw))
}
