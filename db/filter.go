package db

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldType is the stored type of a filterable field.
type FieldType int

const (
	StringField FieldType = iota
	NumberField
	IntField
	DateField
	ObjectIDField
	// list fields match when any element satisfies the comparison
	StringListField
	ObjectIDListField
)

func (t FieldType) String() string {
	switch t {
	case StringField, StringListField:
		return "string"
	case NumberField:
		return "number"
	case IntField:
		return "integer"
	case DateField:
		return "date"
	case ObjectIDField, ObjectIDListField:
		return "identifier"
	default:
		return "unknown"
	}
}

// Operator is a comparison operator in a filter expression.
type Operator string

const (
	OpEq  Operator = "$eq"
	OpNe  Operator = "$ne"
	OpGt  Operator = "$gt"
	OpGte Operator = "$gte"
	OpLt  Operator = "$lt"
	OpLte Operator = "$lte"
	OpIn  Operator = "$in"
	OpNin Operator = "$nin"
)

var operatorAliases = map[string]Operator{
	"from": OpGte,
	"to":   OpLte,
}

func parseOperator(name string) (Operator, bool) {
	if op, ok := operatorAliases[name]; ok {
		return op, true
	}
	switch op := Operator(name); op {
	case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte, OpIn, OpNin:
		return op, true
	}
	return "", false
}

// FilterSchema maps the filterable fields of an entity to their types.
type FilterSchema map[string]FieldType

// Comparison is a single operator applied to a typed value.
type Comparison struct {
	Op    Operator
	Value any
}

// Condition holds every comparison applied to one field.
type Condition struct {
	Field       string
	Comparisons []Comparison
}

// FilterExpr is a validated filter over an entity's fields. Conditions
// are ordered by field name.
type FilterExpr []Condition

// ErrMalformedFilter is the cause of errors for filters that are not a
// JSON object.
var ErrMalformedFilter = errors.New("malformed filter")

// FilterError describes a filter that is well-formed JSON but does not
// fit the entity's schema.
type FilterError struct {
	Field  string
	Reason string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("invalid filter on field '%s': %s", e.Field, e.Reason)
}

// IsMalformedFilter reports whether err came from unparseable filter JSON.
func IsMalformedFilter(err error) bool {
	return errors.Cause(err) == ErrMalformedFilter
}

// ParseFilter reads a JSON object of the form
//
//	{"field": value, "field": {"$op": value, ...}}
//
// and converts each value to the field's type. An empty string yields an
// empty expression.
func ParseFilter(raw string, schema FilterSchema) (FilterExpr, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	doc := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, errors.Wrap(ErrMalformedFilter, err.Error())
	}

	fields := make([]string, 0, len(doc))
	for field := range doc {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	expr := make(FilterExpr, 0, len(fields))
	for _, field := range fields {
		fieldType, ok := schema[field]
		if !ok {
			return nil, &FilterError{Field: field, Reason: "field cannot be filtered"}
		}

		cond := Condition{Field: field}
		ops, isOps := doc[field].(map[string]any)
		if !isOps {
			value, err := convertFilterValue(fieldType, doc[field])
			if err != nil {
				return nil, &FilterError{Field: field, Reason: err.Error()}
			}
			cond.Comparisons = append(cond.Comparisons, Comparison{Op: OpEq, Value: value})
			expr = append(expr, cond)
			continue
		}

		names := make([]string, 0, len(ops))
		for name := range ops {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			op, ok := parseOperator(name)
			if !ok {
				return nil, &FilterError{Field: field, Reason: fmt.Sprintf("unsupported operator '%s'", name)}
			}

			var value any
			var err error
			if op == OpIn || op == OpNin {
				value, err = convertFilterList(fieldType, ops[name])
			} else {
				value, err = convertFilterValue(fieldType, ops[name])
			}
			if err != nil {
				return nil, &FilterError{Field: field, Reason: err.Error()}
			}
			cond.Comparisons = append(cond.Comparisons, Comparison{Op: op, Value: value})
		}
		if len(cond.Comparisons) == 0 {
			return nil, &FilterError{Field: field, Reason: "no comparison given"}
		}
		expr = append(expr, cond)
	}

	return expr, nil
}

func convertFilterList(fieldType FieldType, raw any) ([]any, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, errors.New("expected a list of values")
	}
	out := make([]any, 0, len(list))
	for _, item := range list {
		value, err := convertFilterValue(fieldType, item)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, nil
}

func convertFilterValue(fieldType FieldType, raw any) (any, error) {
	switch fieldType {
	case StringField, StringListField:
		s, ok := raw.(string)
		if !ok {
			return nil, errors.Errorf("expected a %s value", fieldType)
		}
		return s, nil
	case NumberField:
		n, ok := raw.(float64)
		if !ok {
			return nil, errors.Errorf("expected a %s value", fieldType)
		}
		return n, nil
	case IntField:
		n, ok := raw.(float64)
		if !ok || n != math.Trunc(n) {
			return nil, errors.Errorf("expected an %s value", fieldType)
		}
		return int(n), nil
	case DateField:
		s, ok := raw.(string)
		if !ok {
			return nil, errors.Errorf("expected a %s value", fieldType)
		}
		t, err := ParseDate(s)
		if err != nil {
			return nil, err
		}
		return t, nil
	case ObjectIDField, ObjectIDListField:
		s, ok := raw.(string)
		if !ok {
			return nil, errors.Errorf("expected an %s string", fieldType)
		}
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, errors.Errorf("'%s' is not a valid identifier", s)
		}
		return id, nil
	}
	return nil, errors.Errorf("unsupported field type %d", fieldType)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate accepts an ISO-8601 date or date-time string and returns the
// instant in UTC. Date-only values are midnight UTC.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.Errorf("'%s' is not an ISO-8601 date", s)
}

// BSON renders the expression as a query filter.
func (f FilterExpr) BSON() bson.M {
	out := bson.M{}
	for _, cond := range f {
		if len(cond.Comparisons) == 1 && cond.Comparisons[0].Op == OpEq {
			out[cond.Field] = cond.Comparisons[0].Value
			continue
		}
		ops := bson.M{}
		for _, cmp := range cond.Comparisons {
			ops[string(cmp.Op)] = cmp.Value
		}
		out[cond.Field] = ops
	}
	return out
}

// Fields lists the fields the expression constrains.
func (f FilterExpr) Fields() []string {
	out := make([]string, 0, len(f))
	for _, cond := range f {
		out = append(out, cond.Field)
	}
	return out
}
