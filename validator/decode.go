package validator

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	restmodel "github.com/Roisin-M/Yoga-Studio-Mangement-API/rest/model"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

const (
	ruleType    = "type"
	ruleUnknown = "unknown"
)

// DecodeInstructor reads a create or replace body. Values of the wrong
// type and keys an instructor does not have are reported together with
// every rule the decoded fields break.
func DecodeInstructor(payload map[string]any) (*restmodel.APIInstructor, ValidationErrors) {
	in := &restmodel.APIInstructor{}
	errs := decodeFields(payload, in)
	return in, merge(errs, ValidateInstructor(in))
}

// DecodeClassLocation reads a create or replace body for a class location.
func DecodeClassLocation(payload map[string]any) (*restmodel.APIClassLocation, ValidationErrors) {
	in := &restmodel.APIClassLocation{}
	errs := decodeFields(payload, in)
	return in, merge(errs, ValidateClassLocation(in))
}

// DecodeClass reads a create or replace body for a class.
func DecodeClass(payload map[string]any) (*restmodel.APIClass, ValidationErrors) {
	in := &restmodel.APIClass{}
	errs := decodeFields(payload, in)
	return in, merge(errs, ValidateClass(in))
}

// decodeFields fills out one field at a time so that a single mistyped
// value does not hide the others. The id is assigned by the store and is
// never accepted from a body.
func decodeFields(payload map[string]any, out any) ValidationErrors {
	val := reflect.ValueOf(out).Elem()
	typ := val.Type()

	var errs ValidationErrors
	known := map[string]bool{}
	for i := 0; i < typ.NumField(); i++ {
		name := jsonName(typ.Field(i))
		if name == "" || name == "_id" {
			continue
		}
		known[name] = true

		raw, ok := payload[name]
		if !ok || raw == nil {
			continue
		}
		target := reflect.New(typ.Field(i).Type)
		if err := decodeValue(raw, target.Interface()); err != nil {
			errs = append(errs, typeError(name, typ.Field(i).Type))
			continue
		}
		val.Field(i).Set(target.Elem())
	}

	unknown := []string{}
	for key := range payload {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		errs = append(errs, ValidationError{
			Field:   key,
			Rule:    ruleUnknown,
			Message: fmt.Sprintf("\"%s\" is not allowed", key),
		})
	}

	return errs
}

func decodeValue(raw, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: wholeNumbers,
		Result:     out,
	})
	if err != nil {
		return errors.Wrap(err, "building decoder")
	}
	return decoder.Decode(raw)
}

// wholeNumbers refuses to truncate a JSON number with a fractional part
// into an integer field.
func wholeNumbers(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Int {
		return data, nil
	}
	if f, ok := data.(float64); ok && f != math.Trunc(f) {
		return nil, errors.Errorf("%v is not a whole number", f)
	}
	return data, nil
}

func typeError(field string, t reflect.Type) ValidationError {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	expected := "a string"
	switch t.Kind() {
	case reflect.Int:
		expected = "an integer"
	case reflect.Slice:
		expected = "an array of strings"
	}
	return ValidationError{
		Field:   field,
		Rule:    ruleType,
		Message: fmt.Sprintf("\"%s\" must be %s", field, expected),
	}
}

// merge reports decoding problems first. Rule violations on a field that
// could not be decoded are dropped, since the field reads as absent.
func merge(decodeErrs, ruleErrs ValidationErrors) ValidationErrors {
	if len(decodeErrs) == 0 {
		return ruleErrs
	}

	mistyped := map[string]bool{}
	for _, e := range decodeErrs {
		if e.Rule == ruleType {
			mistyped[e.Field] = true
		}
	}
	out := append(ValidationErrors{}, decodeErrs...)
	for _, e := range ruleErrs {
		root, _, _ := strings.Cut(e.Field, "[")
		if !mistyped[root] {
			out = append(out, e)
		}
	}
	return out
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}
