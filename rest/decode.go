package rest

import (
	"github.com/tidwall/gjson"

	"snowcord/hydrate"
)

// DecodeJSON parses a response body into the generic decoded form the
// hydration engine consumes: map[string]any for objects, []any for arrays,
// float64 for numbers. Invalid JSON is a structural parse failure.
func DecodeJSON(body []byte) (any, error) {
	if !gjson.ValidBytes(body) {
		return nil, &hydrate.ParseError{Reason: "response body is not valid JSON"}
	}

	return gjson.ParseBytes(body).Value(), nil
}

// DecodeObject parses a response body that must be a JSON object.
func DecodeObject(body []byte) (map[string]any, error) {
	v, err := DecodeJSON(body)
	if err != nil {
		return nil, err
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &hydrate.ParseError{Reason: "response body is not a JSON object"}
	}

	return obj, nil
}

// DecodeArray parses a response body that must be a JSON array.
func DecodeArray(body []byte) ([]any, error) {
	v, err := DecodeJSON(body)
	if err != nil {
		return nil, err
	}

	arr, ok := v.([]any)
	if !ok {
		return nil, &hydrate.ParseError{Reason: "response body is not a JSON array"}
	}

	return arr, nil
}
