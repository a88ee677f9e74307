package document

import (
	"encoding/json"
	"strconv"
)

// String returns obj[key] when it is a string, nil otherwise.
func String(obj map[string]any, key string) *string {
	s, ok := obj[key].(string)
	if !ok {
		return nil
	}

	return &s
}

// Number returns obj[key] when it is a number, nil otherwise.
func Number(obj map[string]any, key string) *json.Number {
	return AsNumber(obj[key])
}

// AsNumber converts a decoded JSON number to json.Number, returning nil for any other kind.
func AsNumber(v any) *json.Number {
	switch n := v.(type) {
	case json.Number:
		return &n
	case float64:
		num := json.Number(strconv.FormatFloat(n, 'f', -1, 64))
		return &num
	case int:
		num := json.Number(strconv.Itoa(n))
		return &num
	case int64:
		num := json.Number(strconv.FormatInt(n, 10))
		return &num
	}

	return nil
}

// Value returns obj[key] unchanged; a missing key yields nil.
func Value(obj map[string]any, key string) any {
	return obj[key]
}

// Object returns obj[key] when it is an object, nil otherwise.
func Object(obj map[string]any, key string) map[string]any {
	m, _ := obj[key].(map[string]any)

	return m
}

// List returns obj[key] when it is a list, nil otherwise.
func List(obj map[string]any, key string) []any {
	l, _ := obj[key].([]any)

	return l
}

// FirstObject returns the first element of list when it is an object.
func FirstObject(list []any) map[string]any {
	if len(list) == 0 {
		return nil
	}

	m, _ := list[0].(map[string]any)

	return m
}
