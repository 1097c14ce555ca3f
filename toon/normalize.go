package toon

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// normalizeValue coerces arbitrary Go input into the closed shape the emitter
// understands: nil, bool, string, json.Number, []interface{} and
// map[string]interface{}. Numbers are folded into json.Number so that encode
// output is independent of which numeric Go type the caller happened to use.
func normalizeValue(v interface{}, path string) (interface{}, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case bool, string:
		return val, nil
	case json.Number:
		return val, nil
	case int:
		return json.Number(strconv.FormatInt(int64(val), 10)), nil
	case int8:
		return json.Number(strconv.FormatInt(int64(val), 10)), nil
	case int16:
		return json.Number(strconv.FormatInt(int64(val), 10)), nil
	case int32:
		return json.Number(strconv.FormatInt(int64(val), 10)), nil
	case int64:
		return json.Number(strconv.FormatInt(val, 10)), nil
	case uint:
		return json.Number(strconv.FormatUint(uint64(val), 10)), nil
	case uint8:
		return json.Number(strconv.FormatUint(uint64(val), 10)), nil
	case uint16:
		return json.Number(strconv.FormatUint(uint64(val), 10)), nil
	case uint32:
		return json.Number(strconv.FormatUint(uint64(val), 10)), nil
	case uint64:
		return json.Number(strconv.FormatUint(val, 10)), nil
	case float32:
		return normalizeFloat(float64(val), path)
	case float64:
		return normalizeFloat(val, path)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			n, err := normalizeValue(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for key, item := range val {
			n, err := normalizeValue(item, path+"."+key)
			if err != nil {
				return nil, err
			}
			out[key] = n
		}
		return out, nil
	}

	return normalizeReflect(v, path)
}

// normalizeReflect handles concrete slice/map types (for example []string or
// map[string]int) that did not match the fast paths above.
func normalizeReflect(v interface{}, path string) (interface{}, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			n, err := normalizeValue(rv.Index(i).Interface(), fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, encodeErrorf(path, "map key type %s is not a string", rv.Type().Key())
		}
		if rv.IsNil() {
			return nil, nil
		}
		out := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := iter.Key().String()
			n, err := normalizeValue(iter.Value().Interface(), path+"."+key)
			if err != nil {
				return nil, err
			}
			out[key] = n
		}
		return out, nil
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return normalizeValue(rv.Elem().Interface(), path)
	}
	return nil, encodeErrorf(path, "unsupported value of type %T", v)
}

func normalizeFloat(f float64, path string) (interface{}, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, encodeErrorf(path, "number %v has no textual representation", f)
	}
	return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
}
