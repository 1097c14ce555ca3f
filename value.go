package toonsafe

import "reflect"

// Value is any member of the closed JSON data model: nil, bool, string, a
// number (json.Number from the decoders, any numeric Go type from callers),
// an Array, or an Object.
type Value interface{}

// Object represents a mapping from string keys to Values.
type Object map[string]Value

// Array represents an ordered sequence of Values.
type Array []Value

// Normalize folds raw decoder output (map[string]interface{},
// []interface{}) and concrete Go container types ([]string, map[string]int,
// pointers) into the Object/Array shapes the rest of the package works with.
// Scalars and values outside the data model pass through unchanged.
func Normalize(v interface{}) Value {
	switch val := v.(type) {
	case nil:
		return nil
	case map[string]interface{}:
		obj := make(Object, len(val))
		for key, item := range val {
			obj[key] = Normalize(item)
		}
		return obj
	case Object:
		obj := make(Object, len(val))
		for key, item := range val {
			obj[key] = Normalize(item)
		}
		return obj
	case []interface{}:
		arr := make(Array, len(val))
		for i, item := range val {
			arr[i] = Normalize(item)
		}
		return arr
	case Array:
		arr := make(Array, len(val))
		for i, item := range val {
			arr[i] = Normalize(item)
		}
		return arr
	default:
		return normalizeReflect(val)
	}
}

// normalizeReflect folds typed slices and string-keyed maps that the fast
// paths above cannot see. Anything else passes through.
func normalizeReflect(v interface{}) Value {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		arr := make(Array, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			arr[i] = Normalize(rv.Index(i).Interface())
		}
		return arr
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		if rv.IsNil() {
			return nil
		}
		obj := make(Object, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			obj[iter.Key().String()] = Normalize(iter.Value().Interface())
		}
		return obj
	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		return Normalize(rv.Elem().Interface())
	}
	return v
}
