package payload

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// From normalizes plain Go data into a Value. It accepts what encoding/json,
// gopkg.in/yaml.v3 and the Lua bridge produce: scalars, []any, map[string]any
// and map[any]any with string keys. Other slices, arrays and string-keyed
// maps are walked with reflection.
func From(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case Object:
		return Mapping(v), nil
	case bool:
		return Bool(v), nil
	case int:
		return Int(int64(v)), nil
	case int8:
		return Int(int64(v)), nil
	case int16:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint:
		return Uint(uint64(v)), nil
	case uint8:
		return Uint(uint64(v)), nil
	case uint16:
		return Uint(uint64(v)), nil
	case uint32:
		return Uint(uint64(v)), nil
	case uint64:
		return Uint(v), nil
	case float32:
		return Float(float64(v)), nil
	case float64:
		return Float(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("payload: number %q: %w", v.String(), err)
		}
		return Float(f), nil
	case string:
		return String(v), nil
	case []byte:
		return String(string(v)), nil
	case time.Time:
		return Time(v), nil
	case uuid.UUID:
		return Identifier(v), nil
	case []any:
		items := make([]Value, len(v))
		for i, item := range v {
			iv, err := From(item)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = iv
		}
		return Sequence(items...), nil
	case map[string]any:
		obj, err := FromMap(v)
		if err != nil {
			return Value{}, err
		}
		return Mapping(obj), nil
	case map[any]any:
		obj := make(Object, len(v))
		for k, item := range v {
			key, ok := k.(string)
			if !ok {
				return Value{}, fmt.Errorf("payload: mapping key %v (%T) is not a string", k, k)
			}
			iv, err := From(item)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", key, err)
			}
			obj[key] = iv
		}
		return Mapping(obj), nil
	}
	return fromReflect(reflect.ValueOf(x))
}

// FromMap converts a string-keyed map into an Object.
func FromMap(m map[string]any) (Object, error) {
	if m == nil {
		return nil, nil
	}
	obj := make(Object, len(m))
	for k, item := range m {
		iv, err := From(item)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		obj[k] = iv
	}
	return obj, nil
}

// MustObject is FromMap for literals in tests and fixtures.
func MustObject(m map[string]any) Object {
	obj, err := FromMap(m)
	if err != nil {
		panic(err)
	}
	return obj
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return From(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		items := make([]Value, rv.Len())
		for i := range items {
			iv, err := From(rv.Index(i).Interface())
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = iv
		}
		return Sequence(items...), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, fmt.Errorf("payload: mapping key type %s is not a string", rv.Type().Key())
		}
		obj := make(Object, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := iter.Key().String()
			iv, err := From(iter.Value().Interface())
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", key, err)
			}
			obj[key] = iv
		}
		return Mapping(obj), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	}
	return Value{}, fmt.Errorf("%w: %s", ErrUnsupportedValue, rv.Type())
}
