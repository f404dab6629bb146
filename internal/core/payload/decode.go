package payload

import (
	"encoding"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// decodeFunc writes v into dst, which is always settable.
type decodeFunc func(v Value, dst reflect.Value) error

var (
	decoders sync.Map // reflect.Type -> decodeFunc
	fieldSet sync.Map // reflect.Type -> map[string][]int

	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// Decode assigns every key of obj to the same-named exported field of the
// struct target points to. Keys without a matching field are ignored.
// On error the target may be partially written; callers that need
// all-or-nothing semantics decode into a fresh value.
func Decode(obj Object, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: got %T", ErrInvalidTarget, target)
	}
	return hydrateStruct(obj, rv.Elem())
}

// Simple reports whether t is a scalar target: a primitive, a string, or an
// enum-like type parsed from text (which includes time.Time and uuid.UUID).
func Simple(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return textual(t)
}

func textual(t reflect.Type) bool {
	return t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(textUnmarshalerType)
}

func decoderFor(t reflect.Type) decodeFunc {
	if d, ok := decoders.Load(t); ok {
		return d.(decodeFunc)
	}
	d, _ := decoders.LoadOrStore(t, compile(t))
	return d.(decodeFunc)
}

// compile builds the decoder for t. Child decoders are looked up lazily so
// recursive types terminate.
func compile(t reflect.Type) decodeFunc {
	convert := converterFor(t)
	return func(v Value, dst reflect.Value) error {
		if v.IsNull() {
			dst.SetZero()
			return nil
		}
		if rt := rawType(v.kind); rt != nil && rt.AssignableTo(t) {
			dst.Set(reflect.ValueOf(v.Interface()))
			return nil
		}
		return convert(v, dst)
	}
}

func converterFor(t reflect.Type) decodeFunc {
	switch {
	case t.Kind() == reflect.Pointer:
		return pointerDecoder(t)
	case textual(t):
		return textDecoder(t)
	}

	switch t.Kind() {
	case reflect.Struct:
		return structDecoder(t)
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return unsupported(t)
		}
		return mapDecoder(t)
	case reflect.Slice:
		return sliceDecoder(t)
	case reflect.Array:
		return arrayDecoder(t)
	case reflect.Interface:
		return func(v Value, _ reflect.Value) error {
			if v.kind == KindSequence || v.kind == KindMapping {
				return fmt.Errorf("%w: %s into %s", ErrUnsupportedContainerType, v.kind, t)
			}
			return mismatch(v, t)
		}
	}
	if Simple(t) {
		return primitiveDecoder(t)
	}
	return unsupported(t)
}

func pointerDecoder(t reflect.Type) decodeFunc {
	elem := t.Elem()
	return func(v Value, dst reflect.Value) error {
		p := reflect.New(elem)
		if err := decoderFor(elem)(v, p.Elem()); err != nil {
			return err
		}
		dst.Set(p)
		return nil
	}
}

func textDecoder(t reflect.Type) decodeFunc {
	return func(v Value, dst reflect.Value) error {
		s, ok := v.Text()
		if !ok {
			return mismatch(v, t)
		}
		p := reflect.New(t)
		if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return err
		}
		dst.Set(p.Elem())
		return nil
	}
}

func structDecoder(t reflect.Type) decodeFunc {
	return func(v Value, dst reflect.Value) error {
		switch v.kind {
		case KindMapping:
		case KindSequence:
			return fmt.Errorf("%w: sequence into %s", ErrUnsupportedContainerType, t)
		default:
			return mismatch(v, t)
		}
		fresh := reflect.New(t).Elem()
		if err := hydrateStruct(v.obj, fresh); err != nil {
			return err
		}
		dst.Set(fresh)
		return nil
	}
}

func mapDecoder(t reflect.Type) decodeFunc {
	key, elem := t.Key(), t.Elem()
	return func(v Value, dst reflect.Value) error {
		switch v.kind {
		case KindMapping:
		case KindSequence:
			return fmt.Errorf("%w: sequence into %s", ErrUnsupportedContainerType, t)
		default:
			return mismatch(v, t)
		}
		m := reflect.MakeMapWithSize(t, len(v.obj))
		decode := decoderFor(elem)
		for _, k := range v.obj.Keys() {
			item := reflect.New(elem).Elem()
			if err := decode(v.obj[k], item); err != nil {
				return located(k, elem, err)
			}
			m.SetMapIndex(reflect.ValueOf(k).Convert(key), item)
		}
		dst.Set(m)
		return nil
	}
}

func sliceDecoder(t reflect.Type) decodeFunc {
	elem := t.Elem()
	return func(v Value, dst reflect.Value) error {
		switch v.kind {
		case KindSequence:
		case KindString:
			if elem.Kind() == reflect.Uint8 {
				dst.Set(reflect.ValueOf([]byte(v.s)).Convert(t))
				return nil
			}
			return mismatch(v, t)
		case KindMapping:
			return fmt.Errorf("%w: mapping into %s", ErrUnsupportedContainerType, t)
		default:
			return mismatch(v, t)
		}
		s := reflect.MakeSlice(t, len(v.seq), len(v.seq))
		if err := fillSequence(v.seq, s, elem); err != nil {
			return err
		}
		dst.Set(s)
		return nil
	}
}

func arrayDecoder(t reflect.Type) decodeFunc {
	elem := t.Elem()
	return func(v Value, dst reflect.Value) error {
		switch v.kind {
		case KindSequence:
		case KindMapping:
			return fmt.Errorf("%w: mapping into %s", ErrUnsupportedContainerType, t)
		default:
			return mismatch(v, t)
		}
		if len(v.seq) > t.Len() {
			return fmt.Errorf("sequence of %d items does not fit %s", len(v.seq), t)
		}
		a := reflect.New(t).Elem()
		if err := fillSequence(v.seq, a, elem); err != nil {
			return err
		}
		dst.Set(a)
		return nil
	}
}

func fillSequence(items []Value, dst reflect.Value, elem reflect.Type) error {
	decode := decoderFor(elem)
	for i, item := range items {
		if err := decode(item, dst.Index(i)); err != nil {
			return located(fmt.Sprintf("[%d]", i), elem, err)
		}
	}
	return nil
}

func primitiveDecoder(t reflect.Type) decodeFunc {
	return func(v Value, dst reflect.Value) error {
		if v.kind == KindSequence || v.kind == KindMapping {
			return mismatch(v, t)
		}
		raw := v.Interface()
		switch t.Kind() {
		case reflect.Bool:
			b, err := cast.ToBoolE(raw)
			if err != nil {
				return err
			}
			dst.SetBool(b)
		case reflect.String:
			s, _ := v.Text()
			dst.SetString(s)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if err := fitsInt64(v, t); err != nil {
				return err
			}
			n, err := cast.ToInt64E(raw)
			if err != nil {
				return err
			}
			if dst.OverflowInt(n) {
				return fmt.Errorf("%d overflows %s", n, t)
			}
			dst.SetInt(n)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			if err := fitsUint64(v, t); err != nil {
				return err
			}
			n, err := cast.ToUint64E(raw)
			if err != nil {
				return err
			}
			if dst.OverflowUint(n) {
				return fmt.Errorf("%d overflows %s", n, t)
			}
			dst.SetUint(n)
		case reflect.Float32, reflect.Float64:
			f, err := cast.ToFloat64E(raw)
			if err != nil {
				return err
			}
			if dst.OverflowFloat(f) {
				return fmt.Errorf("%g overflows %s", f, t)
			}
			dst.SetFloat(f)
		}
		return nil
	}
}

// cast converts uint64 and float64 sources with a plain conversion, so
// values outside the 64-bit range are rejected here first.
func fitsInt64(v Value, t reflect.Type) error {
	switch v.kind {
	case KindUint:
		if v.u > math.MaxInt64 {
			return fmt.Errorf("%d overflows %s", v.u, t)
		}
	case KindFloat:
		if math.IsNaN(v.f) || v.f < -(1<<63) || v.f >= 1<<63 {
			return fmt.Errorf("%g overflows %s", v.f, t)
		}
	}
	return nil
}

func fitsUint64(v Value, t reflect.Type) error {
	if v.kind == KindFloat && (math.IsNaN(v.f) || v.f >= 1<<64) {
		return fmt.Errorf("%g overflows %s", v.f, t)
	}
	return nil
}

func unsupported(t reflect.Type) decodeFunc {
	return func(Value, reflect.Value) error {
		return fmt.Errorf("%w: %s", ErrUnsupportedValue, t)
	}
}

func hydrateStruct(obj Object, dst reflect.Value) error {
	fields := fieldsOf(dst.Type())
	for _, key := range obj.Keys() {
		index, ok := fields[key]
		if !ok {
			continue
		}
		fv, err := fieldByIndex(dst, index)
		if err != nil {
			return &HydrationError{Key: key, Target: dst.Type(), Err: err}
		}
		if err := decoderFor(fv.Type())(obj[key], fv); err != nil {
			return located(key, fv.Type(), err)
		}
	}
	return nil
}

// fieldsOf maps every exported, unambiguous field name of t (promoted
// fields included) to its index path.
func fieldsOf(t reflect.Type) map[string][]int {
	if f, ok := fieldSet.Load(t); ok {
		return f.(map[string][]int)
	}
	fields := make(map[string][]int)
	for _, vf := range reflect.VisibleFields(t) {
		if !vf.IsExported() {
			continue
		}
		if _, seen := fields[vf.Name]; seen {
			continue
		}
		if sf, ok := t.FieldByName(vf.Name); ok {
			fields[vf.Name] = sf.Index
		}
	}
	f, _ := fieldSet.LoadOrStore(t, fields)
	return f.(map[string][]int)
}

func fieldByIndex(v reflect.Value, index []int) (reflect.Value, error) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}, fmt.Errorf("nil embedded %s is not settable", v.Type())
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	if !v.CanSet() {
		return reflect.Value{}, fmt.Errorf("field of type %s is not settable", v.Type())
	}
	return v, nil
}

// located attaches key to err, extending the path of a nested
// HydrationError.
func located(key string, t reflect.Type, err error) error {
	var he *HydrationError
	if errors.As(err, &he) {
		sep := "."
		if strings.HasPrefix(he.Key, "[") {
			sep = ""
		}
		return &HydrationError{Key: key + sep + he.Key, Target: he.Target, Err: he.Err}
	}
	return &HydrationError{Key: key, Target: t, Err: err}
}

func mismatch(v Value, t reflect.Type) error {
	return fmt.Errorf("cannot convert %s to %s", v.kind, t)
}

var rawTypes = [...]reflect.Type{
	KindBool:       reflect.TypeFor[bool](),
	KindInt:        reflect.TypeFor[int64](),
	KindUint:       reflect.TypeFor[uint64](),
	KindFloat:      reflect.TypeFor[float64](),
	KindString:     reflect.TypeFor[string](),
	KindTime:       reflect.TypeFor[time.Time](),
	KindIdentifier: reflect.TypeFor[uuid.UUID](),
	KindSequence:   reflect.TypeFor[[]any](),
	KindMapping:    reflect.TypeFor[map[string]any](),
}

// rawType is the Go type Value.Interface returns for k.
func rawType(k Kind) reflect.Type {
	if int(k) < len(rawTypes) {
		return rawTypes[k]
	}
	return nil
}
