// Package payload holds the loosely-typed data used to hydrate components.
// Inputs from JSON, YAML or Lua are normalized into Value, a closed variant,
// and Decode assigns a mapping onto a typed component.
package payload

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Kind enumerates the variants a Value can hold.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindTime
	KindIdentifier
	KindSequence
	KindMapping
)

var kindNames = [...]string{
	KindNull:       "null",
	KindBool:       "bool",
	KindInt:        "int",
	KindUint:       "uint",
	KindFloat:      "float",
	KindString:     "string",
	KindTime:       "time",
	KindIdentifier: "identifier",
	KindSequence:   "sequence",
	KindMapping:    "mapping",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Object is a mapping payload keyed by field name.
type Object map[string]Value

// Keys returns the object's keys in lexical order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Value is one node of a payload. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	u    uint64
	f    float64
	s    string
	t    time.Time
	id   uuid.UUID
	seq  []Value
	obj  Object
}

func Null() Value                   { return Value{} }
func Bool(b bool) Value             { return Value{kind: KindBool, b: b} }
func Int(i int64) Value             { return Value{kind: KindInt, i: i} }
func Uint(u uint64) Value           { return Value{kind: KindUint, u: u} }
func Float(f float64) Value         { return Value{kind: KindFloat, f: f} }
func String(s string) Value         { return Value{kind: KindString, s: s} }
func Time(t time.Time) Value        { return Value{kind: KindTime, t: t} }
func Identifier(id uuid.UUID) Value { return Value{kind: KindIdentifier, id: id} }
func Sequence(vs ...Value) Value    { return Value{kind: KindSequence, seq: vs} }
func Mapping(o Object) Value        { return Value{kind: KindMapping, obj: o} }

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) Items() []Value { return v.seq }
func (v Value) Object() Object { return v.obj }

// Interface converts the value back into plain Go data: scalars become
// bool, int64, uint64, float64, string, time.Time or uuid.UUID; sequences
// become []any and mappings map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindUint:
		return v.u
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindTime:
		return v.t
	case KindIdentifier:
		return v.id
	case KindSequence:
		out := make([]any, len(v.seq))
		for i, item := range v.seq {
			out[i] = item.Interface()
		}
		return out
	case KindMapping:
		out := make(map[string]any, len(v.obj))
		for k, item := range v.obj {
			out[k] = item.Interface()
		}
		return out
	}
	return nil
}

// Text returns the textual form of a scalar. Sequences and mappings have
// none.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b), true
	case KindInt:
		return strconv.FormatInt(v.i, 10), true
	case KindUint:
		return strconv.FormatUint(v.u, 10), true
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64), true
	case KindString:
		return v.s, true
	case KindTime:
		return v.t.Format(time.RFC3339Nano), true
	case KindIdentifier:
		return v.id.String(), true
	}
	return "", false
}

func (v Value) String() string {
	if s, ok := v.Text(); ok {
		return s
	}
	switch v.kind {
	case KindSequence:
		return fmt.Sprintf("sequence(%d)", len(v.seq))
	case KindMapping:
		return fmt.Sprintf("mapping(%d)", len(v.obj))
	}
	return "null"
}
