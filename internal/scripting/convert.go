package scripting

import (
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"
)

// toValue converts a Lua value into the plain Go data the payload package
// accepts. Integral numbers become int64, other numbers float64. Tables
// whose keys are exactly 1..n become []any, every other table map[string]any.
func toValue(v lua.LValue) (any, error) {
	switch lv := v.(type) {
	case *lua.LNilType:
		return nil, nil
	case lua.LBool:
		return bool(lv), nil
	case lua.LNumber:
		f := float64(lv)
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f), nil
		}
		return f, nil
	case lua.LString:
		return string(lv), nil
	case *lua.LTable:
		if isSequence(lv) {
			return toSlice(lv)
		}
		return toMap(lv)
	}
	return nil, fmt.Errorf("unsupported lua type %s", v.Type())
}

func toSlice(tbl *lua.LTable) ([]any, error) {
	n := tbl.Len()
	out := make([]any, 0, n)
	for i := 1; i <= n; i++ {
		v, err := toValue(tbl.RawGetInt(i))
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func toMap(tbl *lua.LTable) (map[string]any, error) {
	out := make(map[string]any)
	var err error
	tbl.ForEach(func(k, v lua.LValue) {
		if err != nil {
			return
		}
		key, ok := k.(lua.LString)
		if !ok {
			err = fmt.Errorf("table key %s is not a string", k.String())
			return
		}
		var item any
		if item, err = toValue(v); err != nil {
			err = fmt.Errorf("%s: %w", key, err)
			return
		}
		out[string(key)] = item
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// isSequence reports whether tbl is a non-empty array: its keys are exactly
// the integers 1..n.
func isSequence(tbl *lua.LTable) bool {
	n := tbl.Len()
	if n == 0 {
		return false
	}
	count := 0
	tbl.ForEach(func(lua.LValue, lua.LValue) { count++ })
	return count == n
}
