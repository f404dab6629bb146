package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/l1jgo/gameserver/internal/data"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM used to define prototypes in Lua.
// Single-goroutine access only.
//
// Scripts call the global prototype(name, components), where components is
// either a map from component kind to data:
//
//	prototype("player", { transform = { Coords = { X = 1, Y = 1 } } })
//
// or a list of {type = ..., data = ...} tables, which keeps declaration
// order.
type Engine struct {
	vm         *lua.LState
	log        *zap.Logger
	prototypes []*data.Prototype
}

// NewEngine creates a Lua engine and loads all scripts from scriptsDir. A
// missing directory loads nothing.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	vm.SetGlobal("prototype", vm.NewFunction(e.definePrototype))

	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// DoString runs a chunk of Lua in the engine's VM.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// Prototypes returns the prototypes defined so far, in definition order.
func (e *Engine) Prototypes() []*data.Prototype {
	return e.prototypes
}

// MergeInto adds every defined prototype to t.
func (e *Engine) MergeInto(t *data.PrototypeTable) error {
	for _, p := range e.prototypes {
		if err := t.Add(p); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) Close() {
	e.vm.Close()
}

// loadDir loads all .lua files in a directory, in name order.
func (e *Engine) loadDir(dir string) error {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

func (e *Engine) definePrototype(L *lua.LState) int {
	name := L.CheckString(1)
	tbl := L.CheckTable(2)

	p := &data.Prototype{Name: name}
	if isSequence(tbl) {
		for i := 1; i <= tbl.Len(); i++ {
			entry, ok := tbl.RawGetInt(i).(*lua.LTable)
			if !ok {
				L.ArgError(2, fmt.Sprintf("component %d is not a table", i))
				return 0
			}
			kind, ok := entry.RawGetString("type").(lua.LString)
			if !ok {
				L.ArgError(2, fmt.Sprintf("component %d has no type", i))
				return 0
			}
			spec, err := componentSpec(string(kind), entry.RawGetString("data"))
			if err != nil {
				L.ArgError(2, err.Error())
				return 0
			}
			p.Components = append(p.Components, spec)
		}
	} else {
		var kinds []string
		var bad lua.LValue
		tbl.ForEach(func(k, _ lua.LValue) {
			if s, ok := k.(lua.LString); ok {
				kinds = append(kinds, string(s))
			} else {
				bad = k
			}
		})
		if bad != nil {
			L.ArgError(2, fmt.Sprintf("component key %s is not a string", bad.String()))
			return 0
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			spec, err := componentSpec(kind, tbl.RawGetString(kind))
			if err != nil {
				L.ArgError(2, err.Error())
				return 0
			}
			p.Components = append(p.Components, spec)
		}
	}

	e.prototypes = append(e.prototypes, p)
	e.log.Debug("lua prototype defined",
		zap.String("name", name),
		zap.Int("components", len(p.Components)),
	)
	return 0
}

func componentSpec(kind string, v lua.LValue) (data.ComponentSpec, error) {
	spec := data.ComponentSpec{Type: kind}
	if v == lua.LNil {
		return spec, nil
	}
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return spec, fmt.Errorf("component %q: data must be a table, got %s", kind, v.Type())
	}
	m, err := toMap(tbl)
	if err != nil {
		return spec, fmt.Errorf("component %q: %w", kind, err)
	}
	spec.Data = m
	return spec, nil
}
