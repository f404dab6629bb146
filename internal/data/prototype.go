package data

import (
	"fmt"
	"os"
	"sort"

	"github.com/l1jgo/gameserver/internal/core/payload"
	"gopkg.in/yaml.v3"
)

// ComponentSpec is one component of a prototype: the registered component
// kind and the payload it is hydrated from.
type ComponentSpec struct {
	Type string         `yaml:"type"`
	Data map[string]any `yaml:"data"`
}

// Payload converts Data into a hydration payload.
func (c ComponentSpec) Payload() (payload.Object, error) {
	obj, err := payload.FromMap(c.Data)
	if err != nil {
		return nil, fmt.Errorf("component %q: %w", c.Type, err)
	}
	return obj, nil
}

// Prototype is a named entity template.
type Prototype struct {
	Name       string          `yaml:"name"`
	Components []ComponentSpec `yaml:"components"`
}

// PrototypeTable provides lookup of prototypes by name.
type PrototypeTable struct {
	byName map[string]*Prototype
}

func NewPrototypeTable() *PrototypeTable {
	return &PrototypeTable{byName: make(map[string]*Prototype, 8)}
}

// LoadPrototypeTable loads a prototypes.yaml file: a list of prototypes.
func LoadPrototypeTable(path string) (*PrototypeTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prototypes: %w", err)
	}
	var entries []Prototype
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse prototypes: %w", err)
	}
	t := NewPrototypeTable()
	for i := range entries {
		if err := t.Add(&entries[i]); err != nil {
			return nil, fmt.Errorf("load prototypes %s: %w", path, err)
		}
	}
	return t, nil
}

// Add validates p and stores it. Names must be unique and every component
// spec must name a type and carry a convertible payload.
func (t *PrototypeTable) Add(p *Prototype) error {
	if p.Name == "" {
		return fmt.Errorf("prototype without a name")
	}
	if _, ok := t.byName[p.Name]; ok {
		return fmt.Errorf("prototype %q defined twice", p.Name)
	}
	for i, c := range p.Components {
		if c.Type == "" {
			return fmt.Errorf("prototype %q: component %d has no type", p.Name, i)
		}
		if _, err := c.Payload(); err != nil {
			return fmt.Errorf("prototype %q: %w", p.Name, err)
		}
	}
	t.byName[p.Name] = p
	return nil
}

// Get returns the prototype with the given name, or nil if none.
func (t *PrototypeTable) Get(name string) *Prototype {
	return t.byName[name]
}

// Names returns every prototype name in lexical order.
func (t *PrototypeTable) Names() []string {
	names := make([]string, 0, len(t.byName))
	for n := range t.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Count returns the total number of prototypes loaded.
func (t *PrototypeTable) Count() int {
	return len(t.byName)
}
