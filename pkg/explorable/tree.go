package explorable

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"slices"

	yaml "gopkg.in/yaml.v2"
)

// Tree is an ordered mapping from property name to value. It marshals to a
// JSON object and a YAML mapping with its keys in insertion order.
type Tree struct {
	keys   []string
	values map[string]any
}

func NewTree() *Tree {
	return &Tree{values: map[string]any{}}
}

// Set adds key at the end of the tree, or replaces its value in place.
func (t *Tree) Set(key string, value any) {
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

func (t *Tree) Get(key string) (any, bool) {
	value, ok := t.values[key]
	return value, ok
}

func (t *Tree) Keys() []string {
	return slices.Clone(t.keys)
}

func (t *Tree) Len() int {
	return len(t.keys)
}

func (t *Tree) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range t.keys {
			if !yield(k, t.values[k]) {
				return
			}
		}
	}
}

// Map converts the tree, and every tree nested in it, to plain maps.
func (t *Tree) Map() map[string]any {
	m := make(map[string]any, len(t.keys))
	for k, v := range t.All() {
		if child, ok := v.(*Tree); ok && child != nil {
			m[k] = child.Map()
		} else {
			m[k] = v
		}
	}
	return m
}

func (t *Tree) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, k := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		value, err := json.Marshal(t.values[k])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal property %s: %w", k, err)
		}
		buf.Write(value)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (t *Tree) MarshalYAML() (interface{}, error) {
	if t == nil {
		return nil, nil
	}

	items := make(yaml.MapSlice, 0, len(t.keys))
	for k, v := range t.All() {
		items = append(items, yaml.MapItem{Key: k, Value: v})
	}

	return items, nil
}

func (t *Tree) LogValue() slog.Value {
	if t == nil {
		return slog.Value{}
	}

	attrs := make([]slog.Attr, 0, len(t.keys))
	for k, v := range t.All() {
		if IsNil(v) {
			v = nil
		}
		attrs = append(attrs, slog.Any(k, v))
	}

	return slog.GroupValue(attrs...)
}

// ToTree returns the exposed properties as an ordered tree. With recursive,
// explorable values are replaced by their own recursive tree.
func (v *View) ToTree(recursive bool) (*Tree, error) {
	t, err := v.build(recursive, false, nil)
	if err != nil {
		return nil, err
	}
	return t.(*Tree), nil
}

// ToMap is like ToTree but returns plain maps, including for nested explorables.
func (v *View) ToMap(recursive bool) (map[string]any, error) {
	m, err := v.build(recursive, true, nil)
	if err != nil {
		return nil, err
	}
	return m.(map[string]any), nil
}

func (v *View) build(recursive, asMap bool, visiting map[any]bool) (any, error) {
	if recursive {
		if visiting == nil {
			visiting = map[any]bool{}
		}
		if visiting[v.entity] {
			return nil, fmt.Errorf("%s refers back to itself: %w", v.TypeName(), ErrCyclicReference)
		}
		visiting[v.entity] = true
		defer delete(visiting, v.entity)
	}

	var (
		t *Tree
		m map[string]any
	)

	if asMap {
		m = make(map[string]any, v.Len())
	} else {
		t = &Tree{keys: make([]string, 0, v.Len()), values: make(map[string]any, v.Len())}
	}

	err := v.ForEach(func(name string, value any) error {
		if recursive {
			if child, ok := explorerOf(value); ok {
				nested, err := child.build(true, asMap, visiting)
				if err != nil {
					return err
				}
				value = nested
			}
		}

		if asMap {
			m[name] = value
		} else {
			t.Set(name, value)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if asMap {
		return m, nil
	}
	return t, nil
}

// explorerOf returns the view behind value, if value is a non nil explorable.
func explorerOf(value any) (*View, bool) {
	e, ok := value.(Explorer)
	if !ok || IsNil(value) {
		return nil, false
	}

	v := e.ExplorableView()
	return v, v != nil
}

func (v *View) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}

	t, err := v.ToTree(true)
	if err != nil {
		return nil, err
	}

	return t.MarshalJSON()
}

func (v *View) MarshalYAML() (interface{}, error) {
	if v == nil {
		return nil, nil
	}

	t, err := v.ToTree(true)
	if err != nil {
		return nil, err
	}

	return t.MarshalYAML()
}
