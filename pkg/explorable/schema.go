package explorable

import (
	"fmt"
	"reflect"
	"slices"
)

// TagName is the struct tag consulted during discovery. `explorable:"name"`
// renames a property and `explorable:"-"` hides it.
const TagName string = "explorable"

var viewType = reflect.TypeFor[View]()
var viewPtrType = reflect.TypeFor[*View]()

// Schema is the resolved, immutable exposed-name-set of a concrete struct type.
type Schema struct {
	typ    reflect.Type
	names  []string
	index  map[string][]int
	policy WritePolicy
}

func (s *Schema) Type() reflect.Type {
	return s.typ
}

func (s *Schema) TypeName() string {
	return s.typ.String()
}

// Names returns a copy of the exposed names in exposure order.
func (s *Schema) Names() []string {
	return slices.Clone(s.names)
}

func (s *Schema) Len() int {
	return len(s.names)
}

func (s *Schema) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

func (s *Schema) WritePolicy() WritePolicy {
	return s.policy
}

type declaredField struct {
	name   string
	index  []int
	depth  int
	hidden bool
}

// declaredFields lists the fields of t in declaration order, flattening
// embedded structs the way Go promotes their fields. View bookkeeping fields
// are never part of the result.
func declaredFields(t reflect.Type) []declaredField {
	all := []declaredField{}

	var walk func(t reflect.Type, prefix []int, depth int)
	walk = func(t reflect.Type, prefix []int, depth int) {
		for i := range t.NumField() {
			sf := t.Field(i)
			if sf.Type == viewType || sf.Type == viewPtrType || sf.Name == "_" {
				continue
			}

			idx := append(slices.Clone(prefix), i)
			tag := sf.Tag.Get(TagName)

			if sf.Anonymous && sf.Type.Kind() == reflect.Struct && tag == "" {
				walk(sf.Type, idx, depth+1)
				continue
			}

			f := declaredField{name: sf.Name, index: idx, depth: depth}
			if tag == "-" {
				f.hidden = true
			} else if tag != "" {
				f.name = tag
			}

			all = append(all, f)
		}
	}

	walk(t, nil, 0)

	shallowest := map[string]int{}
	occurrences := map[string]int{}
	for _, f := range all {
		if d, ok := shallowest[f.name]; !ok || f.depth < d {
			shallowest[f.name] = f.depth
			occurrences[f.name] = 0
		}
		if f.depth == shallowest[f.name] {
			occurrences[f.name]++
		}
	}

	fields := make([]declaredField, 0, len(all))
	for _, f := range all {
		// a name declared more than once at the same depth is ambiguous and not promoted
		if f.depth == shallowest[f.name] && occurrences[f.name] == 1 {
			fields = append(fields, f)
		}
	}

	return fields
}

func resolve(t reflect.Type, decl declaration) (*Schema, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%s is not a struct type: %w", t, ErrNotExplorable)
	}

	fields := declaredFields(t)
	byName := make(map[string]declaredField, len(fields))
	hidden := map[string]bool{}

	for _, f := range fields {
		byName[f.name] = f
		if f.hidden {
			hidden[f.name] = true
		}
	}

	zero := reflect.New(t).Interface()

	visible := decl.visible
	if len(visible) == 0 {
		if vd, ok := zero.(VisibleDeclarer); ok {
			visible = vd.ExplorableVisible()
		}
	}

	for _, name := range decl.hidden {
		hidden[name] = true
	}
	if hd, ok := zero.(HiddenDeclarer); ok {
		for _, name := range hd.ExplorableHidden() {
			hidden[name] = true
		}
	}

	policy := DenyAlways
	if pd, ok := zero.(WritePolicyDeclarer); ok {
		policy = pd.ExplorableWritePolicy()
	}
	if decl.policy != nil {
		policy = *decl.policy
	}

	candidates := make([]string, 0, len(fields))

	if len(visible) > 0 {
		seen := map[string]bool{}
		for _, name := range visible {
			if seen[name] {
				return nil, fmt.Errorf("%s exposes property[%s] more than once: %w", t, name, ErrNotExplorable)
			}
			seen[name] = true

			if _, ok := byName[name]; !ok {
				return nil, newUndeclaredPropertyError(t.String(), name)
			}
			candidates = append(candidates, name)
		}
	} else {
		for _, f := range fields {
			candidates = append(candidates, f.name)
		}
	}

	s := &Schema{
		typ:    t,
		names:  make([]string, 0, len(candidates)),
		index:  make(map[string][]int, len(candidates)),
		policy: policy,
	}

	for _, name := range candidates {
		if hidden[name] {
			continue
		}
		s.names = append(s.names, name)
		s.index[name] = byName[name].index
	}

	return s, nil
}
