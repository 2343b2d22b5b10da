package explorable

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

// Dump returns the recursive tree of the view, or the shallow tree if the
// recursive one cannot be built. It never fails, so that a partially broken
// entity can still be inspected.
func (v *View) Dump() *Tree {
	return v.DumpContext(context.Background())
}

// DumpContext is Dump, logging the reason for a shallow fallback with the
// logger found in ctx.
func (v *View) DumpContext(ctx context.Context) *Tree {
	t, err := v.recursiveDump()
	if err == nil {
		return t
	}

	logging.GetFromContext(ctx).Debug("falling back to shallow dump",
		slog.String("type", v.TypeName()),
		slog.String("err", err.Error()),
	)

	return v.shallowDump(map[any]bool{})
}

func (v *View) recursiveDump() (t *Tree, err error) {
	defer func() {
		if r := recover(); r != nil {
			t, err = nil, fmt.Errorf("panic while building tree: %v", r)
		}
	}()

	return v.ToTree(true)
}

// shallowDump reads every property on its own. Nested explorables are
// expanded the same way instead of being kept as live values, and one that is
// already being expanded further up is replaced by a cycle marker.
func (v *View) shallowDump(visiting map[any]bool) *Tree {
	visiting[v.entity] = true
	defer delete(visiting, v.entity)

	t := NewTree()

	for _, name := range v.schema.names {
		value, err := v.safeGet(name)
		if err != nil {
			t.Set(name, "!error: "+err.Error())
			continue
		}

		if child, ok := explorerOf(value); ok {
			if visiting[child.entity] {
				value = "!cycle: " + child.TypeName()
			} else {
				value = child.shallowDump(visiting)
			}
		}

		t.Set(name, value)
	}

	return t
}

func (v *View) safeGet(name string) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value, err = nil, fmt.Errorf("panic while reading: %v", r)
		}
	}()

	return v.Get(name)
}

// String renders the dump of the view as JSON prefixed by the type name.
func (v *View) String() string {
	if v == nil {
		return "<nil>"
	}

	b, err := json.Marshal(v.Dump())
	if err != nil {
		return fmt.Sprintf("%s{!error: %s}", v.TypeName(), err.Error())
	}

	return v.TypeName() + string(b)
}

func (v *View) LogValue() slog.Value {
	if v == nil {
		return slog.Value{}
	}
	return v.Dump().LogValue()
}
