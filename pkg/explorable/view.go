package explorable

import (
	"math"
	"reflect"
	"unsafe"
)

// View exposes the properties of an entity that its type's Schema allows, and
// nothing else. Entity types usually embed *View and assign it in their
// constructor:
//
//	func NewPair(foo, bar string) *Pair {
//		p := &Pair{foo: foo, bar: bar}
//		p.View = explorable.MustOf(p)
//		return p
//	}
//
// A View refers to the entity it was created for, so copying the entity
// struct does not copy the view.
type View struct {
	entity any
	elem   reflect.Value
	schema *Schema
}

func (v *View) ExplorableView() *View {
	return v
}

func (v *View) Schema() *Schema {
	return v.schema
}

// TypeName returns the name of the entity's concrete type.
func (v *View) TypeName() string {
	return v.schema.TypeName()
}

// Names returns the exposed property names in exposure order.
func (v *View) Names() []string {
	return v.schema.Names()
}

// Len returns the number of exposed properties, set or not.
func (v *View) Len() int {
	return v.schema.Len()
}

// field returns a settable handle on the backing field, unexported or not.
func (v *View) field(name string) (reflect.Value, bool) {
	idx, ok := v.schema.index[name]
	if !ok {
		return reflect.Value{}, false
	}

	f := v.elem.FieldByIndex(idx)
	if !f.CanSet() {
		f = reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem()
	}

	return f, true
}

// Get returns the current value of an exposed property.
func (v *View) Get(name string) (any, error) {
	f, ok := v.field(name)
	if !ok {
		return nil, newNotFoundError(v.TypeName(), name)
	}

	raw := f.Interface()

	if r, ok := v.entity.(Reader); ok {
		return r.ReadProperty(name, raw)
	}

	return raw, nil
}

// Has reports whether name is exposed and currently holds a non nil value.
// Unexposed names and exposed nil values are indistinguishable here, as are
// properties whose read fails.
func (v *View) Has(name string) bool {
	if !v.schema.Contains(name) {
		return false
	}

	value, err := v.Get(name)
	if err != nil {
		return false
	}

	return !IsNil(value)
}

// Set writes an exposed property if the type's write policy allows it.
func (v *View) Set(name string, value any) error {
	f, ok := v.field(name)
	if !ok {
		return newNotFoundError(v.TypeName(), name)
	}

	switch v.schema.policy {
	case AllowOnce:
		if !f.IsZero() {
			return newReadOnlyError(v.TypeName(), name)
		}
	default:
		return newReadOnlyError(v.TypeName(), name)
	}

	rv, ok := convertValue(value, f.Type())
	if !ok {
		return newInvalidValueError(v.TypeName(), name, value, f.Type().String())
	}

	f.Set(rv)
	return nil
}

// IsNil reports whether value is nil, or a nil pointer, map, slice, func or chan.
func IsNil(value any) bool {
	if value == nil {
		return true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}

	return false
}

// convertValue adapts value to a field of type t. Plain assignment is tried
// first, then pointer wrapping, lossless numeric conversion and string kinds.
func convertValue(value any, t reflect.Type) (reflect.Value, bool) {
	if value == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
			return reflect.Zero(t), true
		}
		return reflect.Value{}, false
	}

	rv := reflect.ValueOf(value)

	if rv.Type().AssignableTo(t) {
		return rv, true
	}

	if t.Kind() == reflect.Pointer {
		if inner, ok := convertValue(value, t.Elem()); ok {
			p := reflect.New(t.Elem())
			p.Elem().Set(inner)
			return p, true
		}
		return reflect.Value{}, false
	}

	if rv.Kind() == reflect.String && t.Kind() == reflect.String {
		return rv.Convert(t), true
	}

	if isNumeric(rv.Kind()) && isNumeric(t.Kind()) {
		if isUnsigned(t.Kind()) && isNegative(rv) {
			return reflect.Value{}, false
		}
		converted := rv.Convert(t)
		if !converted.Convert(rv.Type()).Equal(rv) {
			return reflect.Value{}, false
		}
		if isFloat(rv.Kind()) && !isFloat(t.Kind()) && rv.Float() != math.Trunc(rv.Float()) {
			return reflect.Value{}, false
		}
		return converted, true
	}

	return reflect.Value{}, false
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isNegative(rv reflect.Value) bool {
	switch {
	case rv.CanInt():
		return rv.Int() < 0
	case rv.CanFloat():
		return rv.Float() < 0
	}
	return false
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}
