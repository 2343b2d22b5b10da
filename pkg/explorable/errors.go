package explorable

import (
	"fmt"
)

var ErrNotFound = fmt.Errorf("not found")
var ErrReadOnly = fmt.Errorf("read-only")
var ErrInvalidValue = fmt.Errorf("invalid value")
var ErrNotExplorable = fmt.Errorf("not explorable")
var ErrUndeclaredProperty = fmt.Errorf("undeclared property")
var ErrAlreadyResolved = fmt.Errorf("already resolved")
var ErrCyclicReference = fmt.Errorf("cyclic reference")

// PropertyError reports misuse of a single property of an explorable type.
type PropertyError struct {
	TypeName string
	Property string

	msg    string
	target error
}

func (e *PropertyError) Error() string        { return e.msg }
func (e *PropertyError) Is(target error) bool { return target == e.target }

func newNotFoundError(typeName, property string) error {
	return &PropertyError{
		TypeName: typeName,
		Property: property,
		msg:      fmt.Sprintf("%s instance exposes no property[%s]", typeName, property),
		target:   ErrNotFound,
	}
}

func newReadOnlyError(typeName, property string) error {
	return &PropertyError{
		TypeName: typeName,
		Property: property,
		msg:      fmt.Sprintf("%s instance property[%s] is read-only", typeName, property),
		target:   ErrReadOnly,
	}
}

func newInvalidValueError(typeName, property string, value any, expected string) error {
	return &PropertyError{
		TypeName: typeName,
		Property: property,
		msg:      fmt.Sprintf("%s instance property[%s] cannot hold a value of type %T (expected %s)", typeName, property, value, expected),
		target:   ErrInvalidValue,
	}
}

func newUndeclaredPropertyError(typeName, property string) error {
	return &PropertyError{
		TypeName: typeName,
		Property: property,
		msg:      fmt.Sprintf("%s declares no field for exposed property[%s]", typeName, property),
		target:   ErrUndeclaredProperty,
	}
}
