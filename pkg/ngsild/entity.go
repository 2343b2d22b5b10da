package ngsild

import (
	"fmt"

	"github.com/diwise/explorable/pkg/explorable"
	"github.com/google/uuid"
)

const DefaultContextURL string = "https://uri.etsi.org/ngsi-ld/v1/ngsi-ld-core-context-v1.5.jsonld"

// Entity is an NGSI-LD rendering of an explorable. Attributes keep the order
// in which the explorable exposes them.
type Entity struct {
	entityID   string
	entityType string
	context    []string

	names      []string
	attributes map[string]Attribute
}

type EntityDecoratorFunc func(e *Entity)

func (e *Entity) ID() string {
	return e.entityID
}

func (e *Entity) Type() string {
	return e.entityType
}

func (e *Entity) Context() []string {
	return e.context
}

func (e *Entity) Attribute(name string) (Attribute, bool) {
	a, ok := e.attributes[name]
	return a, ok
}

func (e *Entity) ForEachAttribute(callback func(attributeType, attributeName string, contents any)) error {
	for _, name := range e.names {
		a := e.attributes[name]
		callback(a.Type(), name, a)
	}
	return nil
}

func (e *Entity) MarshalJSON() ([]byte, error) {
	contents := explorable.NewTree()
	contents.Set("id", e.entityID)
	contents.Set("type", e.entityType)

	for _, name := range e.names {
		contents.Set(name, e.attributes[name])
	}

	contents.Set("@context", e.context)

	return contents.MarshalJSON()
}

// Locatable is implemented by explorables that know where they are.
type Locatable interface {
	Location() (latitude, longitude float64, ok bool)
}

// FromExplorable renders the exposed properties of src as an NGSI-LD entity.
// Properties holding nil are left out. Nested explorables become properties
// whose value is their recursive tree, unless a decorator has already set an
// attribute with the same name.
func FromExplorable(src explorable.Explorer, decorators ...EntityDecoratorFunc) (*Entity, error) {
	v := src.ExplorableView()
	if v == nil {
		return nil, fmt.Errorf("%T has no view: %w", src, explorable.ErrNotExplorable)
	}

	e := &Entity{
		attributes: map[string]Attribute{},
	}

	if l, ok := src.(Locatable); ok {
		if lat, lon, ok := l.Location(); ok {
			Location(lat, lon)(e)
		}
	}

	for _, decorator := range decorators {
		decorator(e)
	}

	if e.entityType == "" {
		e.entityType = v.Schema().Type().Name()
	}

	if e.entityID == "" {
		e.entityID = fmt.Sprintf("urn:ngsi-ld:%s:%s", e.entityType, uuid.NewString())
	}

	// Set the default context if it wasnt decorated by the creator
	if e.context == nil {
		e.context = []string{DefaultContextURL}
	}

	decorated := e.names
	encoded := map[string]Attribute{}

	err := v.ForEach(func(name string, value any) error {
		if _, ok := e.attributes[name]; ok || explorable.IsNil(value) {
			return nil
		}

		if child, ok := value.(explorable.Explorer); ok && child.ExplorableView() != nil {
			tree, err := child.ExplorableView().ToTree(true)
			if err != nil {
				return fmt.Errorf("failed to encode property %s: %w", name, err)
			}
			value = tree
		}

		encoded[name] = NewProperty(value)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.names = make([]string, 0, len(decorated)+len(encoded))
	for _, name := range v.Names() {
		if a, ok := encoded[name]; ok {
			e.attributes[name] = a
			e.names = append(e.names, name)
		} else if _, ok := e.attributes[name]; ok {
			e.names = append(e.names, name)
		}
	}

	for _, name := range decorated {
		if !v.Schema().Contains(name) {
			e.names = append(e.names, name)
		}
	}

	return e, nil
}

func ID(entityID string) EntityDecoratorFunc {
	return func(e *Entity) {
		e.entityID = entityID
	}
}

func Type(entityType string) EntityDecoratorFunc {
	return func(e *Entity) {
		e.entityType = entityType
	}
}

func Context(ctx []string) EntityDecoratorFunc {
	return func(e *Entity) {
		e.context = ctx
	}
}

func DefaultContext() EntityDecoratorFunc {
	return Context([]string{DefaultContextURL})
}

func attribute(name string, a Attribute) EntityDecoratorFunc {
	return func(e *Entity) {
		if _, ok := e.attributes[name]; !ok {
			e.names = append(e.names, name)
		}
		e.attributes[name] = a
	}
}

// P adds or replaces a property
func P(name string, value any) EntityDecoratorFunc {
	return attribute(name, NewProperty(value))
}

// R adds a relationship, replacing any exposed property with the same name
func R(name string, objects ...string) EntityDecoratorFunc {
	if len(objects) == 1 {
		return attribute(name, NewSingleObjectRelationship(objects[0]))
	}
	return attribute(name, NewMultiObjectRelationship(objects))
}

// Location adds a location GeoProperty with a WGS84 point
func Location(latitude, longitude float64) EntityDecoratorFunc {
	return attribute("location", NewGeoPropertyFromWGS84(longitude, latitude))
}
