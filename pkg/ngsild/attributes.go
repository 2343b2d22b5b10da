package ngsild

import (
	"encoding/json"
)

// Attribute is either a Property or a Relationship of an Entity.
type Attribute interface {
	Type() string
}

// Property holds the value of a single exposed property
type Property struct {
	value any
}

// NewProperty wraps a value as an NGSI-LD Property
func NewProperty(value any) *Property {
	return &Property{value: value}
}

func (p *Property) Type() string {
	return "Property"
}

func (p *Property) Value() any {
	return p.value
}

func (p *Property) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Value any    `json:"value"`
	}{
		Type:  p.Type(),
		Value: p.value,
	})
}

// Relationship stores information about an entity's relation to one or more objects
type Relationship struct {
	objects []string
}

// NewSingleObjectRelationship accepts an object ID and returns a new Relationship
func NewSingleObjectRelationship(object string) *Relationship {
	return &Relationship{objects: []string{object}}
}

// NewMultiObjectRelationship accepts a list of object ID:s and returns a new Relationship
func NewMultiObjectRelationship(objects []string) *Relationship {
	return &Relationship{objects: objects}
}

func (r *Relationship) Type() string {
	return "Relationship"
}

func (r *Relationship) Object() any {
	if len(r.objects) == 1 {
		return r.objects[0]
	}
	return r.objects
}

func (r *Relationship) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string `json:"type"`
		Object any    `json:"object"`
	}{
		Type:   r.Type(),
		Object: r.Object(),
	})
}

// Point is the GeoJSON value of a GeoProperty
type Point struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

func (p Point) Latitude() float64 {
	return p.Coordinates[1]
}

func (p Point) Longitude() float64 {
	return p.Coordinates[0]
}

// GeoProperty holds a GeoJSON geometry. Only points are supported.
type GeoProperty struct {
	point Point
}

// NewGeoPropertyFromWGS84 creates a GeoProperty from a WGS84 coordinate
func NewGeoPropertyFromWGS84(longitude, latitude float64) *GeoProperty {
	return &GeoProperty{
		point: Point{
			Type:        "Point",
			Coordinates: [2]float64{longitude, latitude},
		},
	}
}

func (gp *GeoProperty) Type() string {
	return "GeoProperty"
}

func (gp *GeoProperty) Value() any {
	return gp.point
}

func (gp *GeoProperty) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Value Point  `json:"value"`
	}{
		Type:  gp.Type(),
		Value: gp.point,
	})
}
