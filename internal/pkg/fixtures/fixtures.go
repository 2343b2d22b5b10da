package fixtures

import (
	"fmt"

	"github.com/diwise/explorable/pkg/explorable"
)

// Pair exposes an explicit allow-list and refuses all writes.
type Pair struct {
	*explorable.View

	foo string
	bar string

	createdBy string
}

func (*Pair) ExplorableVisible() []string {
	return []string{"foo", "bar"}
}

func NewPair(foo, bar string) *Pair {
	p := &Pair{foo: foo, bar: bar, createdBy: "fixtures"}
	p.View = explorable.MustOf(p)
	return p
}

// Discoverable exposes every declared field, both nil until populated.
type Discoverable struct {
	*explorable.View

	dit *int
	dat *int
}

func NewDiscoverable() *Discoverable {
	d := &Discoverable{}
	d.View = explorable.MustOf(d)
	return d
}

func (d *Discoverable) Populate(dit, dat int) {
	d.dit = &dit
	d.dat = &dat
}

// SetOnce lets each of its properties be written a single time.
type SetOnce struct {
	*explorable.View

	a any
	b any
	c any
}

func (*SetOnce) ExplorableWritePolicy() explorable.WritePolicy {
	return explorable.AllowOnce
}

func NewSetOnce() *SetOnce {
	s := &SetOnce{}
	s.View = explorable.MustOf(s)
	return s
}

// Extension adds baz to the properties exposed by Pair.
type Extension struct {
	*explorable.View
	Pair

	baz string
}

func (*Extension) ExplorableVisible() []string {
	return append((*Pair)(nil).ExplorableVisible(), "baz")
}

func NewExtension(foo, bar, baz string) *Extension {
	e := &Extension{
		Pair: Pair{foo: foo, bar: bar, createdBy: "fixtures"},
		baz:  baz,
	}
	e.View = explorable.MustOf(e)
	return e
}

// Position is nested inside a Reading.
type Position struct {
	*explorable.View

	Latitude  float64 `explorable:"lat"`
	Longitude float64 `explorable:"lon"`
}

func NewPosition(lat, lon float64) *Position {
	p := &Position{Latitude: lat, Longitude: lon}
	p.View = explorable.MustOf(p)
	return p
}

// Reading is a sensor observation with a nested position, a hidden raw frame
// and a summary that is computed on first read. A reading without a value
// cannot be summarized.
type Reading struct {
	*explorable.View

	sensor   string
	value    *float64
	unit     string
	position *Position
	summary  *string

	frame []byte `explorable:"-"`
}

func NewReading(sensor string, value float64, unit string, position *Position) *Reading {
	r := NewPendingReading(sensor, unit, position)
	r.value = &value
	return r
}

// NewPendingReading creates a reading that has not received a value yet.
func NewPendingReading(sensor, unit string, position *Position) *Reading {
	r := &Reading{
		sensor:   sensor,
		unit:     unit,
		position: position,
		frame:    []byte(sensor),
	}
	r.View = explorable.MustOf(r)
	return r
}

func (r *Reading) ReadProperty(name string, raw any) (any, error) {
	if name != "summary" || r.summary != nil {
		return raw, nil
	}

	if r.value == nil {
		return nil, fmt.Errorf("reading from %s has no value", r.sensor)
	}

	summary := fmt.Sprintf("%s: %g %s", r.sensor, *r.value, r.unit)
	r.summary = &summary

	return r.summary, nil
}

func (r *Reading) Location() (float64, float64, bool) {
	if r.position == nil {
		return 0, 0, false
	}
	return r.position.Latitude, r.position.Longitude, true
}
