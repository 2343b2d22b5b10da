package explorable

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestAllYieldsExposedPropertiesInOrder(t *testing.T) {
	is := is.New(t)
	p := newPair("the foo", "the bar")

	names := []string{}
	values := []any{}
	for name, value := range p.All() {
		names = append(names, name)
		values = append(values, value)
	}

	is.Equal(names, []string{"foo", "bar"})
	is.Equal(values, []any{"the foo", "the bar"})
}

func TestIterationYieldsLenValuesEqualToGet(t *testing.T) {
	is := is.New(t)
	d := newDiscoverable()
	d.populate(1, 2)

	count := 0
	for name, value := range d.All() {
		expected, err := d.Get(name)
		is.NoErr(err)
		is.Equal(value, expected)
		count++
	}

	is.Equal(count, d.Len())
}

func TestValuesCanStopEarly(t *testing.T) {
	is := is.New(t)
	p := newPair("the foo", "the bar")

	seen := 0
	for range p.Values() {
		seen++
		break
	}

	is.Equal(seen, 1)
}

func TestCursorIsRestartable(t *testing.T) {
	is := is.New(t)
	p := newPair("the foo", "the bar")
	c := p.Cursor()

	is.True(!c.Valid()) // positioned before the first property

	is.True(c.Next())
	is.Equal(c.Key(), "foo")
	is.Equal(c.Value(), "the foo")
	is.True(c.Valid())

	is.True(c.Next())
	is.Equal(c.Key(), "bar")

	is.True(!c.Next())
	is.True(!c.Valid())
	is.NoErr(c.Err())

	c.Rewind()

	is.True(c.Next())
	is.Equal(c.Key(), "foo")
}

func TestCursorsAreIndependent(t *testing.T) {
	is := is.New(t)
	p := newPair("the foo", "the bar")

	outer := p.Cursor()
	is.True(outer.Next())

	inner := p.Cursor()
	is.True(inner.Next())
	is.True(inner.Next())
	is.True(!inner.Next())

	is.Equal(outer.Key(), "foo") // exhausting one cursor leaves the other alone
	is.True(outer.Next())
	is.Equal(outer.Key(), "bar")
}

func TestCursorStopsAtReadError(t *testing.T) {
	is := is.New(t)
	f := newFailing()
	c := f.Cursor()

	is.True(c.Next())
	is.Equal(c.Key(), "fine")

	is.True(!c.Next())
	is.True(errors.Is(c.Err(), errBroken))
	is.True(!c.Next()) // stays stopped until rewound
}

func TestForEachReportsReadError(t *testing.T) {
	is := is.New(t)
	f := newFailing()

	visited := []string{}
	err := f.ForEach(func(name string, value any) error {
		visited = append(visited, name)
		return nil
	})

	is.True(errors.Is(err, errBroken))
	is.Equal(visited, []string{"fine"})
}

func TestForEachReturnsCallbackError(t *testing.T) {
	is := is.New(t)
	p := newPair("the foo", "the bar")
	stop := errors.New("stop")

	err := p.ForEach(func(name string, value any) error {
		return stop
	})

	is.Equal(err, stop)
}
