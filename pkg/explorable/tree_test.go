package explorable

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/matryer/is"
	yaml "gopkg.in/yaml.v2"
)

func TestToTreeOfPair(t *testing.T) {
	is := is.New(t)
	p := newPair("the foo", "the bar")

	tree, err := p.ToTree(false)
	is.NoErr(err)
	is.Equal(tree.Keys(), []string{"foo", "bar"})
	is.Equal(tree.Map(), map[string]any{"foo": "the foo", "bar": "the bar"})
}

func TestToMapOfPair(t *testing.T) {
	is := is.New(t)
	p := newPair("the foo", "the bar")

	m, err := p.ToMap(false)
	is.NoErr(err)
	is.Equal(m, map[string]any{"foo": "the foo", "bar": "the bar"})
}

func TestShallowTreeKeepsNestedExplorables(t *testing.T) {
	is := is.New(t)
	inner := newPair("the foo", "the bar")
	n := newNested("outer", inner)

	tree, err := n.ToTree(false)
	is.NoErr(err)

	value, _ := tree.Get("inner")
	is.True(value == any(inner))
}

func TestRecursiveTreeReplacesNestedExplorables(t *testing.T) {
	is := is.New(t)
	inner := newPair("the foo", "the bar")
	n := newNested("outer", inner)

	tree, err := n.ToTree(true)
	is.NoErr(err)

	innerTree, err := inner.ToTree(true)
	is.NoErr(err)

	value, _ := tree.Get("inner")
	is.Equal(value, innerTree)

	none, _ := tree.Get("none")
	is.True(none == any((*pair)(nil))) // nil explorables are left as they are
}

func TestRecursiveMapUsesMapsAllTheWayDown(t *testing.T) {
	is := is.New(t)
	n := newNested("outer", newPair("the foo", "the bar"))

	m, err := n.ToMap(true)
	is.NoErr(err)
	is.Equal(m["inner"], map[string]any{"foo": "the foo", "bar": "the bar"})
}

func TestToTreeFailsOnReadError(t *testing.T) {
	is := is.New(t)

	_, err := newFailing().ToTree(false)
	is.True(errors.Is(err, errBroken))
}

func TestRecursiveTreeDetectsCycles(t *testing.T) {
	is := is.New(t)
	a := newRing("a")
	b := newRing("b")
	a.next = b
	b.next = a

	_, err := a.ToTree(true)
	is.True(errors.Is(err, ErrCyclicReference))

	_, err = a.ToTree(false)
	is.NoErr(err)
}

func TestSharedChildIsNotACycle(t *testing.T) {
	is := is.New(t)
	shared := newRing("shared")
	a := newRing("a")
	a.next = shared

	m, err := a.ToMap(true)
	is.NoErr(err)
	is.Equal(m["next"], map[string]any{"label": "shared", "next": (*ring)(nil)})
}

func TestJSONMarshallingKeepsExposureOrder(t *testing.T) {
	is := is.New(t)
	n := newNested("outer", newPair("the foo", "the bar"))

	b, err := json.Marshal(n)
	is.NoErr(err)
	is.Equal(string(b), `{"name":"outer","inner":{"foo":"the foo","bar":"the bar"},"none":null}`)
}

func TestJSONMarshallingOfDiscoverable(t *testing.T) {
	is := is.New(t)
	d := newDiscoverable()

	b, err := json.Marshal(d)
	is.NoErr(err)
	is.Equal(string(b), `{"dit":null,"dat":null}`)

	d.populate(1, 2)

	b, err = json.Marshal(d)
	is.NoErr(err)
	is.Equal(string(b), `{"dit":1,"dat":2}`)
}

func TestJSONMarshallingFailsOnReadError(t *testing.T) {
	is := is.New(t)

	_, err := json.Marshal(newFailing())
	is.True(err != nil)
}

func TestYAMLMarshallingKeepsExposureOrder(t *testing.T) {
	is := is.New(t)
	n := newNested("outer", newPair("the foo", "the bar"))

	b, err := yaml.Marshal(n)
	is.NoErr(err)
	is.Equal(string(b), "name: outer\ninner:\n  foo: the foo\n  bar: the bar\nnone: null\n")
}

func TestTreeSetReplacesInPlace(t *testing.T) {
	is := is.New(t)
	tree := NewTree()
	tree.Set("a", 1)
	tree.Set("b", 2)
	tree.Set("a", 3)

	is.Equal(tree.Keys(), []string{"a", "b"})
	is.Equal(tree.Len(), 2)

	b, err := json.Marshal(tree)
	is.NoErr(err)
	is.Equal(string(b), `{"a":3,"b":2}`)
}
