package explorable

import (
	"errors"
)

type pair struct {
	*View

	foo string
	bar string
	baz int
}

func (*pair) ExplorableVisible() []string {
	return []string{"foo", "bar"}
}

func newPair(foo, bar string) *pair {
	p := &pair{foo: foo, bar: bar, baz: 42}
	p.View = MustOf(p)
	return p
}

type discoverable struct {
	*View

	dit    *int
	dat    *int
	secret string `explorable:"-"`
}

func newDiscoverable() *discoverable {
	d := &discoverable{secret: "hush"}
	d.View = MustOf(d)
	return d
}

func (d *discoverable) populate(dit, dat int) {
	d.dit = &dit
	d.dat = &dat
}

type setOnce struct {
	*View

	a any
	b any
	c any
}

func (*setOnce) ExplorableWritePolicy() WritePolicy {
	return AllowOnce
}

func newSetOnce() *setOnce {
	s := &setOnce{}
	s.View = MustOf(s)
	return s
}

type typedOnce struct {
	*View

	Count  int
	Ratio  *float64
	Label  string
	Values []string
}

func (*typedOnce) ExplorableWritePolicy() WritePolicy {
	return AllowOnce
}

func newTypedOnce() *typedOnce {
	t := &typedOnce{}
	t.View = MustOf(t)
	return t
}

type extension struct {
	*View
	pair

	qux string
}

func (*extension) ExplorableVisible() []string {
	return append((*pair)(nil).ExplorableVisible(), "qux")
}

func newExtension(foo, bar, qux string) *extension {
	e := &extension{pair: pair{foo: foo, bar: bar}, qux: qux}
	e.View = MustOf(e)
	return e
}

type nested struct {
	*View

	name  string
	inner *pair
	none  *pair
}

func newNested(name string, inner *pair) *nested {
	n := &nested{name: name, inner: inner}
	n.View = MustOf(n)
	return n
}

type lazy struct {
	*View

	computed *string
	reads    int `explorable:"-"`
}

func newLazy() *lazy {
	l := &lazy{}
	l.View = MustOf(l)
	return l
}

func (l *lazy) ReadProperty(name string, raw any) (any, error) {
	l.reads++
	if name == "computed" && l.computed == nil {
		value := "computed on first read"
		l.computed = &value
		return l.computed, nil
	}
	return raw, nil
}

var errBroken = errors.New("broken on purpose")

type failing struct {
	*View

	fine   string
	broken string
}

func newFailing() *failing {
	f := &failing{fine: "ok", broken: "never seen"}
	f.View = MustOf(f)
	return f
}

func (f *failing) ReadProperty(name string, raw any) (any, error) {
	if name == "broken" {
		return nil, errBroken
	}
	return raw, nil
}

type panicking struct {
	*View

	fine  string
	fatal string
}

func newPanicking() *panicking {
	p := &panicking{fine: "ok"}
	p.View = MustOf(p)
	return p
}

func (p *panicking) ReadProperty(name string, raw any) (any, error) {
	if name == "fatal" {
		panic("read of fatal")
	}
	return raw, nil
}

type renamed struct {
	*View

	Label  string `explorable:"label"`
	Hidden int    `explorable:"-"`
	Shown  int
}

type hiddenByMethod struct {
	*View

	a string
	b string
	c string
}

func (*hiddenByMethod) ExplorableHidden() []string {
	return []string{"b"}
}

type inner struct {
	name  string
	extra string
}

type shadowing struct {
	*View
	inner

	name string
}

type ring struct {
	*View

	label string
	next  *ring
}

func newRing(label string) *ring {
	r := &ring{label: label}
	r.View = MustOf(r)
	return r
}

type plain struct {
	a int
	b string
	c bool
}

type undeclared struct {
	*View

	a string
}

func (*undeclared) ExplorableVisible() []string {
	return []string{"a", "missing"}
}

type duplicated struct {
	*View

	a string
}

func (*duplicated) ExplorableVisible() []string {
	return []string{"a", "a"}
}
