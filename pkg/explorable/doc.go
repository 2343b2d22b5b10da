// Package explorable exposes a fixed, named subset of a struct's fields as
// read-only properties that can be looked up, counted, iterated and serialized,
// without exporting the fields themselves.
//
// The exposed names of a type are resolved once and cached per concrete type.
// They come from an explicit allow-list (the Visible option or an
// ExplorableVisible method) or, when no allow-list is declared, from the
// struct's fields in declaration order. Names tagged `explorable:"-"`, listed
// with Hidden or returned by ExplorableHidden are never exposed.
//
//	type Pair struct {
//		*explorable.View
//
//		foo string
//		bar string
//	}
//
//	func (*Pair) ExplorableVisible() []string { return []string{"foo", "bar"} }
//
//	p := &Pair{foo: "the foo", bar: "the bar"}
//	p.View = explorable.MustOf(p)
//
//	p.Get("foo")          // "the foo", nil
//	p.Len()               // 2
//	json.Marshal(p)       // {"foo":"the foo","bar":"the bar"}
//	for name, value := range p.All() { ... }
package explorable
