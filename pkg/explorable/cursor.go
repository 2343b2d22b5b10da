package explorable

import (
	"iter"
)

// Cursor steps through the exposed properties of a view in exposure order,
// reading each value through View.Get. A Cursor is owned by one goroutine;
// create one cursor per iteration.
//
//	c := v.Cursor()
//	for c.Next() {
//		fmt.Println(c.Key(), c.Value())
//	}
//	if err := c.Err(); err != nil {
//		...
//	}
type Cursor struct {
	view  *View
	pos   int
	key   string
	value any
	err   error
}

func (v *View) Cursor() *Cursor {
	return &Cursor{view: v, pos: -1}
}

// Rewind moves the cursor back before the first property and clears any error.
func (c *Cursor) Rewind() {
	c.pos = -1
	c.key = ""
	c.value = nil
	c.err = nil
}

// Next advances to the following property. It returns false when the
// properties are exhausted or a read failed.
func (c *Cursor) Next() bool {
	if c.err != nil {
		return false
	}

	if c.pos+1 >= c.view.schema.Len() {
		c.pos = c.view.schema.Len()
		c.key, c.value = "", nil
		return false
	}

	c.pos++
	c.key = c.view.schema.names[c.pos]
	c.value, c.err = c.view.Get(c.key)

	return c.err == nil
}

// Valid reports whether the cursor is positioned on a property.
func (c *Cursor) Valid() bool {
	return c.err == nil && c.pos >= 0 && c.pos < c.view.schema.Len()
}

func (c *Cursor) Key() string {
	return c.key
}

func (c *Cursor) Value() any {
	return c.value
}

func (c *Cursor) Err() error {
	return c.err
}

// All iterates over name and value of every exposed property. Iteration stops
// at the first failing read; use ForEach or a Cursor to observe the error.
func (v *View) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		c := v.Cursor()
		for c.Next() {
			if !yield(c.Key(), c.Value()) {
				return
			}
		}
	}
}

// Values iterates over the values of every exposed property.
func (v *View) Values() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, value := range v.All() {
			if !yield(value) {
				return
			}
		}
	}
}

// ForEach calls fn for every exposed property in order, stopping at the first
// read error or error returned by fn.
func (v *View) ForEach(fn func(name string, value any) error) error {
	c := v.Cursor()
	for c.Next() {
		if err := fn(c.Key(), c.Value()); err != nil {
			return err
		}
	}
	return c.Err()
}
