package explorable

// WritePolicy decides whether Set may change an exposed property.
type WritePolicy int

const (
	// DenyAlways refuses every write to an exposed property.
	DenyAlways WritePolicy = iota
	// AllowOnce lets a property go from its unset value to a concrete value exactly once.
	// The unset value is the field's zero value, so a property that cannot be nil
	// and was written with its zero value, like 0 or "", is still unset.
	AllowOnce
)

func (p WritePolicy) String() string {
	switch p {
	case DenyAlways:
		return "deny-always"
	case AllowOnce:
		return "allow-once"
	default:
		return "unknown"
	}
}

// VisibleDeclarer is implemented by entity types that declare an explicit
// allow-list of exposed property names. The method is called once, on a zero
// value of the type, so it must only return static data.
type VisibleDeclarer interface {
	ExplorableVisible() []string
}

// HiddenDeclarer is implemented by entity types that remove names from the
// set of discovered properties.
type HiddenDeclarer interface {
	ExplorableHidden() []string
}

// WritePolicyDeclarer is implemented by entity types that want another write
// policy than DenyAlways.
type WritePolicyDeclarer interface {
	ExplorableWritePolicy() WritePolicy
}

// Reader lets an entity intercept every read of its exposed properties. raw is
// the current value of the backing field. Iteration, trees, dumps and Has all
// read through here.
type Reader interface {
	ReadProperty(name string, raw any) (any, error)
}

// Explorer is implemented by anything that can hand out its exposed property
// view. *View implements it, so it is promoted to every entity embedding *View.
type Explorer interface {
	ExplorableView() *View
}

type declaration struct {
	visible []string
	hidden  []string
	policy  *WritePolicy
}

type OptionFunc func(d *declaration)

// Visible sets the allow-list for a type, taking precedence over ExplorableVisible.
func Visible(names ...string) OptionFunc {
	return func(d *declaration) {
		d.visible = append(d.visible, names...)
	}
}

// Hidden adds names that are never exposed, in addition to ExplorableHidden
// and fields tagged `explorable:"-"`.
func Hidden(names ...string) OptionFunc {
	return func(d *declaration) {
		d.hidden = append(d.hidden, names...)
	}
}

// WithWritePolicy sets the write policy for a type, taking precedence over
// ExplorableWritePolicy.
func WithWritePolicy(policy WritePolicy) OptionFunc {
	return func(d *declaration) {
		d.policy = &policy
	}
}
