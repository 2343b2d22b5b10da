package explorable

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/matryer/is"
)

func TestAllowListIsUsedInDeclaredOrder(t *testing.T) {
	is := is.New(t)

	s, err := SchemaOf[pair]()
	is.NoErr(err)
	is.Equal(s.Names(), []string{"foo", "bar"})
	is.Equal(s.WritePolicy(), DenyAlways)
}

func TestDiscoveryUsesFieldOrderMinusBookkeepingAndHidden(t *testing.T) {
	is := is.New(t)

	s, err := SchemaOf[discoverable]()
	is.NoErr(err)
	is.Equal(s.Names(), []string{"dit", "dat"})
}

func TestDiscoveryHonoursTags(t *testing.T) {
	is := is.New(t)

	s, err := SchemaOf[renamed]()
	is.NoErr(err)
	is.Equal(s.Names(), []string{"label", "Shown"})
}

func TestDiscoverySubtractsDeclaredHiddenNames(t *testing.T) {
	is := is.New(t)

	s, err := SchemaOf[hiddenByMethod]()
	is.NoErr(err)
	is.Equal(s.Names(), []string{"a", "c"})
}

func TestDiscoveryPromotesEmbeddedFields(t *testing.T) {
	is := is.New(t)

	s, err := SchemaOf[shadowing]()
	is.NoErr(err)
	is.Equal(s.Names(), []string{"extra", "name"}) // the outer name shadows inner.name

	v, err := Of(&shadowing{inner: inner{name: "inner", extra: "x"}, name: "outer"})
	is.NoErr(err)

	name, _ := v.Get("name")
	is.Equal(name, "outer")
}

func TestWritePolicyIsDeclaredPerType(t *testing.T) {
	is := is.New(t)

	s, err := SchemaOf[setOnce]()
	is.NoErr(err)
	is.Equal(s.WritePolicy(), AllowOnce)
	is.Equal(s.Names(), []string{"a", "b", "c"})
}

func TestAllowListMustNameDeclaredFields(t *testing.T) {
	is := is.New(t)

	_, err := SchemaOf[undeclared]()
	is.True(errors.Is(err, ErrUndeclaredProperty))

	_, err = Of(&undeclared{})
	is.True(errors.Is(err, ErrUndeclaredProperty)) // the failure is cached for the type
}

func TestAllowListMustNotRepeatNames(t *testing.T) {
	is := is.New(t)

	_, err := SchemaOf[duplicated]()
	is.True(errors.Is(err, ErrNotExplorable))
}

func TestRegisterOptionsOverrideDeclarations(t *testing.T) {
	is := is.New(t)
	r := NewRegistry()

	is.NoErr(r.Register(reflect.TypeFor[plain](),
		Visible("c", "a"),
		WithWritePolicy(AllowOnce),
	))

	s, err := r.Schema(reflect.TypeFor[*plain]())
	is.NoErr(err)
	is.Equal(s.Names(), []string{"c", "a"})
	is.Equal(s.WritePolicy(), AllowOnce)
}

func TestRegisterHiddenOption(t *testing.T) {
	is := is.New(t)
	r := NewRegistry()

	is.NoErr(r.Register(reflect.TypeFor[plain](), Hidden("b")))

	v, err := r.Of(&plain{})
	is.NoErr(err)
	is.Equal(v.Names(), []string{"a", "c"})
}

func TestRegisterAfterFirstUseFails(t *testing.T) {
	is := is.New(t)
	r := NewRegistry()

	_, err := r.Of(&plain{})
	is.NoErr(err)

	err = r.Register(reflect.TypeFor[plain](), Hidden("b"))
	is.True(errors.Is(err, ErrAlreadyResolved))
}

func TestRegisterRejectsNonStructs(t *testing.T) {
	is := is.New(t)
	r := NewRegistry()

	err := r.Register(reflect.TypeFor[int]())
	is.True(errors.Is(err, ErrNotExplorable))
}

func TestEachTypeGetsItsOwnEntry(t *testing.T) {
	is := is.New(t)
	r := NewRegistry()

	_, err := r.Schema(reflect.TypeFor[pair]())
	is.NoErr(err)
	_, err = r.Schema(reflect.TypeFor[extension]())
	is.NoErr(err)
	_, err = r.Schema(reflect.TypeFor[undeclared]())
	is.True(err != nil)

	is.Equal(r.Count(), 2) // failed resolutions are not listed

	entries := r.Entries()
	is.Equal(entries[0].TypeName(), "explorable.extension")
	is.Equal(entries[0].Names(), []string{"foo", "bar", "qux"})
	is.Equal(entries[1].TypeName(), "explorable.pair")
	is.Equal(entries[1].Names(), []string{"foo", "bar"})
}

func TestConcurrentFirstUseResolvesOnce(t *testing.T) {
	is := is.New(t)
	r := NewRegistry()

	const workers = 16
	schemas := make([]*Schema, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := r.Of(&discoverable{})
			if err == nil {
				schemas[i] = v.Schema()
			}
		}()
	}
	wg.Wait()

	for _, s := range schemas {
		is.True(s != nil)
		is.True(s == schemas[0])
	}
}
