package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clothing struct{ sizes []string }
type tech struct{ specs []string }
type plain struct{}

func isClothing(v any) bool { _, ok := v.(*clothing); return ok }
func isTech(v any) bool     { _, ok := v.(*tech); return ok }

func newProductRegistry() *Registry {
	r := New()
	r.Register(ContractProduct, Variant{Name: "ClothesProduct", Matches: isClothing})
	r.Register(ContractProduct, Variant{Name: "TechProduct", Matches: isTech})
	r.RegisterDefault(ContractProduct, Variant{Name: "GenericProduct", Matches: func(any) bool { return true }})
	return r
}

func TestResolvePicksMatchingVariant(t *testing.T) {
	r := newProductRegistry()

	v, err := r.Resolve(ContractProduct, &clothing{})
	require.NoError(t, err)
	assert.Equal(t, "ClothesProduct", v.Name)

	v, err = r.Resolve(ContractProduct, &tech{})
	require.NoError(t, err)
	assert.Equal(t, "TechProduct", v.Name)
}

func TestResolveReturnsVariantThatAcceptsItsInput(t *testing.T) {
	r := newProductRegistry()

	for _, instance := range []any{&clothing{}, &tech{}, &plain{}} {
		v, err := r.Resolve(ContractProduct, instance)
		require.NoError(t, err)
		assert.True(t, v.Matches(instance), "resolved %s must accept its own input", v.Name)
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	r := New()
	r.Register(ContractAttribute, Variant{Name: "First", Matches: func(any) bool { return true }})
	r.Register(ContractAttribute, Variant{Name: "Second", Matches: func(any) bool { return true }})

	v, err := r.Resolve(ContractAttribute, "anything")
	require.NoError(t, err)
	assert.Equal(t, "First", v.Name)
}

func TestResolveFallsBackToDefault(t *testing.T) {
	r := newProductRegistry()

	v, err := r.Resolve(ContractProduct, &plain{})
	require.NoError(t, err)
	assert.Equal(t, "GenericProduct", v.Name)
}

func TestResolveUnresolvedType(t *testing.T) {
	r := New()
	r.Register(ContractCategory, Variant{Name: "ClothesCategory", Matches: func(any) bool { return false }})

	_, err := r.Resolve(ContractCategory, &plain{})
	require.Error(t, err)

	var unresolved *UnresolvedTypeError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, ContractCategory, unresolved.Contract)
}

func TestVariantsKeepRegistrationOrder(t *testing.T) {
	r := newProductRegistry()

	names := make([]string, 0, 3)
	for _, v := range r.Variants(ContractProduct) {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"ClothesProduct", "TechProduct", "GenericProduct"}, names)
}
