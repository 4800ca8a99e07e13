// Package registry maps abstract entity contracts to their concrete variants
// and resolves runtime instances to a variant. It is transport-agnostic: a
// variant is identified by name only, and whatever serialization schema that
// name denotes lives with the caller.
package registry

import "fmt"

// Contract identifies an abstract entity family.
type Contract string

const (
	ContractProduct   Contract = "product"
	ContractCategory  Contract = "category"
	ContractAttribute Contract = "attribute"
)

// UnresolvedTypeError reports an instance that matched no registered variant
// of a contract that has no default.
type UnresolvedTypeError struct {
	Contract Contract
	Value    any
}

func (e *UnresolvedTypeError) Error() string {
	return fmt.Sprintf("no concrete %s variant matches %T", e.Contract, e.Value)
}

// Variant pairs a wire-type name with the predicate that claims instances
// for it.
type Variant struct {
	Name    string
	Matches func(v any) bool
}

// Registry holds, per contract, an ordered list of variants. Resolution is
// first-match-wins in registration order, so overlapping predicates are
// deterministic. Build the registry once at startup and treat it as
// read-only afterwards.
type Registry struct {
	variants map[Contract][]Variant
	defaults map[Contract]*Variant
}

func New() *Registry {
	return &Registry{
		variants: make(map[Contract][]Variant),
		defaults: make(map[Contract]*Variant),
	}
}

// Register appends a variant to the contract's resolution order.
func (r *Registry) Register(c Contract, v Variant) {
	r.variants[c] = append(r.variants[c], v)
}

// RegisterDefault appends a variant and marks it as the contract's fallback
// for instances no predicate claims.
func (r *Registry) RegisterDefault(c Contract, v Variant) {
	r.Register(c, v)
	fallback := v
	r.defaults[c] = &fallback
}

// Variants returns the contract's variants in registration order.
func (r *Registry) Variants(c Contract) []Variant {
	return r.variants[c]
}

// Resolve finds the first registered variant of c whose predicate accepts
// value, falling back to the contract's default if none match.
func (r *Registry) Resolve(c Contract, value any) (Variant, error) {
	for _, v := range r.variants[c] {
		if v.Matches(value) {
			return v, nil
		}
	}
	if d := r.defaults[c]; d != nil {
		return *d, nil
	}
	return Variant{}, &UnresolvedTypeError{Contract: c, Value: value}
}
