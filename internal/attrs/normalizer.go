// Package attrs normalizes raw product attribute data into display-ready
// attribute sets. Normalization is a pure function of the set itself and
// never touches storage.
package attrs

import (
	"sort"
	"strconv"
)

// Attribute set kinds
const (
	KindSwatch = "swatch"
	KindText   = "text"
)

// Canonical display ladders for the "Size" attribute. Numeric values use the
// shoe-size ladder, everything else the apparel ladder.
var (
	shoeSizeLadder    = []string{"7", "8", "9", "10", "11", "12"}
	apparelSizeLadder = []string{"XS", "S", "M", "L", "XL", "XXL"}
)

// Item is a single selectable option within an attribute set.
type Item struct {
	ID            string `db:"item_id" json:"id"`
	DisplayValue  string `db:"display_value" json:"displayValue"`
	RawValue      string `db:"raw_value" json:"value"`
	IsColorSwatch bool   `json:"isColorSwatch"`
}

// Set is a named group of attribute items, e.g. "Size" or "Color".
type Set struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Kind  string `json:"type"`
	Items []Item `json:"items"`

	// DisplayOrder holds the canonical presentation order of raw values,
	// populated during normalization for recognized attribute names.
	DisplayOrder []string `json:"displayOrder,omitempty"`
}

// Normalize orders a set's items along the canonical ladder for its name and
// tags swatch items. Items whose raw value is outside the ladder are appended
// after the canonical entries with their relative input order preserved.
// Normalize is idempotent: applying it to its own output changes nothing.
func Normalize(s Set) Set {
	out := s
	out.Items = make([]Item, len(s.Items))
	copy(out.Items, s.Items)
	out.DisplayOrder = nil

	if s.Name == "Size" {
		ladder := apparelSizeLadder
		if allNumeric(out.Items) {
			ladder = shoeSizeLadder
		}
		orderByLadder(out.Items, ladder)
		out.DisplayOrder = presentLadder(out.Items, ladder)
	}

	if s.Kind == KindSwatch {
		for i := range out.Items {
			out.Items[i].IsColorSwatch = true
		}
	}

	return out
}

// NormalizeAll normalizes every set, preserving set order.
func NormalizeAll(sets []Set) []Set {
	out := make([]Set, len(sets))
	for i, s := range sets {
		out[i] = Normalize(s)
	}
	return out
}

func allNumeric(items []Item) bool {
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		if _, err := strconv.Atoi(it.RawValue); err != nil {
			return false
		}
	}
	return true
}

// orderByLadder stable-sorts items by their ladder position. Items absent
// from the ladder sort after all canonical ones; stability keeps their
// relative input order.
func orderByLadder(items []Item, ladder []string) {
	rank := make(map[string]int, len(ladder))
	for i, v := range ladder {
		rank[v] = i
	}
	sort.SliceStable(items, func(i, j int) bool {
		ri, iOK := rank[items[i].RawValue]
		rj, jOK := rank[items[j].RawValue]
		switch {
		case iOK && jOK:
			return ri < rj
		case iOK:
			return true
		default:
			return false
		}
	})
}

// presentLadder returns the ladder filtered to values actually present,
// followed by any off-ladder values in their (already sorted) item order.
func presentLadder(items []Item, ladder []string) []string {
	present := make(map[string]bool, len(items))
	for _, it := range items {
		present[it.RawValue] = true
	}

	order := make([]string, 0, len(items))
	onLadder := make(map[string]bool, len(ladder))
	for _, v := range ladder {
		onLadder[v] = true
		if present[v] {
			order = append(order, v)
		}
	}
	for _, it := range items {
		if !onLadder[it.RawValue] {
			order = append(order, it.RawValue)
		}
	}
	return order
}
