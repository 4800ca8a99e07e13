package attrs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func items(values ...string) []Item {
	out := make([]Item, len(values))
	for i, v := range values {
		out[i] = Item{ID: v, DisplayValue: v, RawValue: v}
	}
	return out
}

func rawValues(its []Item) []string {
	out := make([]string, len(its))
	for i, it := range its {
		out[i] = it.RawValue
	}
	return out
}

func TestNormalizeApparelSizes(t *testing.T) {
	s := Normalize(Set{ID: "size", Name: "Size", Kind: KindText, Items: items("S", "XL", "M")})

	assert.Equal(t, []string{"S", "M", "XL"}, rawValues(s.Items))
	assert.Equal(t, []string{"S", "M", "XL"}, s.DisplayOrder)
}

func TestNormalizeShoeSizes(t *testing.T) {
	s := Normalize(Set{ID: "size", Name: "Size", Kind: KindText, Items: items("9", "7", "11")})

	assert.Equal(t, []string{"7", "9", "11"}, rawValues(s.Items))
	assert.Equal(t, []string{"7", "9", "11"}, s.DisplayOrder)
}

func TestNormalizeMixedSizesUseApparelLadder(t *testing.T) {
	// One non-numeric value means the whole set is ordered on the apparel ladder.
	s := Normalize(Set{ID: "size", Name: "Size", Kind: KindText, Items: items("M", "9", "S")})

	assert.Equal(t, []string{"S", "M", "9"}, rawValues(s.Items))
}

func TestNormalizeOffLadderValuesAppendInInputOrder(t *testing.T) {
	s := Normalize(Set{ID: "size", Name: "Size", Kind: KindText, Items: items("4XL", "M", "3XL", "S")})

	assert.Equal(t, []string{"S", "M", "4XL", "3XL"}, rawValues(s.Items))
	assert.Equal(t, []string{"S", "M", "4XL", "3XL"}, s.DisplayOrder)
}

func TestNormalizeSwatchTagsItems(t *testing.T) {
	s := Normalize(Set{ID: "color", Name: "Color", Kind: KindSwatch, Items: items("#44FF03", "#000000")})

	for _, it := range s.Items {
		assert.True(t, it.IsColorSwatch)
	}
	// Colors are not a ladder attribute: insertion order preserved, no hint.
	assert.Equal(t, []string{"#44FF03", "#000000"}, rawValues(s.Items))
	assert.Nil(t, s.DisplayOrder)
}

func TestNormalizeUnrecognizedNamePassesThrough(t *testing.T) {
	s := Normalize(Set{ID: "cap", Name: "Capacity", Kind: KindText, Items: items("512G", "1T")})

	assert.Equal(t, []string{"512G", "1T"}, rawValues(s.Items))
	assert.Nil(t, s.DisplayOrder)
}

func TestNormalizeIdempotent(t *testing.T) {
	once := Normalize(Set{ID: "size", Name: "Size", Kind: KindSwatch, Items: items("XL", "6", "S", "M")})
	twice := Normalize(once)

	assert.Equal(t, once, twice)
}

func TestNormalizeEmptySet(t *testing.T) {
	s := Normalize(Set{ID: "size", Name: "Size", Kind: KindText})

	assert.Empty(t, s.Items)
	assert.Empty(t, s.DisplayOrder)
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	in := Set{ID: "size", Name: "Size", Kind: KindText, Items: items("XL", "S")}
	Normalize(in)

	assert.Equal(t, []string{"XL", "S"}, rawValues(in.Items))
}

func TestNormalizeAllPreservesSetOrder(t *testing.T) {
	sets := NormalizeAll([]Set{
		{ID: "color", Name: "Color", Kind: KindSwatch, Items: items("#000000")},
		{ID: "size", Name: "Size", Kind: KindText, Items: items("M", "S")},
	})

	assert.Equal(t, "color", sets[0].ID)
	assert.Equal(t, "size", sets[1].ID)
	assert.Equal(t, []string{"S", "M"}, rawValues(sets[1].Items))
}
