package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"catalog-service/internal/attrs"
)

// SwatchAttributes loads the swatch attribute variant.
type SwatchAttributes struct {
	store *Store
}

func NewSwatchAttributes(store *Store) *SwatchAttributes {
	return &SwatchAttributes{store: store}
}

func (a *SwatchAttributes) Variant() string { return "swatch" }

func (a *SwatchAttributes) FindAll(ctx context.Context) ([]attrs.Set, error) {
	sets, err := a.store.attributeSetsByKind(ctx, attrs.KindSwatch)
	if err != nil {
		return nil, fmt.Errorf("failed to load swatch attributes: %w", err)
	}
	return sets, nil
}

// TextAttributes loads the text attribute variant.
type TextAttributes struct {
	store *Store
}

func NewTextAttributes(store *Store) *TextAttributes {
	return &TextAttributes{store: store}
}

func (a *TextAttributes) Variant() string { return "text" }

func (a *TextAttributes) FindAll(ctx context.Context) ([]attrs.Set, error) {
	sets, err := a.store.attributeSetsByKind(ctx, attrs.KindText)
	if err != nil {
		return nil, fmt.Errorf("failed to load text attributes: %w", err)
	}
	return sets, nil
}

type globalAttributeSetRow struct {
	ID   string `db:"id"`
	Name string `db:"name"`
	Kind string `db:"kind"`
}

type globalAttributeItemRow struct {
	SetID string `db:"set_id"`
	attrs.Item
}

func (s *Store) attributeSetsByKind(ctx context.Context, kind string) ([]attrs.Set, error) {
	var setRows []globalAttributeSetRow
	err := s.db.SelectContext(ctx, &setRows,
		"SELECT id, name, kind FROM attribute_sets WHERE kind = $1 ORDER BY id", kind)
	if err != nil {
		return nil, err
	}
	if len(setRows) == 0 {
		return nil, nil
	}

	ids := make([]string, len(setRows))
	for i, r := range setRows {
		ids[i] = r.ID
	}

	query, args, err := sqlx.In(
		"SELECT set_id, item_id, display_value, raw_value FROM attribute_items WHERE set_id IN (?) ORDER BY set_id, position",
		ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var itemRows []globalAttributeItemRow
	if err := s.db.SelectContext(ctx, &itemRows, query, args...); err != nil {
		return nil, err
	}

	itemsBySet := make(map[string][]attrs.Item)
	for _, r := range itemRows {
		itemsBySet[r.SetID] = append(itemsBySet[r.SetID], r.Item)
	}

	sets := make([]attrs.Set, len(setRows))
	for i, r := range setRows {
		sets[i] = attrs.Normalize(attrs.Set{
			ID:    r.ID,
			Name:  r.Name,
			Kind:  r.Kind,
			Items: itemsBySet[r.ID],
		})
	}
	return sets, nil
}
