package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"catalog-service/internal/attrs"
	"catalog-service/internal/models"
)

// Category names with a dedicated product variant. Everything else is served
// by the generic adapter.
const (
	categoryClothes = "clothes"
	categoryTech    = "tech"
)

// ClothesProducts loads the clothing product variant.
type ClothesProducts struct {
	store *Store
}

func NewClothesProducts(store *Store) *ClothesProducts {
	return &ClothesProducts{store: store}
}

func (a *ClothesProducts) Variant() string      { return "clothes" }
func (a *ClothesProducts) CategoryName() string { return categoryClothes }

func (a *ClothesProducts) FindAll(ctx context.Context) ([]models.Product, error) {
	cores, err := a.store.productsByCategory(ctx, categoryClothes)
	if err != nil {
		return nil, fmt.Errorf("failed to load clothes products: %w", err)
	}

	products := make([]models.Product, len(cores))
	for i, core := range cores {
		products[i] = &models.ClothingProduct{ProductCore: core}
	}
	return products, nil
}

// TechProducts loads the tech product variant.
type TechProducts struct {
	store *Store
}

func NewTechProducts(store *Store) *TechProducts {
	return &TechProducts{store: store}
}

func (a *TechProducts) Variant() string      { return "tech" }
func (a *TechProducts) CategoryName() string { return categoryTech }

func (a *TechProducts) FindAll(ctx context.Context) ([]models.Product, error) {
	cores, err := a.store.productsByCategory(ctx, categoryTech)
	if err != nil {
		return nil, fmt.Errorf("failed to load tech products: %w", err)
	}

	products := make([]models.Product, len(cores))
	for i, core := range cores {
		products[i] = &models.TechProduct{ProductCore: core}
	}
	return products, nil
}

// GenericProducts loads products of every category that has no dedicated
// variant. It never serves a category filter on its own.
type GenericProducts struct {
	store *Store
}

func NewGenericProducts(store *Store) *GenericProducts {
	return &GenericProducts{store: store}
}

func (a *GenericProducts) Variant() string      { return "generic" }
func (a *GenericProducts) CategoryName() string { return "" }

func (a *GenericProducts) FindAll(ctx context.Context) ([]models.Product, error) {
	cores, err := a.store.productsExcludingCategories(ctx, []string{categoryClothes, categoryTech})
	if err != nil {
		return nil, fmt.Errorf("failed to load generic products: %w", err)
	}

	products := make([]models.Product, len(cores))
	for i, core := range cores {
		products[i] = &models.GenericProduct{ProductCore: core}
	}
	return products, nil
}

const productColumns = "id, name, brand, description, category_name, in_stock"

func (s *Store) productsByCategory(ctx context.Context, category string) ([]models.ProductCore, error) {
	var cores []models.ProductCore
	err := s.db.SelectContext(ctx, &cores,
		"SELECT "+productColumns+" FROM products WHERE LOWER(category_name) = LOWER($1) ORDER BY id",
		category)
	if err != nil {
		return nil, err
	}
	return s.populateProducts(ctx, cores)
}

func (s *Store) productsExcludingCategories(ctx context.Context, categories []string) ([]models.ProductCore, error) {
	lowered := make([]string, len(categories))
	for i, c := range categories {
		lowered[i] = strings.ToLower(c)
	}

	query, args, err := sqlx.In(
		"SELECT "+productColumns+" FROM products WHERE LOWER(category_name) NOT IN (?) ORDER BY id",
		lowered)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var cores []models.ProductCore
	if err := s.db.SelectContext(ctx, &cores, query, args...); err != nil {
		return nil, err
	}
	return s.populateProducts(ctx, cores)
}

// populateProducts batch-loads every nested collection so adapters never hand
// out partially-loaded entities.
func (s *Store) populateProducts(ctx context.Context, cores []models.ProductCore) ([]models.ProductCore, error) {
	if len(cores) == 0 {
		return cores, nil
	}

	ids := make([]string, len(cores))
	for i, c := range cores {
		ids[i] = c.ID
	}

	prices, err := s.pricesByProduct(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load prices: %w", err)
	}

	galleries, err := s.galleriesByProduct(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load galleries: %w", err)
	}

	attributes, err := s.attributeSetsByProduct(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load attributes: %w", err)
	}

	for i := range cores {
		cores[i].Prices = prices[cores[i].ID]
		cores[i].Gallery = galleries[cores[i].ID]
		cores[i].Attributes = attrs.NormalizeAll(attributes[cores[i].ID])
	}
	return cores, nil
}

type priceRow struct {
	ProductID string `db:"product_id"`
	models.Price
}

func (s *Store) pricesByProduct(ctx context.Context, ids []string) (map[string][]models.Price, error) {
	query, args, err := sqlx.In(
		"SELECT product_id, amount, currency_code, currency_label, currency_symbol FROM product_prices WHERE product_id IN (?) ORDER BY product_id, currency_code",
		ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var rows []priceRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	prices := make(map[string][]models.Price)
	for _, r := range rows {
		prices[r.ProductID] = append(prices[r.ProductID], r.Price)
	}
	return prices, nil
}

type galleryRow struct {
	ProductID string `db:"product_id"`
	ImageURL  string `db:"image_url"`
}

func (s *Store) galleriesByProduct(ctx context.Context, ids []string) (map[string][]string, error) {
	query, args, err := sqlx.In(
		"SELECT product_id, image_url FROM product_gallery WHERE product_id IN (?) ORDER BY product_id, sort_order",
		ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var rows []galleryRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	galleries := make(map[string][]string)
	for _, r := range rows {
		galleries[r.ProductID] = append(galleries[r.ProductID], r.ImageURL)
	}
	return galleries, nil
}

type attributeSetRow struct {
	ID        string `db:"id"`
	ProductID string `db:"product_id"`
	Name      string `db:"name"`
	Kind      string `db:"kind"`
}

type attributeItemRow struct {
	AttributeID string `db:"attribute_id"`
	attrs.Item
}

func (s *Store) attributeSetsByProduct(ctx context.Context, ids []string) (map[string][]attrs.Set, error) {
	query, args, err := sqlx.In(
		"SELECT id, product_id, name, kind FROM product_attributes WHERE product_id IN (?) ORDER BY product_id, id",
		ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var setRows []attributeSetRow
	if err := s.db.SelectContext(ctx, &setRows, query, args...); err != nil {
		return nil, err
	}
	if len(setRows) == 0 {
		return map[string][]attrs.Set{}, nil
	}

	setIDs := make([]string, len(setRows))
	for i, r := range setRows {
		setIDs[i] = r.ID
	}

	query, args, err = sqlx.In(
		"SELECT attribute_id, item_id, display_value, raw_value FROM product_attribute_items WHERE attribute_id IN (?) ORDER BY attribute_id, position",
		setIDs)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var itemRows []attributeItemRow
	if err := s.db.SelectContext(ctx, &itemRows, query, args...); err != nil {
		return nil, err
	}

	return groupAttributeSets(setRows, itemRows), nil
}

// groupAttributeSets assembles raw set and item rows into per-product
// attribute sets, preserving row order within each group.
func groupAttributeSets(setRows []attributeSetRow, itemRows []attributeItemRow) map[string][]attrs.Set {
	itemsBySet := make(map[string][]attrs.Item)
	for _, r := range itemRows {
		itemsBySet[r.AttributeID] = append(itemsBySet[r.AttributeID], r.Item)
	}

	sets := make(map[string][]attrs.Set)
	for _, r := range setRows {
		sets[r.ProductID] = append(sets[r.ProductID], attrs.Set{
			ID:    r.ID,
			Name:  r.Name,
			Kind:  r.Kind,
			Items: itemsBySet[r.ID],
		})
	}
	return sets
}
