// Package catalog merges read results from every registered entity source
// into the uniform collections served by the query layer.
package catalog

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"catalog-service/internal/attrs"
	"catalog-service/internal/models"
	"catalog-service/internal/util"
)

// Sentinel category filter meaning "every variant".
const categoryAll = "all"

// DefaultFeaturedLimit bounds featuredProducts when no limit is given.
const DefaultFeaturedLimit = 6

// ProductSource loads fully-populated products for one concrete variant.
type ProductSource interface {
	// Variant names the source for logs and metrics.
	Variant() string
	// CategoryName is the category this source serves for filtered listings.
	// Empty means the source only participates in unfiltered unions.
	CategoryName() string
	FindAll(ctx context.Context) ([]models.Product, error)
}

// CategorySource loads categories for one concrete variant.
type CategorySource interface {
	Variant() string
	FindAll(ctx context.Context) ([]models.Category, error)
}

// AttributeSource loads attribute sets of one kind.
type AttributeSource interface {
	Variant() string
	FindAll(ctx context.Context) ([]attrs.Set, error)
}

// Service aggregates reads across all registered sources. Source order is
// fixed at construction and determines merge order, so results are stable
// regardless of which source finishes first. A failing source contributes an
// empty result; read operations never fail outright.
type Service struct {
	products   []ProductSource
	categories []CategorySource
	attributes []AttributeSource
	logger     *zap.Logger
}

func NewService(
	products []ProductSource,
	categories []CategorySource,
	attributes []AttributeSource,
) *Service {
	return &Service{
		products:   products,
		categories: categories,
		attributes: attributes,
		logger:     util.GetLogger(),
	}
}

// ListProducts returns products for the given category filter. Empty filter
// or "all" unions every source; an unknown category yields an empty list.
func (s *Service) ListProducts(ctx context.Context, category string) []models.Product {
	ctx, span := util.StartSpan(ctx, "Catalog.ListProducts")
	defer span.End()

	if category == "" || strings.EqualFold(category, categoryAll) {
		return s.collectProducts(ctx, s.products)
	}

	var matched []ProductSource
	for _, src := range s.products {
		if src.CategoryName() != "" && strings.EqualFold(src.CategoryName(), category) {
			matched = append(matched, src)
		}
	}
	return s.collectProducts(ctx, matched)
}

// GetProduct finds one product by id across all variants, nil when absent.
func (s *Service) GetProduct(ctx context.Context, id string) models.Product {
	ctx, span := util.StartSpan(ctx, "Catalog.GetProduct")
	defer span.End()

	// One index per aggregation pass instead of a per-call linear scan.
	index := make(map[string]models.Product)
	for _, p := range s.collectProducts(ctx, s.products) {
		index[p.Core().ID] = p
	}
	return index[id]
}

// SearchProducts matches the term case-insensitively against product name or
// description across all variants.
func (s *Service) SearchProducts(ctx context.Context, term string) []models.Product {
	ctx, span := util.StartSpan(ctx, "Catalog.SearchProducts")
	defer span.End()

	needle := strings.ToLower(term)
	var matched []models.Product
	for _, p := range s.collectProducts(ctx, s.products) {
		core := p.Core()
		if strings.Contains(strings.ToLower(core.Name), needle) {
			matched = append(matched, p)
			continue
		}
		if core.Description != nil && strings.Contains(strings.ToLower(*core.Description), needle) {
			matched = append(matched, p)
		}
	}
	return matched
}

// FeaturedProducts returns the first limit in-stock products in aggregation
// order. A non-positive limit falls back to DefaultFeaturedLimit.
func (s *Service) FeaturedProducts(ctx context.Context, limit int) []models.Product {
	ctx, span := util.StartSpan(ctx, "Catalog.FeaturedProducts")
	defer span.End()

	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}

	var featured []models.Product
	for _, p := range s.collectProducts(ctx, s.products) {
		if !p.Core().InStock {
			continue
		}
		featured = append(featured, p)
		if len(featured) == limit {
			break
		}
	}
	return featured
}

// ListCategories unions every category source.
func (s *Service) ListCategories(ctx context.Context) []models.Category {
	ctx, span := util.StartSpan(ctx, "Catalog.ListCategories")
	defer span.End()

	return s.collectCategories(ctx)
}

// GetCategory finds one category by id, nil when absent.
func (s *Service) GetCategory(ctx context.Context, id string) models.Category {
	ctx, span := util.StartSpan(ctx, "Catalog.GetCategory")
	defer span.End()

	for _, c := range s.collectCategories(ctx) {
		if c.Core().ID == id {
			return c
		}
	}
	return nil
}

// ListAttributes unions every attribute source.
func (s *Service) ListAttributes(ctx context.Context) []attrs.Set {
	ctx, span := util.StartSpan(ctx, "Catalog.ListAttributes")
	defer span.End()

	return s.collectAttributes(ctx)
}

// GetAttribute finds one attribute set by id; the second result reports
// presence.
func (s *Service) GetAttribute(ctx context.Context, id string) (attrs.Set, bool) {
	ctx, span := util.StartSpan(ctx, "Catalog.GetAttribute")
	defer span.End()

	for _, a := range s.collectAttributes(ctx) {
		if a.ID == id {
			return a, true
		}
	}
	return attrs.Set{}, false
}

// AttributesByIDs returns the attribute sets whose ids are requested, in
// aggregation order. Unknown ids are skipped.
func (s *Service) AttributesByIDs(ctx context.Context, ids []string) []attrs.Set {
	ctx, span := util.StartSpan(ctx, "Catalog.AttributesByIDs")
	defer span.End()

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var matched []attrs.Set
	for _, a := range s.collectAttributes(ctx) {
		if wanted[a.ID] {
			matched = append(matched, a)
		}
	}
	return matched
}

// collectProducts reads each source concurrently and concatenates results in
// source order. Ids already seen are dropped so no two variants can both
// claim a product.
func (s *Service) collectProducts(ctx context.Context, sources []ProductSource) []models.Product {
	results := make([][]models.Product, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src ProductSource) {
			defer wg.Done()
			items, err := src.FindAll(ctx)
			if err != nil {
				s.sourceFailed("product", src.Variant(), err)
				return
			}
			results[i] = items
		}(i, src)
	}
	wg.Wait()

	seen := make(map[string]bool)
	var merged []models.Product
	for _, items := range results {
		for _, p := range items {
			id := p.Core().ID
			if seen[id] {
				s.logger.Warn("Duplicate product id across variants",
					zap.String("product_id", id))
				continue
			}
			seen[id] = true
			merged = append(merged, p)
		}
	}
	return merged
}

func (s *Service) collectCategories(ctx context.Context) []models.Category {
	results := make([][]models.Category, len(s.categories))

	var wg sync.WaitGroup
	for i, src := range s.categories {
		wg.Add(1)
		go func(i int, src CategorySource) {
			defer wg.Done()
			items, err := src.FindAll(ctx)
			if err != nil {
				s.sourceFailed("category", src.Variant(), err)
				return
			}
			results[i] = items
		}(i, src)
	}
	wg.Wait()

	var merged []models.Category
	for _, items := range results {
		merged = append(merged, items...)
	}
	return merged
}

func (s *Service) collectAttributes(ctx context.Context) []attrs.Set {
	results := make([][]attrs.Set, len(s.attributes))

	var wg sync.WaitGroup
	for i, src := range s.attributes {
		wg.Add(1)
		go func(i int, src AttributeSource) {
			defer wg.Done()
			items, err := src.FindAll(ctx)
			if err != nil {
				s.sourceFailed("attribute", src.Variant(), err)
				return
			}
			results[i] = items
		}(i, src)
	}
	wg.Wait()

	var merged []attrs.Set
	for _, items := range results {
		merged = append(merged, items...)
	}
	return merged
}

func (s *Service) sourceFailed(contract, variant string, err error) {
	util.AdapterFailuresTotal.WithLabelValues(contract, variant).Inc()
	s.logger.Error("Entity source failed, continuing without it",
		zap.String("contract", contract),
		zap.String("variant", variant),
		zap.Error(err))
}
