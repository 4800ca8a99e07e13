package store

import (
	"context"
	"fmt"

	"catalog-service/internal/models"
)

// ClothesCategories loads the clothing category variant.
type ClothesCategories struct {
	store *Store
}

func NewClothesCategories(store *Store) *ClothesCategories {
	return &ClothesCategories{store: store}
}

func (a *ClothesCategories) Variant() string { return "clothes" }

func (a *ClothesCategories) FindAll(ctx context.Context) ([]models.Category, error) {
	cores, err := a.store.categoriesByKind(ctx, categoryClothes)
	if err != nil {
		return nil, fmt.Errorf("failed to load clothes categories: %w", err)
	}

	categories := make([]models.Category, len(cores))
	for i, core := range cores {
		core.Metadata = map[string]string{
			"hasVariants":  "true",
			"requiresSize": "true",
		}
		categories[i] = &models.ClothingCategory{CategoryCore: core}
	}
	return categories, nil
}

// TechCategories loads the tech category variant.
type TechCategories struct {
	store *Store
}

func NewTechCategories(store *Store) *TechCategories {
	return &TechCategories{store: store}
}

func (a *TechCategories) Variant() string { return "tech" }

func (a *TechCategories) FindAll(ctx context.Context) ([]models.Category, error) {
	cores, err := a.store.categoriesByKind(ctx, categoryTech)
	if err != nil {
		return nil, fmt.Errorf("failed to load tech categories: %w", err)
	}

	categories := make([]models.Category, len(cores))
	for i, core := range cores {
		core.Metadata = map[string]string{
			"hasVariants":       "true",
			"warrantyAvailable": "true",
		}
		categories[i] = &models.TechCategory{CategoryCore: core}
	}
	return categories, nil
}

func (s *Store) categoriesByKind(ctx context.Context, kind string) ([]models.CategoryCore, error) {
	var cores []models.CategoryCore
	err := s.db.SelectContext(ctx, &cores,
		"SELECT id, name, description, is_active FROM categories WHERE kind = $1 ORDER BY id",
		kind)
	return cores, err
}
