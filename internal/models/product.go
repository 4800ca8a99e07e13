package models

import (
	"strings"

	"github.com/shopspring/decimal"

	"catalog-service/internal/attrs"
)

// Price is one currency's price for a product.
type Price struct {
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	CurrencyCode   string          `db:"currency_code" json:"code"`
	CurrencyLabel  string          `db:"currency_label" json:"label"`
	CurrencySymbol string          `db:"currency_symbol" json:"symbol"`
}

// ProductCore carries the identity and data shared by every product variant.
// Variants differ only in the derived presentation fields they expose.
type ProductCore struct {
	ID           string      `db:"id" json:"id"`
	Name         string      `db:"name" json:"name"`
	Brand        string      `db:"brand" json:"brand"`
	Description  *string     `db:"description" json:"description"`
	CategoryName string      `db:"category_name" json:"category"`
	InStock      bool        `db:"in_stock" json:"inStock"`
	Gallery      []string    `json:"gallery"`
	Prices       []Price     `json:"prices"`
	Attributes   []attrs.Set `json:"attributes"`
}

// Core makes every variant usable through the Product interface.
func (p *ProductCore) Core() *ProductCore { return p }

// AttributeIDs returns the ids of the product's attribute sets, which the
// schema exposes as references resolved separately.
func (p *ProductCore) AttributeIDs() []string {
	ids := make([]string, len(p.Attributes))
	for i, a := range p.Attributes {
		ids[i] = a.ID
	}
	return ids
}

func (p *ProductCore) attributeByName(name string) *attrs.Set {
	for i := range p.Attributes {
		if p.Attributes[i].Name == name {
			return &p.Attributes[i]
		}
	}
	return nil
}

// Product is the abstract contract every concrete product variant satisfies.
type Product interface {
	Core() *ProductCore
}

// ClothingProduct exposes size-oriented presentation fields.
type ClothingProduct struct {
	ProductCore
}

// SizeGuide renders the canonical size order for the product, empty when the
// product has no ordered Size attribute.
func (p *ClothingProduct) SizeGuide() string {
	if size := p.attributeByName("Size"); size != nil {
		return strings.Join(size.DisplayOrder, ", ")
	}
	return ""
}

// AvailableSizes lists the raw Size values in display order.
func (p *ClothingProduct) AvailableSizes() []string {
	size := p.attributeByName("Size")
	if size == nil {
		return nil
	}
	values := make([]string, len(size.Items))
	for i, it := range size.Items {
		values[i] = it.RawValue
	}
	return values
}

// HasVariants reports whether the item is configurable. Clothing always is.
func (p *ClothingProduct) HasVariants() bool { return true }

// TechProduct exposes specification-oriented presentation fields.
type TechProduct struct {
	ProductCore
}

var specAttributeNames = map[string]bool{
	"Capacity":  true,
	"Memory":    true,
	"Storage":   true,
	"Processor": true,
}

// Specifications renders technical attribute sets as "Name: v1, v2" lines.
func (p *TechProduct) Specifications() []string {
	var specs []string
	for _, a := range p.Attributes {
		if !specAttributeNames[a.Name] {
			continue
		}
		values := make([]string, len(a.Items))
		for i, it := range a.Items {
			values[i] = it.RawValue
		}
		specs = append(specs, a.Name+": "+strings.Join(values, ", "))
	}
	return specs
}

// HasVariants reports whether the product offers selectable options.
func (p *TechProduct) HasVariants() bool {
	return len(p.Attributes) > 0
}

// GenericProduct is the fallback variant for categories without a dedicated
// one. It adds nothing beyond the core contract.
type GenericProduct struct {
	ProductCore
}
