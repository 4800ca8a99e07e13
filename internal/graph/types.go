package graph

import (
	"sort"
	"time"

	"github.com/graphql-go/graphql"
	"go.uber.org/zap"

	"catalog-service/internal/attrs"
	"catalog-service/internal/models"
	"catalog-service/internal/registry"
	"catalog-service/internal/util"
)

// typeSystem ties the variant registry to the GraphQL type definitions: each
// registered variant name maps to one object type, and the abstract
// interfaces resolve concrete types through the registry.
type typeSystem struct {
	registry *registry.Registry
	objects  map[string]*graphql.Object
	logger   *zap.Logger

	productInterface   *graphql.Interface
	categoryInterface  *graphql.Interface
	attributeInterface *graphql.Interface

	priceType         *graphql.Object
	attributeItemType *graphql.Object
	metadataEntryType *graphql.Object
	orderType         *graphql.Object
	orderResultType   *graphql.Object
	orderInputType    *graphql.InputObject
}

func newTypeSystem() *typeSystem {
	ts := &typeSystem{
		registry: newCommerceRegistry(),
		objects:  make(map[string]*graphql.Object),
		logger:   util.GetLogger(),
	}

	ts.priceType = newPriceType()
	ts.attributeItemType = newAttributeItemType()
	ts.metadataEntryType = newMetadataEntryType()

	ts.productInterface = ts.newContractInterface("Product", registry.ContractProduct, productCoreFields(ts))
	ts.categoryInterface = ts.newContractInterface("Category", registry.ContractCategory, categoryCoreFields(ts))
	ts.attributeInterface = ts.newContractInterface("Attribute", registry.ContractAttribute, attributeCoreFields(ts))

	ts.defineProductTypes()
	ts.defineCategoryTypes()
	ts.defineAttributeTypes()

	ts.orderType = newOrderType()
	ts.orderResultType = newOrderResultType()
	ts.orderInputType = newOrderInputType()

	return ts
}

// newCommerceRegistry declares every concrete variant. Registration order is
// the resolution order; the generic fallbacks are registered last.
func newCommerceRegistry() *registry.Registry {
	r := registry.New()

	r.Register(registry.ContractProduct, registry.Variant{
		Name: "ClothesProduct",
		Matches: func(v any) bool {
			_, ok := v.(*models.ClothingProduct)
			return ok
		},
	})
	r.Register(registry.ContractProduct, registry.Variant{
		Name: "TechProduct",
		Matches: func(v any) bool {
			_, ok := v.(*models.TechProduct)
			return ok
		},
	})
	r.RegisterDefault(registry.ContractProduct, registry.Variant{
		Name: "GenericProduct",
		Matches: func(v any) bool {
			_, ok := v.(*models.GenericProduct)
			return ok
		},
	})

	r.Register(registry.ContractCategory, registry.Variant{
		Name: "ClothesCategory",
		Matches: func(v any) bool {
			_, ok := v.(*models.ClothingCategory)
			return ok
		},
	})
	r.Register(registry.ContractCategory, registry.Variant{
		Name: "TechCategory",
		Matches: func(v any) bool {
			_, ok := v.(*models.TechCategory)
			return ok
		},
	})

	r.Register(registry.ContractAttribute, registry.Variant{
		Name: "SwatchAttribute",
		Matches: func(v any) bool {
			s, ok := v.(attrs.Set)
			return ok && s.Kind == attrs.KindSwatch
		},
	})
	r.RegisterDefault(registry.ContractAttribute, registry.Variant{
		Name: "TextAttribute",
		Matches: func(v any) bool {
			_, ok := v.(attrs.Set)
			return ok
		},
	})

	return r
}

// newContractInterface builds an abstract GraphQL interface whose concrete
// type is chosen by the registry per instance.
func (ts *typeSystem) newContractInterface(name string, contract registry.Contract, fields graphql.Fields) *graphql.Interface {
	ifaceFields := graphql.Fields{}
	for fname, f := range fields {
		ifaceFields[fname] = &graphql.Field{Type: f.Type, Description: f.Description}
	}

	return graphql.NewInterface(graphql.InterfaceConfig{
		Name:   name,
		Fields: ifaceFields,
		ResolveType: func(p graphql.ResolveTypeParams) *graphql.Object {
			variant, err := ts.registry.Resolve(contract, p.Value)
			if err != nil {
				util.UnresolvedTypesTotal.WithLabelValues(string(contract)).Inc()
				ts.logger.Error("Unresolved concrete type",
					zap.String("contract", string(contract)),
					zap.Error(err))
				return nil
			}
			return ts.objects[variant.Name]
		},
	})
}

func productSource(p graphql.ResolveParams) *models.ProductCore {
	if prod, ok := p.Source.(models.Product); ok {
		return prod.Core()
	}
	return nil
}

// productCoreFields declares the fields shared by every product variant.
func productCoreFields(ts *typeSystem) graphql.Fields {
	return graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return productSource(p).ID, nil
			},
		},
		"name": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return productSource(p).Name, nil
			},
		},
		"brand": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return productSource(p).Brand, nil
			},
		},
		"description": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if desc := productSource(p).Description; desc != nil {
					return *desc, nil
				}
				return nil, nil
			},
		},
		"category": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return productSource(p).CategoryName, nil
			},
		},
		"inStock": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Boolean),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return productSource(p).InStock, nil
			},
		},
		"gallery": &graphql.Field{
			Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return productSource(p).Gallery, nil
			},
		},
		"prices": &graphql.Field{
			Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(ts.priceType))),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return productSource(p).Prices, nil
			},
		},
		"attributes": &graphql.Field{
			Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))),
			Description: "Attribute set ids, resolved separately via attributesByIds",
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return productSource(p).AttributeIDs(), nil
			},
		},
	}
}

func (ts *typeSystem) defineProductTypes() {
	clothes := graphql.NewObject(graphql.ObjectConfig{
		Name:       "ClothesProduct",
		Interfaces: []*graphql.Interface{ts.productInterface},
		Fields:     ts.clothesProductFields(),
	})
	tech := graphql.NewObject(graphql.ObjectConfig{
		Name:       "TechProduct",
		Interfaces: []*graphql.Interface{ts.productInterface},
		Fields:     ts.techProductFields(),
	})
	generic := graphql.NewObject(graphql.ObjectConfig{
		Name:       "GenericProduct",
		Interfaces: []*graphql.Interface{ts.productInterface},
		Fields:     productCoreFields(ts),
	})

	ts.objects["ClothesProduct"] = clothes
	ts.objects["TechProduct"] = tech
	ts.objects["GenericProduct"] = generic
}

func (ts *typeSystem) clothesProductFields() graphql.Fields {
	fields := productCoreFields(ts)
	fields["sizeGuide"] = &graphql.Field{
		Type:        graphql.String,
		Description: "Canonical size order for the item",
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			if prod, ok := p.Source.(*models.ClothingProduct); ok {
				if guide := prod.SizeGuide(); guide != "" {
					return guide, nil
				}
			}
			return nil, nil
		},
	}
	fields["availableSizes"] = &graphql.Field{
		Type: graphql.NewList(graphql.String),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			if prod, ok := p.Source.(*models.ClothingProduct); ok {
				return prod.AvailableSizes(), nil
			}
			return nil, nil
		},
	}
	fields["hasVariants"] = &graphql.Field{
		Type: graphql.NewNonNull(graphql.Boolean),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			if prod, ok := p.Source.(*models.ClothingProduct); ok {
				return prod.HasVariants(), nil
			}
			return false, nil
		},
	}
	return fields
}

func (ts *typeSystem) techProductFields() graphql.Fields {
	fields := productCoreFields(ts)
	fields["specifications"] = &graphql.Field{
		Type: graphql.NewList(graphql.String),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			if prod, ok := p.Source.(*models.TechProduct); ok {
				return prod.Specifications(), nil
			}
			return nil, nil
		},
	}
	fields["hasVariants"] = &graphql.Field{
		Type: graphql.NewNonNull(graphql.Boolean),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			if prod, ok := p.Source.(*models.TechProduct); ok {
				return prod.HasVariants(), nil
			}
			return false, nil
		},
	}
	return fields
}

func categorySource(p graphql.ResolveParams) (models.Category, bool) {
	c, ok := p.Source.(models.Category)
	return c, ok
}

func categoryCoreFields(ts *typeSystem) graphql.Fields {
	return graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				c, _ := categorySource(p)
				return c.Core().ID, nil
			},
		},
		"name": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				c, _ := categorySource(p)
				return c.Core().Name, nil
			},
		},
		"displayName": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				c, _ := categorySource(p)
				return c.DisplayName(), nil
			},
		},
		"description": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				c, _ := categorySource(p)
				if desc := c.Core().Description; desc != nil {
					return *desc, nil
				}
				return nil, nil
			},
		},
		"isActive": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Boolean),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				c, _ := categorySource(p)
				return c.Core().IsActive, nil
			},
		},
		"metadata": &graphql.Field{
			Type: graphql.NewList(graphql.NewNonNull(ts.metadataEntryType)),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				c, _ := categorySource(p)
				return sortedMetadata(c.Core().Metadata), nil
			},
		},
	}
}

func (ts *typeSystem) defineCategoryTypes() {
	clothes := graphql.NewObject(graphql.ObjectConfig{
		Name:       "ClothesCategory",
		Interfaces: []*graphql.Interface{ts.categoryInterface},
		Fields:     categoryCoreFields(ts),
	})
	tech := graphql.NewObject(graphql.ObjectConfig{
		Name:       "TechCategory",
		Interfaces: []*graphql.Interface{ts.categoryInterface},
		Fields:     categoryCoreFields(ts),
	})

	ts.objects["ClothesCategory"] = clothes
	ts.objects["TechCategory"] = tech
}

func attributeSource(p graphql.ResolveParams) attrs.Set {
	if s, ok := p.Source.(attrs.Set); ok {
		return s
	}
	return attrs.Set{}
}

func attributeCoreFields(ts *typeSystem) graphql.Fields {
	return graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return attributeSource(p).ID, nil
			},
		},
		"name": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return attributeSource(p).Name, nil
			},
		},
		"type": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return attributeSource(p).Kind, nil
			},
		},
		"items": &graphql.Field{
			Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(ts.attributeItemType))),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return attributeSource(p).Items, nil
			},
		},
		"displayOrder": &graphql.Field{
			Type: graphql.NewList(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return attributeSource(p).DisplayOrder, nil
			},
		},
	}
}

func (ts *typeSystem) defineAttributeTypes() {
	swatchFields := attributeCoreFields(ts)
	swatchFields["displayFormat"] = &graphql.Field{
		Type: graphql.String,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return "color_swatch", nil
		},
	}
	swatch := graphql.NewObject(graphql.ObjectConfig{
		Name:       "SwatchAttribute",
		Interfaces: []*graphql.Interface{ts.attributeInterface},
		Fields:     swatchFields,
	})

	textFields := attributeCoreFields(ts)
	textFields["displayFormat"] = &graphql.Field{
		Type: graphql.String,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return "text_list", nil
		},
	}
	text := graphql.NewObject(graphql.ObjectConfig{
		Name:       "TextAttribute",
		Interfaces: []*graphql.Interface{ts.attributeInterface},
		Fields:     textFields,
	})

	ts.objects["SwatchAttribute"] = swatch
	ts.objects["TextAttribute"] = text
}

func newPriceType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Price",
		Fields: graphql.Fields{
			"amount": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Float),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(models.Price).Amount.InexactFloat64(), nil
				},
			},
			"code": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(models.Price).CurrencyCode, nil
				},
			},
			"label": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(models.Price).CurrencyLabel, nil
				},
			},
			"symbol": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(models.Price).CurrencySymbol, nil
				},
			},
		},
	})
}

func newAttributeItemType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "AttributeItem",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(attrs.Item).ID, nil
				},
			},
			"displayValue": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(attrs.Item).DisplayValue, nil
				},
			},
			"value": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(attrs.Item).RawValue, nil
				},
			},
			"isColorSwatch": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(attrs.Item).IsColorSwatch, nil
				},
			},
		},
	})
}

type metadataEntry struct {
	Key   string
	Value string
}

func newMetadataEntryType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "MetadataEntry",
		Fields: graphql.Fields{
			"key": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(metadataEntry).Key, nil
				},
			},
			"value": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(metadataEntry).Value, nil
				},
			},
		},
	})
}

func sortedMetadata(metadata map[string]string) []metadataEntry {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]metadataEntry, len(keys))
	for i, k := range keys {
		entries[i] = metadataEntry{Key: k, Value: metadata[k]}
	}
	return entries
}

type attributeSelection struct {
	AttributeID string
	ItemID      string
}

func newAttributeSelectionType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "AttributeSelection",
		Fields: graphql.Fields{
			"attributeId": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(attributeSelection).AttributeID, nil
				},
			},
			"itemId": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(attributeSelection).ItemID, nil
				},
			},
		},
	})
}

func sortedSelections(selected map[string]string) []attributeSelection {
	keys := make([]string, 0, len(selected))
	for k := range selected {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	selections := make([]attributeSelection, len(keys))
	for i, k := range keys {
		selections[i] = attributeSelection{AttributeID: k, ItemID: selected[k]}
	}
	return selections
}

func newOrderItemType() *graphql.Object {
	selectionType := newAttributeSelectionType()
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "OrderItem",
		Fields: graphql.Fields{
			"productId": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(models.OrderItem).ProductID, nil
				},
			},
			"quantity": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(models.OrderItem).Quantity, nil
				},
			},
			"selectedAttributes": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(selectionType)),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return sortedSelections(p.Source.(models.OrderItem).SelectedAttributes), nil
				},
			},
			"price": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Float),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(models.OrderItem).Price.InexactFloat64(), nil
				},
			},
		},
	})
}

func newOrderType() *graphql.Object {
	itemType := newOrderItemType()
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Order",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*models.Order).ID, nil
				},
			},
			"customerEmail": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*models.Order).CustomerEmail, nil
				},
			},
			"totalAmount": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Float),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*models.Order).TotalAmount.InexactFloat64(), nil
				},
			},
			"currency": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*models.Order).Currency, nil
				},
			},
			"status": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*models.Order).Status, nil
				},
			},
			"createdAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*models.Order).CreatedAt.Format(time.RFC3339), nil
				},
			},
			"items": &graphql.Field{
				Type: graphql.NewList(itemType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*models.Order).Items, nil
				},
			},
		},
	})
}

func newOrderResultType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "OrderResult",
		Fields: graphql.Fields{
			"success": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*models.OrderResult).Success, nil
				},
			},
			"orderId": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if id := p.Source.(*models.OrderResult).OrderID; id != nil {
						return *id, nil
					}
					return nil, nil
				},
			},
			"message": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*models.OrderResult).Message, nil
				},
			},
		},
	})
}

func newOrderInputType() *graphql.InputObject {
	selectionInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "AttributeSelectionInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"attributeId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"itemId":      &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	itemInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "OrderItemInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"productId":          &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"quantity":           &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
			"selectedAttributes": &graphql.InputObjectFieldConfig{Type: graphql.NewList(selectionInput)},
			"price":              &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		},
	})

	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "OrderInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"customerEmail": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"items":         &graphql.InputObjectFieldConfig{Type: graphql.NewList(itemInput)},
			"totalAmount":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"currency":      &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})
}
