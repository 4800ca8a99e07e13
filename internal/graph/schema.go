package graph

import (
	"fmt"

	"github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"catalog-service/internal/catalog"
	"catalog-service/internal/service"
	"catalog-service/internal/util"
)

// NewSchema builds the executable schema on top of the catalog read side and
// the order write side. featuredLimit is the default for featuredProducts
// when the query gives none; non-positive values fall back to the built-in
// default.
func NewSchema(catalogSvc *catalog.Service, orders *service.OrderService, featuredLimit int) (graphql.Schema, error) {
	ts := newTypeSystem()
	logger := util.GetLogger()

	if featuredLimit <= 0 {
		featuredLimit = catalog.DefaultFeaturedLimit
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(ts.productInterface))),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return catalogSvc.ListProducts(p.Context, stringArg(p, "category")), nil
				},
			},
			"product": &graphql.Field{
				Type: ts.productInterface,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					product := catalogSvc.GetProduct(p.Context, stringArg(p, "id"))
					if product == nil {
						return nil, nil
					}
					return product, nil
				},
			},
			"searchProducts": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(ts.productInterface))),
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return catalogSvc.SearchProducts(p.Context, stringArg(p, "query")), nil
				},
			},
			"featuredProducts": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(ts.productInterface))),
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{
						Type:         graphql.Int,
						DefaultValue: featuredLimit,
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return catalogSvc.FeaturedProducts(p.Context, intArg(p, "limit")), nil
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(ts.categoryInterface))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return catalogSvc.ListCategories(p.Context), nil
				},
			},
			"category": &graphql.Field{
				Type: ts.categoryInterface,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					category := catalogSvc.GetCategory(p.Context, stringArg(p, "id"))
					if category == nil {
						return nil, nil
					}
					return category, nil
				},
			},
			"attributes": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(ts.attributeInterface))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return catalogSvc.ListAttributes(p.Context), nil
				},
			},
			"attribute": &graphql.Field{
				Type: ts.attributeInterface,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					set, ok := catalogSvc.GetAttribute(p.Context, stringArg(p, "id"))
					if !ok {
						return nil, nil
					}
					return set, nil
				},
			},
			"attributesByIds": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(ts.attributeInterface))),
				Args: graphql.FieldConfigArgument{
					"ids": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String)))},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return catalogSvc.AttributesByIDs(p.Context, stringListArg(p, "ids")), nil
				},
			},
			"order": &graphql.Field{
				Type: ts.orderType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					order, err := orders.GetOrder(p.Context, stringArg(p, "id"))
					if err != nil {
						logger.Warn("Order lookup failed", zap.Error(err))
						return nil, nil
					}
					return order, nil
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createOrder": &graphql.Field{
				Type: graphql.NewNonNull(ts.orderResultType),
				Args: graphql.FieldConfigArgument{
					"orderInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(ts.orderInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					raw, ok := p.Args["orderInput"].(map[string]interface{})
					if !ok {
						return nil, fmt.Errorf("orderInput must be an object")
					}
					input, err := decodeOrderInput(raw)
					if err != nil {
						return nil, err
					}
					return orders.CreateOrder(p.Context, input), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
		Types: []graphql.Type{
			ts.objects["ClothesProduct"],
			ts.objects["TechProduct"],
			ts.objects["GenericProduct"],
			ts.objects["ClothesCategory"],
			ts.objects["TechCategory"],
			ts.objects["SwatchAttribute"],
			ts.objects["TextAttribute"],
		},
	})
}

func stringArg(p graphql.ResolveParams, name string) string {
	if v, ok := p.Args[name].(string); ok {
		return v
	}
	return ""
}

func intArg(p graphql.ResolveParams, name string) int {
	switch v := p.Args[name].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func stringListArg(p graphql.ResolveParams, name string) []string {
	raw, ok := p.Args[name].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// decodeOrderInput converts the coerced argument map into the typed order
// input. Numeric values arrive as int or float64 depending on whether they
// came from literals or variables.
func decodeOrderInput(raw map[string]interface{}) (*service.CreateOrderInput, error) {
	input := &service.CreateOrderInput{}

	if email, ok := raw["customerEmail"].(string); ok {
		input.CustomerEmail = email
	}
	if currency, ok := raw["currency"].(string); ok {
		input.Currency = currency
	}

	total, err := decimalValue(raw["totalAmount"])
	if err != nil {
		return nil, fmt.Errorf("totalAmount: %w", err)
	}
	input.TotalAmount = total

	rawItems, _ := raw["items"].([]interface{})
	for i, rawItem := range rawItems {
		itemMap, ok := rawItem.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("items[%d] must be an object", i)
		}
		item, err := decodeOrderItemInput(itemMap)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		input.Items = append(input.Items, item)
	}

	return input, nil
}

func decodeOrderItemInput(raw map[string]interface{}) (service.OrderItemInput, error) {
	item := service.OrderItemInput{}

	if id, ok := raw["productId"].(string); ok {
		item.ProductID = id
	}

	switch q := raw["quantity"].(type) {
	case int:
		item.Quantity = q
	case float64:
		item.Quantity = int(q)
	}

	price, err := decimalValue(raw["price"])
	if err != nil {
		return item, fmt.Errorf("price: %w", err)
	}
	item.Price = price

	if rawSelections, ok := raw["selectedAttributes"].([]interface{}); ok {
		item.SelectedAttributes = make(map[string]string, len(rawSelections))
		for _, rawSel := range rawSelections {
			sel, ok := rawSel.(map[string]interface{})
			if !ok {
				continue
			}
			attrID, _ := sel["attributeId"].(string)
			itemID, _ := sel["itemId"].(string)
			if attrID != "" {
				item.SelectedAttributes[attrID] = itemID
			}
		}
	}

	return item, nil
}

func decimalValue(v interface{}) (decimal.Decimal, error) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case string:
		return decimal.NewFromString(n)
	case nil:
		return decimal.Zero, nil
	}
	return decimal.Zero, fmt.Errorf("unsupported numeric value %T", v)
}
