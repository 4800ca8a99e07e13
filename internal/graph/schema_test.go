package graph

import (
	"context"
	"strings"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/attrs"
	"catalog-service/internal/catalog"
	"catalog-service/internal/models"
	"catalog-service/internal/service"
)

type staticProducts struct {
	category string
	products []models.Product
}

func (s *staticProducts) Variant() string      { return "static" }
func (s *staticProducts) CategoryName() string { return s.category }
func (s *staticProducts) FindAll(context.Context) ([]models.Product, error) {
	return s.products, nil
}

type staticCategories struct {
	categories []models.Category
}

func (s *staticCategories) Variant() string { return "static" }
func (s *staticCategories) FindAll(context.Context) ([]models.Category, error) {
	return s.categories, nil
}

type staticAttributes struct {
	sets []attrs.Set
}

func (s *staticAttributes) Variant() string { return "static" }
func (s *staticAttributes) FindAll(context.Context) ([]attrs.Set, error) {
	return s.sets, nil
}

type memoryTx struct {
	order *models.Order
	items []*models.OrderItem
}

func (tx *memoryTx) InsertOrder(_ context.Context, order *models.Order) error {
	tx.order = order
	return nil
}

func (tx *memoryTx) InsertOrderItem(_ context.Context, item *models.OrderItem) error {
	tx.items = append(tx.items, item)
	return nil
}

func (tx *memoryTx) Commit() error   { return nil }
func (tx *memoryTx) Rollback() error { return nil }

type memoryOrderStore struct {
	orders map[string]*models.Order
}

func (s *memoryOrderStore) Begin(context.Context) (service.OrderTx, error) {
	return &memoryTx{}, nil
}

func (s *memoryOrderStore) GetOrder(_ context.Context, id string) (*models.Order, error) {
	if order, ok := s.orders[id]; ok {
		return order, nil
	}
	return nil, &notFoundError{id: id}
}

type notFoundError struct{ id string }

func (e *notFoundError) Error() string { return "order not found: " + e.id }

func testSchema(t *testing.T) graphql.Schema {
	t.Helper()

	sizeSet := attrs.Normalize(attrs.Set{
		ID:   "size-shirt",
		Name: "Size",
		Kind: attrs.KindText,
		Items: []attrs.Item{
			{ID: "L", DisplayValue: "L", RawValue: "L"},
			{ID: "S", DisplayValue: "S", RawValue: "S"},
			{ID: "M", DisplayValue: "M", RawValue: "M"},
		},
	})
	colorSet := attrs.Normalize(attrs.Set{
		ID:   "color-shirt",
		Name: "Color",
		Kind: attrs.KindSwatch,
		Items: []attrs.Item{
			{ID: "green", DisplayValue: "Green", RawValue: "#44FF03"},
		},
	})

	shirt := &models.ClothingProduct{ProductCore: models.ProductCore{
		ID:           "shirt-1",
		Name:         "Cotton White T-Shirt",
		Brand:        "Plain",
		CategoryName: "clothes",
		InStock:      true,
		Prices: []models.Price{
			{Amount: decimal.NewFromFloat(19.90), CurrencyCode: "USD", CurrencyLabel: "US Dollar", CurrencySymbol: "$"},
		},
		Attributes: []attrs.Set{sizeSet, colorSet},
	}}
	console := &models.TechProduct{ProductCore: models.ProductCore{
		ID:           "console-1",
		Name:         "PlayStation 5",
		Brand:        "Sony",
		CategoryName: "tech",
		InStock:      true,
		Attributes: []attrs.Set{{
			ID:   "capacity-console",
			Name: "Capacity",
			Kind: attrs.KindText,
			Items: []attrs.Item{
				{ID: "512G", DisplayValue: "512G", RawValue: "512G"},
				{ID: "1T", DisplayValue: "1T", RawValue: "1T"},
			},
		}},
	}}
	book := &models.GenericProduct{ProductCore: models.ProductCore{
		ID:      "book-1",
		Name:    "Go in Practice",
		InStock: false,
	}}

	catalogSvc := catalog.NewService(
		[]catalog.ProductSource{
			&staticProducts{category: "clothes", products: []models.Product{shirt}},
			&staticProducts{category: "tech", products: []models.Product{console}},
			&staticProducts{products: []models.Product{book}},
		},
		[]catalog.CategorySource{
			&staticCategories{categories: []models.Category{
				&models.ClothingCategory{CategoryCore: models.CategoryCore{ID: "clothes", Name: "Clothes", IsActive: true}},
				&models.TechCategory{CategoryCore: models.CategoryCore{ID: "tech", Name: "Tech", IsActive: true, Metadata: map[string]string{"hasVariants": "true"}}},
			}},
		},
		[]catalog.AttributeSource{
			&staticAttributes{sets: []attrs.Set{sizeSet, colorSet}},
		},
	)

	orderSvc := service.NewOrderService(&memoryOrderStore{}, nil)

	schema, err := NewSchema(catalogSvc, orderSvc, 0)
	require.NoError(t, err)
	return schema
}

func execute(t *testing.T, schema graphql.Schema, query string) *graphql.Result {
	t.Helper()
	return graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: query,
		Context:       context.Background(),
	})
}

func TestProductsQueryResolvesConcreteTypes(t *testing.T) {
	schema := testSchema(t)

	result := execute(t, schema, `{
		products {
			__typename
			id
			name
			... on ClothesProduct { sizeGuide availableSizes }
			... on TechProduct { specifications }
		}
	}`)
	require.Empty(t, result.Errors)

	data := result.Data.(map[string]interface{})
	products := data["products"].([]interface{})
	require.Len(t, products, 3)

	shirt := products[0].(map[string]interface{})
	assert.Equal(t, "ClothesProduct", shirt["__typename"])
	assert.Equal(t, "S, M, L", shirt["sizeGuide"])
	sizes := shirt["availableSizes"].([]interface{})
	assert.Equal(t, []interface{}{"S", "M", "L"}, sizes)

	console := products[1].(map[string]interface{})
	assert.Equal(t, "TechProduct", console["__typename"])
	specs := console["specifications"].([]interface{})
	require.Len(t, specs, 1)
	assert.Equal(t, "Capacity: 512G, 1T", specs[0])

	book := products[2].(map[string]interface{})
	assert.Equal(t, "GenericProduct", book["__typename"])
}

func TestProductsQueryFiltersByCategory(t *testing.T) {
	schema := testSchema(t)

	result := execute(t, schema, `{ products(category: "tech") { id } }`)
	require.Empty(t, result.Errors)

	products := result.Data.(map[string]interface{})["products"].([]interface{})
	require.Len(t, products, 1)
	assert.Equal(t, "console-1", products[0].(map[string]interface{})["id"])
}

func TestProductQueryNullForUnknownID(t *testing.T) {
	schema := testSchema(t)

	result := execute(t, schema, `{ product(id: "missing") { id } }`)
	require.Empty(t, result.Errors)
	assert.Nil(t, result.Data.(map[string]interface{})["product"])
}

func TestProductPricesAndAttributeRefs(t *testing.T) {
	schema := testSchema(t)

	result := execute(t, schema, `{
		product(id: "shirt-1") {
			attributes
			prices { amount code symbol }
		}
	}`)
	require.Empty(t, result.Errors)

	product := result.Data.(map[string]interface{})["product"].(map[string]interface{})
	assert.Equal(t, []interface{}{"size-shirt", "color-shirt"}, product["attributes"].([]interface{}))

	prices := product["prices"].([]interface{})
	require.Len(t, prices, 1)
	price := prices[0].(map[string]interface{})
	assert.InDelta(t, 19.90, price["amount"], 0.001)
	assert.Equal(t, "USD", price["code"])
	assert.Equal(t, "$", price["symbol"])
}

func TestCategoriesQueryResolvesDisplayName(t *testing.T) {
	schema := testSchema(t)

	result := execute(t, schema, `{
		categories {
			__typename
			displayName
			... on TechCategory { metadata { key value } }
		}
	}`)
	require.Empty(t, result.Errors)

	categories := result.Data.(map[string]interface{})["categories"].([]interface{})
	require.Len(t, categories, 2)

	clothes := categories[0].(map[string]interface{})
	assert.Equal(t, "ClothesCategory", clothes["__typename"])
	assert.Equal(t, "Clothes", clothes["displayName"])

	tech := categories[1].(map[string]interface{})
	assert.Equal(t, "TechCategory", tech["__typename"])
	assert.Equal(t, "💻 Tech", tech["displayName"])
	entries := tech["metadata"].([]interface{})
	require.Len(t, entries, 1)
	assert.Equal(t, "hasVariants", entries[0].(map[string]interface{})["key"])
}

func TestAttributesQueryResolvesKinds(t *testing.T) {
	schema := testSchema(t)

	result := execute(t, schema, `{
		attributes {
			__typename
			id
			items { id displayValue value isColorSwatch }
		}
	}`)
	require.Empty(t, result.Errors)

	sets := result.Data.(map[string]interface{})["attributes"].([]interface{})
	require.Len(t, sets, 2)

	size := sets[0].(map[string]interface{})
	assert.Equal(t, "TextAttribute", size["__typename"])

	color := sets[1].(map[string]interface{})
	assert.Equal(t, "SwatchAttribute", color["__typename"])
	items := color["items"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, true, item["isColorSwatch"])
	assert.Equal(t, "#44FF03", item["value"])
}

func TestAttributesByIdsQuery(t *testing.T) {
	schema := testSchema(t)

	result := execute(t, schema, `{ attributesByIds(ids: ["color-shirt"]) { id } }`)
	require.Empty(t, result.Errors)

	sets := result.Data.(map[string]interface{})["attributesByIds"].([]interface{})
	require.Len(t, sets, 1)
	assert.Equal(t, "color-shirt", sets[0].(map[string]interface{})["id"])
}

func TestCreateOrderMutation(t *testing.T) {
	schema := testSchema(t)

	result := execute(t, schema, `mutation {
		createOrder(orderInput: {
			customerEmail: "jane@example.com",
			totalAmount: 39.80,
			items: [{
				productId: "shirt-1",
				quantity: 2,
				price: 19.90,
				selectedAttributes: [{attributeId: "size-shirt", itemId: "M"}]
			}]
		}) {
			success
			orderId
			message
		}
	}`)
	require.Empty(t, result.Errors)

	payload := result.Data.(map[string]interface{})["createOrder"].(map[string]interface{})
	assert.Equal(t, true, payload["success"])
	orderID, ok := payload["orderId"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(orderID, "order_"))
}

func TestCreateOrderMutationValidationFailure(t *testing.T) {
	schema := testSchema(t)

	result := execute(t, schema, `mutation {
		createOrder(orderInput: {
			customerEmail: "",
			totalAmount: 10,
			items: [{productId: "shirt-1", quantity: 1, price: 10}]
		}) {
			success
			orderId
			message
		}
	}`)
	require.Empty(t, result.Errors)

	payload := result.Data.(map[string]interface{})["createOrder"].(map[string]interface{})
	assert.Equal(t, false, payload["success"])
	assert.Nil(t, payload["orderId"])
	assert.Equal(t, "customerEmail is required", payload["message"])
}

func TestMalformedQueryReturnsErrors(t *testing.T) {
	schema := testSchema(t)

	result := execute(t, schema, `{ products { nope } }`)
	assert.NotEmpty(t, result.Errors)
}
