package service

import (
	"context"
	"testing"

	"github.com/chronosphere777/chronosphere/internal/domain"
	"github.com/chronosphere777/chronosphere/internal/sheets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSearchService(shops *fakeShopRepo, products *fakeProductRepo) *SearchService {
	logger := zap.NewNop().Sugar()
	cache := sheets.NewReadCache(&fakeSheetFetcher{}, sheets.CacheConfig{}, logger)
	catalog := NewCatalogService(shops, products, &fakeFreshnessRepo{}, cache, logger)
	return NewSearchService(shops, products, catalog, logger)
}

func TestSearchRelevanceOrder(t *testing.T) {
	shops := &fakeShopRepo{shops: []domain.Shop{
		{ShopID: "s1", Name: "Shoe Shop", Category: "Обувь", City: "Тюмень"},
	}}
	products := &fakeProductRepo{searchOut: []domain.Product{
		{ShopID: "s1", Name: "winter boots deluxe", CategoryPath: "Shoes"},
		{ShopID: "s1", Name: "boots", CategoryPath: "Shoes"},
		{ShopID: "s1", Name: "boots max", CategoryPath: "Shoes"},
		{ShopID: "s1", Name: "slippers", CategoryPath: "boots accessories"},
	}}

	svc := newTestSearchService(shops, products)

	results, err := svc.Search(context.Background(), "boots", SortRelevance)
	require.NoError(t, err)
	require.Len(t, results, 4)

	// Exact name, then prefix, then interior, then category-only match.
	assert.Equal(t, "boots", results[0].Name)
	assert.Equal(t, "boots max", results[1].Name)
	assert.Equal(t, "winter boots deluxe", results[2].Name)
	assert.Equal(t, "slippers", results[3].Name)
}

func TestSearchEnrichesWithShopInfo(t *testing.T) {
	shops := &fakeShopRepo{shops: []domain.Shop{
		{ShopID: "s1", Name: "Shoe Shop", Category: "Обувь", City: "Тюмень"},
	}}
	products := &fakeProductRepo{searchOut: []domain.Product{
		{ShopID: "s1", Name: "boots", CategoryPath: "Shoes"},
	}}

	svc := newTestSearchService(shops, products)

	results, err := svc.Search(context.Background(), "boots", SortRelevance)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "Shoe Shop", results[0].ShopName)
	assert.Equal(t, "Обувь", results[0].ShopCategory)
	assert.Equal(t, "Тюмень", results[0].City)
}

func TestSearchSortPriceAscNilLast(t *testing.T) {
	shops := &fakeShopRepo{}
	products := &fakeProductRepo{searchOut: []domain.Product{
		{Name: "boots c", PriceNumeric: fprice(300)},
		{Name: "boots no price"},
		{Name: "boots a", PriceNumeric: fprice(100)},
		{Name: "boots b", PriceNumeric: fprice(200)},
	}}

	svc := newTestSearchService(shops, products)

	results, err := svc.Search(context.Background(), "boots", SortPriceAsc)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, "boots a", results[0].Name)
	assert.Equal(t, "boots b", results[1].Name)
	assert.Equal(t, "boots c", results[2].Name)
	assert.Equal(t, "boots no price", results[3].Name)
}

func TestSearchSortPriceDescNilLast(t *testing.T) {
	shops := &fakeShopRepo{}
	products := &fakeProductRepo{searchOut: []domain.Product{
		{Name: "boots no price"},
		{Name: "boots a", PriceNumeric: fprice(100)},
		{Name: "boots b", PriceNumeric: fprice(200)},
	}}

	svc := newTestSearchService(shops, products)

	results, err := svc.Search(context.Background(), "boots", SortPriceDesc)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "boots b", results[0].Name)
	assert.Equal(t, "boots a", results[1].Name)
	assert.Equal(t, "boots no price", results[2].Name)
}

func TestSearchEmptyQuery(t *testing.T) {
	svc := newTestSearchService(&fakeShopRepo{}, &fakeProductRepo{})

	results, err := svc.Search(context.Background(), "   ", SortRelevance)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchCapsResults(t *testing.T) {
	out := make([]domain.Product, 150)
	for i := range out {
		out[i] = domain.Product{Name: "boots"}
	}

	svc := newTestSearchService(&fakeShopRepo{}, &fakeProductRepo{searchOut: out})

	results, err := svc.Search(context.Background(), "boots", SortRelevance)
	require.NoError(t, err)
	assert.Len(t, results, 100)
}

func fprice(v float64) *float64 {
	return &v
}
