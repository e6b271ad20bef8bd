package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/chronosphere777/chronosphere/internal/domain"
	"github.com/chronosphere777/chronosphere/internal/repo"
	"go.uber.org/zap"
)

const (
	// searchScanLimit caps how many product rows one query may pull from
	// the store before scoring.
	searchScanLimit = 200

	// searchResultLimit caps the response size after scoring.
	searchResultLimit = 100
)

const (
	SortRelevance = "relevance"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

type SearchService struct {
	shopRepo    repo.ShopRepository
	productRepo repo.ProductRepository
	catalog     *CatalogService
	logger      *zap.SugaredLogger
}

func NewSearchService(
	shopRepo repo.ShopRepository,
	productRepo repo.ProductRepository,
	catalog *CatalogService,
	logger *zap.SugaredLogger,
) *SearchService {
	return &SearchService{
		shopRepo:    shopRepo,
		productRepo: productRepo,
		catalog:     catalog,
		logger:      logger,
	}
}

type scoredResult struct {
	domain.SearchResult
	relevance int
}

// Search matches every query word against product names and category
// paths, enriches hits with their shop and orders them by the requested
// sort. Each call also nudges the catalog refill loop along.
func (s *SearchService) Search(ctx context.Context, query, sortBy string) ([]domain.SearchResult, error) {
	defer s.catalog.TriggerRefill()

	words := strings.Fields(strings.ToLower(strings.TrimSpace(query)))
	if len(words) == 0 {
		return []domain.SearchResult{}, nil
	}

	products, err := s.productRepo.Search(ctx, words, searchScanLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	shops, err := s.shopRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}
	shopsByID := make(map[string]domain.Shop, len(shops))
	for _, shop := range shops {
		shopsByID[shop.ShopID] = shop
	}

	normalized := strings.Join(words, " ")

	scored := make([]scoredResult, 0, len(products))
	for _, product := range products {
		result := domain.SearchResult{Product: product}
		if shop, ok := shopsByID[product.ShopID]; ok {
			result.ShopName = shop.Name
			result.ShopCategory = shop.Category
			result.City = shop.City
		}
		scored = append(scored, scoredResult{
			SearchResult: result,
			relevance:    relevance(product, normalized),
		})
	}

	sortResults(scored, sortBy)

	if len(scored) > searchResultLimit {
		scored = scored[:searchResultLimit]
	}

	results := make([]domain.SearchResult, len(scored))
	for i, r := range scored {
		results[i] = r.SearchResult
	}

	return results, nil
}

// relevance ranks by where the query lands in the product name: an exact
// name match beats a prefix match beats an interior match, and earlier
// positions beat later ones within each band. Category-only matches
// score zero and sink to the bottom.
func relevance(product domain.Product, query string) int {
	name := strings.ToLower(product.CategoryPath)
	if product.Name != "" {
		name = strings.ToLower(product.Name)
	}

	if name == query {
		return 10000
	}
	if idx := strings.Index(name, query); idx >= 0 {
		if idx == 0 {
			return 5000
		}
		return 1000 - idx
	}
	return 0
}

func sortResults(results []scoredResult, sortBy string) {
	switch sortBy {
	case SortPriceAsc:
		sort.SliceStable(results, func(i, j int) bool {
			pi, pj := results[i].PriceNumeric, results[j].PriceNumeric
			if (pi == nil) != (pj == nil) {
				return pi != nil
			}
			if pi == nil {
				return false
			}
			return *pi < *pj
		})
	case SortPriceDesc:
		sort.SliceStable(results, func(i, j int) bool {
			pi, pj := results[i].PriceNumeric, results[j].PriceNumeric
			if (pi == nil) != (pj == nil) {
				return pi != nil
			}
			if pi == nil {
				return false
			}
			return *pi > *pj
		})
	default:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].relevance > results[j].relevance
		})
	}
}
