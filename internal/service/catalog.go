package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/chronosphere777/chronosphere/internal/domain"
	"github.com/chronosphere777/chronosphere/internal/parser"
	"github.com/chronosphere777/chronosphere/internal/repo"
	"github.com/chronosphere777/chronosphere/internal/sheets"
	"go.uber.org/zap"
)

const (
	// catalogReadRange covers hierarchy columns A-G plus name, price,
	// description and photo.
	catalogReadRange = "A1:K1500"

	// catalogStaleness is how old a shop's cached catalog may get before
	// a refill picks it up.
	catalogStaleness = 6 * time.Hour

	refillTimeout = 2 * time.Minute
)

type CatalogService struct {
	shopRepo      repo.ShopRepository
	productRepo   repo.ProductRepository
	freshnessRepo repo.FreshnessRepository
	cache         *sheets.ReadCache
	parserCfg     parser.CatalogConfig
	logger        *zap.SugaredLogger
	now           func() time.Time
}

func NewCatalogService(
	shopRepo repo.ShopRepository,
	productRepo repo.ProductRepository,
	freshnessRepo repo.FreshnessRepository,
	cache *sheets.ReadCache,
	logger *zap.SugaredLogger,
) *CatalogService {
	return &CatalogService{
		shopRepo:      shopRepo,
		productRepo:   productRepo,
		freshnessRepo: freshnessRepo,
		cache:         cache,
		parserCfg:     parser.DefaultCatalogConfig(),
		logger:        logger,
		now:           time.Now,
	}
}

// ReadCatalog returns the shop's cached products. A shop whose catalog was
// never built yet is served a live fetch so the first reader does not see
// an empty page; the fetched set is not persisted here, the refill loop
// owns writes.
func (s *CatalogService) ReadCatalog(ctx context.Context, shopID string) ([]domain.Product, error) {
	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.ListByShop(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	if len(products) == 0 && shop.SpreadsheetURL != "" {
		live, err := s.fetchCatalog(ctx, shop)
		if err != nil {
			s.logger.Warnw("live catalog fetch failed", "shop_id", shopID, "error", err)
			return []domain.Product{}, nil
		}
		return live, nil
	}

	return products, nil
}

// TriggerRefill kicks one refill cycle in the background. Callers never
// wait on it and never see its errors.
func (s *CatalogService) TriggerRefill() {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Errorw("catalog refill panicked", "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), refillTimeout)
		defer cancel()

		if err := s.RefillOneDueShop(ctx); err != nil {
			s.logger.Warnw("catalog refill failed", "error", err)
		}
	}()
}

// RefillOneDueShop rebuilds the catalog of the single most-overdue shop.
// Shops with no freshness record come first, then stale ones oldest
// first; ties break on shop id so concurrent runs converge on the same
// pick. Doing one shop per call spreads upstream reads across request
// traffic instead of bursting them.
func (s *CatalogService) RefillOneDueShop(ctx context.Context) error {
	shops, err := s.shopRepo.ListWithSource(ctx)
	if err != nil {
		return fmt.Errorf("failed to list shops: %w", err)
	}

	records, err := s.freshnessRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load freshness records: %w", err)
	}

	shop := pickDueShop(shops, records, s.now())
	if shop == nil {
		return nil
	}

	products, err := s.fetchCatalog(ctx, shop)
	if err != nil {
		stampErr := s.freshnessRepo.Upsert(ctx, domain.CatalogFreshness{
			ShopID:      shop.ShopID,
			LastUpdated: s.now(),
			Status:      domain.FreshnessFailed,
		})
		if stampErr != nil {
			s.logger.Errorw("failed to stamp failed refresh", "shop_id", shop.ShopID, "error", stampErr)
		}
		return fmt.Errorf("failed to fetch catalog for %s: %w", shop.ShopID, err)
	}

	freshness := domain.CatalogFreshness{
		ShopID:      shop.ShopID,
		LastUpdated: s.now(),
		Status:      domain.FreshnessSuccess,
	}

	if err := s.productRepo.ReplaceForShop(ctx, shop.ShopID, products, freshness); err != nil {
		return fmt.Errorf("failed to store catalog for %s: %w", shop.ShopID, err)
	}

	s.logger.Infow("catalog refreshed", "shop_id", shop.ShopID, "products", len(products))

	return nil
}

func pickDueShop(shops []domain.Shop, records map[string]domain.CatalogFreshness, now time.Time) *domain.Shop {
	var due []domain.Shop
	for _, shop := range shops {
		rec, ok := records[shop.ShopID]
		if !ok || now.Sub(rec.LastUpdated) >= catalogStaleness {
			due = append(due, shop)
		}
	}
	if len(due) == 0 {
		return nil
	}

	sort.Slice(due, func(i, j int) bool {
		ri, iKnown := records[due[i].ShopID]
		rj, jKnown := records[due[j].ShopID]
		if iKnown != jKnown {
			return !iKnown
		}
		if iKnown && !ri.LastUpdated.Equal(rj.LastUpdated) {
			return ri.LastUpdated.Before(rj.LastUpdated)
		}
		return due[i].ShopID < due[j].ShopID
	})

	return &due[0]
}

func (s *CatalogService) fetchCatalog(ctx context.Context, shop *domain.Shop) ([]domain.Product, error) {
	spreadsheetID, ok := sheets.ExtractSpreadsheetID(shop.SpreadsheetURL)
	if !ok {
		return nil, fmt.Errorf("shop %s has no usable spreadsheet URL", shop.ShopID)
	}

	var sheetGID *int64
	if gid, ok := sheets.ExtractSheetGID(shop.SpreadsheetURL); ok {
		sheetGID = &gid
	}

	rows, err := s.cache.Get(ctx, spreadsheetID, catalogReadRange, sheetGID)
	if err != nil {
		return nil, err
	}

	parsed := parser.ParseCatalog(rows, s.parserCfg)

	now := s.now()
	products := make([]domain.Product, 0, len(parsed))
	for _, p := range parsed {
		if p.Name == "" {
			continue
		}
		p.ShopID = shop.ShopID
		p.PriceNumeric = parser.ParsePrice(p.Price)
		p.UpdatedAt = now
		products = append(products, p)
	}

	return products, nil
}

// CacheStatus reports both halves of the catalog pipeline: freshness of
// what is stored and the state of the upstream read cache.
type CacheStatus struct {
	TotalProducts  int64                     `json:"total_products"`
	SuccessShops   int64                     `json:"success_shops"`
	FailedShops    int64                     `json:"failed_shops"`
	RecentUpdates  []domain.CatalogFreshness `json:"recent_updates"`
	SourceCacheLen int                       `json:"source_cache_entries"`
	SourceCacheTTL float64                   `json:"source_cache_ttl_seconds"`
	SourceEntries  []sheets.EntryInfo        `json:"source_cache"`
}

func (s *CatalogService) CacheStatus(ctx context.Context) (*CacheStatus, error) {
	total, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	success, err := s.freshnessRepo.CountByStatus(ctx, domain.FreshnessSuccess)
	if err != nil {
		return nil, fmt.Errorf("failed to count successful updates: %w", err)
	}

	failed, err := s.freshnessRepo.CountByStatus(ctx, domain.FreshnessFailed)
	if err != nil {
		return nil, fmt.Errorf("failed to count failed updates: %w", err)
	}

	recent, err := s.freshnessRepo.RecentUpdates(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent updates: %w", err)
	}

	return &CacheStatus{
		TotalProducts:  total,
		SuccessShops:   success,
		FailedShops:    failed,
		RecentUpdates:  recent,
		SourceCacheLen: s.cache.Len(),
		SourceCacheTTL: s.cache.TTL().Seconds(),
		SourceEntries:  s.cache.Stats(),
	}, nil
}

// ClearCaches drops every cached product, freshness record and source
// read. The next reads rebuild everything from upstream.
func (s *CatalogService) ClearCaches(ctx context.Context) error {
	if err := s.productRepo.DeleteAll(ctx); err != nil {
		return err
	}
	if err := s.freshnessRepo.DeleteAll(ctx); err != nil {
		return err
	}
	s.cache.Clear()
	return nil
}
