package repo

import (
	"context"

	"github.com/chronosphere777/chronosphere/internal/domain"
)

type ProductRepository interface {
	// ListByShop is the pure catalog lookup: cached products or an empty
	// slice, never network I/O.
	ListByShop(ctx context.Context, shopID string) ([]domain.Product, error)
	// ReplaceForShop atomically swaps shopID's whole product set and
	// stamps its freshness record in the same transaction. A failure
	// mid-replace leaves the previous catalog intact.
	ReplaceForShop(ctx context.Context, shopID string, products []domain.Product, freshness domain.CatalogFreshness) error
	// Search matches every word against product name and category path,
	// case-insensitive, up to limit rows.
	Search(ctx context.Context, words []string, limit int) ([]domain.Product, error)
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
}
