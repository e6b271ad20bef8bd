package repo

import (
	"context"

	"github.com/chronosphere777/chronosphere/internal/domain"
)

type FreshnessRepository interface {
	// GetAll returns every freshness record keyed by shop id. Shops with
	// no record have never been refreshed.
	GetAll(ctx context.Context) (map[string]domain.CatalogFreshness, error)
	// Upsert stamps a shop's record without touching its products. Used
	// for failed refreshes, where the old catalog stays in place.
	Upsert(ctx context.Context, record domain.CatalogFreshness) error
	CountByStatus(ctx context.Context, status domain.FreshnessStatus) (int64, error)
	// RecentUpdates returns the latest refresh records, newest first.
	RecentUpdates(ctx context.Context, limit int) ([]domain.CatalogFreshness, error)
	DeleteAll(ctx context.Context) error
}
