package repo

import (
	"context"

	"github.com/chronosphere777/chronosphere/internal/domain"
)

type ShopRepository interface {
	GetByID(ctx context.Context, shopID string) (*domain.Shop, error)
	ListAll(ctx context.Context) ([]domain.Shop, error)
	ListByCity(ctx context.Context, city string) ([]domain.Shop, error)
	ListCategories(ctx context.Context, city string) ([]string, error)
	// ListWithSource returns shops that have a registered catalog source
	// URL, the candidates for catalog refills.
	ListWithSource(ctx context.Context) ([]domain.Shop, error)
	// CityBounds groups shops by city and returns bounding boxes ranked
	// by shop count, densest first.
	CityBounds(ctx context.Context, limit int) ([]domain.CityBounds, error)
	Upsert(ctx context.Context, shop *domain.Shop) error
	Delete(ctx context.Context, shopID string) error
	// Reconcile replaces the directory with the given set: shops present
	// are upserted, shops absent are deleted. Returns (synced, deleted).
	Reconcile(ctx context.Context, shops []domain.Shop) (int, int, error)
}
