package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/chronosphere777/chronosphere/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FreshnessRepository struct {
	collection *mongo.Collection
}

func NewFreshnessRepository(storage *Storage) *FreshnessRepository {
	return &FreshnessRepository{
		collection: storage.Database().Collection(collectionFreshness),
	}
}

func (r *FreshnessRepository) GetAll(ctx context.Context) (map[string]domain.CatalogFreshness, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog updates: %w", err)
	}
	defer cursor.Close(ctx)

	records := []domain.CatalogFreshness{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode catalog updates: %w", err)
	}

	byShop := make(map[string]domain.CatalogFreshness, len(records))
	for _, rec := range records {
		byShop[rec.ShopID] = rec
	}

	return byShop, nil
}

func (r *FreshnessRepository) Upsert(ctx context.Context, record domain.CatalogFreshness) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"shop_id": record.ShopID},
		record,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert catalog update: %w", err)
	}

	return nil
}

func (r *FreshnessRepository) CountByStatus(ctx context.Context, status domain.FreshnessStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"status": status})
	if err != nil {
		return 0, fmt.Errorf("failed to count catalog updates: %w", err)
	}

	return count, nil
}

func (r *FreshnessRepository) RecentUpdates(ctx context.Context, limit int) ([]domain.CatalogFreshness, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{},
		options.Find().
			SetSort(bson.D{{Key: "last_updated", Value: -1}}).
			SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("failed to list recent updates: %w", err)
	}
	defer cursor.Close(ctx)

	records := []domain.CatalogFreshness{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode recent updates: %w", err)
	}

	return records, nil
}

func (r *FreshnessRepository) DeleteAll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to delete catalog updates: %w", err)
	}

	return nil
}
