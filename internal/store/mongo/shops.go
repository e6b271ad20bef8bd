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

type ShopRepository struct {
	storage    *Storage
	collection *mongo.Collection
}

func NewShopRepository(storage *Storage) *ShopRepository {
	return &ShopRepository{
		storage:    storage,
		collection: storage.Database().Collection(collectionShops),
	}
}

func (r *ShopRepository) GetByID(ctx context.Context, shopID string) (*domain.Shop, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var shop domain.Shop
	err := r.collection.FindOne(ctx, bson.M{"shop_id": shopID}).Decode(&shop)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("shop %s: %w", shopID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}

	return &shop, nil
}

func (r *ShopRepository) ListAll(ctx context.Context) ([]domain.Shop, error) {
	return r.list(ctx, bson.M{})
}

func (r *ShopRepository) ListByCity(ctx context.Context, city string) ([]domain.Shop, error) {
	return r.list(ctx, bson.M{"city": city})
}

func (r *ShopRepository) ListWithSource(ctx context.Context) ([]domain.Shop, error) {
	return r.list(ctx, bson.M{"spreadsheet_url": bson.M{"$nin": bson.A{"", nil}}})
}

func (r *ShopRepository) list(ctx context.Context, filter bson.M) ([]domain.Shop, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}
	defer cursor.Close(ctx)

	shops := []domain.Shop{}
	if err := cursor.All(ctx, &shops); err != nil {
		return nil, fmt.Errorf("failed to decode shops: %w", err)
	}

	return shops, nil
}

func (r *ShopRepository) ListCategories(ctx context.Context, city string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"category": bson.M{"$nin": bson.A{"", nil}}}
	if city != "" {
		filter["city"] = city
	}

	raw, err := r.collection.Distinct(ctx, "category", filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}

	return categories, nil
}

func (r *ShopRepository) CityBounds(ctx context.Context, limit int) ([]domain.CityBounds, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$city"},
			{Key: "min_lat", Value: bson.D{{Key: "$min", Value: "$latitude"}}},
			{Key: "max_lat", Value: bson.D{{Key: "$max", Value: "$latitude"}}},
			{Key: "min_lng", Value: bson.D{{Key: "$min", Value: "$longitude"}}},
			{Key: "max_lng", Value: bson.D{{Key: "$max", Value: "$longitude"}}},
			{Key: "shop_count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "shop_count", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate city bounds: %w", err)
	}
	defer cursor.Close(ctx)

	bounds := []domain.CityBounds{}
	if err := cursor.All(ctx, &bounds); err != nil {
		return nil, fmt.Errorf("failed to decode city bounds: %w", err)
	}

	return bounds, nil
}

func (r *ShopRepository) Upsert(ctx context.Context, shop *domain.Shop) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	shop.UpdatedAt = time.Now()

	_, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"shop_id": shop.ShopID},
		shop,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert shop: %w", err)
	}

	return nil
}

func (r *ShopRepository) Delete(ctx context.Context, shopID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"shop_id": shopID})
	if err != nil {
		return fmt.Errorf("failed to delete shop: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("shop %s: %w", shopID, domain.ErrNotFound)
	}

	return nil
}

// Reconcile makes the stored directory match the given set wholesale:
// every shop in the set is upserted, every stored shop missing from it is
// deleted. Runs in one session transaction.
func (r *ShopRepository) Reconcile(ctx context.Context, shops []domain.Shop) (int, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	session, err := r.storage.StartSession()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	synced, deleted := 0, 0

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		keep := make([]string, 0, len(shops))
		now := time.Now()

		for i := range shops {
			shops[i].UpdatedAt = now
			keep = append(keep, shops[i].ShopID)

			_, err := r.collection.ReplaceOne(
				sc,
				bson.M{"shop_id": shops[i].ShopID},
				shops[i],
				options.Replace().SetUpsert(true),
			)
			if err != nil {
				return nil, fmt.Errorf("failed to upsert shop %s: %w", shops[i].ShopID, err)
			}
			synced++
		}

		result, err := r.collection.DeleteMany(sc, bson.M{"shop_id": bson.M{"$nin": keep}})
		if err != nil {
			return nil, fmt.Errorf("failed to delete absent shops: %w", err)
		}
		deleted = int(result.DeletedCount)

		return nil, nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to reconcile shops: %w", err)
	}

	return synced, deleted, nil
}
