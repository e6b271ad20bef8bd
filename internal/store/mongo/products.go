package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/chronosphere777/chronosphere/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProductRepository struct {
	storage    *Storage
	collection *mongo.Collection
	freshness  *mongo.Collection
}

func NewProductRepository(storage *Storage) *ProductRepository {
	return &ProductRepository{
		storage:    storage,
		collection: storage.Database().Collection(collectionProducts),
		freshness:  storage.Database().Collection(collectionFreshness),
	}
}

func (r *ProductRepository) ListByShop(ctx context.Context, shopID string) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"shop_id": shopID},
		options.Find().SetSort(bson.D{{Key: "row_index", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []domain.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

// ReplaceForShop swaps the shop's whole catalog and stamps its freshness
// record inside one session transaction. Concurrent readers observe
// either the fully-old or the fully-new set, never a mix; a crash before
// commit leaves the previous catalog intact.
func (r *ProductRepository) ReplaceForShop(ctx context.Context, shopID string, products []domain.Product, freshness domain.CatalogFreshness) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	session, err := r.storage.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.collection.DeleteMany(sc, bson.M{"shop_id": shopID}); err != nil {
			return nil, fmt.Errorf("failed to delete old products: %w", err)
		}

		if len(products) > 0 {
			docs := make([]interface{}, len(products))
			for i := range products {
				products[i].ShopID = shopID
				docs[i] = products[i]
			}
			if _, err := r.collection.InsertMany(sc, docs); err != nil {
				return nil, fmt.Errorf("failed to insert products: %w", err)
			}
		}

		_, err := r.freshness.ReplaceOne(
			sc,
			bson.M{"shop_id": shopID},
			freshness,
			options.Replace().SetUpsert(true),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to stamp freshness: %w", err)
		}

		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace catalog for %s: %w", shopID, err)
	}

	return nil
}

func (r *ProductRepository) Search(ctx context.Context, words []string, limit int) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	conditions := bson.A{}
	for _, word := range words {
		quoted := regexp.QuoteMeta(word)
		conditions = append(conditions, bson.M{"$or": bson.A{
			bson.M{"product_name": bson.M{"$regex": quoted, "$options": "i"}},
			bson.M{"category_path": bson.M{"$regex": quoted, "$options": "i"}},
		}})
	}

	cursor, err := r.collection.Find(ctx, bson.M{"$and": conditions},
		options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []domain.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return count, nil
}

func (r *ProductRepository) DeleteAll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to delete products: %w", err)
	}

	return nil
}
