package repo

import (
	"context"

	"github.com/chronosphere777/chronosphere/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SyncTaskRepository interface {
	Create(ctx context.Context, task *domain.SyncTask) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SyncTask, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.SyncTaskStatus, errorMsg string) error
	// Complete records a successful run with its reconciliation counts.
	Complete(ctx context.Context, id primitive.ObjectID, synced, deleted int) error
	IncrementRetryCount(ctx context.Context, id primitive.ObjectID) error
}
