package service

import (
	"context"
	"errors"
	"testing"

	"github.com/chronosphere777/chronosphere/internal/domain"
	"github.com/chronosphere777/chronosphere/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeTaskRepo struct {
	tasks map[primitive.ObjectID]*domain.SyncTask
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[primitive.ObjectID]*domain.SyncTask{}}
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *domain.SyncTask) error {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SyncTask, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return task, nil
}

func (f *fakeTaskRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.SyncTaskStatus, errorMsg string) error {
	task, ok := f.tasks[id]
	if !ok {
		return domain.ErrNotFound
	}
	task.Status = status
	task.ErrorMessage = errorMsg
	return nil
}

func (f *fakeTaskRepo) Complete(ctx context.Context, id primitive.ObjectID, synced, deleted int) error {
	task, ok := f.tasks[id]
	if !ok {
		return domain.ErrNotFound
	}
	task.Status = domain.StatusCompleted
	task.Synced = synced
	task.Deleted = deleted
	return nil
}

func (f *fakeTaskRepo) IncrementRetryCount(ctx context.Context, id primitive.ObjectID) error {
	task, ok := f.tasks[id]
	if !ok {
		return domain.ErrNotFound
	}
	task.RetryCount++
	return nil
}

type fakeBroker struct {
	published map[string][][]byte
	err       error
}

func (f *fakeBroker) Publish(ctx context.Context, queueName string, message []byte) error {
	if f.err != nil {
		return f.err
	}
	if f.published == nil {
		f.published = map[string][][]byte{}
	}
	f.published[queueName] = append(f.published[queueName], message)
	return nil
}

func (f *fakeBroker) Subscribe(ctx context.Context, queueName string, handler queue.MessageHandler) error {
	return nil
}

func (f *fakeBroker) Close() error { return nil }

func newTestDirectoryService(shops *fakeShopRepo, tasks *fakeTaskRepo, fetcher *fakeSheetFetcher, broker *fakeBroker) *DirectoryService {
	return NewDirectoryService(shops, tasks, fetcher, broker, "main-sheet", zap.NewNop().Sugar())
}

func TestEnqueueSyncPublishesMessage(t *testing.T) {
	tasks := newFakeTaskRepo()
	broker := &fakeBroker{}

	svc := newTestDirectoryService(&fakeShopRepo{}, tasks, &fakeSheetFetcher{}, broker)

	taskID, err := svc.EnqueueSync(context.Background())
	require.NoError(t, err)
	assert.False(t, taskID.IsZero())

	require.Len(t, broker.published[queue.QueueDirectorySync], 1)

	task, err := tasks.GetByID(context.Background(), taskID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusQueued, task.Status)
}

func TestEnqueueSyncPublishFailureMarksTaskFailed(t *testing.T) {
	tasks := newFakeTaskRepo()
	broker := &fakeBroker{err: errors.New("broker down")}

	svc := newTestDirectoryService(&fakeShopRepo{}, tasks, &fakeSheetFetcher{}, broker)

	_, err := svc.EnqueueSync(context.Background())
	require.Error(t, err)

	require.Len(t, tasks.tasks, 1)
	for _, task := range tasks.tasks {
		assert.Equal(t, domain.StatusFailed, task.Status)
	}
}

func TestProcessSyncTaskReconciles(t *testing.T) {
	shops := &fakeShopRepo{shops: []domain.Shop{{ShopID: "old", Name: "Old Shop", City: "Тюмень"}}}
	tasks := newFakeTaskRepo()
	fetcher := &fakeSheetFetcher{rows: [][]string{
		{},
		{"tyumen", "Обувь"},
		{"", "", "New Shop", "", "shop-new"},
	}}

	svc := newTestDirectoryService(shops, tasks, fetcher, &fakeBroker{})

	task := &domain.SyncTask{Status: domain.StatusQueued}
	require.NoError(t, tasks.Create(context.Background(), task))

	err := svc.ProcessSyncTask(context.Background(), task.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, task.Status)
	assert.Equal(t, 1, task.Synced)

	require.Len(t, shops.shops, 1)
	assert.Equal(t, "shop-new", shops.shops[0].ShopID)
	assert.Equal(t, "Тюмень", shops.shops[0].City)
}

func TestProcessSyncTaskFetchFailure(t *testing.T) {
	tasks := newFakeTaskRepo()
	fetcher := &fakeSheetFetcher{err: errors.New("sheet unavailable")}

	svc := newTestDirectoryService(&fakeShopRepo{}, tasks, fetcher, &fakeBroker{})

	task := &domain.SyncTask{Status: domain.StatusQueued}
	require.NoError(t, tasks.Create(context.Background(), task))

	err := svc.ProcessSyncTask(context.Background(), task.ID)
	require.Error(t, err)
	assert.Equal(t, domain.StatusFailed, task.Status)
	assert.Contains(t, task.ErrorMessage, "sheet unavailable")
}

func TestProcessSyncTaskUnknownTask(t *testing.T) {
	svc := newTestDirectoryService(&fakeShopRepo{}, newFakeTaskRepo(), &fakeSheetFetcher{}, &fakeBroker{})

	err := svc.ProcessSyncTask(context.Background(), primitive.NewObjectID())
	assert.Error(t, err)
}

func TestListWholesaleDoesNotPersist(t *testing.T) {
	shops := &fakeShopRepo{}
	fetcher := &fakeSheetFetcher{rows: [][]string{
		{},
		{"tyumen", "ОПТ"},
		{"", "", "Wholesale One", "", "w-1"},
	}}

	svc := newTestDirectoryService(shops, newFakeTaskRepo(), fetcher, &fakeBroker{})

	result, err := svc.ListWholesale(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "w-1", result[0].ShopID)

	assert.Empty(t, shops.shops)
}
