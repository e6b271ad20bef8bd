package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chronosphere777/chronosphere/internal/domain"
	"github.com/chronosphere777/chronosphere/internal/parser"
	"github.com/chronosphere777/chronosphere/internal/queue"
	"github.com/chronosphere777/chronosphere/internal/repo"
	"github.com/chronosphere777/chronosphere/internal/sheets"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	directoryReadRange = "A1:I1000"

	// wholesaleReadRange addresses the wholesale worksheet by title; its
	// rows use the same layout as the main directory.
	wholesaleReadRange = "'ОПТ'!A1:I1000"
)

type DirectoryService struct {
	shopRepo  repo.ShopRepository
	taskRepo  repo.SyncTaskRepository
	fetcher   sheets.Fetcher
	broker    queue.Broker
	parserCfg parser.DirectoryConfig
	mainSheet string
	logger    *zap.SugaredLogger
}

func NewDirectoryService(
	shopRepo repo.ShopRepository,
	taskRepo repo.SyncTaskRepository,
	fetcher sheets.Fetcher,
	broker queue.Broker,
	mainSheetID string,
	logger *zap.SugaredLogger,
) *DirectoryService {
	return &DirectoryService{
		shopRepo:  shopRepo,
		taskRepo:  taskRepo,
		fetcher:   fetcher,
		broker:    broker,
		parserCfg: parser.DefaultDirectoryConfig(),
		mainSheet: mainSheetID,
		logger:    logger,
	}
}

// EnqueueSync registers a sync task and hands it to the queue. The
// reconciliation itself happens in the worker.
func (s *DirectoryService) EnqueueSync(ctx context.Context) (primitive.ObjectID, error) {
	task := &domain.SyncTask{
		Status:     domain.StatusQueued,
		RetryCount: 0,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to create sync task: %w", err)
	}

	message := domain.DirectorySyncMessage{TaskID: task.ID.Hex()}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := s.broker.Publish(ctx, queue.QueueDirectorySync, messageBytes); err != nil {
		_ = s.taskRepo.UpdateStatus(ctx, task.ID, domain.StatusFailed, err.Error())
		return primitive.NilObjectID, fmt.Errorf("failed to publish message: %w", err)
	}

	s.logger.Infow("directory sync enqueued", "task_id", task.ID.Hex())

	return task.ID, nil
}

func (s *DirectoryService) GetTaskStatus(ctx context.Context, taskID primitive.ObjectID) (*domain.SyncTask, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	return task, nil
}

// ProcessSyncTask reconciles the shops collection against the main sheet:
// shops on the sheet are upserted, shops missing from it are deleted.
func (s *DirectoryService) ProcessSyncTask(ctx context.Context, taskID primitive.ObjectID) error {
	if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}

	if err := s.taskRepo.UpdateStatus(ctx, taskID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}

	s.logger.Infow("processing directory sync", "task_id", taskID.Hex())

	rows, err := s.fetcher.ReadRange(ctx, s.mainSheet, directoryReadRange, nil)
	if err != nil {
		s.logger.Errorw("failed to read directory sheet", "task_id", taskID.Hex(), "error", err)
		_ = s.taskRepo.UpdateStatus(ctx, taskID, domain.StatusFailed, err.Error())
		return fmt.Errorf("failed to read directory sheet: %w", err)
	}

	shops := parser.ParseDirectory(rows, s.parserCfg)
	now := time.Now()
	for i := range shops {
		shops[i].UpdatedAt = now
	}

	synced, deleted, err := s.shopRepo.Reconcile(ctx, shops)
	if err != nil {
		s.logger.Errorw("failed to reconcile shops", "task_id", taskID.Hex(), "error", err)
		_ = s.taskRepo.UpdateStatus(ctx, taskID, domain.StatusFailed, err.Error())
		return fmt.Errorf("failed to reconcile shops: %w", err)
	}

	if err := s.taskRepo.Complete(ctx, taskID, synced, deleted); err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}

	s.logger.Infow("directory sync completed", "task_id", taskID.Hex(), "synced", synced, "deleted", deleted)

	return nil
}

// ListWholesale reads the wholesale worksheet and returns its shops
// without persisting them.
func (s *DirectoryService) ListWholesale(ctx context.Context) ([]domain.Shop, error) {
	rows, err := s.fetcher.ReadRange(ctx, s.mainSheet, wholesaleReadRange, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read wholesale sheet: %w", err)
	}

	return parser.ParseDirectory(rows, s.parserCfg), nil
}

func (s *DirectoryService) AddShop(ctx context.Context, shop *domain.Shop) error {
	shop.UpdatedAt = time.Now()

	if err := s.shopRepo.Upsert(ctx, shop); err != nil {
		return fmt.Errorf("failed to add shop: %w", err)
	}

	s.logger.Infow("shop added", "shop_id", shop.ShopID, "city", shop.City)

	return nil
}

func (s *DirectoryService) DeleteShop(ctx context.Context, shopID string) error {
	if err := s.shopRepo.Delete(ctx, shopID); err != nil {
		return err
	}

	s.logger.Infow("shop deleted", "shop_id", shopID)

	return nil
}
