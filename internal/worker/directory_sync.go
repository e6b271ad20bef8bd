package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chronosphere777/chronosphere/internal/domain"
	"github.com/chronosphere777/chronosphere/internal/queue"
	"github.com/chronosphere777/chronosphere/internal/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type DirectorySyncWorker struct {
	directoryService *service.DirectoryService
	broker           queue.Broker
	logger           *zap.SugaredLogger
	ctx              context.Context
	cancel           context.CancelFunc
}

func NewDirectorySyncWorker(
	directoryService *service.DirectoryService,
	broker queue.Broker,
	logger *zap.SugaredLogger,
) *DirectorySyncWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &DirectorySyncWorker{
		directoryService: directoryService,
		broker:           broker,
		logger:           logger,
		ctx:              ctx,
		cancel:           cancel,
	}
}

func (w *DirectorySyncWorker) Start() error {
	w.logger.Info("starting directory sync worker")

	return w.broker.Subscribe(w.ctx, queue.QueueDirectorySync, w.handleMessage)
}

func (w *DirectorySyncWorker) Stop() {
	w.logger.Info("stopping directory sync worker")
	w.cancel()
}

func (w *DirectorySyncWorker) handleMessage(ctx context.Context, message []byte) error {
	var msg domain.DirectorySyncMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		w.logger.Errorw("failed to unmarshal message", "error", err)
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	w.logger.Infow("processing directory sync message", "task_id", msg.TaskID)

	taskID, err := primitive.ObjectIDFromHex(msg.TaskID)
	if err != nil {
		w.logger.Errorw("invalid task ID", "task_id", msg.TaskID, "error", err)
		return fmt.Errorf("invalid task ID: %w", err)
	}

	if err := w.directoryService.ProcessSyncTask(ctx, taskID); err != nil {
		w.logger.Errorw("failed to process sync task", "task_id", msg.TaskID, "error", err)
		return err
	}

	return nil
}
