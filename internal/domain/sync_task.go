package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SyncTaskStatus string

const (
	StatusQueued     SyncTaskStatus = "queued"
	StatusProcessing SyncTaskStatus = "processing"
	StatusCompleted  SyncTaskStatus = "completed"
	StatusFailed     SyncTaskStatus = "failed"
)

// SyncTask tracks one queued directory reconciliation run against the main
// spreadsheet.
type SyncTask struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Status       SyncTaskStatus     `bson:"status" json:"status"`
	Synced       int                `bson:"synced" json:"synced"`
	Deleted      int                `bson:"deleted" json:"deleted"`
	ErrorMessage string             `bson:"error_message,omitempty" json:"error_message,omitempty"`
	RetryCount   int                `bson:"retry_count" json:"retry_count"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}
