package domain

// DirectorySyncMessage is the queue payload for a directory sync task.
type DirectorySyncMessage struct {
	TaskID string `json:"task_id"`
}
