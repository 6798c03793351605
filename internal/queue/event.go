// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into an audit trail.
package queue

// TaskCompletedEvent is published when a task transitions to completed.
// It carries enough for downstream consumers to log or notify without
// querying the primary database.
type TaskCompletedEvent struct {
	TaskID      int64  `json:"task_id"`
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	Title       string `json:"title"`
	CompletedAt string `json:"completed_at"`
}
