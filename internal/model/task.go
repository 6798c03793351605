package model

import "time"

// Task mirrors the `tasks` table. UserID is the owning user, assigned at
// creation from the caller's identity and never transferable afterwards.
type Task struct {
	ID          int64     // tasks.id
	Title       string    // tasks.title
	Description string    // tasks.description
	Completed   bool      // tasks.completed
	UserID      int64     // tasks.user_id (owner)
	CreatedAt   time.Time // tasks.created_at
	UpdatedAt   time.Time // tasks.updated_at
}
