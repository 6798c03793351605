package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/aramvn/task-tracker/internal/model"
)

// TaskRow is a task joined with its owner's username, the shape list and
// detail endpoints render.
type TaskRow struct {
	model.Task
	OwnerUsername string
}

// TaskRepo persists task records.
type TaskRepo struct{ DB *sql.DB }

func NewTaskRepo(db *sql.DB) *TaskRepo { return &TaskRepo{DB: db} }

const taskSelect = `SELECT t.id,t.title,t.description,t.completed,t.user_id,t.created_at,t.updated_at,u.username
FROM tasks t JOIN users u ON u.id = t.user_id`

// Create inserts a task and returns its ID. The owner is whatever UserID
// the caller set; handlers always fill it from the authenticated identity.
func (r *TaskRepo) Create(ctx context.Context, t model.Task) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO tasks (title, description, completed, user_id) VALUES (?,?,?,?)",
		t.Title, t.Description, t.Completed, t.UserID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetByID fetches a task with its owner's username. found=false with a
// nil error means no such task.
func (r *TaskRepo) GetByID(ctx context.Context, id int64) (TaskRow, bool, error) {
	var row TaskRow
	err := r.DB.QueryRowContext(ctx, taskSelect+" WHERE t.id=? LIMIT 1", id).
		Scan(&row.ID, &row.Title, &row.Description, &row.Completed, &row.UserID,
			&row.CreatedAt, &row.UpdatedAt, &row.OwnerUsername)
	if errors.Is(err, sql.ErrNoRows) {
		return TaskRow{}, false, nil
	}
	if err != nil {
		return TaskRow{}, false, err
	}
	return row, true, nil
}

// List returns one page of all tasks ordered by id plus the total count.
// Listing is global: every authenticated caller sees every task, ownership
// only gates writes.
func (r *TaskRepo) List(ctx context.Context, page, pageSize int) ([]TaskRow, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx,
		taskSelect+" ORDER BY t.id LIMIT ? OFFSET ?", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []TaskRow
	for rows.Next() {
		var row TaskRow
		if err := rows.Scan(&row.ID, &row.Title, &row.Description, &row.Completed,
			&row.UserID, &row.CreatedAt, &row.UpdatedAt, &row.OwnerUsername); err != nil {
			return nil, 0, err
		}
		out = append(out, row)
	}
	return out, total, rows.Err()
}

// ListByUsers returns all tasks owned by any of the given users, keyed by
// owner. Used to embed task lists in user responses without a per-user
// query.
func (r *TaskRepo) ListByUsers(ctx context.Context, userIDs []int64) (map[int64][]model.Task, error) {
	out := make(map[int64][]model.Task, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(userIDs)), ",")
	args := make([]any, len(userIDs))
	for i, id := range userIDs {
		args[i] = id
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,title,description,completed,user_id,created_at,updated_at FROM tasks WHERE user_id IN ("+placeholders+") ORDER BY id",
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Completed,
			&t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out[t.UserID] = append(out[t.UserID], t)
	}
	return out, rows.Err()
}

// Update persists title, description and completed. Ownership never
// changes after creation.
func (r *TaskRepo) Update(ctx context.Context, t model.Task) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE tasks SET title=?, description=?, completed=? WHERE id=?",
		t.Title, t.Description, t.Completed, t.ID)
	return err
}

// Delete removes a task.
func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM tasks WHERE id=?", id)
	return err
}
