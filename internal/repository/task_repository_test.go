package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aramvn/task-tracker/internal/model"
)

func taskRowColumns() []string {
	return []string{"id", "title", "description", "completed", "user_id", "created_at", "updated_at", "username"}
}

func TestTaskRepo_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tasks (title, description, completed, user_id) VALUES (?,?,?,?)")).
		WithArgs("write report", "quarterly numbers", false, int64(1)).
		WillReturnResult(sqlmock.NewResult(9, 1))

	id, err := repo.Create(context.Background(), model.Task{
		Title: "write report", Description: "quarterly numbers", UserID: 1,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 9, id)
}

func TestTaskRepo_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepo(db)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT t.id,.* FROM tasks t JOIN users u").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(taskRowColumns()).
			AddRow(9, "write report", "quarterly numbers", true, 1, now, now, "alice"))

	row, found, err := repo.GetByID(context.Background(), 9)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "write report", row.Title)
	assert.True(t, row.Completed)
	assert.Equal(t, "alice", row.OwnerUsername)
}

func TestTaskRepo_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepo(db)

	mock.ExpectQuery("SELECT t.id,.* FROM tasks t JOIN users u").
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, found, err := repo.GetByID(context.Background(), 404)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestTaskRepo_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepo(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tasks")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT t.id,.* FROM tasks t JOIN users u").
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(taskRowColumns()).
			AddRow(1, "a", "", false, 1, now, now, "alice").
			AddRow(2, "b", "", true, 2, now, now, "bob"))

	rows, total, err := repo.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "bob", rows[1].OwnerUsername)
}

func TestTaskRepo_ListByUsers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepo(db)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id,title,description,completed,user_id,created_at,updated_at FROM tasks WHERE user_id IN").
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "completed", "user_id", "created_at", "updated_at"}).
			AddRow(1, "a", "", false, 1, now, now).
			AddRow(2, "b", "", false, 1, now, now).
			AddRow(3, "c", "", true, 2, now, now))

	byUser, err := repo.ListByUsers(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.Len(t, byUser[1], 2)
	assert.Len(t, byUser[2], 1)
}

func TestTaskRepo_ListByUsers_Empty(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewTaskRepo(db)

	byUser, err := repo.ListByUsers(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, byUser)
}
