// Package handler implements the HTTP endpoints: authentication, user and
// task CRUD. Handlers bind/validate input, consult the authorization
// policy and delegate persistence to the repositories.
package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aramvn/task-tracker/internal/model"
	"github.com/aramvn/task-tracker/internal/repository"
)

// dbTimeout bounds every database call made on behalf of a request.
const dbTimeout = 5 * time.Second

func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// pagedResult is the envelope for every list endpoint.
type pagedResult[T any] struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
	Items      []T `json:"items"`
}

// pageParams reads page/pageSize query parameters, normalizing anything
// non-positive to the defaults 1/10.
func pageParams(c echo.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	pageSize, _ = strconv.Atoi(c.QueryParam("pageSize"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return page, pageSize
}

// idParam parses the :id route parameter.
func idParam(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// taskReadDTO is the task shape returned to clients.
type taskReadDTO struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	UserID      int64  `json:"userId"`
	Username    string `json:"username"`
}

func taskToDTO(t repository.TaskRow) taskReadDTO {
	return taskReadDTO{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		UserID:      t.UserID,
		Username:    t.OwnerUsername,
	}
}

// userReadDTO is the sanitized user shape returned to clients. It never
// carries the password hash or token fields.
type userReadDTO struct {
	ID       int64         `json:"id"`
	Username string        `json:"username"`
	Email    string        `json:"email"`
	Role     model.Role    `json:"role"`
	Tasks    []taskReadDTO `json:"tasks"`
}

func userToDTO(u model.User, tasks []model.Task) userReadDTO {
	dto := userReadDTO{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		Tasks:    make([]taskReadDTO, 0, len(tasks)),
	}
	for _, t := range tasks {
		dto.Tasks = append(dto.Tasks, taskReadDTO{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Completed:   t.Completed,
			UserID:      t.UserID,
			Username:    u.Username,
		})
	}
	return dto
}
