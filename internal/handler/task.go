package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aramvn/task-tracker/internal/auth"
	"github.com/aramvn/task-tracker/internal/middleware"
	"github.com/aramvn/task-tracker/internal/model"
	"github.com/aramvn/task-tracker/internal/queue"
	"github.com/aramvn/task-tracker/internal/repository"
	"github.com/aramvn/task-tracker/internal/service"
)

// TaskHandler implements task CRUD. Reads are global for authenticated
// callers; writes require ownership or the Admin role.
type TaskHandler struct {
	Tasks *repository.TaskRepo
}

func NewTaskHandler(t *repository.TaskRepo) *TaskHandler { return &TaskHandler{Tasks: t} }

type taskWriteReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// List returns one page of all tasks.
func (h *TaskHandler) List(c echo.Context) error {
	page, pageSize := pageParams(c)

	ctx, cancel := dbCtx(c)
	defer cancel()

	tasks, total, err := h.Tasks.List(ctx, page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	items := make([]taskReadDTO, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, taskToDTO(t))
	}
	return c.JSON(http.StatusOK, pagedResult[taskReadDTO]{
		Page: page, PageSize: pageSize, TotalCount: total, Items: items,
	})
}

// Get returns one task by id.
func (h *TaskHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	t, ok, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "task not found"})
	}
	return c.JSON(http.StatusOK, taskToDTO(t))
}

// Create inserts a task owned by the caller. Ownership is assigned from
// the authenticated identity; anything the client claims is ignored.
func (h *TaskHandler) Create(c echo.Context) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req taskWriteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	id, err := h.Tasks.Create(ctx, model.Task{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		UserID:      callerID,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create task failed"})
	}

	return c.JSON(http.StatusCreated, taskReadDTO{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		UserID:      callerID,
		Username:    middleware.CallerUsername(c),
	})
}

// Update modifies a task's fields. Owner or admin only. Completing a task
// publishes an audit event; publish failures never fail the request.
func (h *TaskHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req taskWriteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	t, found, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "task not found"})
	}

	if !auth.CanModify(callerID, middleware.CallerRole(c), t.UserID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	justCompleted := req.Completed && !t.Completed

	t.Title = req.Title
	t.Description = req.Description
	t.Completed = req.Completed
	if err := h.Tasks.Update(ctx, t.Task); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	if justCompleted {
		_ = service.PublishTaskCompleted(ctx, queue.TaskCompletedEvent{
			TaskID:      t.ID,
			UserID:      t.UserID,
			Username:    t.OwnerUsername,
			Title:       t.Title,
			CompletedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a task. Owner or admin only.
func (h *TaskHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	t, found, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "task not found"})
	}

	if !auth.CanModify(callerID, middleware.CallerRole(c), t.UserID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Tasks.Delete(ctx, t.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
