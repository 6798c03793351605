package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aramvn/task-tracker/internal/auth"
	"github.com/aramvn/task-tracker/internal/config"
	"github.com/aramvn/task-tracker/internal/middleware"
	"github.com/aramvn/task-tracker/internal/repository"
)

// UserHandler implements registration and user CRUD.
type UserHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
	Tasks *repository.TaskRepo
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo, t *repository.TaskRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u, Tasks: t}
}

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userUpdateReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"` // optional; rehashed when non-empty
}

// Register creates a user account. Open to anonymous callers; the role is
// always User, privilege is never client-supplied.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/email/password required"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	id, err := h.Users.Create(ctx, req.Username, req.Email, req.Password, "", h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	u, ok, err := h.Users.GetByID(ctx, id)
	if err != nil || !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, userToDTO(u, nil))
}

// List returns one page of users with their tasks embedded. Reads are open
// to any authenticated caller.
func (h *UserHandler) List(c echo.Context) error {
	page, pageSize := pageParams(c)

	ctx, cancel := dbCtx(c)
	defer cancel()

	users, total, err := h.Users.List(ctx, page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	tasksByUser, err := h.Tasks.ListByUsers(ctx, ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	items := make([]userReadDTO, 0, len(users))
	for _, u := range users {
		items = append(items, userToDTO(u, tasksByUser[u.ID]))
	}
	return c.JSON(http.StatusOK, pagedResult[userReadDTO]{
		Page: page, PageSize: pageSize, TotalCount: total, Items: items,
	})
}

// Get returns one user with their tasks.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	u, ok, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	tasksByUser, err := h.Tasks.ListByUsers(ctx, []int64{u.ID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, userToDTO(u, tasksByUser[u.ID]))
}

// Update modifies username/email and optionally the password. Allowed for
// the account owner or an admin.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req userUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	u, found, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	if !auth.CanModify(callerID, middleware.CallerRole(c), u.ID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if s := strings.TrimSpace(req.Username); s != "" {
		u.Username = s
	}
	if s := strings.TrimSpace(req.Email); s != "" {
		u.Email = s
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
		u.PasswordHash = hash
	}

	if err := h.Users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a user. Admin accounts are never deletable here, no
// matter who asks; otherwise owner-or-admin applies.
func (h *UserHandler) Delete(c echo.Context) error {
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

	u, found, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	if !auth.CanDeleteUser(callerID, middleware.CallerRole(c), u) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Users.Delete(ctx, u.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
