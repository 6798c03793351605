// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/aramvn/task-tracker/internal/auth"
	"github.com/aramvn/task-tracker/internal/handler"
	"github.com/aramvn/task-tracker/internal/middleware"
	"github.com/aramvn/task-tracker/internal/model"
)

// RegisterRoutes registers routes that need no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI registers the full API surface. Login, refresh and
// registration are anonymous and rate limited per client IP; everything
// else under /api requires a valid access token, enforced before any
// handler logic runs. The authenticated limiter sits behind JWTAuth so
// user-keyed strategies see the caller's identity instead of lumping
// every request into one anonymous bucket.
func RegisterAPI(e *echo.Echo, issuer *auth.TokenIssuer, anonLimit, authLimit echo.MiddlewareFunc,
	a *handler.AuthHandler, u *handler.UserHandler, t *handler.TaskHandler) {

	g := e.Group("/api/auth", anonLimit)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)

	// Registration is the one anonymous user operation.
	e.POST("/api/users", u.Register, anonLimit)

	api := e.Group("/api")
	api.Use(middleware.JWTAuth(issuer))
	api.Use(authLimit)
	api.Use(middleware.RequireRole(model.RoleUser, model.RoleAdmin))

	api.GET("/me", a.Me)

	api.GET("/users", u.List)
	api.GET("/users/:id", u.Get)
	api.PUT("/users/:id", u.Update)
	api.DELETE("/users/:id", u.Delete)

	api.GET("/tasks", t.List)
	api.GET("/tasks/:id", t.Get)
	api.POST("/tasks", t.Create)
	api.PUT("/tasks/:id", t.Update)
	api.DELETE("/tasks/:id", t.Delete)
}
