// Package middleware provides the request-processing chain shared by
// protected routes: bearer-token authentication, role gating and rate
// limiting.
package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aramvn/task-tracker/internal/auth"
	"github.com/aramvn/task-tracker/internal/model"
)

// Context keys under which the authenticated caller's identity is stored.
const (
	ctxUserID   = "user_id"
	ctxUsername = "username"
	ctxEmail    = "email"
	ctxRole     = "role"
)

// JWTAuth returns middleware that validates a Bearer access token and
// injects the caller's identity into the request context. Any failure to
// extract a verified identity is a 401 before handler logic runs; there is
// no partially-authenticated state downstream.
func JWTAuth(issuer *auth.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := issuer.ParseAccessToken(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			uid, err := strconv.ParseInt(claims.Subject, 10, 64)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set(ctxUserID, uid)
			c.Set(ctxUsername, claims.Username)
			c.Set(ctxEmail, claims.Email)
			c.Set(ctxRole, model.ParseRole(claims.Role))
			return next(c)
		}
	}
}

// CallerID returns the authenticated user's id from the context. The
// second result is false when JWTAuth did not run on this route.
func CallerID(c echo.Context) (int64, bool) {
	id, ok := c.Get(ctxUserID).(int64)
	return id, ok
}

// CallerRole returns the authenticated user's role, defaulting to User
// when absent.
func CallerRole(c echo.Context) model.Role {
	if r, ok := c.Get(ctxRole).(model.Role); ok {
		return r
	}
	return model.RoleUser
}

// CallerUsername returns the authenticated user's username claim.
func CallerUsername(c echo.Context) string {
	s, _ := c.Get(ctxUsername).(string)
	return s
}
