package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aramvn/task-tracker/internal/auth"
	"github.com/aramvn/task-tracker/internal/middleware"
)

// AuthHandler exposes login and refresh over the auth service.
type AuthHandler struct {
	Auth *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler { return &AuthHandler{Auth: svc} }

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

// tokenResp is the stable response shape for login and refresh.
type tokenResp struct {
	Token        string    `json:"token"`
	Expiration   time.Time `json:"expiration"`
	RefreshToken string    `json:"refreshToken"`
}

// Login verifies credentials and returns a fresh token pair. Unknown email
// and wrong password produce the identical 401 body; the endpoint must not
// confirm which emails exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	pair, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	return c.JSON(http.StatusOK, tokenResp{
		Token:        pair.AccessToken,
		Expiration:   pair.ExpiresAt,
		RefreshToken: pair.RefreshToken,
	})
}

// Refresh rotates a refresh token for a new pair. The presented token is
// unusable afterwards regardless of whether the client receives the
// response.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refreshToken required"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	pair, err := h.Auth.Refresh(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefreshToken) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired refresh token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}

	return c.JSON(http.StatusOK, tokenResp{
		Token:        pair.AccessToken,
		Expiration:   pair.ExpiresAt,
		RefreshToken: pair.RefreshToken,
	})
}

// Me echoes the caller's identity as extracted from the access token.
func (h *AuthHandler) Me(c echo.Context) error {
	id, _ := middleware.CallerID(c)
	return c.JSON(http.StatusOK, echo.Map{
		"id":       id,
		"username": middleware.CallerUsername(c),
		"role":     middleware.CallerRole(c),
	})
}
