package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aramvn/task-tracker/internal/config"
	"github.com/aramvn/task-tracker/internal/model"
)

func rateCfg(strategy string) config.RateLimitConfig {
	return config.RateLimitConfig{Prefix: "rl", KeyStrategy: strategy}
}

func TestRateKey_Strategies(t *testing.T) {
	t.Parallel()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.RemoteAddr = "10.0.0.9:1234"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/api/tasks")
	c.Set("user_id", int64(42))

	assert.Equal(t, "rl:ip:10.0.0.9", rateKey(rateCfg("ip"), c))
	assert.Equal(t, "rl:user:42", rateKey(rateCfg("user"), c))
	assert.Equal(t, "rl:user:42:route:GET /api/tasks", rateKey(rateCfg("user_route"), c))
	assert.Equal(t, "rl:ip:10.0.0.9:route:GET /api/tasks", rateKey(rateCfg("ip_route"), c))
}

func TestRateKey_AnonymousCaller(t *testing.T) {
	t.Parallel()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.9:1234"
	c := e.NewContext(req, httptest.NewRecorder())

	assert.Equal(t, "rl:user:anon", rateKey(rateCfg("user"), c))
}

// The user-keyed strategies only work when the limiter runs after
// JWTAuth, mirroring how the router chains them on the protected group.
// Two distinct callers must land in two distinct buckets.
func TestRateKey_UserStrategySeesAuthenticatedCaller(t *testing.T) {
	t.Parallel()

	issuer := testIssuer(t)
	cfg := rateCfg("user")

	var keys []string
	capture := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			keys = append(keys, rateKey(cfg, c))
			return next(c)
		}
	}

	e := echo.New()
	api := e.Group("/api")
	api.Use(JWTAuth(issuer))
	api.Use(capture)
	api.GET("/tasks", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, u := range []model.User{
		{ID: 7, Username: "a", Email: "a@test.com"},
		{ID: 8, Username: "b", Email: "b@test.com"},
	} {
		raw, _, err := issuer.IssueAccessToken(u)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	require.Len(t, keys, 2)
	assert.Equal(t, "rl:user:7", keys[0])
	assert.Equal(t, "rl:user:8", keys[1])
}
