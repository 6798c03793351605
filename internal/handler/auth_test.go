package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aramvn/task-tracker/internal/auth"
	"github.com/aramvn/task-tracker/internal/repository"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newAuthHandler(t *testing.T, db *sql.DB) *AuthHandler {
	t.Helper()
	issuer, err := auth.NewTokenIssuer(testSecret, "task-tracker", "task-tracker-api", 60)
	require.NoError(t, err)
	return NewAuthHandler(auth.NewService(repository.NewUserRepo(db), issuer))
}

func postJSON(t *testing.T, e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func storedUserRow(t *testing.T, password string) *sqlmock.Rows {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "username", "email", "password_hash", "role",
		"refresh_token", "refresh_token_expires_at", "created_at", "updated_at",
	}).AddRow(1, "xuser", "x@test.com", string(hash), "User", nil, nil, now, now)
}

func TestLogin_Success(t *testing.T) {
	db, mock := newMockDB(t)
	h := newAuthHandler(t, db)
	e := echo.New()
	e.POST("/api/auth/login", h.Login)

	mock.ExpectQuery("SELECT .* FROM users WHERE email=").
		WithArgs("x@test.com").
		WillReturnRows(storedUserRow(t, "right"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET refresh_token=?, refresh_token_expires_at=? WHERE id=?")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := postJSON(t, e, "/api/auth/login", `{"email":"x@test.com","password":"right"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token        string    `json:"token"`
		Expiration   time.Time `json:"expiration"`
		RefreshToken string    `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.True(t, resp.Expiration.After(time.Now()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	db, mock := newMockDB(t)
	h := newAuthHandler(t, db)
	e := echo.New()
	e.POST("/api/auth/login", h.Login)

	mock.ExpectQuery("SELECT .* FROM users WHERE email=").
		WithArgs("x@test.com").
		WillReturnRows(storedUserRow(t, "right"))
	wrongPw := postJSON(t, e, "/api/auth/login", `{"email":"x@test.com","password":"wrong"}`)

	mock.ExpectQuery("SELECT .* FROM users WHERE email=").
		WithArgs("ghost@test.com").
		WillReturnError(sql.ErrNoRows)
	unknown := postJSON(t, e, "/api/auth/login", `{"email":"ghost@test.com","password":"right"}`)

	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	// Identical body either way: the endpoint must not reveal which emails
	// have accounts.
	assert.Equal(t, wrongPw.Body.String(), unknown.Body.String())
}

func TestRefresh_InvalidToken(t *testing.T) {
	db, mock := newMockDB(t)
	h := newAuthHandler(t, db)
	e := echo.New()
	e.POST("/api/auth/refresh", h.Refresh)

	mock.ExpectQuery("SELECT .* FROM users WHERE refresh_token=").
		WithArgs("bogus").
		WillReturnError(sql.ErrNoRows)

	rec := postJSON(t, e, "/api/auth/refresh", `{"refreshToken":"bogus"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or expired refresh token")
}

func TestRefresh_MissingToken(t *testing.T) {
	db, _ := newMockDB(t)
	h := newAuthHandler(t, db)
	e := echo.New()
	e.POST("/api/auth/refresh", h.Refresh)

	rec := postJSON(t, e, "/api/auth/refresh", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
