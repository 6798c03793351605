package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/aramvn/task-tracker/internal/auth"
	"github.com/aramvn/task-tracker/internal/model"
)

const userColumns = "id,username,email,password_hash,role,refresh_token,refresh_token_expires_at,created_at,updated_at"

// UserRepo persists user records. It doubles as the credential store for
// the auth service: lookup by email, lookup by exact refresh-token match,
// and the single-row refresh rotation update.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with a freshly hashed password and returns its ID.
// The role defaults to User when empty; email is normalized before insert.
func (r *UserRepo) Create(ctx context.Context, username, email, password string, role model.Role, cost int) (int64, error) {
	email = normalizeEmail(email)
	if role == "" {
		role = model.RoleUser
	}
	hash, err := auth.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role) VALUES (?,?,?,?)",
		username, email, hash, string(role))
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	return res.LastInsertId()
}

// GetByEmail fetches a user by normalized email. found=false with a nil
// error means no such user.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, bool, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", normalizeEmail(email))
	return scanUser(row)
}

// GetByID fetches a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (model.User, bool, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

// GetByRefreshToken fetches the user holding exactly this refresh token.
// Rotation overwrites the stored value, so a rotated-away token simply
// matches nothing.
func (r *UserRepo) GetByRefreshToken(ctx context.Context, token string) (model.User, bool, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE refresh_token=? LIMIT 1", token)
	return scanUser(row)
}

// UpdateRefreshToken overwrites the user's refresh token and expiry in one
// statement. Token and expiry are always written together. Concurrent
// logins/refreshes for the same user are last-writer-wins: whichever
// update lands second owns the only valid refresh token.
func (r *UserRepo) UpdateRefreshToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token=?, refresh_token_expires_at=? WHERE id=?",
		token, expiresAt, userID)
	return err
}

// Update persists profile fields (username, email, password hash). Token
// fields are owned by UpdateRefreshToken and left untouched here.
func (r *UserRepo) Update(ctx context.Context, u model.User) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET username=?, email=?, password_hash=? WHERE id=?",
		u.Username, normalizeEmail(u.Email), u.PasswordHash, u.ID)
	if err != nil && isDuplicateKey(err) {
		return ErrEmailExists
	}
	return err
}

// Delete removes a user. Owned tasks go with it via ON DELETE CASCADE.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	return err
}

// List returns one page of users ordered by id plus the total count.
func (r *UserRepo) List(ctx context.Context, page, pageSize int) ([]model.User, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id LIMIT ? OFFSET ?",
		pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUserRow(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (code 1062), raised here only by the unique email index.
func isDuplicateKey(err error) bool {
	return strings.Contains(err.Error(), "1062")
}

type rowScanner interface{ Scan(dest ...any) error }

func scanUser(row *sql.Row) (model.User, bool, error) {
	u, err := scanUserFrom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, false, nil
	}
	if err != nil {
		return model.User{}, false, err
	}
	return u, true, nil
}

func scanUserRow(rows *sql.Rows) (model.User, error) {
	return scanUserFrom(rows)
}

func scanUserFrom(s rowScanner) (model.User, error) {
	var (
		u       model.User
		role    string
		refresh sql.NullString
		expiry  sql.NullTime
	)
	err := s.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role,
		&refresh, &expiry, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.Role = model.ParseRole(role)
	if refresh.Valid {
		u.RefreshToken = &refresh.String
	}
	if expiry.Valid {
		t := expiry.Time
		u.RefreshTokenExpiresAt = &t
	}
	return u, nil
}
