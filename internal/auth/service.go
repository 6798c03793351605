package auth

import (
	"context"
	"errors"
	"time"

	"github.com/aramvn/task-tracker/internal/model"
)

// ErrInvalidCredentials covers both unknown email and wrong password.
// Callers must not be able to tell the two apart, otherwise the login
// endpoint becomes a user-enumeration oracle.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidRefreshToken covers unknown, rotated-away and expired refresh
// tokens alike.
var ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

// CredentialStore is the slice of persistence the auth service needs.
// Lookups report (user, found, error): found=false with a nil error is the
// normal "no such record" outcome, a non-nil error is a store failure that
// callers surface as a server error, never as a credential failure.
type CredentialStore interface {
	GetByEmail(ctx context.Context, email string) (model.User, bool, error)
	GetByRefreshToken(ctx context.Context, token string) (model.User, bool, error)
	UpdateRefreshToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error
}

// TokenPair is what a successful login or refresh hands back to the client.
type TokenPair struct {
	AccessToken  string
	ExpiresAt    time.Time
	RefreshToken string
}

// Service orchestrates credential verification and token lifecycle. All
// dependencies are constructor-injected; there is no ambient state.
type Service struct {
	store  CredentialStore
	issuer *TokenIssuer
	now    func() time.Time
}

func NewService(store CredentialStore, issuer *TokenIssuer) *Service {
	return &Service{
		store:  store,
		issuer: issuer,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Login verifies the email/password pair and, on success, issues an access
// token and a fresh refresh token, persisting the rotation before
// returning. The stored refresh token is overwritten, so at most one
// session per user survives a login.
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, error) {
	u, ok, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return TokenPair{}, err
	}
	if !ok || !VerifyPassword(u.PasswordHash, password) {
		return TokenPair{}, ErrInvalidCredentials
	}
	return s.issuePair(ctx, u)
}

// Refresh exchanges a stored refresh token for a new token pair. The old
// token is rotated away and permanently unusable afterwards, whether or
// not the client ever sees the response. An exact-match lookup with an
// expiry check is the entire validation; refresh tokens carry no claims.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	u, ok, err := s.store.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	if !ok || u.RefreshTokenExpiresAt == nil || !u.RefreshTokenExpiresAt.After(s.now()) {
		return TokenPair{}, ErrInvalidRefreshToken
	}
	return s.issuePair(ctx, u)
}

// issuePair mints the access/refresh pair and persists the refresh
// rotation. Concurrent calls for the same user race last-writer-wins on
// the single stored token; the loser's refresh token is dead on arrival
// while its access token remains valid until natural expiry. Accepted
// trade-off, the store does not use optimistic locking.
func (s *Service) issuePair(ctx context.Context, u model.User) (TokenPair, error) {
	access, exp, err := s.issuer.IssueAccessToken(u)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := NewRefreshToken()
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.store.UpdateRefreshToken(ctx, u.ID, refresh, s.now().Add(RefreshTokenTTL)); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, ExpiresAt: exp, RefreshToken: refresh}, nil
}
