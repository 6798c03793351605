package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aramvn/task-tracker/internal/model"
)

// minSecretLen is the minimum HMAC key length accepted for HS256 (256 bits).
// A shorter secret is a deployment mistake, not a runtime condition, so the
// issuer refuses to construct at all.
const minSecretLen = 32

// RefreshTokenTTL is the fixed lifetime of a refresh token from issuance.
const RefreshTokenTTL = 7 * 24 * time.Hour

// refreshTokenBytes is the entropy of an opaque refresh token before
// base64 encoding.
const refreshTokenBytes = 64

// ErrWeakSecret is returned by NewTokenIssuer when the signing secret is
// below the minimum strength for HS256.
var ErrWeakSecret = errors.New("jwt signing secret must be at least 32 bytes")

// AccessClaims is the claim set embedded in every access token. The claim
// names are a stable contract for clients: sub carries the string-encoded
// user id, unique_name the username.
type AccessClaims struct {
	jwt.RegisteredClaims
	Username string `json:"unique_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// TokenIssuer creates and verifies signed access tokens. Validity of an
// access token is entirely signature + expiry; nothing is persisted.
type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewTokenIssuer builds a TokenIssuer for the given HS256 secret, issuer
// and audience strings, and access-token TTL in minutes. It fails with
// ErrWeakSecret rather than signing with an under-strength key.
func NewTokenIssuer(secret, issuer, audience string, ttlMin int) (*TokenIssuer, error) {
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("%w (got %d)", ErrWeakSecret, len(secret))
	}
	return &TokenIssuer{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      time.Duration(ttlMin) * time.Minute,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// IssueAccessToken signs an HS256 JWT for the user and returns it together
// with its expiry. An empty role claims "User" so tokens minted for legacy
// rows still pass role checks.
func (ti *TokenIssuer) IssueAccessToken(u model.User) (string, time.Time, error) {
	now := ti.now()
	exp := now.Add(ti.ttl)

	role := u.Role
	if role == "" {
		role = model.RoleUser
	}

	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			Issuer:    ti.issuer,
			Audience:  jwt.ClaimStrings{ti.audience},
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Username: u.Username,
		Email:    u.Email,
		Role:     string(role),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseAccessToken verifies signature, expiry, issuer and audience of a raw
// token string and returns its claims. Only HMAC-signed tokens are
// accepted; a token signed with any other method is rejected outright.
func (ti *TokenIssuer) ParseAccessToken(raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (interface{}, error) { return ti.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(ti.issuer),
		jwt.WithAudience(ti.audience),
	)
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

// NewRefreshToken returns an opaque high-entropy token: 64 bytes from the
// OS CSPRNG, base64-encoded. It carries no claims and is never parsed,
// only compared; collisions are cryptographically negligible and not
// checked for.
func NewRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}
