package model

import "time"

// Role is the closed set of privilege levels a user can hold. It is stored
// as a plain string in the users table and carried as the "role" claim in
// access tokens; conversion from the loosely-typed claim happens exactly
// once, at the HTTP boundary, via ParseRole.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// ParseRole maps a wire/database string onto the Role enum. Anything that
// is not exactly "Admin" (including the empty string) degrades to RoleUser,
// so records created before roles existed still authenticate.
func ParseRole(s string) Role {
	if s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

// IsAdmin reports whether the role grants administrative privileges.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// User mirrors the `users` table. PasswordHash is a bcrypt digest and is
// never serialized to clients; handlers build separate response types.
//
// RefreshToken and RefreshTokenExpiresAt form a single session slot: they
// are written together on every login/refresh and at most one refresh token
// is valid per user at any time. Both are nullable in the schema, which is
// why they are pointers here.
type User struct {
	ID                    int64      // users.id
	Username              string     // users.username
	Email                 string     // users.email (unique)
	PasswordHash          string     // users.password_hash
	Role                  Role       // users.role
	RefreshToken          *string    // users.refresh_token (nullable)
	RefreshTokenExpiresAt *time.Time // users.refresh_token_expires_at (nullable)
	CreatedAt             time.Time  // users.created_at
	UpdatedAt             time.Time  // users.updated_at
}
