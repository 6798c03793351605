package auth

import "github.com/aramvn/task-tracker/internal/model"

// Authorization decisions live here as pure functions so every mutating
// handler applies the same rules. Reads need authentication only; writes
// need ownership or the Admin role. Handlers translate a false result into
// HTTP 403; missing identity never reaches these functions because the JWT
// middleware rejects it with 401 first.

// CanModify reports whether the caller may update or delete a resource
// owned by ownerID.
func CanModify(callerID int64, callerRole model.Role, ownerID int64) bool {
	return callerRole.IsAdmin() || callerID == ownerID
}

// CanDeleteUser reports whether the caller may delete the target user.
// Admin accounts can never be deleted through the API, not even by another
// admin; for everyone else the ownership-or-admin rule applies.
func CanDeleteUser(callerID int64, callerRole model.Role, target model.User) bool {
	if target.Role.IsAdmin() {
		return false
	}
	return CanModify(callerID, callerRole, target.ID)
}
