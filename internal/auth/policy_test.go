package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aramvn/task-tracker/internal/model"
)

func TestCanModify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		callerID int64
		role     model.Role
		ownerID  int64
		want     bool
	}{
		{"owner may modify own resource", 1, model.RoleUser, 1, true},
		{"non-owner user denied", 2, model.RoleUser, 1, false},
		{"admin may modify anything", 3, model.RoleAdmin, 1, true},
		{"admin may modify own resource", 3, model.RoleAdmin, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModify(tt.callerID, tt.role, tt.ownerID))
		})
	}
}

func TestCanDeleteUser(t *testing.T) {
	t.Parallel()

	admin := model.User{ID: 10, Role: model.RoleAdmin}
	regular := model.User{ID: 20, Role: model.RoleUser}

	tests := []struct {
		name     string
		callerID int64
		role     model.Role
		target   model.User
		want     bool
	}{
		{"user may delete self", 20, model.RoleUser, regular, true},
		{"user may not delete another user", 21, model.RoleUser, regular, false},
		{"admin may delete a regular user", 10, model.RoleAdmin, regular, true},
		{"admin target denied for regular caller", 20, model.RoleUser, admin, false},
		{"admin target denied even for another admin", 11, model.RoleAdmin, admin, false},
		{"admin may not delete self when admin", 10, model.RoleAdmin, admin, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanDeleteUser(tt.callerID, tt.role, tt.target))
		})
	}
}
