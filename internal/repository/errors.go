// Package repository implements MySQL persistence for users and tasks.
// Sentinel errors let handlers map store outcomes onto HTTP statuses
// without inspecting driver internals.
package repository

import "errors"

// ErrEmailExists is returned when an insert collides with the unique email
// index. Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")
