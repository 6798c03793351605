package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigDSN(t *testing.T) {
	t.Parallel()

	cfg := Config{User: "app", Pass: "s3cret", Host: "db", Port: "3306", Name: "tracker"}
	assert.Equal(t,
		"app:s3cret@tcp(db:3306)/tracker?charset=utf8mb4&parseTime=true&loc=UTC",
		cfg.DSN())
}

func TestConfigDSN_EmptyPassword(t *testing.T) {
	t.Parallel()

	cfg := Config{User: "app", Host: "db", Port: "3306", Name: "tracker"}
	assert.Equal(t,
		"app@tcp(db:3306)/tracker?charset=utf8mb4&parseTime=true&loc=UTC",
		cfg.DSN())
}
