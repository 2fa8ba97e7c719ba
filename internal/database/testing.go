// internal/database/testing.go
package database

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/javajoker/cardshop/internal/config"
)

// NewTestDB opens a private in-memory SQLite database with the schema applied.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := Initialize(config.DatabaseConfig{
		Driver:       "sqlite",
		SQLitePath:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel:     "silent",
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db))

	t.Cleanup(func() { Close(db) })
	return db
}
