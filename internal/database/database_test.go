package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Tomlord1122/task-tracker/internal/config"
	"github.com/Tomlord1122/task-tracker/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Every new connection to :memory: is a fresh database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestService_MigrateCreatesTasksTable(t *testing.T) {
	svc := FromDB(setupTestDB(t))

	require.NoError(t, svc.Migrate())

	migrator := svc.GetDB().Migrator()
	assert.True(t, migrator.HasTable(&domain.Task{}))
	assert.True(t, migrator.HasIndex(&domain.Task{}, "idx_tasks_completed_created_at"))
}

func TestService_HealthUp(t *testing.T) {
	svc := FromDB(setupTestDB(t))

	stats := svc.Health()

	assert.Equal(t, "up", stats["status"])
	assert.Equal(t, "It's healthy", stats["message"])
	assert.Contains(t, stats, "open_connections")
}

func TestService_HealthDownAfterClose(t *testing.T) {
	svc := FromDB(setupTestDB(t))
	require.NoError(t, svc.Close())

	stats := svc.Health()

	assert.Equal(t, "down", stats["status"])
	assert.Contains(t, stats["error"], "db down")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, parseLogLevel("silent"))
	assert.Equal(t, logger.Error, parseLogLevel("ERROR"))
	assert.Equal(t, logger.Info, parseLogLevel("info"))
	assert.Equal(t, logger.Warn, parseLogLevel(""))
}

func TestNew_ProductionRequiresPassword(t *testing.T) {
	cfg := &config.Config{Environment: "production"}

	svc, err := New(cfg)

	assert.Error(t, err)
	assert.Nil(t, svc)
}
