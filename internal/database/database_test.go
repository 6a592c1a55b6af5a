package database

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"agora/internal/config"
	"agora/internal/models"
	"agora/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestConnect_SQLiteMigratesSchema(t *testing.T) {
	cfg := &config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "agora.db"),
	}

	db, err := Connect(cfg)
	require.NoError(t, err)

	for _, m := range PersistentModels() {
		assert.True(t, db.Migrator().HasTable(m), "missing table for %T", m)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Follow{}, "idx_follow_pair"))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func openMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: NewGormLogger().LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestDialector_RejectsMongo(t *testing.T) {
	_, err := Dialector(&config.Config{DBDriver: config.DriverMongo})
	assert.Error(t, err)
}

func TestCustomGormLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	ctx := observability.WithLogger(context.Background(), observability.NewLogger(observability.LogConfig{
		Level:  "debug",
		Output: &buf,
	}))

	l := NewGormLogger()
	sql := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(ctx, time.Now(), sql, nil)
	assert.Empty(t, buf.String(), "fast successful queries are not logged at warn level")

	l.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
	assert.Contains(t, buf.String(), "GORM slow query")

	buf.Reset()
	l.Trace(ctx, time.Now(), sql, errors.New("syntax error"))
	assert.Contains(t, buf.String(), "GORM query error")

	buf.Reset()
	l.LogMode(logger.Silent).Trace(ctx, time.Now(), sql, errors.New("ignored"))
	assert.Empty(t, buf.String())
}

func TestObservabilityPlugin_RegistersCallbacks(t *testing.T) {
	db := openMemoryDB(t)
	require.NoError(t, db.Use(NewObservabilityPlugin("sqlite")))
	require.NoError(t, Migrate(db))

	user := &models.User{Username: "alice", Email: "alice@x.com", Password: "hash"}
	require.NoError(t, db.Create(user).Error)

	var found models.User
	require.NoError(t, db.Where("id = ?", user.ID).First(&found).Error)
	assert.Equal(t, "alice", found.Username)

	assert.NotNil(t, db.Callback().Query().Get("observability:before_query"))
	assert.NotNil(t, db.Callback().Create().Get("observability:after_create"))
}
