package db

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"agridynamic/internal/model"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "dsn")
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestMigrateAndReset(t *testing.T) {
	gormDB, err := Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(gormDB))
	for _, m := range Models() {
		assert.True(t, gormDB.Migrator().HasTable(m))
	}

	require.NoError(t, Reset(gormDB))
	assert.False(t, gormDB.Migrator().HasTable(&model.User{}))
	assert.False(t, gormDB.Migrator().HasTable(&model.Enquiry{}))
}

func TestNewLogger_IgnoresRecordNotFound(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(log.New(&buf, "", 0), loggerConfig())

	trace := func() (string, int64) { return "SELECT * FROM users", 0 }
	l.Trace(context.Background(), time.Now(), trace, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	l.Trace(context.Background(), time.Now(), trace, errors.New("connection refused"))
	assert.Contains(t, buf.String(), "connection refused")
}
