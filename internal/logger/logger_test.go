package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nonsense"))
}

func TestGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, GormLevel("silent"))
	assert.Equal(t, gormlogger.Info, GormLevel("debug"))
	assert.Equal(t, gormlogger.Warn, GormLevel(""))
}

func TestGormLogger_Trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn)
	query := func() (string, int64) { return "SELECT 1", 1 }

	gl.Trace(context.Background(), time.Now(), query, nil)
	assert.Equal(t, 0, logs.Len(), "fast queries are not logged at warn level")

	gl.Trace(context.Background(), time.Now(), query, gormlogger.ErrRecordNotFound)
	assert.Equal(t, 0, logs.Len(), "record not found is not an error")

	gl.Trace(context.Background(), time.Now(), query, errors.New("boom"))
	if assert.Equal(t, 1, logs.Len()) {
		assert.Equal(t, "sql error", logs.All()[0].Message)
	}

	gl.Trace(context.Background(), time.Now().Add(-2*time.Second), query, nil)
	assert.Equal(t, 2, logs.Len())
	assert.Equal(t, "slow sql", logs.All()[1].Message)

	silent := gl.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now(), query, errors.New("boom"))
	assert.Equal(t, 2, logs.Len())
}
