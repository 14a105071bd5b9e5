package logging

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fyrsmithlabs/remedy/internal/config"
)

func sampledLogger(cfg SamplingConfig) (*Logger, *observer.ObservedLogs) {
	core, observed := observer.New(zapcore.DebugLevel)
	return &Logger{zap: zap.New(newSampledCore(core, cfg)), config: NewDefaultConfig()}, observed
}

func TestNewSampledCore_Disabled(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	assert.Equal(t, core, newSampledCore(core, SamplingConfig{}))
}

func TestNewSampledCore_ErrorsNeverSampled(t *testing.T) {
	logger, observed := sampledLogger(SamplingConfig{
		Enabled: true,
		Tick:    config.Duration(time.Minute),
		Initial: 1,
	})

	for range 50 {
		logger.Error(context.Background(), "generator failed")
	}
	assert.Equal(t, 50, observed.FilterMessage("generator failed").Len())
}

func TestNewSampledCore_BelowErrorSampled(t *testing.T) {
	logger, observed := sampledLogger(SamplingConfig{
		Enabled:    true,
		Tick:       config.Duration(time.Minute),
		Initial:    5,
		Thereafter: 0,
	})

	for range 50 {
		logger.Info(context.Background(), "suggested")
	}
	assert.Equal(t, 5, observed.FilterMessage("suggested").Len())
}

func TestLevelRangeCore_With(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	c := (&levelRangeCore{Core: core, min: zapcore.ErrorLevel, max: zapcore.FatalLevel}).
		With([]zapcore.Field{zap.String("k", "v")})

	z := zap.New(c)
	z.Warn("dropped")
	z.Error("kept")

	entries := observed.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "kept", entries[0].Message)
		assert.Equal(t, "v", entries[0].ContextMap()["k"])
	}
}
