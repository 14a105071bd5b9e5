package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func bufferLogger(t *testing.T, mod func(*Config)) (*Logger, *bytes.Buffer) {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.Level = TraceLevel
	cfg.Sampling.Enabled = false
	if mod != nil {
		mod(cfg)
	}
	var buf bytes.Buffer
	logger, err := newLogger(cfg, nil, &buf)
	require.NoError(t, err)
	return logger, &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "xml"

	_, err := NewLogger(cfg, nil)
	assert.ErrorContains(t, err, "invalid config")
}

func TestLogger_WritesJSON(t *testing.T) {
	logger, buf := bufferLogger(t, nil)

	logger.Info(context.Background(), "suggested", zap.String("generator", "not_found"))
	logger.Trace(context.Background(), "extractor ran")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "suggested", lines[0]["msg"])
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "not_found", lines[0]["generator"])
	assert.Equal(t, "remedy", lines[0]["service"])
	assert.Contains(t, lines[0], "ts")
	assert.Contains(t, lines[0], "caller")
	assert.Equal(t, "trace", lines[1]["level"])
}

func TestLogger_LevelFilters(t *testing.T) {
	logger, buf := bufferLogger(t, func(c *Config) { c.Level = zapcore.WarnLevel })

	logger.Debug(context.Background(), "hidden")
	logger.Warn(context.Background(), "shown")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["msg"])
	assert.False(t, logger.Enabled(zapcore.InfoLevel))
}

func TestLogger_RedactsPerCallAndChildFields(t *testing.T) {
	logger, buf := bufferLogger(t, nil)

	child := logger.With(zap.String("api_key", "k-123")).Named("cli")
	child.Info(context.Background(), "connect",
		zap.String("password", "hunter2"),
		zap.String("dsn_url", "postgres://admin:hunter2@db:5432/app"),
		zap.String("header", "Bearer abc.def"),
		zap.String("metadata.token", "t-1"),
		zap.String("file", "config.yaml"),
	)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	line := lines[0]
	assert.Equal(t, "cli", line["logger"])
	assert.Equal(t, redacted, line["api_key"])
	assert.Equal(t, redacted, line["password"])
	assert.Equal(t, redactedPattern, line["dsn_url"])
	assert.Equal(t, redactedPattern, line["header"])
	assert.Equal(t, redacted, line["metadata.token"])
	assert.Equal(t, "config.yaml", line["file"])
	assert.NotContains(t, buf.String(), "hunter2")
}

func TestLogger_RedactsMessagePatterns(t *testing.T) {
	logger, buf := bufferLogger(t, nil)

	logger.Warn(context.Background(), "rejected Bearer abc.def")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, redactedPattern, lines[0]["msg"])
}

func TestLogger_ConsoleFormat(t *testing.T) {
	logger, buf := bufferLogger(t, func(c *Config) { c.Format = "console" })

	logger.Error(context.Background(), "boom")
	assert.Contains(t, buf.String(), "boom")
	assert.Contains(t, buf.String(), "error")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{in: "trace", want: TraceLevel},
		{in: "debug", want: zapcore.DebugLevel},
		{in: "WARN", want: zapcore.WarnLevel},
		{in: "loud", want: zapcore.InfoLevel, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		l := Nop()
		l.Info(context.Background(), "dropped")
		_ = l.Sync()
	})
	assert.NotNil(t, Nop().Underlying())
}

func TestRedactedString(t *testing.T) {
	f := RedactedString("token", "abcdef")
	assert.Equal(t, "[REDACTED:6]", f.String)
}
