package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log/noop"
)

func TestNewDualCore_StreamOnly(t *testing.T) {
	core, err := newDualCore(NewDefaultConfig(), nil, &bytes.Buffer{})
	require.NoError(t, err)
	assert.NotNil(t, core)
}

func TestNewDualCore_BridgeWithoutProviderFallsBackToStream(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Output.OTEL = true

	core, err := newDualCore(cfg, nil, &bytes.Buffer{})
	require.NoError(t, err)
	assert.NotNil(t, core)
}

func TestNewDualCore_BridgeOnly(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Output = OutputConfig{OTEL: true}

	logger, err := NewLogger(cfg, noop.NewLoggerProvider())
	require.NoError(t, err)
	assert.NotPanics(t, func() { logger.Error(context.Background(), "bridged") })
}

func TestNewDualCore_NoUsableOutput(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Output = OutputConfig{OTEL: true}

	_, err := newDualCore(cfg, nil, nil)
	assert.ErrorContains(t, err, "at least one output")
}
