package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fyrsmithlabs/remedy/internal/config"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.Equal(t, ProtocolGRPC, cfg.Protocol)
	assert.Equal(t, "remedy", cfg.ServiceName)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 1.0, cfg.Sampling.Rate)
	assert.Equal(t, 15*time.Second, cfg.Metrics.ExportInterval.Duration())
	assert.Equal(t, 5*time.Second, cfg.Shutdown.Timeout.Duration())
}

func TestConfig_Validate(t *testing.T) {
	enabled := func(mod func(*Config)) *Config {
		cfg := NewDefaultConfig()
		cfg.Enabled = true
		mod(cfg)
		return cfg
	}

	tests := []struct {
		name   string
		config *Config
		errMsg string
	}{
		{name: "default", config: NewDefaultConfig()},
		{name: "disabled skips validation", config: &Config{}},
		{name: "enabled default", config: enabled(func(*Config) {})},
		{name: "http protocol", config: enabled(func(c *Config) { c.Protocol = ProtocolHTTP })},
		{name: "loopback ip", config: enabled(func(c *Config) { c.Endpoint = "127.0.0.2:4317" })},
		{name: "bracketed ipv6", config: enabled(func(c *Config) { c.Endpoint = "[::1]:4317" })},
		{name: "http scheme local", config: enabled(func(c *Config) { c.Endpoint = "http://localhost:4318" })},
		{name: "remote with tls", config: enabled(func(c *Config) {
			c.Endpoint = "otel.example.com:4317"
			c.Insecure = false
		})},
		{
			name:   "missing endpoint",
			config: enabled(func(c *Config) { c.Endpoint = "" }),
			errMsg: "endpoint is required",
		},
		{
			name:   "missing service name",
			config: enabled(func(c *Config) { c.ServiceName = "" }),
			errMsg: "service_name is required",
		},
		{
			name:   "missing service version",
			config: enabled(func(c *Config) { c.ServiceVersion = "" }),
			errMsg: "service_version is required",
		},
		{
			name:   "unknown protocol",
			config: enabled(func(c *Config) { c.Protocol = "udp" }),
			errMsg: "protocol must be",
		},
		{
			name:   "insecure remote",
			config: enabled(func(c *Config) { c.Endpoint = "otel.example.com:4317" }),
			errMsg: "insecure connections to remote endpoints",
		},
		{
			name:   "sampling rate above one",
			config: enabled(func(c *Config) { c.Sampling.Rate = 1.5 }),
			errMsg: "sampling.rate",
		},
		{
			name:   "zero export interval",
			config: enabled(func(c *Config) { c.Metrics.ExportInterval = 0 }),
			errMsg: "export_interval",
		},
		{
			name:   "zero shutdown timeout",
			config: enabled(func(c *Config) { c.Shutdown.Timeout = config.Duration(0) }),
			errMsg: "shutdown.timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestStripScheme(t *testing.T) {
	assert.Equal(t, "collector:4318", stripScheme("https://collector:4318"))
	assert.Equal(t, "collector:4318", stripScheme("http://collector:4318"))
	assert.Equal(t, "collector:4317", stripScheme("collector:4317"))
}
