package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, zapcore.WarnLevel, cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, StreamStderr, cfg.Output.Stream)
	assert.Equal(t, "remedy", cfg.Fields["service"])
	assert.Contains(t, cfg.Redaction.Fields, "password")
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mod     func(*Config)
		wantErr string
	}{
		{name: "defaults", mod: func(*Config) {}},
		{name: "console stdout", mod: func(c *Config) { c.Format = "console"; c.Output.Stream = StreamStdout }},
		{name: "otel only", mod: func(c *Config) { c.Output = OutputConfig{OTEL: true} }},
		{name: "sampling off ignores tick", mod: func(c *Config) { c.Sampling = SamplingConfig{} }},
		{
			name:    "bad format",
			mod:     func(c *Config) { c.Format = "xml" },
			wantErr: "format must be",
		},
		{
			name:    "no outputs",
			mod:     func(c *Config) { c.Output = OutputConfig{} },
			wantErr: "at least one output",
		},
		{
			name:    "unknown stream",
			mod:     func(c *Config) { c.Output.Stream = "syslog" },
			wantErr: "output.stream",
		},
		{
			name:    "zero tick",
			mod:     func(c *Config) { c.Sampling.Tick = 0 },
			wantErr: "sampling tick",
		},
		{
			name:    "negative thereafter",
			mod:     func(c *Config) { c.Sampling.Thereafter = -1 },
			wantErr: "thereafter",
		},
		{
			name:    "negative caller skip",
			mod:     func(c *Config) { c.Caller.Skip = -1 },
			wantErr: "caller skip",
		},
		{
			name:    "bad pattern",
			mod:     func(c *Config) { c.Redaction.Patterns = []string{"("} },
			wantErr: "invalid redaction pattern",
		},
		{
			name:    "empty field value",
			mod:     func(c *Config) { c.Fields = map[string]string{"env": ""} },
			wantErr: "empty value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mod(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
