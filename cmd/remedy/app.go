package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/log/global"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/remedy/internal/config"
	"github.com/fyrsmithlabs/remedy/internal/engine"
	"github.com/fyrsmithlabs/remedy/internal/logging"
	"github.com/fyrsmithlabs/remedy/internal/telemetry"
	"github.com/fyrsmithlabs/remedy/internal/template"
)

// app holds the components built from configuration for one invocation.
type app struct {
	cfg       *config.Config
	logger    *logging.Logger
	telemetry *telemetry.Telemetry
	engine    *engine.Engine
}

// setupOptions are the root flags that influence setup.
type setupOptions struct {
	configPath string
	logLevel   string
}

func newApp(ctx context.Context, opts setupOptions) (*app, error) {
	path, err := configPath(opts.configPath)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logCfg := logging.NewDefaultConfig()
	if err := cfg.Unmarshal("logging", logCfg); err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		level, err := logging.ParseLevel(opts.logLevel)
		if err != nil {
			return nil, err
		}
		logCfg.Level = level
	}

	telCfg := telemetry.NewDefaultConfig()
	if err := cfg.Unmarshal("telemetry", telCfg); err != nil {
		return nil, err
	}

	// Telemetry comes up before the logger so the OTEL bridge can attach to
	// the global provider. Its own warnings go to a bootstrap logger.
	bootstrap, err := logging.NewLogger(logCfg, nil)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	tel, err := telemetry.New(ctx, telCfg, telemetry.WithLogger(bootstrap.Underlying()))
	if err != nil {
		return nil, err
	}

	logger := bootstrap
	if logCfg.Output.OTEL && tel.IsEnabled() {
		tel.SetLoggerProvider(global.GetLoggerProvider())
		if logger, err = logging.NewLogger(logCfg, tel.LoggerProvider()); err != nil {
			return nil, fmt.Errorf("creating logger: %w", err)
		}
	}

	templates := template.NewDefaultRegistry()
	if file := cfg.Engine.TemplatesFile; file != "" {
		n, err := template.LoadFile(templates, file)
		if err != nil {
			return nil, fmt.Errorf("loading templates: %w", err)
		}
		logger.Debug(ctx, "templates loaded", zap.String("file", file), zap.Int("count", n))
	}

	eng := engine.NewDefault(
		engine.WithLogger(logger.Named("engine").Underlying()),
		engine.WithTelemetry(tel),
		engine.WithTemplates(templates),
		engine.WithConfig(cfg.Engine),
	)

	return &app{cfg: cfg, logger: logger, telemetry: tel, engine: eng}, nil
}

// configPath makes an explicit relative path absolute. "~" paths are left
// for the loader to expand.
func configPath(p string) (string, error) {
	if p == "" || p == "~" || strings.HasPrefix(p, "~/") || filepath.IsAbs(p) {
		return p, nil
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolving config path: %w", err)
	}
	return abs, nil
}

func (a *app) close() error {
	if a == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	if err := a.telemetry.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("telemetry shutdown: %w", err))
	}
	if err := a.logger.Sync(); err != nil {
		errs = append(errs, fmt.Errorf("logger sync: %w", err))
	}
	return errors.Join(errs...)
}
