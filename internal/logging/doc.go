// Package logging wraps zap for remedy.
//
// It adds:
//   - a Trace level below Debug
//   - a console stream tee'd with the OpenTelemetry log bridge
//   - trace and correlation ids pulled from the context
//   - redaction by field name and value pattern
//   - sampling below error level
//
// Create a logger from config:
//
//	logger, err := logging.NewLogger(cfg, tel.LoggerProvider())
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
// The engine and other internals take the *zap.Logger returned by
// Underlying.
//
// Error values are logged through Fault, which masks sensitive metadata
// keys before they are encoded:
//
//	logger.Warn(ctx, "no remediation", logging.Fault(err))
//
// # Testing
//
//	tl := logging.NewTestLogger()
//	eng := engine.NewDefault(engine.WithLogger(tl.Underlying()))
//	tl.AssertLogged(t, zapcore.DebugLevel, "template fallback")
package logging
