// Package telemetry wires OpenTelemetry tracing and metrics for remedy.
//
// Spans and counters are exported over OTLP (grpc or http/protobuf) to a
// collector. Export is disabled by default; a disabled or degraded
// instance hands out the global no-op providers so instrumented code never
// checks.
//
//	tel, err := telemetry.New(ctx, cfg, telemetry.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(ctx)
//
// # Configuration
//
//	telemetry:
//	  enabled: true
//	  endpoint: "localhost:4317"
//	  protocol: grpc
//	  sampling:
//	    rate: 1.0
//	  metrics:
//	    enabled: true
//	    export_interval: "15s"
//
// # Testing
//
// NewTestTelemetry records spans in memory and exposes a manual metric
// reader:
//
//	tt := telemetry.NewTestTelemetry()
//	eng := engine.NewDefault(engine.WithTelemetry(tt.Telemetry))
//	eng.Suggest(ctx, err, "")
//	tt.AssertSpanExists(t, "engine.suggest")
package telemetry
