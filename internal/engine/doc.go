// Package engine is the facade over classification, parameter extraction,
// fix generation and the template fallback.
//
//	eng := engine.NewDefault(
//	    engine.WithLogger(logger),
//	    engine.WithTelemetry(tel),
//	    engine.WithConfig(cfg.Engine),
//	)
//	if fix := eng.Suggest(ctx, err, source); fix != nil {
//	    fmt.Println(fix)
//	}
//
// Each Suggest call opens an "engine.suggest" span and counts accepted
// proposals, declines and extractor hits.
package engine
