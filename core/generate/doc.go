// Package generate turns raw model output into the artifacts the rest of the
// system consumes: code analyses, test suites and documentation.
//
// A [Generator] sends one prompt per call through an [ai.Provider], then
// feeds the reply through structured-value recovery. A reply that cannot be
// recovered is reported as [ErrUnparseableResponse]; the underlying
// *recovery.Failure stays reachable through errors.As so callers can log its
// stage and excerpt. Documentation diagrams are normalized before they are
// returned, so a renderer always receives a drawable diagram.
//
// Provider calls pass through a chain of [Middleware]. The middleware
// subpackage ships retry, timeout and logging middleware:
//
//	gen, err := generate.New(provider,
//	    generate.WithObserver(slogobs.New()),
//	    generate.WithMiddleware(
//	        middleware.NewRetryMiddleware(middleware.RetryConfig{Retries: 2}),
//	        middleware.NewTimeoutMiddleware(30*time.Second),
//	    ),
//	    generate.WithReprompts(1),
//	)
//	analysis, err := gen.AnalyzeCode(ctx, source)
package generate
