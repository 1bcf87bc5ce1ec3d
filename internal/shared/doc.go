// Package shared holds helpers used by more than one package of the setup
// wizard service.
//
// The testutil subpackage provides a buffered slog handler and log
// assertions for tests:
//
//	logger, buf := testutil.NewTestLogger(t)
//	svc := services.NewHealthService("1.0.0", "", store, nil, logger)
//	...
//	testutil.AssertLogContains(t, buf, slog.LevelInfo, "request completed")
//
// Nothing here may import domain packages.
package shared
