// Package app wires the setup wizard together and manages its lifecycle.
//
// NewApplication builds every component from a loaded configuration:
//
//	1. Initialise OpenTelemetry and the wizard metrics
//	2. Open the option store
//	3. Create the setup service and the step registry
//	4. Register middleware and routes on a chi router
//	5. Create the HTTP server
//
// Run serves until ctx is cancelled and then shuts the server down,
// waiting up to the configured shutdown timeout for active requests.
// Close releases the store and flushes telemetry.
//
//	application, err := app.NewApplication(ctx, cfg, logger)
//	if err != nil {
//	    return err
//	}
//	defer application.Close(ctx)
//	return application.Run(ctx)
//
// Initialisation errors are returned to the caller; the package never exits
// the process.
package app
