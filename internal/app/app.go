package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"seopress/internal/config"
	apierrors "seopress/internal/errors"
	"seopress/internal/infrastructure"
	customMiddleware "seopress/internal/middleware"
	"seopress/internal/options"
	"seopress/internal/security"
	"seopress/internal/services"
	handlers "seopress/internal/transport/http"
	"seopress/internal/views"
	"seopress/internal/wizard"
)

// BuildTime is set at compile time
var BuildTime = ""

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.WizardMetrics
	Store         options.Store
	Setup         *services.SetupService
	Health        *services.HealthService
	Wizard        *wizard.Wizard

	renderer      *views.Renderer
	errHandler    *apierrors.ErrorHandler
	authenticator *security.Authenticator
	nonces        *security.Nonces
	stepsFilter   wizard.StepsFilter
}

// Option customises the application
type Option func(*Application)

// WithStepsFilter replaces the default step list before it is registered
func WithStepsFilter(filter wizard.StepsFilter) Option {
	return func(a *Application) {
		a.stepsFilter = filter
	}
}

// NewApplication creates a new application instance with dependency injection
func NewApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	a := &Application{
		Config:     cfg,
		Logger:     logger,
		errHandler: apierrors.NewErrorHandler(logger, cfg.Telemetry.Environment == "development"),
	}
	for _, opt := range opts {
		opt(a)
	}

	logger.InfoContext(ctx, "Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("storage", cfg.Storage.Driver),
		slog.Bool("wizard_enabled", cfg.Wizard.Enabled))

	if err := a.initializeServices(ctx); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	a.setupRouter()
	a.createServer()

	return a, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices(ctx context.Context) error {
	providers, err := infrastructure.InitializeOTel(a.Config.Telemetry, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	a.OTelProviders = providers

	metrics, err := infrastructure.CreateWizardMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("failed to create wizard metrics: %w", err)
	}
	a.Metrics = metrics

	store, err := options.Open(ctx, a.Config.Storage)
	if err != nil {
		return fmt.Errorf("failed to open option store: %w", err)
	}
	a.Store = store

	a.authenticator, err = security.NewAuthenticator(a.Config.Security.AdminUser, a.Config.Security.AdminPasswordHash)
	if err != nil {
		return fmt.Errorf("failed to configure admin authentication: %w", err)
	}

	a.nonces, err = security.NewNonces(a.Config.Security.NonceSecret, a.Config.Security.NonceLifetime)
	if err != nil {
		return fmt.Errorf("failed to configure nonces: %w", err)
	}
	if a.Config.Security.NonceSecret == "" {
		a.Logger.WarnContext(ctx, "No nonce secret configured, form tokens will not survive a restart")
	}

	a.renderer, err = views.New()
	if err != nil {
		return err
	}

	a.Setup, err = services.NewSetupService(services.SetupDeps{
		Store:    store,
		Renderer: a.renderer,
		Flusher:  services.NewRewriteFlusher(metrics.RewriteFlush, a.Logger),
		Site:     a.Config.Site,
		Wizard:   a.Config.Wizard,
		Tracer:   providers.Tracer,
		Logger:   a.Logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create setup service: %w", err)
	}

	var stepCount func() int
	if a.Config.Wizard.Enabled {
		registry, err := wizard.NewRegistryFromSteps(a.Setup.Steps(), a.stepsFilter)
		if err != nil {
			return fmt.Errorf("failed to register wizard steps: %w", err)
		}
		a.Wizard = wizard.New(registry, a.Config.Wizard)
		stepCount = registry.Count
		a.Logger.InfoContext(ctx, "Wizard steps registered", slog.Any("steps", registry.Slugs()))
	}

	a.Health = services.NewHealthService(config.AppVersion, BuildTime, store, stepCount, a.Logger)
	return nil
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()
	r.NotFound(a.errHandler.NotFound)
	r.MethodNotAllowed(a.errHandler.MethodNotAllowed)

	// RequestID → RealIP → OTel → Logger → Recoverer → Timeout
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.errHandler))
	r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.errHandler,
			a.Logger,
		).Handler)
	}

	healthHandler := handlers.NewHealthHandler(a.Health, a.Logger)
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/version", healthHandler.Version)

		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.AdminAuth(a.authenticator, a.errHandler, a.Logger))
			a.setupAPIRoutes(r)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.AdminAuth(a.authenticator, a.errHandler, a.Logger))
		a.setupAdminRoutes(r)
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes registers the authenticated JSON endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	if a.Wizard == nil {
		return
	}
	api := handlers.NewAPIHandler(a.Wizard, a.Store, a.errHandler, a.Logger)
	r.Get("/wizard/steps", api.Steps)
	r.Get("/options", api.Options)
	r.Get("/options/{name}", api.Option)
}

// setupAdminRoutes registers the wizard page and the admin home it returns to.
// A disabled wizard registers neither.
func (a *Application) setupAdminRoutes(r chi.Router) {
	if a.Wizard == nil {
		return
	}

	wizardHandler := handlers.NewWizardHandler(a.Wizard, a.renderer, a.nonces, a.errHandler, a.Metrics, a.Logger)
	r.Method(http.MethodGet, a.Config.Wizard.AdminPath, wizardHandler)
	r.Method(http.MethodPost, a.Config.Wizard.AdminPath, wizardHandler)

	// An absolute admin URL points at a host this server does not serve
	home := a.Config.Wizard.AdminURL
	if strings.HasPrefix(home, "/") && home != a.Config.Wizard.AdminPath {
		r.Method(http.MethodGet, home,
			handlers.NewHomeHandler(a.Wizard, a.Store, a.renderer, a.errHandler, a.Logger))
	}
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.ListenAddr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run serves HTTP until ctx is cancelled, then shuts the server down gracefully
func (a *Application) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "Server listening",
			slog.String("address", a.Server.Addr),
			slog.String("wizard", a.Config.Wizard.AdminPath+"?page="+a.Config.Wizard.PageSlug))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.InfoContext(context.Background(), "Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Close releases the option store and flushes telemetry
func (a *Application) Close(ctx context.Context) error {
	var errs []error

	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close option store: %w", err))
		}
	}

	if a.OTelProviders != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown telemetry: %w", err))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}
