package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"seopress/internal/config"
	"seopress/internal/content"
	"seopress/internal/options"
	"seopress/internal/security"
	"seopress/internal/validation"
	"seopress/internal/views"
	"seopress/internal/wizard"
)

// Step display names
const (
	NameImportSettings = "Import SEO settings"
	NameSite           = "Your site"
	NameIndexing       = "Indexing"
	NameAdvanced       = "Advanced options"
	NameReady          = "Ready!"
)

// SetupDeps holds the collaborators of SetupService
type SetupDeps struct {
	Store     options.Store
	Catalog   *content.Catalog
	Renderer  *views.Renderer
	Sanitizer *security.Sanitizer
	Validator *validation.FormValidator
	Flusher   RewriteFlusher
	Site      config.SiteConfig
	Wizard    config.WizardConfig
	Tracer    trace.Tracer
	Logger    *slog.Logger
}

// SetupService provides the views and save handlers of the wizard steps
type SetupService struct {
	store     options.Store
	catalog   *content.Catalog
	renderer  *views.Renderer
	sanitizer *security.Sanitizer
	validator *validation.FormValidator
	flusher   RewriteFlusher
	site      config.SiteConfig
	wizard    config.WizardConfig
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewSetupService creates the setup service; missing optional collaborators get defaults
func NewSetupService(deps SetupDeps) (*SetupService, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("setup service requires an option store")
	}
	if deps.Renderer == nil {
		return nil, ErrRendererMissing
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := deps.Tracer
	if tracer == nil {
		tracer = tracenoop.NewTracerProvider().Tracer("seopress")
	}
	catalog := deps.Catalog
	if catalog == nil {
		catalog = content.NewCatalog(deps.Site)
	}
	sanitizer := deps.Sanitizer
	if sanitizer == nil {
		sanitizer = security.NewSanitizer()
	}
	v := deps.Validator
	if v == nil {
		v = validation.NewFormValidator()
	}
	flusher := deps.Flusher
	if flusher == nil {
		flusher = NewRewriteFlusher(nil, logger)
	}

	return &SetupService{
		store:     deps.Store,
		catalog:   catalog,
		renderer:  deps.Renderer,
		sanitizer: sanitizer,
		validator: v,
		flusher:   flusher,
		site:      deps.Site,
		wizard:    deps.Wizard,
		tracer:    tracer,
		logger:    logger.With(slog.String("service", "setup")),
	}, nil
}

// Steps returns the default wizard progression
func (s *SetupService) Steps() []wizard.Step {
	return []wizard.Step{
		{Slug: wizard.StepImportSettings, Name: NameImportSettings, View: s.ImportSettingsView, Handler: s.SaveImportSettings},
		{Slug: wizard.StepSite, Name: NameSite, View: s.SiteView, Handler: s.SaveSite},
		{Slug: wizard.StepIndexing, Name: NameIndexing, View: s.IndexingView, Handler: s.SaveIndexing},
		{Slug: wizard.StepAdvanced, Name: NameAdvanced, View: s.AdvancedView, Handler: s.SaveAdvanced},
		{Slug: wizard.StepReady, Name: NameReady, View: s.ReadyView},
	}
}

// Store returns the option store the service writes to
func (s *SetupService) Store() options.Store {
	return s.store
}

func (s *SetupService) render(w io.Writer, name string, page *wizard.Page, data views.Data) error {
	if data == nil {
		data = views.Data{}
	}
	data["nonce"] = page.Nonce
	return s.renderer.Render(w, name+".html", data)
}

// adminPage returns the admin URL of another plugin page
func (s *SetupService) adminPage(slug string) string {
	return s.wizard.AdminPath + "?" + url.Values{wizard.ParamPage: {slug}}.Encode()
}

// postedValue returns the sanitised form value of name, or nil when the field is absent
func (s *SetupService) postedValue(form url.Values, name string) any {
	if _, ok := form[name]; !ok {
		return nil
	}
	return s.sanitizer.TextField(form.Get(name))
}

// updateRecord loads name, applies fn and writes the record back
func (s *SetupService) updateRecord(ctx context.Context, name string, fn func(options.Record)) error {
	record, err := s.store.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	fn(record)
	if err := s.store.Update(ctx, name, record); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

func (s *SetupService) startSpan(ctx context.Context, name, step string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("wizard.step", step)))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
