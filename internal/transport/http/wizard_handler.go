package http

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"

	apierrors "seopress/internal/errors"
	"seopress/internal/infrastructure"
	"seopress/internal/middleware"
	"seopress/internal/security"
	"seopress/internal/validation"
	"seopress/internal/views"
	"seopress/internal/wizard"
)

// Form fields and the nonce action of the wizard
const (
	NonceAction = "seopress-setup"
	NonceField  = "_wpnonce"
	SaveField   = "save_step"
)

// crumbView is the template shape of a breadcrumb
type crumbView struct {
	Name   string
	URL    string
	Active bool
	Done   bool
}

// WizardHandler dispatches wizard page requests to the registered steps
type WizardHandler struct {
	wizard     *wizard.Wizard
	renderer   *views.Renderer
	nonces     *security.Nonces
	errHandler *apierrors.ErrorHandler
	metrics    *infrastructure.WizardMetrics
	logger     *slog.Logger
}

// NewWizardHandler creates a wizard handler
func NewWizardHandler(
	w *wizard.Wizard,
	renderer *views.Renderer,
	nonces *security.Nonces,
	errHandler *apierrors.ErrorHandler,
	metrics *infrastructure.WizardMetrics,
	logger *slog.Logger,
) *WizardHandler {
	if metrics == nil {
		metrics = infrastructure.NoopWizardMetrics()
	}
	return &WizardHandler{
		wizard:     w,
		renderer:   renderer,
		nonces:     nonces,
		errHandler: errHandler,
		metrics:    metrics,
		logger:     logger.With(slog.String("handler", "wizard")),
	}
}

// ServeHTTP handles GET and POST on the admin page
func (h *WizardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	if query.Get(wizard.ParamPage) != h.wizard.PageSlug() {
		http.Redirect(w, r, h.wizard.AdminURL(), http.StatusFound)
		return
	}

	current := h.wizard.CurrentStep(query)
	step, err := h.wizard.Registry().Get(current)
	if err != nil {
		h.errHandler.HandleError(w, r, apierrors.StepNotFound(current))
		return
	}

	page := &wizard.Page{
		Step:  current,
		Query: query,
		User:  middleware.UserFromContext(ctx),
	}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			h.errHandler.HandleError(w, r, apierrors.ErrInvalidRequest)
			return
		}
		page.Form = r.PostForm

		if page.Form.Get(SaveField) != "" && step.HasHandler() {
			h.save(w, r, step, page)
			return
		}
	}

	h.render(w, r, step, page, http.StatusOK)
}

func (h *WizardHandler) save(w http.ResponseWriter, r *http.Request, step wizard.Step, page *wizard.Page) {
	ctx := r.Context()

	if err := h.nonces.Verify(page.Form.Get(NonceField), NonceAction, page.User); err != nil {
		h.metrics.StepFailures.Add(ctx, 1, infrastructure.StepAttr(step.Slug))
		h.errHandler.HandleError(w, r, apierrors.ErrInvalidNonce)
		return
	}

	if err := step.Handler(ctx, page); err != nil {
		h.metrics.StepFailures.Add(ctx, 1, infrastructure.StepAttr(step.Slug))

		if fieldErrs := validation.FieldErrors(err); fieldErrs != nil {
			h.logger.InfoContext(ctx, "step form rejected",
				slog.String("step", step.Slug),
				slog.Any("fields", fieldErrs))
			page.Errors = fieldErrs
			h.render(w, r, step, page, http.StatusUnprocessableEntity)
			return
		}

		h.errHandler.HandleError(w, r, saveError(step.Slug, err))
		return
	}

	h.metrics.StepSaves.Add(ctx, 1, infrastructure.StepAttr(step.Slug))

	next, err := h.wizard.NextStepLink(step.Slug, "", page.Query)
	if err != nil {
		h.errHandler.HandleError(w, r, apierrors.StepNotFound(step.Slug))
		return
	}

	h.logger.InfoContext(ctx, "step saved",
		slog.String("step", step.Slug),
		slog.String("user", page.User),
		slog.String("next", next))
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// render writes the full page. The body is buffered so a failing view still
// produces a clean problem response.
func (h *WizardHandler) render(w http.ResponseWriter, r *http.Request, step wizard.Step, page *wizard.Page, status int) {
	ctx := r.Context()
	page.Nonce = h.nonces.Create(NonceAction, page.User)

	var body bytes.Buffer
	if err := step.View(ctx, &body, page); err != nil {
		h.errHandler.HandleError(w, r, renderError(step.Slug, err))
		return
	}

	footer, err := h.wizard.FooterLink(step.Slug, page.Query)
	if err != nil {
		h.errHandler.HandleError(w, r, apierrors.StepNotFound(step.Slug))
		return
	}

	crumbs := h.wizard.Breadcrumbs(step.Slug, page.Query)
	crumbViews := make([]crumbView, 0, len(crumbs))
	for _, c := range crumbs {
		crumbViews = append(crumbViews, crumbView{
			Name:   c.Name,
			URL:    c.URL,
			Active: c.Status == wizard.StatusActive,
			Done:   c.Status == wizard.StatusDone,
		})
	}

	data := views.Data{
		"crumbs": crumbViews,
		"body":   body.String(),
		"step":   step.Slug,
	}
	if footer != nil {
		data["footer"] = *footer
	}

	var out bytes.Buffer
	if err := h.renderer.Render(&out, "layout.html", data); err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	h.metrics.StepViews.Add(ctx, 1, infrastructure.StepAttr(step.Slug))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := out.WriteTo(w); err != nil {
		h.logger.WarnContext(ctx, "failed to write page", slog.String("error", err.Error()))
	}
}

// saveError keeps API and context errors and reports anything else as a storage failure
func saveError(slug string, err error) error {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return apierrors.StorageError("save step "+slug, err)
}

func renderError(slug string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return apierrors.StorageError("render step "+slug, err)
}
