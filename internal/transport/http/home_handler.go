package http

import (
	"log/slog"
	"net/http"

	apierrors "seopress/internal/errors"
	"seopress/internal/options"
	"seopress/internal/services"
	"seopress/internal/views"
	"seopress/internal/wizard"
)

// HomeHandler serves the admin home page the wizard returns to
type HomeHandler struct {
	wizard     *wizard.Wizard
	store      options.Store
	renderer   *views.Renderer
	errHandler *apierrors.ErrorHandler
	logger     *slog.Logger
}

// NewHomeHandler creates the admin home handler
func NewHomeHandler(w *wizard.Wizard, store options.Store, renderer *views.Renderer, errHandler *apierrors.ErrorHandler, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		wizard:     w,
		store:      store,
		renderer:   renderer,
		errHandler: errHandler,
		logger:     logger.With(slog.String("handler", "home")),
	}
}

// ServeHTTP renders the dashboard. The wizard notice is shown until the
// ready step has been reached.
func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	notices, err := h.store.Get(r.Context(), options.NoticesOption)
	if err != nil {
		h.errHandler.HandleError(w, r, apierrors.StorageError("get notices", err))
		return
	}

	links := []wizard.Link{
		{Label: "Setup wizard", URL: h.wizard.EntryURL()},
		{Label: "XML sitemaps", URL: h.wizard.AdminPage(services.PageXMLSitemap)},
		{Label: "Settings", URL: h.wizard.AdminPage(services.PageSettings)},
	}

	out, err := h.renderer.RenderString("home.html", views.Data{
		"show_wizard_notice": !notices.Checked(services.NoticeWizard),
		"wizard_url":         h.wizard.EntryURL(),
		"links":              links,
	})
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(out)); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write page", slog.String("error", err.Error()))
	}
}
