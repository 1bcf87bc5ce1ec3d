package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "seopress/internal/errors"
	"seopress/internal/options"
	"seopress/internal/wizard"
)

// StepsResponse describes the wizard progression as seen from one step
type StepsResponse struct {
	Current string         `json:"current"`
	Steps   []wizard.Crumb `json:"steps"`
	Next    string         `json:"next"`
	Footer  *wizard.Link   `json:"footer,omitempty"`
}

// OptionResponse is one option record
type OptionResponse struct {
	Name  string         `json:"name"`
	Value options.Record `json:"value"`
}

// APIHandler exposes the wizard state and option records as JSON
type APIHandler struct {
	wizard     *wizard.Wizard
	store      options.Store
	errHandler *apierrors.ErrorHandler
	logger     *slog.Logger
}

// NewAPIHandler creates an API handler
func NewAPIHandler(w *wizard.Wizard, store options.Store, errHandler *apierrors.ErrorHandler, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		wizard:     w,
		store:      store,
		errHandler: errHandler,
		logger:     logger.With(slog.String("handler", "api")),
	}
}

// Steps handles GET /api/wizard/steps?step=
func (h *APIHandler) Steps(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	current := h.wizard.CurrentStep(query)

	if !h.wizard.Registry().Has(current) {
		h.errHandler.HandleError(w, r, apierrors.StepNotFound(current))
		return
	}

	// Links are built for the wizard page, not the API path
	linkQuery := query
	if linkQuery.Get(wizard.ParamPage) == "" {
		linkQuery = cloneQuery(query)
		linkQuery.Set(wizard.ParamPage, h.wizard.PageSlug())
	}

	next, err := h.wizard.NextStepLink(current, "", linkQuery)
	if err != nil {
		h.errHandler.HandleError(w, r, apierrors.StepNotFound(current))
		return
	}
	footer, err := h.wizard.FooterLink(current, linkQuery)
	if err != nil {
		h.errHandler.HandleError(w, r, apierrors.StepNotFound(current))
		return
	}

	render.JSON(w, r, StepsResponse{
		Current: current,
		Steps:   h.wizard.Breadcrumbs(current, linkQuery),
		Next:    next,
		Footer:  footer,
	})
}

// Option handles GET /api/options/{name}
func (h *APIHandler) Option(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	exists, err := options.Exists(ctx, h.store, name)
	if err != nil {
		h.errHandler.HandleError(w, r, apierrors.StorageError("list options", err))
		return
	}
	if !exists {
		h.errHandler.HandleError(w, r, apierrors.OptionNotFound(name))
		return
	}

	record, err := h.store.Get(ctx, name)
	if err != nil {
		h.errHandler.HandleError(w, r, apierrors.StorageError("get option", err))
		return
	}

	render.JSON(w, r, OptionResponse{Name: name, Value: record})
}

// Options handles GET /api/options
func (h *APIHandler) Options(w http.ResponseWriter, r *http.Request) {
	names, err := h.store.Names(r.Context())
	if err != nil {
		h.errHandler.HandleError(w, r, apierrors.StorageError("list options", err))
		return
	}
	if names == nil {
		names = []string{}
	}
	render.JSON(w, r, map[string][]string{"names": names})
}
