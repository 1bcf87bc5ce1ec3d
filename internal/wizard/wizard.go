package wizard

import (
	"fmt"
	"net/url"

	"seopress/internal/config"
	"seopress/internal/security"
)

// Query parameters understood by the wizard
const (
	ParamPage          = "page"
	ParamStep          = "step"
	ParamActivateError = "activate_error"
)

// Wizard answers navigation questions for a registry of steps
type Wizard struct {
	registry  *Registry
	adminPath string
	adminURL  string
	pageSlug  string
}

// New binds registry to the admin locations in cfg
func New(registry *Registry, cfg config.WizardConfig) *Wizard {
	return &Wizard{
		registry:  registry,
		adminPath: cfg.AdminPath,
		adminURL:  cfg.AdminURL,
		pageSlug:  cfg.PageSlug,
	}
}

// Registry returns the underlying step registry
func (w *Wizard) Registry() *Registry {
	return w.registry
}

// PageSlug returns the admin page slug the wizard answers to
func (w *Wizard) PageSlug() string {
	return w.pageSlug
}

// AdminURL returns the admin home URL
func (w *Wizard) AdminURL() string {
	return w.adminURL
}

// AdminPage returns the URL of another admin page, e.g. AdminPage("seopress-option")
func (w *Wizard) AdminPage(slug string) string {
	return w.adminPath + "?" + url.Values{ParamPage: {slug}}.Encode()
}

// EntryURL returns the URL of the first wizard step
func (w *Wizard) EntryURL() string {
	return w.AdminPage(w.pageSlug)
}

// CurrentStep returns the sanitised step query value, or the first step slug when absent
func (w *Wizard) CurrentStep(query url.Values) string {
	if step := security.Key(query.Get(ParamStep)); step != "" {
		return step
	}
	if first, ok := w.registry.First(); ok {
		return first.Slug
	}
	return ""
}

// NextStepLink returns the URL of the step following step. An empty step means
// current. The last step links to the admin home; other query parameters are
// preserved except activate_error.
func (w *Wizard) NextStepLink(current, step string, query url.Values) (string, error) {
	if step == "" {
		step = current
	}

	next, found, last := w.registry.next(step)
	if !found {
		return "", fmt.Errorf("%w: %s", ErrStepNotFound, step)
	}
	if last {
		return w.adminURL, nil
	}
	return w.StepLink(next, query), nil
}

// StepLink returns the URL of slug, preserving query minus activate_error
func (w *Wizard) StepLink(slug string, query url.Values) string {
	q := url.Values{}
	for k, v := range query {
		if k == ParamActivateError {
			continue
		}
		q[k] = append([]string(nil), v...)
	}
	if q.Get(ParamPage) == "" {
		q.Set(ParamPage, w.pageSlug)
	}
	q.Set(ParamStep, slug)
	return w.adminPath + "?" + q.Encode()
}

// Breadcrumbs returns one crumb per step. Steps before current are done and
// linked, current is active and later steps are pending.
func (w *Wizard) Breadcrumbs(current string, query url.Values) []Crumb {
	steps := w.registry.List()
	currentIdx := w.registry.Index(current)

	crumbs := make([]Crumb, 0, len(steps))
	for i, step := range steps {
		crumb := Crumb{Slug: step.Slug, Name: step.Name, Status: StatusPending}
		switch {
		case i == currentIdx:
			crumb.Status = StatusActive
		case currentIdx >= 0 && i < currentIdx:
			crumb.Status = StatusDone
			crumb.URL = w.StepLink(step.Slug, query)
		}
		crumbs = append(crumbs, crumb)
	}
	return crumbs
}

// Footer link labels
const (
	LabelNotNow = "Not right now"
	LabelSkip   = "Skip this step"
)

// FooterLink returns the escape link shown under the step body, or nil
func (w *Wizard) FooterLink(current string, query url.Values) (*Link, error) {
	switch current {
	case StepImportSettings:
		return &Link{Label: LabelNotNow, URL: w.adminURL}, nil
	case StepSite, StepIndexing, StepAdvanced:
		next, err := w.NextStepLink(current, "", query)
		if err != nil {
			return nil, err
		}
		return &Link{Label: LabelSkip, URL: next}, nil
	default:
		return nil, nil
	}
}

// Default step slugs
const (
	StepImportSettings = "import_settings"
	StepSite           = "site"
	StepIndexing       = "indexing"
	StepAdvanced       = "advanced"
	StepReady          = "ready"
)
