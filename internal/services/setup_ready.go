package services

import (
	"context"
	"fmt"
	"io"

	"seopress/internal/options"
	"seopress/internal/views"
	"seopress/internal/wizard"
)

// Upsell variants shown on the ready step
const (
	UpsellNone     = ""
	UpsellActivate = "activate"
	UpsellPro      = "pro"
)

// License and notice values
const (
	LicenseValid     = "valid"
	NoticeWizard     = "notice-wizard"
	ProURL           = "https://www.seopress.org/"
	KnowledgeBaseURL = "https://www.seopress.org/support/?utm_source=plugin&utm_medium=wizard&utm_campaign=seopress"
	PageLicense      = "seopress-license"
	PageXMLSitemap   = "seopress-xml-sitemap"
	PageSettings     = "seopress-option"
)

// ReadyView marks the wizard as completed, flushes rewrite rules and renders
// the upsell and next step links
func (s *SetupService) ReadyView(ctx context.Context, w io.Writer, page *wizard.Page) (err error) {
	ctx, span := s.startSpan(ctx, "setup.ready", wizard.StepReady)
	defer func() { endSpan(span, err) }()

	if err := s.updateRecord(ctx, options.NoticesOption, func(r options.Record) {
		r.Set(NoticeWizard, "1")
	}); err != nil {
		return err
	}

	if err := s.flusher.Flush(ctx); err != nil {
		return fmt.Errorf("flush rewrite rules: %w", err)
	}

	upsell, err := s.Upsell(ctx)
	if err != nil {
		return err
	}

	return s.render(w, wizard.StepReady, page, views.Data{
		"upsell":        upsell,
		"license_url":   s.adminPage(PageLicense),
		"pro_url":       ProURL,
		"sitemaps_url":  s.adminPage(PageXMLSitemap),
		"dashboard_url": s.wizard.AdminURL,
		"settings_url":  s.adminPage(PageSettings),
		"kb_url":        KnowledgeBaseURL,
	})
}

// Upsell picks the promotion block: an inactive licence on a PRO install asks
// for activation, a free install is offered PRO. Multisite shows neither.
func (s *SetupService) Upsell(ctx context.Context) (string, error) {
	if s.site.Multisite {
		return UpsellNone, nil
	}
	if !s.site.ProActive {
		return UpsellPro, nil
	}
	license, err := s.store.Get(ctx, options.ProLicenseStatus)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", options.ProLicenseStatus, err)
	}
	if license.String(options.ProLicenseStatusKey) != LicenseValid {
		return UpsellActivate, nil
	}
	return UpsellNone, nil
}
