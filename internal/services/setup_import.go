package services

import (
	"context"
	"io"
	"log/slog"

	"seopress/internal/views"
	"seopress/internal/wizard"
)

// ImportSource is a competing SEO plugin whose metadata can be migrated
type ImportSource struct {
	ID    string
	Name  string
	Scope string
	Items []string
}

const (
	scopePostsAndTerms = "posts and terms"
	scopePosts         = "posts"
)

const (
	itemTitle     = "Title tags"
	itemMetaDesc  = "Meta description"
	itemOpenGraph = "Facebook Open Graph tags (title, description and image thumbnail)"
	itemTwitter   = "Twitter tags (title, description and image thumbnail)"
	itemCanonical = "Canonical URL"
	itemRedirect  = "Redirect URL"
	itemFocusKw   = "Focus keywords"
	itemPrimary   = "Primary category"
	itemKeywords  = "Keywords"
)

// ImportSources lists the migration tools shown on the import step, in display order
var ImportSources = []ImportSource{
	{ID: "yoast-migration-tool", Name: "Yoast SEO", Scope: scopePostsAndTerms, Items: []string{
		itemTitle, itemMetaDesc, itemOpenGraph, itemTwitter, "Meta Robots (noindex, nofollow...)", itemCanonical, itemFocusKw, itemPrimary}},
	{ID: "aio-migration-tool", Name: "All In One SEO", Scope: scopePosts, Items: []string{
		itemTitle, itemMetaDesc, itemOpenGraph, itemTwitter, "Meta Robots (noindex, nofollow...)", itemCanonical, itemFocusKw}},
	{ID: "seo-framework-migration-tool", Name: "The SEO Framework", Scope: scopePostsAndTerms, Items: []string{
		itemTitle, itemMetaDesc, itemOpenGraph, itemTwitter, "Meta Robots (noindex, nofollow, noarchive)", itemCanonical, itemRedirect}},
	{ID: "rk-migration-tool", Name: "Rank Math", Scope: scopePostsAndTerms, Items: []string{
		itemTitle, itemMetaDesc, itemOpenGraph, itemTwitter, "Meta Robots (noindex, nofollow, noarchive, noimageindex)", itemCanonical, itemFocusKw}},
	{ID: "squirrly-migration-tool", Name: "Squirrly SEO", Scope: scopePosts, Items: []string{
		itemTitle, itemMetaDesc, itemOpenGraph, itemTwitter, "Meta Robots (noindex or nofollow)", itemCanonical}},
	{ID: "seo-ultimate-migration-tool", Name: "SEO Ultimate", Scope: scopePosts, Items: []string{
		itemTitle, itemMetaDesc, itemOpenGraph, itemTwitter, "Meta Robots (noindex or nofollow)"}},
	{ID: "wp-meta-seo-migration-tool", Name: "WP Meta SEO", Scope: scopePostsAndTerms, Items: []string{
		itemTitle, itemMetaDesc, itemOpenGraph, itemTwitter}},
	{ID: "premium-seo-pack-migration-tool", Name: "Premium SEO Pack", Scope: scopePostsAndTerms, Items: []string{
		itemTitle, itemMetaDesc, itemOpenGraph, "Meta Robots (noindex, nofollow)", itemCanonical, itemFocusKw}},
	{ID: "wpseo-migration-tool", Name: "wpSEO", Scope: scopePostsAndTerms, Items: []string{
		itemTitle, itemMetaDesc, itemOpenGraph, itemTwitter, "Meta Robots (noindex, nofollow)", itemCanonical, itemRedirect, "Main keyword"}},
	{ID: "platinum-seo-migration-tool", Name: "Platinum SEO Pack", Scope: scopePostsAndTerms, Items: []string{
		itemTitle, itemMetaDesc, itemOpenGraph, itemTwitter, "Meta Robots (noindex, nofollow, noarchive, nosnippet, noimageindex)", itemCanonical, itemRedirect, itemPrimary, itemKeywords}},
	{ID: "smartcrawl-migration-tool", Name: "SmartCrawl", Scope: scopePostsAndTerms, Items: []string{
		itemTitle, itemMetaDesc, itemOpenGraph, itemTwitter, "Meta Robots (noindex, nofollow, noarchive, nosnippet)", itemCanonical, itemRedirect, itemFocusKw}},
	{ID: "seopressor-migration-tool", Name: "SEOPressor", Scope: scopePosts, Items: []string{
		itemTitle, itemMetaDesc, itemOpenGraph, itemTwitter, "Meta Robots (noindex, nofollow, noarchive, nosnippet, noodp, noimageindex)", itemCanonical, itemRedirect, itemKeywords}},
}

// ImportSettingsView renders the migration source picker
func (s *SetupService) ImportSettingsView(ctx context.Context, w io.Writer, page *wizard.Page) error {
	return s.render(w, wizard.StepImportSettings, page, views.Data{
		"sources": ImportSources,
	})
}

// SaveImportSettings only advances the wizard; migrations run from their own tools
func (s *SetupService) SaveImportSettings(ctx context.Context, page *wizard.Page) error {
	s.logger.InfoContext(ctx, "import step acknowledged",
		slog.String("user", page.User),
		slog.String("selected", page.Form.Get("select-wizard-import")))
	return nil
}
