package services

import (
	"context"
	"io"
	"log/slog"

	"seopress/internal/options"
	"seopress/internal/views"
	"seopress/internal/wizard"
)

// Toggle is one checkbox of the advanced step bound to an option key
type Toggle struct {
	Name    string
	Option  string
	Key     string
	Label   string
	Info    string
	Checked bool
}

var generalToggles = []Toggle{
	{
		Name:   "author_noindex",
		Option: options.TitlesOption,
		Key:    "seopress_titles_archives_author_noindex",
		Label:  "Do not display author archives in search engine results (noindex)",
		Info:   "You only have one author on your site? Check this option to avoid duplicate content.",
	},
	{
		Name:   "attachments_file",
		Option: options.AdvancedOption,
		Key:    "seopress_advanced_advanced_attachments_file",
		Label:  "Redirect attachment pages to their file URL (https://www.example.com/my-image-file.jpg)",
		Info:   "By default, SEOPress redirects your Attachment pages to the parent post. Optimize this by redirecting the user directly to the URL of the media file.",
	},
	{
		Name:   "category_url",
		Option: options.AdvancedOption,
		Key:    "seopress_advanced_advanced_category_url",
		Label:  "Remove /category/ in your permalinks",
		Info:   "Shorten your URLs by removing /category/ and improve your SEO.",
	},
}

var columnToggles = []Toggle{
	{Name: "meta_title", Option: options.AdvancedOption, Key: "seopress_advanced_appearance_title_col", Label: "Show Title tag column in post types"},
	{Name: "meta_desc", Option: options.AdvancedOption, Key: "seopress_advanced_appearance_meta_desc_col", Label: "Show Meta description column in post types"},
	{Name: "robots_noindex", Option: options.AdvancedOption, Key: "seopress_advanced_appearance_noindex_col", Label: "Show noindex column in post types", Info: "Quickly know if a content is in noindex."},
	{Name: "robots_nofollow", Option: options.AdvancedOption, Key: "seopress_advanced_appearance_nofollow_col", Label: "Show nofollow column in post types", Info: "Quickly know if a content is in nofollow."},
	{Name: "ca_score", Option: options.AdvancedOption, Key: "seopress_advanced_appearance_score_col", Label: "Show content analysis score column in post types", Info: "Quickly know if a content is optimized for search engines."},
}

// AdvancedToggles returns every checkbox of the advanced step in display order
func AdvancedToggles() []Toggle {
	out := make([]Toggle, 0, len(generalToggles)+len(columnToggles))
	out = append(out, generalToggles...)
	return append(out, columnToggles...)
}

// AdvancedView renders the URL structure and admin column toggles
func (s *SetupService) AdvancedView(ctx context.Context, w io.Writer, page *wizard.Page) error {
	records := map[string]options.Record{}
	for _, name := range []string{options.TitlesOption, options.AdvancedOption} {
		r, err := s.store.Get(ctx, name)
		if err != nil {
			return err
		}
		records[name] = r
	}

	mark := func(in []Toggle) []Toggle {
		out := make([]Toggle, len(in))
		for i, t := range in {
			t.Checked = records[t.Option].Has(t.Key)
			out[i] = t
		}
		return out
	}

	return s.render(w, wizard.StepAdvanced, page, views.Data{
		"general": mark(generalToggles),
		"columns": mark(columnToggles),
	})
}

// SaveAdvanced stores each toggle as its posted value, or nil when unchecked
func (s *SetupService) SaveAdvanced(ctx context.Context, page *wizard.Page) (err error) {
	ctx, span := s.startSpan(ctx, "setup.save_advanced", wizard.StepAdvanced)
	defer func() { endSpan(span, err) }()

	toggles := AdvancedToggles()
	for _, name := range []string{options.TitlesOption, options.AdvancedOption} {
		err = s.updateRecord(ctx, name, func(r options.Record) {
			for _, t := range toggles {
				if t.Option == name {
					r.Set(t.Key, s.postedValue(page.Form, t.Name))
				}
			}
		})
		if err != nil {
			return err
		}
	}

	s.logger.InfoContext(ctx, "advanced settings saved", slog.String("user", page.User))
	return nil
}
