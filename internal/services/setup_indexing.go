package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"seopress/internal/content"
	"seopress/internal/options"
	"seopress/internal/views"
	"seopress/internal/wizard"
)

// Nested titles groups holding per content type robots flags
const (
	GroupSingleTitles  = "seopress_titles_single_titles"
	GroupArchiveTitles = "seopress_titles_archive_titles"
	GroupTaxTitles     = "seopress_titles_tax_titles"
	FlagNoindex        = "noindex"
)

type indexBox struct {
	ID      string
	Name    string
	Key     string
	Label   string
	Checked bool
}

type indexSection struct {
	Question string
	Hint     string
	Boxes    []indexBox
}

// NoindexFieldName is the form field carrying the noindex flag of key in group
func NoindexFieldName(group, key string) string {
	return fmt.Sprintf("%s[%s][%s][%s]", options.TitlesOption, group, key, FlagNoindex)
}

// IndexingView renders one noindex checkbox per single post type, per post type
// archive and per taxonomy archive
func (s *SetupService) IndexingView(ctx context.Context, w io.Writer, page *wizard.Page) error {
	titles, err := s.store.Get(ctx, options.TitlesOption)
	if err != nil {
		return err
	}

	boxes := func(idPrefix, group string, types []content.Type) []indexBox {
		out := make([]indexBox, 0, len(types))
		for _, t := range types {
			out = append(out, indexBox{
				ID:      fmt.Sprintf("%s[%s]", idPrefix, t.Key),
				Name:    NoindexFieldName(group, t.Key),
				Key:     t.Key,
				Label:   t.Label,
				Checked: titles.HasNested(group, t.Key, FlagNoindex),
			})
		}
		return out
	}

	sections := []indexSection{
		{
			Question: "For which single post types, should indexing be disabled?",
			Hint:     "Do not display this single post type in search engine results",
			Boxes:    boxes("seopress_titles_single_cpt_noindex", GroupSingleTitles, s.catalog.PostTypes()),
		},
		{
			Question: "For which post type archives, should indexing be disabled?",
			Hint:     "Do not display this post type archive in search engine results",
			Boxes:    boxes("seopress_titles_archive_cpt_noindex", GroupArchiveTitles, s.catalog.ArchiveTypes()),
		},
		{
			Question: "For which taxonomy archives, should indexing be disabled?",
			Hint:     "Do not display this taxonomy archive in search engine results",
			Boxes:    boxes("seopress_titles_tax_noindex", GroupTaxTitles, s.catalog.Taxonomies()),
		},
	}

	return s.render(w, wizard.StepIndexing, page, views.Data{
		"sections": sections,
	})
}

// SaveIndexing writes the noindex flag of every catalogued type. Unchecked
// boxes are stored as nil. Archive flags are written for all post types,
// including post and page which have no archive checkbox.
func (s *SetupService) SaveIndexing(ctx context.Context, page *wizard.Page) (err error) {
	ctx, span := s.startSpan(ctx, "setup.save_indexing", wizard.StepIndexing)
	defer func() { endSpan(span, err) }()

	postTypes := s.catalog.PostTypes()
	taxonomies := s.catalog.Taxonomies()

	var noindexed int
	err = s.updateRecord(ctx, options.TitlesOption, func(r options.Record) {
		set := func(group string, types []content.Type) {
			for _, t := range types {
				v := s.postedValue(page.Form, NoindexFieldName(group, t.Key))
				if v != nil {
					noindexed++
				}
				r.SetNested(group, t.Key, FlagNoindex, v)
			}
		}
		set(GroupSingleTitles, postTypes)
		set(GroupArchiveTitles, postTypes)
		set(GroupTaxTitles, taxonomies)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "indexing settings saved",
		slog.String("user", page.User),
		slog.Int("noindex_count", noindexed))
	return nil
}
