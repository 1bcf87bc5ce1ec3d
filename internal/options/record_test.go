package options

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestRecord_Accessors(t *testing.T) {
	r := Record{
		"seopress_titles_sep":                     "-",
		"seopress_titles_archives_author_noindex": "1",
		"seopress_social_knowledge_img":           nil,
		"count":                                   3,
	}

	assert.True(t, r.Has("seopress_titles_sep"))
	assert.False(t, r.Has("seopress_social_knowledge_img"))
	assert.False(t, r.Has("missing"))

	assert.Equal(t, "-", r.String("seopress_titles_sep"))
	assert.Equal(t, "", r.String("seopress_social_knowledge_img"))
	assert.Equal(t, "3", r.String("count"))

	assert.True(t, r.Checked("seopress_titles_archives_author_noindex"))
	assert.False(t, r.Checked("seopress_titles_sep"))
}

func TestRecord_Nested(t *testing.T) {
	r := Record{}
	r.SetNested("seopress_titles_single_titles", "post", "noindex", "1")
	r.SetNested("seopress_titles_single_titles", "page", "noindex", nil)
	r.SetNested("seopress_titles_single_titles", "post", "title", "%%post_title%%")

	want := Record{
		"seopress_titles_single_titles": map[string]any{
			"post": map[string]any{"noindex": "1", "title": "%%post_title%%"},
			"page": map[string]any{"noindex": nil},
		},
	}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("SetNested() mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "1", r.NestedFlag("seopress_titles_single_titles", "post", "noindex"))
	assert.Equal(t, "", r.NestedFlag("seopress_titles_single_titles", "page", "noindex"))
	assert.Equal(t, "", r.NestedFlag("seopress_titles_single_titles", "product", "noindex"))
	assert.Equal(t, "", r.NestedFlag("seopress_titles_tax_titles", "category", "noindex"))

	assert.True(t, r.HasNested("seopress_titles_single_titles", "post", "noindex"))
	assert.False(t, r.HasNested("seopress_titles_single_titles", "page", "noindex"))
	assert.False(t, r.HasNested("seopress_titles_single_titles", "product", "noindex"))

	r.SetNested("seopress_titles_single_titles", "page", "noindex", "")
	assert.True(t, r.HasNested("seopress_titles_single_titles", "page", "noindex"))
	assert.Equal(t, "", r.NestedFlag("seopress_titles_single_titles", "page", "noindex"))
}

func TestRecord_SetNestedReplacesScalar(t *testing.T) {
	r := Record{"seopress_titles_tax_titles": "corrupt"}
	r.SetNested("seopress_titles_tax_titles", "category", "noindex", "1")
	assert.Equal(t, "1", r.NestedFlag("seopress_titles_tax_titles", "category", "noindex"))
}

func TestRecord_CloneIsDeep(t *testing.T) {
	orig := Record{}
	orig.SetNested("seopress_titles_archive_titles", "product", "noindex", "1")

	cp := orig.Clone()
	cp.SetNested("seopress_titles_archive_titles", "product", "noindex", nil)

	assert.Equal(t, "1", orig.NestedFlag("seopress_titles_archive_titles", "product", "noindex"))
	assert.Equal(t, Record{}, Record(nil).Clone())
}
