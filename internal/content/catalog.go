// Package content lists the post types and taxonomies registered on the site.
package content

import (
	"sort"

	"seopress/internal/config"
)

// Built-in content type keys
const (
	PostTypePost = "post"
	PostTypePage = "page"
	TaxCategory  = "category"
	TaxPostTag   = "post_tag"
)

// Type is a registered post type or taxonomy
type Type struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

// Catalog holds the public post types and taxonomies in display order
type Catalog struct {
	postTypes  []Type
	taxonomies []Type
}

// NewCatalog builds a catalog from the built-in types plus the extras in cfg.
// Extras are appended in key order; an extra reusing a built-in key relabels it.
func NewCatalog(cfg config.SiteConfig) *Catalog {
	return &Catalog{
		postTypes: merge([]Type{
			{Key: PostTypePost, Label: "Posts"},
			{Key: PostTypePage, Label: "Pages"},
		}, cfg.PostTypes),
		taxonomies: merge([]Type{
			{Key: TaxCategory, Label: "Categories"},
			{Key: TaxPostTag, Label: "Tags"},
		}, cfg.Taxonomies),
	}
}

func merge(builtin []Type, extra map[string]string) []Type {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := builtin
	for _, k := range keys {
		label := extra[k]
		if label == "" {
			label = k
		}
		replaced := false
		for i := range out {
			if out[i].Key == k {
				out[i].Label = label
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, Type{Key: k, Label: label})
		}
	}
	return out
}

// PostTypes returns every public post type
func (c *Catalog) PostTypes() []Type {
	return append([]Type(nil), c.postTypes...)
}

// ArchiveTypes returns the post types that have an archive page, i.e. all but post and page
func (c *Catalog) ArchiveTypes() []Type {
	var out []Type
	for _, t := range c.postTypes {
		if t.Key == PostTypePost || t.Key == PostTypePage {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Taxonomies returns every public taxonomy
func (c *Catalog) Taxonomies() []Type {
	return append([]Type(nil), c.taxonomies...)
}
