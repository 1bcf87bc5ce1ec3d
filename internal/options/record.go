package options

import "fmt"

// Option record names
const (
	TitlesOption        = "seopress_titles_option_name"
	SocialOption        = "seopress_social_option_name"
	AdvancedOption      = "seopress_advanced_option_name"
	NoticesOption       = "seopress_notices"
	ProLicenseStatus    = "seopress_pro_license_status"
	ProLicenseStatusKey = "status"
)

// Record is one named option group. A nil value means the key is unset.
type Record map[string]any

// Has reports whether key is present with a non-nil value
func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// String returns the value of key formatted as a string, or "" when unset
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Checked reports whether key holds the checkbox value "1"
func (r Record) Checked(key string) bool {
	return r.String(key) == "1"
}

// Set assigns value to key; a nil value unsets it
func (r Record) Set(key string, value any) {
	r[key] = value
}

// NestedFlag returns r[group][item][field] as a string, or "" when any level is missing.
// Used for the per content type maps such as
// seopress_titles_single_titles[post][noindex].
func (r Record) NestedFlag(group, item, field string) string {
	v, ok := r.nested(group, item, field)
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// HasNested reports whether r[group][item][field] is present and non-nil,
// whatever its value
func (r Record) HasNested(group, item, field string) bool {
	_, ok := r.nested(group, item, field)
	return ok
}

func (r Record) nested(group, item, field string) (any, bool) {
	items, ok := asMap(r[group])
	if !ok {
		return nil, false
	}
	fields, ok := asMap(items[item])
	if !ok {
		return nil, false
	}
	v, ok := fields[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// SetNested assigns r[group][item][field], creating intermediate maps
func (r Record) SetNested(group, item, field string, value any) {
	items, ok := asMap(r[group])
	if !ok {
		items = make(map[string]any)
		r[group] = items
	}
	fields, ok := asMap(items[item])
	if !ok {
		fields = make(map[string]any)
		items[item] = fields
	}
	fields[field] = value
}

// Clone returns a deep copy of r
func (r Record) Clone() Record {
	if r == nil {
		return Record{}
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Record:
		return m, true
	default:
		return nil, false
	}
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = cloneValue(val)
		}
		return m
	case Record:
		return map[string]any(t.Clone())
	case []any:
		s := make([]any, len(t))
		for i, val := range t {
			s[i] = cloneValue(val)
		}
		return s
	default:
		return v
	}
}
