package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizer_TextField(t *testing.T) {
	s := NewSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "My Site", "My Site"},
		{"empty", "", ""},
		{"tags stripped", "<b>Acme</b> Inc", "Acme Inc"},
		{"script dropped", "Acme<script>alert(1)</script>", "Acme"},
		{"line breaks collapsed", "  Acme\n\tInc  ", "Acme Inc"},
		{"ampersand kept", "Tom & Jerry", "Tom & Jerry"},
		{"percent octets removed", "Acme%20Inc", "AcmeInc"},
		{"url kept", "https://example.com/logo.png", "https://example.com/logo.png"},
		{"invalid utf8 dropped", "Acme\xffInc", "AcmeInc"},
		{"escaped script dropped", "&lt;script&gt;alert(1)&lt;/script&gt;", ""},
		{"escaped tags stripped", "&lt;b&gt;Acme&lt;/b&gt; Inc", "Acme Inc"},
		{"double escaped script dropped", "&amp;lt;script&amp;gt;alert(1)&amp;lt;/script&amp;gt;", ""},
		{"tag hidden behind octets", "<%20b>Acme</%20b>", "Acme"},
		{"less than kept", "1 < 2", "1 < 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.TextField(tt.input))
		})
	}
}

func TestSanitizer_TextFieldHasNoTags(t *testing.T) {
	s := NewSanitizer()
	inputs := []string{
		"&lt;script&gt;alert(1)&lt;/script&gt;",
		"&#60;img src=x onerror=alert(1)&#62;",
		"&amp;amp;lt;iframe&amp;amp;gt;",
		"<scr<script>ipt>alert(1)</script>",
	}
	for _, in := range inputs {
		got := s.TextField(in)
		assert.NotContains(t, got, "<script", "input %q", in)
		assert.NotContains(t, got, "<img", "input %q", in)
		assert.NotContains(t, got, "<iframe", "input %q", in)
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "indexing", Key("Indexing"))
	assert.Equal(t, "import_settings", Key("import_settings"))
	assert.Equal(t, "site-1", Key("Site-1 "))
	assert.Equal(t, "scriptalert1", Key("<script>alert(1)"))
	assert.Equal(t, "", Key(""))
}
