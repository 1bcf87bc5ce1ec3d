package security

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	percentOctets = regexp.MustCompile(`%[a-fA-F0-9]{2}`)
	whitespaceRun = regexp.MustCompile(`[\r\n\t ]+`)
)

// Sanitizer cleans free-text form input before it is stored
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates a sanitizer that strips all markup
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// maxSanitizePasses bounds the strip loop for deeply nested entity encodings
const maxSanitizePasses = 8

// TextField strips tags, invalid UTF-8, percent-encoded octets and line breaks,
// collapses whitespace runs and trims the result.
// Entity-encoded markup is decoded before stripping and the pass repeats
// until the output is stable, so no tag survives in the stored text.
func (s *Sanitizer) TextField(value string) string {
	if value == "" {
		return ""
	}

	out := strings.ToValidUTF8(value, "")
	for i := 0; i < maxSanitizePasses; i++ {
		next := s.strip(out)
		if next == out {
			break
		}
		out = next
	}

	out = whitespaceRun.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// strip runs one decode, strip and re-decode pass
func (s *Sanitizer) strip(value string) string {
	out := s.policy.Sanitize(html.UnescapeString(value))
	// bluemonday escapes the text it keeps; records hold plain text
	out = html.UnescapeString(out)
	return percentOctets.ReplaceAllString(out, "")
}

// Key lower-cases value and keeps only a-z, 0-9, underscore and dash
func Key(value string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(value) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
