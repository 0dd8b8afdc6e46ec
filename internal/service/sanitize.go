package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// textSanitizer strips markup from user-entered text. Output is plain text;
// templates escape it again when rendering.
type textSanitizer struct {
	policy *bluemonday.Policy
}

func newTextSanitizer() *textSanitizer {
	return &textSanitizer{policy: bluemonday.StrictPolicy()}
}

func (s *textSanitizer) Clean(in string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(in)))
}

func (s *textSanitizer) CleanAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if c := s.Clean(v); c != "" {
			out = append(out, c)
		}
	}
	return out
}
