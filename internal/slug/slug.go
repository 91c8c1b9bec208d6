// Package slug builds url path segments from titles.
package slug

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/mozillazg/go-unidecode"
)

const maxLength = 120

var (
	invalid   = regexp.MustCompile(`[^a-z0-9]+`)
	suffixLen = 6
)

// Make transliterates s to ASCII, lowercases it and joins the alphanumeric runs with hyphens.
func Make(s string) string {
	out := strings.ToLower(unidecode.Unidecode(s))
	out = invalid.ReplaceAllString(out, "-")
	out = strings.Trim(out, "-")

	if len(out) > maxLength {
		out = strings.TrimRight(out[:maxLength], "-")
	}

	return out
}

// WithSuffix appends a short random suffix to base.
func WithSuffix(base string) string {
	return base + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:suffixLen]
}
