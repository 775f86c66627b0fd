// SPDX-License-Identifier: MIT

package jobs

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// deaccent strips combining marks so "Восточное-3" and "Núñez" survive as
// plain ASCII-ish slugs where possible.
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var reDash = regexp.MustCompile(`-+`)

// slugify converts a well name into a URL-safe, human-readable slug.
// Example: "Well 12-A" → "well-12-a".
func slugify(name string) string {
	if name == "" {
		return "well"
	}

	s := strings.ToLower(name)
	if folded, _, err := transform.String(deaccent, s); err == nil {
		s = folded
	}

	var result strings.Builder
	lastWasDash := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
			lastWasDash = false
		} else if !lastWasDash {
			result.WriteRune('-')
			lastWasDash = true
		}
	}

	slug := strings.Trim(result.String(), "-")
	slug = reDash.ReplaceAllString(slug, "-")

	if len(slug) > 50 {
		slug = slug[:50]
		slug = strings.TrimRight(slug, "-")
	}

	if slug == "" {
		return "well"
	}
	return slug
}
