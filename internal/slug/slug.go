package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	validSlug  = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	separators = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify converts free text into a URL-safe slug. Accents are stripped,
// every run of characters outside [a-z0-9] becomes a single hyphen and
// edge hyphens are trimmed. Empty input yields "".
func Slugify(input string) string {
	if input == "" {
		return ""
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, input)
	if err != nil {
		stripped = input
	}

	s := strings.ToLower(stripped)
	s = separators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// IsValidSlug reports whether s is a non-empty, well formed slug.
func IsValidSlug(s string) bool {
	return validSlug.MatchString(s)
}

// TruncateSlug cuts s to at most maxLength bytes without leaving a dangling
// hyphen. If stripping would empty the result the raw cut is returned.
func TruncateSlug(s string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}
	if len(s) <= maxLength {
		return s
	}

	cut := s[:maxLength]
	if trimmed := strings.TrimRight(cut, "-"); trimmed != "" {
		return trimmed
	}
	return cut
}
