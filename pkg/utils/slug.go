package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// NormalizeSlug trims and lowercases input and checks it is URL-safe.
func NormalizeSlug(input string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return "", fmt.Errorf("slug is required")
	}
	if !slugPattern.MatchString(s) {
		return "", fmt.Errorf("invalid slug %q: must match %s", input, slugPattern.String())
	}
	return s, nil
}

// Slugify derives a slug from a display title: "Été Indien" -> "ete-indien".
func Slugify(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err == nil {
		s = folded
	}
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	lastDash := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteRune('-')
			lastDash = true
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		out = "untitled"
	}
	return out
}

// ResolveSlug validates an explicit slug, or derives one from title when
// explicit is blank.
func ResolveSlug(explicit, title string) (string, error) {
	if strings.TrimSpace(explicit) == "" {
		if strings.TrimSpace(title) == "" {
			return "", fmt.Errorf("slug is required")
		}
		return Slugify(title), nil
	}
	return NormalizeSlug(explicit)
}
