package utils

import "strings"

// GenerateSlug derives a URL-safe slug from a display name: lowercase,
// drop everything outside [a-z0-9 -], collapse whitespace runs into a
// single hyphen, collapse repeated hyphens, trim leading/trailing hyphens.
func GenerateSlug(name string) string {
	lowered := strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n', r == '\r':
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	slug := strings.Join(fields, "-")

	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return strings.Trim(slug, "-")
}
