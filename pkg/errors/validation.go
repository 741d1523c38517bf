package errors

import (
	"strings"
	"unicode"
)

// ValidateSceneKey validates a scene key for safety and correctness.
// Scene keys become JSON object keys, file path fragments in HTML exports,
// and URL path segments in the editor API, so the rules are conservative:
//   - No empty keys
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateSceneKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidKey, "scene key cannot be empty")
	}

	if len(key) > 128 {
		return New(ErrCodeInvalidKey, "scene key too long (max 128 characters)")
	}

	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidKey, "scene key contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(key, pattern) {
			return New(ErrCodeInvalidKey, "scene key contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateSlug validates a story slug used as a storage identifier.
// Slugs name files on disk and keys in Redis/Mongo, so only lowercase
// letters, digits, and single dashes are allowed.
func ValidateSlug(slug string) error {
	if slug == "" {
		return New(ErrCodeInvalidSlug, "story slug cannot be empty")
	}
	if len(slug) > 64 {
		return New(ErrCodeInvalidSlug, "story slug too long (max 64 characters)")
	}
	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		return New(ErrCodeInvalidSlug, "story slug cannot start or end with a dash")
	}
	if strings.Contains(slug, "--") {
		return New(ErrCodeInvalidSlug, "story slug cannot contain consecutive dashes")
	}
	for _, r := range slug {
		if !isSlugRune(r) {
			return New(ErrCodeInvalidSlug, "story slug contains invalid character %q", r)
		}
	}
	return nil
}

func isSlugRune(r rune) bool {
	return r == '-' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// Slugify converts an arbitrary title into a valid story slug.
// Letters are lowercased, runs of non-slug characters collapse to a
// single dash, and leading/trailing dashes are trimmed. Returns "story"
// when nothing usable remains.
func Slugify(title string) string {
	var b strings.Builder
	lastDash := true // Suppress a leading dash
	for _, r := range strings.ToLower(title) {
		switch {
		case isSlugRune(r) && r != '-':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if len(slug) > 64 {
		slug = strings.TrimSuffix(slug[:64], "-")
	}
	if slug == "" {
		return "story"
	}
	return slug
}
