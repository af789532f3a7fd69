package llm

import (
	"regexp"
	"strings"
)

var namePrefixes = []string{
	"meu nome é",
	"meu nome e",
	"o meu nome é",
	"me chamo",
	"sou o",
	"sou a",
}

// NormalizeName strips common self-introduction prefixes from a name answer.
// Used when the extractor collaborator is unavailable.
func NormalizeName(raw string) string {
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)
	for _, prefix := range namePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(trimmed[len(prefix):])
		}
	}
	return trimmed
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether the answer looks like an email address.
func ValidEmail(raw string) bool {
	return emailPattern.MatchString(strings.TrimSpace(raw))
}
