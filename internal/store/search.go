package store

import (
	"strings"
	"unicode"
)

// SanitizeQuery rewrites a raw query so FTS5 cannot misread punctuation as
// column filters or syntax. Double quotes toggle phrase mode and are kept;
// inside a phrase everything passes through. Outside, letters, digits,
// underscores and whitespace survive and every other character becomes a
// space. Whitespace runs collapse to single spaces.
//
// The rewrite is idempotent: sanitizing sanitized output is a no-op.
func SanitizeQuery(query string) string {
	var b strings.Builder
	b.Grow(len(query))

	inPhrase := false
	for _, r := range query {
		switch {
		case r == '"':
			inPhrase = !inPhrase
			b.WriteRune(r)
		case inPhrase:
			b.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// BuildOrFallback turns a sanitized multi-term query into an explicit OR
// query for the second search pass. It returns ok=false when the query has
// fewer than two terms, already carries a boolean operator, or contains a
// quoted phrase, since those express deliberate structure that OR-joining
// would destroy.
func BuildOrFallback(sanitized string) (string, bool) {
	if strings.Contains(sanitized, `"`) {
		return "", false
	}

	terms := strings.Fields(sanitized)
	if len(terms) < 2 {
		return "", false
	}
	for _, t := range terms {
		switch t {
		case "AND", "OR", "NOT":
			return "", false
		}
	}

	return strings.Join(terms, " OR "), true
}
