package schedule

import (
	"regexp"
	"sort"
	"strings"
)

// A cell holds a token set: participant initials, uppercase, deduplicated,
// sorted, joined with ", ". Parsing is forgiving about separators so that
// hand-edited cells still normalize on the next write.

var tokenSeparator = regexp.MustCompile(`[,\s]+`)

// ParseTokens splits a raw cell value into its canonical token set.
func ParseTokens(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := tokenSeparator.Split(strings.ToUpper(raw), -1)
	seen := make(map[string]struct{}, len(parts))
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		tokens = append(tokens, p)
	}
	sort.Strings(tokens)
	return tokens
}

// JoinTokens renders a token set back into canonical cell text.
func JoinTokens(tokens []string) string {
	return strings.Join(tokens, ", ")
}

// AddToken returns the cell value with token present. The bool reports
// whether the value changed; adding an existing token is a no-op.
func AddToken(raw, token string) (string, bool) {
	token = NormalizeToken(token)
	if token == "" {
		return canonical(raw), false
	}

	tokens := ParseTokens(raw)
	for _, t := range tokens {
		if t == token {
			return JoinTokens(tokens), false
		}
	}
	tokens = append(tokens, token)
	sort.Strings(tokens)
	return JoinTokens(tokens), true
}

// RemoveToken returns the cell value with token absent. The bool reports
// whether the value changed.
func RemoveToken(raw, token string) (string, bool) {
	token = NormalizeToken(token)
	tokens := ParseTokens(raw)
	for i, t := range tokens {
		if t == token {
			return JoinTokens(append(tokens[:i], tokens[i+1:]...)), true
		}
	}
	return JoinTokens(tokens), false
}

// HasToken reports token membership in a raw cell value.
func HasToken(raw, token string) bool {
	token = NormalizeToken(token)
	for _, t := range ParseTokens(raw) {
		if t == token {
			return true
		}
	}
	return false
}

// TokenCount is the number of distinct participants in a cell.
func TokenCount(raw string) int {
	return len(ParseTokens(raw))
}

// NormalizeToken uppercases and trims a single token.
func NormalizeToken(token string) string {
	return strings.ToUpper(strings.TrimSpace(token))
}

func canonical(raw string) string {
	return JoinTokens(ParseTokens(raw))
}
