// internal/words/words.go
//
// Word list handling for puzzles.
//
// Responsibilities:
//   - Normalize a puzzle's word list (trim, lowercase, drop blanks and repeats).
//   - Provide a case-insensitive lookup set used by the selection engine.
//
// Constraints:
//   • Lists are normalized to lowercase.
//   • Letters are any Unicode letter, so German umlauts and ẞ are accepted.

package words

import (
	"strings"
	"unicode"
)

// Set is a case-insensitive word set. The zero value is an empty set.
type Set struct {
	m map[string]struct{}
}

// NewSet builds a set from list after normalizing it.
func NewSet(list []string) Set {
	norm := Normalize(list)
	m := make(map[string]struct{}, len(norm))
	for _, w := range norm {
		m[w] = struct{}{}
	}
	return Set{m: m}
}

// Has reports whether w is in the set, ignoring case.
// No trimming or partial matching: the whole string must match.
func (s Set) Has(w string) bool {
	_, ok := s.m[strings.ToLower(w)]
	return ok
}

// Key is the display/lookup form of w: lowercased first, then uppercased,
// so spellings that differ only in case (STRAẞE, straße) share one key.
func Key(w string) string {
	return strings.ToUpper(strings.ToLower(w))
}

// Len returns the number of distinct words.
func (s Set) Len() int { return len(s.m) }

// Normalize lowercases and trims every word, dropping empty entries and
// repeats while keeping first-seen order.
func Normalize(list []string) []string {
	out := make([]string, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, w := range list {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// IsAlpha reports whether s is non-empty and made only of letters.
func IsAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
