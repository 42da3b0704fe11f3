package interpolation

import "strings"

const (
	// Separator separates path segments and, alone, addresses the current scope
	Separator = "."

	// This addresses the current scope
	This = "this"
)

// KeySplitter splits a key into path segments
type KeySplitter interface {
	Split(key string) []string
}

// DotKeySplitter splits keys on Separator
type DotKeySplitter struct{}

// Split returns the segments of key. Empty segments are dropped, so
// malformed keys such as "a..b" or ".a" still produce a usable path.
func (DotKeySplitter) Split(key string) []string {
	if key == Separator || key == This {
		return []string{key}
	}
	if !strings.Contains(key, Separator) {
		return []string{key}
	}

	raw := strings.Split(key, Separator)
	parts := raw[:0]
	for _, p := range raw {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// IsCurrentScope reports whether segment addresses the current scope.
func IsCurrentScope(segment string) bool {
	return segment == Separator || segment == This
}
