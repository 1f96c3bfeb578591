package tools

import "strings"

// closeMatchMinLength bounds the substring duplicate heuristic: the shorter
// of the two compared names must have at least this many characters before
// containment counts as a close match. Without the bound, short names like
// "Co" would flag nearly every organization.
const closeMatchMinLength = 3

// exactMatch reports case-insensitive equality of two names after trimming
// surrounding whitespace. Used for fatal duplicate detection on create.
func exactMatch(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}

// closeMatch reports whether one name contains the other
// (case-insensitive, either direction). Close matches are surfaced as
// non-blocking warnings, never as failures.
func closeMatch(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return false // exact matches are handled separately
	}

	shorter := a
	if len(b) < len(a) {
		shorter = b
	}
	if len(shorter) < closeMatchMinLength {
		return false
	}

	return strings.Contains(a, b) || strings.Contains(b, a)
}
